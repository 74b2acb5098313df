// ABOUTME: Assembly tree data model for extracted bills of materials
// ABOUTME: Defines the raw extractor handoff shape and the normalized tree

package assembly

import "strconv"

// Logical field names shared by nodes, flat items, and validation rules
const (
	FieldPartNumber  = "part_number"
	FieldDescription = "description"
	FieldMaterial    = "material"
	FieldQuantity    = "quantity"
)

// Field is a single named value carried on a node or item
type Field struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Fields is an ordered list of custom fields. Order is preserved from the
// extractor so emitted rows and reports stay deterministic.
type Fields []Field

// Get returns the value for name and whether it is present
func (fs Fields) Get(name string) (string, bool) {
	for _, f := range fs {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// RawNode is the shape handed off by an upstream format extractor: one part
// or subassembly occurrence with its multiplicity relative to its parent.
// The extractor owns format and unit concerns; quantities arrive normalized.
type RawNode struct {
	PartNumber   string     `json:"part_number"`
	Description  string     `json:"description,omitempty"`
	Material     string     `json:"material,omitempty"`
	Quantity     int        `json:"quantity"`
	CustomFields Fields     `json:"custom_fields,omitempty"`
	Children     []*RawNode `json:"children,omitempty"`
}

// AssemblyNode is one part or subassembly occurrence within a specific
// parent context. A node exclusively owns its subtree.
type AssemblyNode struct {
	SyntheticID   int64           `json:"synthetic_id"` // assigned during normalization, stable for the run
	ParentID      int64           `json:"parent_id"`    // 0 for roots
	PartNumber    string          `json:"part_number"`
	Description   string          `json:"description,omitempty"`
	Material      string          `json:"material,omitempty"`
	LocalQuantity int             `json:"local_quantity"` // multiplicity relative to the immediate parent
	CustomFields  Fields          `json:"custom_fields,omitempty"`
	Children      []*AssemblyNode `json:"children,omitempty"`
	Level         int             `json:"level"` // depth from its root, root = 0
}

// FieldValue exposes node fields by logical name for rule evaluation.
// Known names resolve to the typed fields; anything else falls through to
// the custom fields.
func (n *AssemblyNode) FieldValue(name string) (string, bool) {
	switch name {
	case FieldPartNumber:
		return n.PartNumber, true
	case FieldDescription:
		return n.Description, true
	case FieldMaterial:
		return n.Material, true
	case FieldQuantity:
		return strconv.Itoa(n.LocalQuantity), true
	}
	return n.CustomFields.Get(name)
}

// AssemblyTree is a validated, cycle-free forest plus derived metadata
type AssemblyTree struct {
	Roots     []*AssemblyNode `json:"roots"`
	Depth     int             `json:"hierarchy_depth"` // max root-to-leaf edge count
	NodeCount int             `json:"total_node_count"`

	index map[int64]*AssemblyNode
}

// NewTree builds an AssemblyTree from already-constructed roots. It walks the
// forest pre-order, fills ParentID and Level from the structure, and computes
// the derived depth, node count, and synthetic-ID index.
func NewTree(roots []*AssemblyNode) *AssemblyTree {
	t := &AssemblyTree{
		Roots: roots,
		index: make(map[int64]*AssemblyNode),
	}
	var walk func(n *AssemblyNode, parentID int64, level int)
	walk = func(n *AssemblyNode, parentID int64, level int) {
		n.ParentID = parentID
		n.Level = level
		t.index[n.SyntheticID] = n
		t.NodeCount++
		if level > t.Depth {
			t.Depth = level
		}
		for _, c := range n.Children {
			walk(c, n.SyntheticID, level+1)
		}
	}
	for _, root := range roots {
		walk(root, 0, 0)
	}
	return t
}

// Node returns the node with the given synthetic ID
func (t *AssemblyTree) Node(id int64) (*AssemblyNode, bool) {
	n, ok := t.index[id]
	return n, ok
}

// Nodes returns every node in pre-order, roots first. Useful for running
// validation rules over a tree that was not flattened.
func (t *AssemblyTree) Nodes() []*AssemblyNode {
	nodes := make([]*AssemblyNode, 0, t.NodeCount)
	var walk func(n *AssemblyNode)
	walk = func(n *AssemblyNode) {
		nodes = append(nodes, n)
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, root := range t.Roots {
		walk(root)
	}
	return nodes
}
