// ABOUTME: Canonicalizes raw extractor output into a validated AssemblyTree
// ABOUTME: Assigns synthetic IDs, computes derived metadata, rejects cycles

package assembly

// NormalizeOptions controls defensive limits during normalization
type NormalizeOptions struct {
	MaxDepth int // maximum allowed edge depth; 0 means unbounded
}

// Normalize canonicalizes raw extractor output into an AssemblyTree. It
// assigns each node a synthetic ID from a counter scoped to this call
// (roots start at 1), copies all fields, and computes depth and node count.
// It fails with *MalformedHierarchyError when a node's quantity is not
// positive, when a node is its own ancestor, or when the tree is deeper
// than opts.MaxDepth.
//
// Raw nodes shared between two non-ancestor parents are legal extractor
// output (a common subassembly); each occurrence is copied into its own
// exclusively owned subtree.
func Normalize(roots []*RawNode, opts NormalizeOptions) (*AssemblyTree, error) {
	n := &normalizer{opts: opts}
	built := make([]*AssemblyNode, 0, len(roots))
	visiting := make(map[*RawNode]bool)
	for _, root := range roots {
		node, err := n.build(root, 0, nil, visiting)
		if err != nil {
			return nil, err
		}
		built = append(built, node)
	}
	return NewTree(built), nil
}

type normalizer struct {
	opts   NormalizeOptions
	nextID int64
}

// build copies one raw node and recurses into its children. The visiting set
// holds the raw ancestors of the current path; finding a node already in it
// means the input contains a cycle, so the recursion can never loop.
func (n *normalizer) build(raw *RawNode, level int, path []string, visiting map[*RawNode]bool) (*AssemblyNode, error) {
	path = append(path, raw.PartNumber)
	if visiting[raw] {
		return nil, malformed(ReasonCycle, path)
	}
	if raw.Quantity <= 0 {
		return nil, malformed(ReasonNonPositiveQuantity, path)
	}
	if n.opts.MaxDepth > 0 && level > n.opts.MaxDepth {
		return nil, malformed(ReasonDepthExceeded, path)
	}

	visiting[raw] = true
	defer delete(visiting, raw)

	n.nextID++
	node := &AssemblyNode{
		SyntheticID:   n.nextID,
		PartNumber:    raw.PartNumber,
		Description:   raw.Description,
		Material:      raw.Material,
		LocalQuantity: raw.Quantity,
		CustomFields:  raw.CustomFields,
	}
	for _, child := range raw.Children {
		built, err := n.build(child, level+1, path, visiting)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, built)
	}
	return node, nil
}

func malformed(reason string, path []string) *MalformedHierarchyError {
	return &MalformedHierarchyError{
		Reason: reason,
		Path:   append([]string(nil), path...),
	}
}
