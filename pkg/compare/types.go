// ABOUTME: Cross-reference data model for reconciling extracted items
// ABOUTME: Snapshot, match classification, and field difference types

package compare

// Row is the field-access contract compared items must satisfy. FlatItems
// and AssemblyNodes both implement it.
type Row interface {
	FieldValue(name string) (string, bool)
}

// Record is a read-only view of one existing record's fields, keyed by the
// caller's field mapping
type Record map[string]string

// Snapshot maps key-field values to existing records. The caller materializes
// it with a single bulk query before invoking the engine; the engine never
// queries storage itself. A key can map to only one record by construction,
// which is this package's uniqueness precondition.
type Snapshot map[string]Record

// FieldDifference is one field whose extracted value differs from the
// matched record
type FieldDifference struct {
	Field       string `json:"field"`
	BomValue    string `json:"bom_value"`
	RecordValue string `json:"record_value"`
	Diff        string `json:"diff,omitempty"` // patch text, set with Options.WithDiff
}

// Match pairs a row index with its snapshot key and any field differences
type Match struct {
	RowIndex    int               `json:"row_index"`
	Key         string            `json:"key"`
	Differences []FieldDifference `json:"differences,omitempty"`
}

// DuplicatePart flags a key repeated within the input batch itself
type DuplicatePart struct {
	RowIndex  int    `json:"row_index"`
	Key       string `json:"key"`
	OtherRows []int  `json:"other_rows"`
}

// Report partitions the batch into disjoint classifications
type Report struct {
	NewItems               []Match         `json:"new_items"`
	ExactMatches           []Match         `json:"exact_matches"`
	MatchedWithDifferences []Match         `json:"matched_with_differences"`
	DuplicateParts         []DuplicatePart `json:"duplicate_parts"`
}

// Options adjusts matching behavior
type Options struct {
	CaseInsensitive bool // fold key case during lookup; default exact match
	WithDiff        bool // attach a textual diff to each field difference
}
