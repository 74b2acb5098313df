// ABOUTME: Tests for snapshot reconciliation and classification
// ABOUTME: Verifies new/exact/changed partitioning, duplicates, and options

package compare

import (
	"errors"
	"testing"
)

// testRow is a minimal Row for exercising the comparator directly
type testRow map[string]string

func (r testRow) FieldValue(name string) (string, bool) {
	v, ok := r[name]
	return v, ok
}

func TestCompareClassification(t *testing.T) {
	snapshot := Snapshot{
		"A": {"description": "old"},
		"B": {"description": "same"},
	}
	rows := []Row{
		testRow{"part_number": "A", "description": "new"},
		testRow{"part_number": "B", "description": "same"},
		testRow{"part_number": "C", "description": "x"},
	}

	report, err := Compare(rows, snapshot, "part_number", []string{"description"}, Options{})
	if err != nil {
		t.Fatalf("Failed to compare: %v", err)
	}

	if len(report.NewItems) != 1 || report.NewItems[0].Key != "C" {
		t.Errorf("Expected C in new items, got %+v", report.NewItems)
	}
	if len(report.ExactMatches) != 1 || report.ExactMatches[0].Key != "B" {
		t.Errorf("Expected B in exact matches, got %+v", report.ExactMatches)
	}
	if len(report.MatchedWithDifferences) != 1 {
		t.Fatalf("Expected one changed match, got %+v", report.MatchedWithDifferences)
	}

	changed := report.MatchedWithDifferences[0]
	if changed.Key != "A" || len(changed.Differences) != 1 {
		t.Fatalf("Expected A with one difference, got %+v", changed)
	}
	d := changed.Differences[0]
	if d.Field != "description" || d.BomValue != "new" || d.RecordValue != "old" {
		t.Errorf("Unexpected difference %+v", d)
	}
}

func TestCompareDuplicatesWithinBatch(t *testing.T) {
	rows := []Row{
		testRow{"part_number": "A"},
		testRow{"part_number": "A"},
		testRow{"part_number": "B"},
	}

	report, err := Compare(rows, Snapshot{}, "part_number", nil, Options{})
	if err != nil {
		t.Fatalf("Failed to compare: %v", err)
	}

	if len(report.DuplicateParts) != 2 {
		t.Fatalf("Expected both A rows flagged, got %+v", report.DuplicateParts)
	}
	if report.DuplicateParts[0].RowIndex != 0 || report.DuplicateParts[1].RowIndex != 1 {
		t.Errorf("Expected rows 0 and 1 flagged, got %+v", report.DuplicateParts)
	}
	if len(report.DuplicateParts[0].OtherRows) != 1 || report.DuplicateParts[0].OtherRows[0] != 1 {
		t.Errorf("Expected row 0 to point at row 1, got %+v", report.DuplicateParts[0].OtherRows)
	}

	// Duplicates take no further part in classification
	if len(report.NewItems) != 1 || report.NewItems[0].Key != "B" {
		t.Errorf("Expected only B classified, got %+v", report.NewItems)
	}
}

func TestCompareEmptyKeysNeverDuplicate(t *testing.T) {
	// Same rule as the validator's duplicate check: an empty key carries no
	// identity, so two empty-keyed rows are not duplicates of each other
	rows := []Row{
		testRow{"part_number": "", "description": "first"},
		testRow{"part_number": "", "description": "second"},
	}

	report, err := Compare(rows, Snapshot{}, "part_number", nil, Options{})
	if err != nil {
		t.Fatalf("Failed to compare: %v", err)
	}
	if len(report.DuplicateParts) != 0 {
		t.Errorf("Expected no duplicates for empty keys, got %+v", report.DuplicateParts)
	}
	if len(report.NewItems) != 2 {
		t.Errorf("Expected both rows classified as new, got %+v", report.NewItems)
	}
}

func TestCompareCaseSensitivity(t *testing.T) {
	snapshot := Snapshot{"ABC-1": {"description": "widget"}}
	rows := []Row{testRow{"part_number": "abc-1", "description": "widget"}}

	report, err := Compare(rows, snapshot, "part_number", []string{"description"}, Options{})
	if err != nil {
		t.Fatalf("Failed to compare: %v", err)
	}
	if len(report.NewItems) != 1 {
		t.Errorf("Expected case-sensitive default to miss, got %+v", report)
	}

	report, err = Compare(rows, snapshot, "part_number", []string{"description"}, Options{CaseInsensitive: true})
	if err != nil {
		t.Fatalf("Failed to compare: %v", err)
	}
	if len(report.ExactMatches) != 1 {
		t.Errorf("Expected case-insensitive match, got %+v", report)
	}
}

func TestCompareTrimsBeforeEquality(t *testing.T) {
	snapshot := Snapshot{"A": {"description": "widget"}}
	rows := []Row{testRow{"part_number": "A", "description": "  widget  "}}

	report, err := Compare(rows, snapshot, "part_number", []string{"description"}, Options{})
	if err != nil {
		t.Fatalf("Failed to compare: %v", err)
	}
	if len(report.ExactMatches) != 1 {
		t.Errorf("Expected trimmed values to match, got %+v", report)
	}
}

func TestCompareMissingKeyField(t *testing.T) {
	rows := []Row{testRow{"description": "no key here"}}

	report, err := Compare(rows, Snapshot{}, "part_number", nil, Options{})
	if err != nil {
		t.Fatalf("Failed to compare: %v", err)
	}
	if len(report.NewItems) != 1 || report.NewItems[0].RowIndex != 0 {
		t.Errorf("Expected keyless row to be new, got %+v", report)
	}

	if _, err := Compare(rows, Snapshot{}, "", nil, Options{}); !errors.Is(err, ErrNoKeyField) {
		t.Errorf("Expected ErrNoKeyField, got %v", err)
	}
}

func TestCompareAttachesDiffText(t *testing.T) {
	snapshot := Snapshot{"A": {"description": "steel bracket"}}
	rows := []Row{testRow{"part_number": "A", "description": "alloy bracket"}}

	report, err := Compare(rows, snapshot, "part_number", []string{"description"}, Options{WithDiff: true})
	if err != nil {
		t.Fatalf("Failed to compare: %v", err)
	}
	if len(report.MatchedWithDifferences) != 1 {
		t.Fatalf("Expected one changed match, got %+v", report)
	}
	if report.MatchedWithDifferences[0].Differences[0].Diff == "" {
		t.Error("Expected patch text on the difference")
	}
}
