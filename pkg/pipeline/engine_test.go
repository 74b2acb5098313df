// ABOUTME: End-to-end tests for the pipeline engine
// ABOUTME: Runs extraction output through all four stages

package pipeline

import (
	"errors"
	"io"
	"testing"

	"github.com/plmkit/bomflow/internal/logger"
	"github.com/plmkit/bomflow/pkg/assembly"
	"github.com/plmkit/bomflow/pkg/compare"
	"github.com/plmkit/bomflow/pkg/flatten"
	"github.com/plmkit/bomflow/pkg/validate"
)

func testEngine() *Engine {
	return New(logger.NewLogger(logger.Config{Level: "error", Output: io.Discard}), nil)
}

func testRawTree() []*assembly.RawNode {
	return []*assembly.RawNode{
		{
			PartNumber: "ASM-1",
			Quantity:   1,
			Children: []*assembly.RawNode{
				{PartNumber: "SUB-1", Quantity: 2, Children: []*assembly.RawNode{
					{PartNumber: "BOLT-1", Quantity: 4, Description: "hex bolt"},
				}},
				{PartNumber: "", Quantity: 1}, // part number pending validation
			},
		},
	}
}

func TestRunFullPipeline(t *testing.T) {
	engine := testEngine()

	cfg := RunConfig{
		Flatten: flatten.DefaultConfig(),
		Rules: []validate.Rule{
			{Field: "part_number", Type: validate.RuleRequired, Severity: validate.SeverityError},
		},
		Snapshot: compare.Snapshot{
			"BOLT-1": {"description": "old bolt"},
		},
		KeyField:       "part_number",
		ComparedFields: []string{"description"},
	}

	result, err := engine.Run(testRawTree(), cfg)
	if err != nil {
		t.Fatalf("Failed to run pipeline: %v", err)
	}

	if result.Tree.NodeCount != 4 {
		t.Errorf("Expected 4 nodes, got %d", result.Tree.NodeCount)
	}
	if len(result.Output.Items) != 4 {
		t.Errorf("Expected 4 items, got %d", len(result.Output.Items))
	}
	if result.Output.Items[2].RolledUpQuantity != 8 {
		t.Errorf("Expected bolt rollup 8, got %d", result.Output.Items[2].RolledUpQuantity)
	}

	// The empty part number fails the required rule
	if result.Validation == nil || result.Validation.IsValid {
		t.Errorf("Expected invalid validation report, got %+v", result.Validation)
	}
	if len(result.Validation.Issues) != 1 || result.Validation.Issues[0].RowIndex != 3 {
		t.Errorf("Expected one issue on row 3, got %+v", result.Validation.Issues)
	}

	// BOLT-1 matches the snapshot with a changed description
	if result.Comparison == nil {
		t.Fatal("Expected a comparison report")
	}
	if len(result.Comparison.MatchedWithDifferences) != 1 {
		t.Errorf("Expected one changed match, got %+v", result.Comparison)
	}
	if len(result.Comparison.NewItems) != 3 {
		t.Errorf("Expected 3 new items, got %+v", result.Comparison.NewItems)
	}
}

func TestRunSkipsOptionalStages(t *testing.T) {
	engine := testEngine()

	result, err := engine.Run(testRawTree(), RunConfig{Flatten: flatten.DefaultConfig()})
	if err != nil {
		t.Fatalf("Failed to run pipeline: %v", err)
	}
	if result.Validation != nil {
		t.Error("Expected no validation report without rules")
	}
	if result.Comparison != nil {
		t.Error("Expected no comparison report without a snapshot")
	}
}

func TestRunHierarchicalValidatesNodes(t *testing.T) {
	engine := testEngine()

	cfg := RunConfig{
		Flatten: flatten.Config{Mode: flatten.Hierarchical},
		Rules: []validate.Rule{
			{Field: "part_number", Type: validate.RuleRequired, Severity: validate.SeverityError},
		},
	}
	result, err := engine.Run(testRawTree(), cfg)
	if err != nil {
		t.Fatalf("Failed to run pipeline: %v", err)
	}
	if result.Output.Tree == nil {
		t.Fatal("Expected the tree back in hierarchical mode")
	}
	// Rules still apply, over the tree's nodes pre-order
	if len(result.Validation.Issues) != 1 || result.Validation.Issues[0].RowIndex != 3 {
		t.Errorf("Expected one issue on node 3, got %+v", result.Validation.Issues)
	}
}

func TestRunPropagatesMalformedHierarchy(t *testing.T) {
	engine := testEngine()

	bad := []*assembly.RawNode{{PartNumber: "A", Quantity: 0}}
	_, err := engine.Run(bad, RunConfig{Flatten: flatten.DefaultConfig()})
	if err == nil {
		t.Fatal("Expected error for malformed input")
	}
	var mh *assembly.MalformedHierarchyError
	if !errors.As(err, &mh) {
		t.Errorf("Expected MalformedHierarchyError, got %T", err)
	}
}
