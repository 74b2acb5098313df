// ABOUTME: Benchmarks for the flattening hot path
// ABOUTME: Measures rollup walks over wide and deep trees

package flatten

import (
	"fmt"
	"testing"

	"github.com/plmkit/bomflow/pkg/assembly"
)

// buildBenchTree returns a tree with fanout children per node down to the
// given depth
func buildBenchTree(b *testing.B, depth, fanout int) *assembly.AssemblyTree {
	b.Helper()
	var build func(level int) *assembly.RawNode
	id := 0
	build = func(level int) *assembly.RawNode {
		id++
		n := &assembly.RawNode{
			PartNumber: fmt.Sprintf("P-%06d", id),
			Quantity:   2,
		}
		if level < depth {
			for i := 0; i < fanout; i++ {
				n.Children = append(n.Children, build(level+1))
			}
		}
		return n
	}
	tree, err := assembly.Normalize([]*assembly.RawNode{build(0)}, assembly.NormalizeOptions{})
	if err != nil {
		b.Fatalf("Failed to build bench tree: %v", err)
	}
	return tree
}

func BenchmarkFlattenPath(b *testing.B) {
	tree := buildBenchTree(b, 6, 4)
	cfg := DefaultConfig()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Flatten(tree, cfg); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFlattenParentReference(b *testing.B) {
	tree := buildBenchTree(b, 6, 4)
	cfg := DefaultConfig()
	cfg.Strategy = ParentReference
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Flatten(tree, cfg); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkNormalizeDeep(b *testing.B) {
	// Linear chain, stresses the ancestor set
	var root *assembly.RawNode
	cur := &assembly.RawNode{PartNumber: "LEAF", Quantity: 1}
	for i := 0; i < 500; i++ {
		cur = &assembly.RawNode{
			PartNumber: fmt.Sprintf("L-%d", i),
			Quantity:   1,
			Children:   []*assembly.RawNode{cur},
		}
	}
	root = cur
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := assembly.Normalize([]*assembly.RawNode{root}, assembly.NormalizeOptions{}); err != nil {
			b.Fatal(err)
		}
	}
}
