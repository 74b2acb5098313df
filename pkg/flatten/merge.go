// ABOUTME: Caller-level aggregation over an already-flattened list
// ABOUTME: Sums rolled-up quantities per part number outside the core walk

package flatten

// MergeByPartNumber sums rolled-up quantities across occurrences of the same
// part number. It is deliberately a separate step layered on top of Flatten:
// the core walk always emits one row per tree occurrence so that rollup
// semantics stay unambiguous.
//
// The merged row keeps the descriptive fields of the first occurrence, in
// first-occurrence order. Lineage and level describe a single tree location
// and are cleared on rows that absorbed another occurrence.
func MergeByPartNumber(items FlatList) FlatList {
	merged := make(FlatList, 0, len(items))
	byPart := make(map[string]*FlatItem, len(items))

	for _, it := range items {
		if prev, ok := byPart[it.PartNumber]; ok {
			prev.RolledUpQuantity += it.RolledUpQuantity
			prev.Level = 0
			prev.Path = ""
			prev.IndentedLabel = ""
			prev.LevelPrefixedLabel = ""
			prev.ParentSyntheticID = 0
			continue
		}
		copied := *it
		byPart[it.PartNumber] = &copied
		merged = append(merged, &copied)
	}
	return merged
}
