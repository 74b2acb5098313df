// ABOUTME: Matches extracted items against an existing-records snapshot
// ABOUTME: Classifies rows as new, exact, or changed with field-level diffs

package compare

import (
	"errors"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// ErrNoKeyField indicates Compare was called without a key field
var ErrNoKeyField = errors.New("compare: key field not specified")

// Compare reconciles a batch of rows against the snapshot.
//
// Rows whose key value repeats within the batch go to DuplicateParts (every
// occurrence, including the first) and take no further part. An absent or
// empty key carries no identity: such rows are never duplicates of each
// other and classify as new, matching the validator's duplicate-check
// semantics. Each remaining row is looked up by its key value: no record
// means NewItems; otherwise the compared fields are checked with
// trimmed-string equality and the row lands in ExactMatches or
// MatchedWithDifferences.
//
// If the caller built a snapshot where two records collapse onto one key
// under case folding, the first one wins; uniqueness is the caller's
// precondition, not enforced here.
func Compare(rows []Row, snapshot Snapshot, keyField string, comparedFields []string, opts Options) (*Report, error) {
	if keyField == "" {
		return nil, ErrNoKeyField
	}

	canon := func(s string) string {
		if opts.CaseInsensitive {
			return strings.ToLower(s)
		}
		return s
	}

	index := make(map[string]Record, len(snapshot))
	for key, rec := range snapshot {
		folded := canon(key)
		if _, taken := index[folded]; !taken {
			index[folded] = rec
		}
	}

	// Step 1: intra-batch duplicates on the key field
	occurrences := make(map[string][]int)
	keys := make([]string, len(rows))
	present := make([]bool, len(rows))
	for i, row := range rows {
		v, ok := row.FieldValue(keyField)
		if !ok || v == "" {
			continue
		}
		keys[i] = v
		present[i] = true
		occurrences[canon(v)] = append(occurrences[canon(v)], i)
	}

	report := &Report{}
	var dmp *diffmatchpatch.DiffMatchPatch
	if opts.WithDiff {
		dmp = diffmatchpatch.New()
	}

	for i := range rows {
		if !present[i] {
			// A row without a key value cannot match anything
			report.NewItems = append(report.NewItems, Match{RowIndex: i})
			continue
		}
		dupes := occurrences[canon(keys[i])]
		if len(dupes) > 1 {
			report.DuplicateParts = append(report.DuplicateParts, DuplicatePart{
				RowIndex:  i,
				Key:       keys[i],
				OtherRows: otherRows(dupes, i),
			})
			continue
		}

		record, found := index[canon(keys[i])]
		if !found {
			report.NewItems = append(report.NewItems, Match{RowIndex: i, Key: keys[i]})
			continue
		}

		match := Match{RowIndex: i, Key: keys[i]}
		for _, field := range comparedFields {
			bomValue, _ := rows[i].FieldValue(field)
			recordValue := record[field]
			if strings.TrimSpace(bomValue) == strings.TrimSpace(recordValue) {
				continue
			}
			diff := FieldDifference{
				Field:       field,
				BomValue:    bomValue,
				RecordValue: recordValue,
			}
			if dmp != nil {
				diff.Diff = dmp.PatchToText(dmp.PatchMake(recordValue, bomValue))
			}
			match.Differences = append(match.Differences, diff)
		}
		if len(match.Differences) == 0 {
			report.ExactMatches = append(report.ExactMatches, match)
		} else {
			report.MatchedWithDifferences = append(report.MatchedWithDifferences, match)
		}
	}
	return report, nil
}

// otherRows lists the duplicate occurrences other than self, in batch order
func otherRows(all []int, self int) []int {
	others := make([]int, 0, len(all)-1)
	for _, idx := range all {
		if idx != self {
			others = append(others, idx)
		}
	}
	return others
}
