// bomflow command line interface
// Runs extracted assembly trees through flattening, validation, and
// cross-reference against an existing-records snapshot
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/plmkit/bomflow/internal/logger"
	"github.com/plmkit/bomflow/internal/metrics"
	"github.com/plmkit/bomflow/pkg/assembly"
	"github.com/plmkit/bomflow/pkg/compare"
	"github.com/plmkit/bomflow/pkg/flatten"
	"github.com/plmkit/bomflow/pkg/pipeline"
	"github.com/plmkit/bomflow/pkg/validate"
)

var (
	logLevel  string
	logPretty bool

	inputPath    string
	modeName     string
	strategyName string
	pathSep      string
	prefixSep    string
	indentUnit   string
	maxDepth     int
	flattenDepth int
	noQuantities bool
	noMaterials  bool
	noProperties bool
	mergeParts   bool

	rulesPath    string
	snapshotPath string
	keyField     string
	fieldList    string
	caseFold     bool
	withDiff     bool
)

func main() {
	root := &cobra.Command{
		Use:   "bomflow",
		Short: "Flatten, validate, and cross-reference extracted BOM trees",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.InitGlobalLogger(logger.Config{Level: logLevel, Pretty: logPretty})
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&logPretty, "log-pretty", false, "pretty-print logs")

	root.AddCommand(flattenCmd(), validateCmd(), compareCmd(), runCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addTreeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "extracted tree JSON file (required)")
	cmd.MarkFlagRequired("input")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "reject trees deeper than this during normalization, 0 for unbounded")
}

func addFlattenFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&modeName, "mode", "flattened", "hierarchy mode (hierarchical, flattened, inducted)")
	cmd.Flags().StringVar(&strategyName, "strategy", "path", "lineage strategy (path, indented_label, level_prefix, parent_reference)")
	cmd.Flags().StringVar(&pathSep, "path-separator", flatten.DefaultPathSeparator, "separator for path lineage")
	cmd.Flags().StringVar(&prefixSep, "prefix-separator", flatten.DefaultLevelPrefixSeparator, "separator for level-prefix lineage")
	cmd.Flags().StringVar(&indentUnit, "indent", flatten.DefaultIndentUnit, "indent unit for indented labels")
	cmd.Flags().IntVar(&flattenDepth, "flatten-depth", 0, "truncate flattening below this level, 0 for unbounded")
	cmd.Flags().BoolVar(&noQuantities, "no-quantities", false, "do not propagate local quantities")
	cmd.Flags().BoolVar(&noMaterials, "no-materials", false, "do not propagate materials")
	cmd.Flags().BoolVar(&noProperties, "no-properties", false, "do not propagate custom fields")
}

func addCompareFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "existing-records snapshot JSON file")
	cmd.Flags().StringVar(&keyField, "key", assembly.FieldPartNumber, "key field for snapshot lookup")
	cmd.Flags().StringVar(&fieldList, "fields", assembly.FieldDescription, "comma-separated fields to compare")
	cmd.Flags().BoolVar(&caseFold, "case-insensitive", false, "fold case during key lookup")
	cmd.Flags().BoolVar(&withDiff, "diff", false, "attach patch text to field differences")
}

func flattenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flatten",
		Short: "Flatten an extracted tree with quantity rollup",
		RunE: func(cmd *cobra.Command, args []string) error {
			roots, err := loadTree(inputPath)
			if err != nil {
				return err
			}
			tree, err := assembly.Normalize(roots, assembly.NormalizeOptions{MaxDepth: maxDepth})
			if err != nil {
				return err
			}
			cfg, err := flattenConfig()
			if err != nil {
				return err
			}
			out, err := flatten.Flatten(tree, cfg)
			if err != nil {
				return err
			}
			if mergeParts && out.Items != nil {
				out.Items = flatten.MergeByPartNumber(out.Items)
			}
			return writeJSON(out)
		},
	}
	addTreeFlags(cmd)
	addFlattenFlags(cmd)
	cmd.Flags().BoolVar(&mergeParts, "merge", false, "sum quantities across occurrences of the same part number")
	return cmd
}

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Apply a rule file to an extracted tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			roots, err := loadTree(inputPath)
			if err != nil {
				return err
			}
			rules, err := validate.LoadRules(rulesPath)
			if err != nil {
				return err
			}
			var snapshot compare.Snapshot
			if snapshotPath != "" {
				if snapshot, err = loadSnapshot(snapshotPath); err != nil {
					return err
				}
			}
			engine := pipeline.New(logger.GetGlobalLogger(), nil)
			cfg, err := flattenConfig()
			if err != nil {
				return err
			}
			result, err := engine.Run(roots, pipeline.RunConfig{
				Normalize: assembly.NormalizeOptions{MaxDepth: maxDepth},
				Flatten:   cfg,
				Rules:     rules,
				Snapshot:  snapshot,
			})
			if err != nil {
				return err
			}
			return writeJSON(result.Validation)
		},
	}
	addTreeFlags(cmd)
	addFlattenFlags(cmd)
	cmd.Flags().StringVarP(&rulesPath, "rules", "r", "", "YAML rule file (required)")
	cmd.MarkFlagRequired("rules")
	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "snapshot JSON file for existence checks")
	return cmd
}

func compareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Cross-reference an extracted tree against a snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			roots, err := loadTree(inputPath)
			if err != nil {
				return err
			}
			snapshot, err := loadSnapshot(snapshotPath)
			if err != nil {
				return err
			}
			engine := pipeline.New(logger.GetGlobalLogger(), nil)
			cfg, err := flattenConfig()
			if err != nil {
				return err
			}
			result, err := engine.Run(roots, pipeline.RunConfig{
				Normalize:      assembly.NormalizeOptions{MaxDepth: maxDepth},
				Flatten:        cfg,
				Snapshot:       snapshot,
				KeyField:       keyField,
				ComparedFields: splitFields(fieldList),
				Compare:        compare.Options{CaseInsensitive: caseFold, WithDiff: withDiff},
			})
			if err != nil {
				return err
			}
			return writeJSON(result.Comparison)
		},
	}
	addTreeFlags(cmd)
	addFlattenFlags(cmd)
	addCompareFlags(cmd)
	cmd.MarkFlagRequired("snapshot")
	return cmd
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline and emit every report",
		RunE: func(cmd *cobra.Command, args []string) error {
			roots, err := loadTree(inputPath)
			if err != nil {
				return err
			}
			var rules []validate.Rule
			if rulesPath != "" {
				if rules, err = validate.LoadRules(rulesPath); err != nil {
					return err
				}
			}
			var snapshot compare.Snapshot
			if snapshotPath != "" {
				if snapshot, err = loadSnapshot(snapshotPath); err != nil {
					return err
				}
			}
			engine := pipeline.New(logger.GetGlobalLogger(), metrics.NewMetrics())
			cfg, err := flattenConfig()
			if err != nil {
				return err
			}
			result, err := engine.Run(roots, pipeline.RunConfig{
				Normalize:      assembly.NormalizeOptions{MaxDepth: maxDepth},
				Flatten:        cfg,
				Rules:          rules,
				Snapshot:       snapshot,
				KeyField:       keyField,
				ComparedFields: splitFields(fieldList),
				Compare:        compare.Options{CaseInsensitive: caseFold, WithDiff: withDiff},
			})
			if err != nil {
				return err
			}
			result.Tree = nil // the output already carries the tree when hierarchical
			return writeJSON(result)
		},
	}
	addTreeFlags(cmd)
	addFlattenFlags(cmd)
	addCompareFlags(cmd)
	cmd.Flags().StringVarP(&rulesPath, "rules", "r", "", "YAML rule file")
	return cmd
}

// flattenConfig builds a flatten.Config from the shared flags
func flattenConfig() (flatten.Config, error) {
	mode, err := flatten.ParseMode(modeName)
	if err != nil {
		return flatten.Config{}, err
	}
	strategy, err := flatten.ParseStrategy(strategyName)
	if err != nil {
		return flatten.Config{}, err
	}
	return flatten.Config{
		Mode:                 mode,
		Strategy:             strategy,
		PathSeparator:        pathSep,
		LevelPrefixSeparator: prefixSep,
		IndentUnit:           indentUnit,
		MaxDepth:             flattenDepth,
		IncludeQuantities:    !noQuantities,
		IncludeMaterials:     !noMaterials,
		IncludeProperties:    !noProperties,
	}, nil
}

// loadTree reads extractor output: either a JSON array of root nodes or a
// single root object
func loadTree(path string) ([]*assembly.RawNode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tree: %w", err)
	}
	var roots []*assembly.RawNode
	if err := json.Unmarshal(data, &roots); err == nil {
		return roots, nil
	}
	var single assembly.RawNode
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("parsing tree %s: %w", path, err)
	}
	return []*assembly.RawNode{&single}, nil
}

// loadSnapshot reads a key -> field-map snapshot JSON file
func loadSnapshot(path string) (compare.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	var snapshot compare.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot %s: %w", path, err)
	}
	return snapshot, nil
}

func splitFields(list string) []string {
	var fields []string
	for _, f := range strings.Split(list, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

func writeJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
