// ABOUTME: Orchestrates the normalize, flatten, validate, and compare stages
// ABOUTME: Wraps the pure engine packages with structured logging and metrics

package pipeline

import (
	"time"

	"github.com/plmkit/bomflow/internal/logger"
	"github.com/plmkit/bomflow/internal/metrics"
	"github.com/plmkit/bomflow/pkg/assembly"
	"github.com/plmkit/bomflow/pkg/compare"
	"github.com/plmkit/bomflow/pkg/flatten"
	"github.com/plmkit/bomflow/pkg/validate"
)

// Engine runs the full pipeline over one extraction. The engine itself holds
// no per-run state; every run allocates its own tree, items, and reports, so
// one Engine can serve concurrent runs.
type Engine struct {
	log     *logger.Logger
	metrics *metrics.Metrics
}

// New creates a pipeline engine. A nil logger falls back to the global
// logger; nil metrics disable instrumentation.
func New(log *logger.Logger, m *metrics.Metrics) *Engine {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Engine{log: log, metrics: m}
}

// RunConfig configures one pipeline run. Rules and the snapshot are
// optional; validation runs only when rules are present, comparison only
// when a snapshot and key field are supplied.
type RunConfig struct {
	Normalize      assembly.NormalizeOptions
	Flatten        flatten.Config
	Rules          []validate.Rule
	Snapshot       compare.Snapshot
	KeyField       string
	ComparedFields []string
	Compare        compare.Options
}

// RunResult collects the outputs of one run. Validation and Comparison are
// nil when their stage did not run.
type RunResult struct {
	Tree       *assembly.AssemblyTree `json:"tree,omitempty"`
	Output     *flatten.Output        `json:"output"`
	Validation *validate.Report       `json:"validation,omitempty"`
	Comparison *compare.Report        `json:"comparison,omitempty"`
}

// Run executes normalize, flatten, and the optional validate and compare
// stages over raw extractor output
func (e *Engine) Run(roots []*assembly.RawNode, cfg RunConfig) (*RunResult, error) {
	runStart := time.Now()
	e.log.LogRunStart(len(roots))

	tree, err := e.normalize(roots, cfg.Normalize)
	if err != nil {
		e.recordRun("error", runStart)
		return nil, err
	}

	out, err := e.flatten(tree, cfg.Flatten)
	if err != nil {
		e.recordRun("error", runStart)
		return nil, err
	}

	result := &RunResult{Tree: tree, Output: out}
	rows := outputRows(tree, out)

	if len(cfg.Rules) > 0 {
		result.Validation, err = e.validate(rows, cfg.Rules, cfg.Snapshot)
		if err != nil {
			e.recordRun("error", runStart)
			return nil, err
		}
	}

	if cfg.Snapshot != nil && cfg.KeyField != "" {
		result.Comparison, err = e.compare(rows, cfg)
		if err != nil {
			e.recordRun("error", runStart)
			return nil, err
		}
	}

	issues := 0
	if result.Validation != nil {
		issues = len(result.Validation.Issues)
	}
	e.log.LogRunComplete(time.Since(runStart), tree.NodeCount, len(out.Items), issues)
	e.recordRun("success", runStart)
	return result, nil
}

func (e *Engine) normalize(roots []*assembly.RawNode, opts assembly.NormalizeOptions) (*assembly.AssemblyTree, error) {
	start := time.Now()
	tree, err := assembly.Normalize(roots, opts)
	count := 0
	if tree != nil {
		count = tree.NodeCount
	}
	e.log.LogStage("normalize", time.Since(start), count, err)
	e.recordStage("normalize", start, err)
	if err != nil {
		return nil, err
	}
	if e.metrics != nil {
		e.metrics.NodesNormalizedTotal.Add(float64(tree.NodeCount))
	}
	return tree, nil
}

func (e *Engine) flatten(tree *assembly.AssemblyTree, cfg flatten.Config) (*flatten.Output, error) {
	start := time.Now()
	out, err := flatten.Flatten(tree, cfg)
	count := 0
	if out != nil {
		count = len(out.Items)
	}
	e.log.LogStage("flatten", time.Since(start), count, err)
	e.recordStage("flatten", start, err)
	if err != nil {
		return nil, err
	}
	if e.metrics != nil {
		e.metrics.ItemsFlattenedTotal.Add(float64(len(out.Items)))
	}
	return out, nil
}

func (e *Engine) validate(rows []validate.Row, rules []validate.Rule, snapshot compare.Snapshot) (*validate.Report, error) {
	start := time.Now()
	report, err := validate.Validate(rows, rules, snapshot)
	count := 0
	if report != nil {
		count = len(report.Issues)
	}
	e.log.LogStage("validate", time.Since(start), count, err)
	e.recordStage("validate", start, err)
	if err != nil {
		return nil, err
	}
	if e.metrics != nil {
		e.metrics.RecordValidationIssues(report.ErrorCount, report.WarningCount)
	}
	return report, nil
}

func (e *Engine) compare(rows []validate.Row, cfg RunConfig) (*compare.Report, error) {
	start := time.Now()
	compareRows := make([]compare.Row, len(rows))
	for i, r := range rows {
		compareRows[i] = r
	}
	report, err := compare.Compare(compareRows, cfg.Snapshot, cfg.KeyField, cfg.ComparedFields, cfg.Compare)
	count := 0
	if report != nil {
		count = len(report.NewItems) + len(report.ExactMatches) + len(report.MatchedWithDifferences)
	}
	e.log.LogStage("compare", time.Since(start), count, err)
	e.recordStage("compare", start, err)
	if err != nil {
		return nil, err
	}
	if e.metrics != nil {
		e.metrics.RecordComparisonOutcomes(
			len(report.NewItems),
			len(report.ExactMatches),
			len(report.MatchedWithDifferences),
			len(report.DuplicateParts),
		)
	}
	return report, nil
}

func (e *Engine) recordStage(stage string, start time.Time, err error) {
	if e.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	e.metrics.RecordStage(stage, status, time.Since(start))
}

func (e *Engine) recordRun(status string, start time.Time) {
	if e.metrics == nil {
		return
	}
	e.metrics.RecordRun(status, time.Since(start))
}

// outputRows adapts the flattener output to the validator's row contract:
// flat items when the tree was flattened, the tree's nodes pre-order when it
// was passed through hierarchically
func outputRows(tree *assembly.AssemblyTree, out *flatten.Output) []validate.Row {
	if out.Mode == flatten.Hierarchical {
		nodes := tree.Nodes()
		rows := make([]validate.Row, len(nodes))
		for i, n := range nodes {
			rows[i] = n
		}
		return rows
	}
	rows := make([]validate.Row, len(out.Items))
	for i, it := range out.Items {
		rows[i] = it
	}
	return rows
}
