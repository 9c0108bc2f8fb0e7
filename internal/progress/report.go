// Package progress builds the renderable progress report: summary figures
// plus the accuracy and cumulative-practice charts derived from the trend.
package progress

import (
	"context"
	"sync"

	"vocabapp/internal/models"
	"vocabapp/internal/observability"
)

// Source fetches the aggregated progress report.
type Source interface {
	ProgressReport(ctx context.Context) (*models.ProgressReport, error)
}

// ChartKind selects the chart rendering style.
type ChartKind string

const (
	ChartLine ChartKind = "line"
	ChartBar  ChartKind = "bar"
)

// Chart is one renderable chart. Labels and Values are index-aligned.
type Chart struct {
	Kind   ChartKind
	Title  string
	Labels []string
	Values []float64
}

// Summary holds the headline figures above the charts.
type Summary struct {
	TotalWordsAttempted    int
	OverallAccuracyPercent float64
	AverageTimeSeconds     float64
}

// View is one rendered report. Generation identifies which Load produced it;
// only the newest generation is live.
type View struct {
	Summary    Summary
	Charts     []Chart
	NoData     bool
	Message    string
	Generation uint64
}

// DisposeFunc receives a view that has been replaced, so its chart resources
// can be torn down before the successor renders.
type DisposeFunc func(*View)

// Renderer turns progress reports into views. Each Load replaces the prior
// view wholesale; stale views are handed to the dispose hook rather than
// left dangling.
type Renderer struct {
	source  Source
	logger  *observability.Logger
	dispose DisposeFunc

	mu         sync.Mutex
	generation uint64
	current    *View
}

// NewRenderer creates a renderer. The dispose hook may be nil.
func NewRenderer(source Source, logger *observability.Logger, dispose DisposeFunc) *Renderer {
	return &Renderer{source: source, logger: logger, dispose: dispose}
}

// Load fetches the report and builds a fresh view, disposing the previous
// one. The report is rebuilt from scratch on every call; nothing is merged.
func (r *Renderer) Load(ctx context.Context) (*View, error) {
	report, err := r.source.ProgressReport(ctx)
	if err != nil {
		return nil, err
	}

	view := buildView(report)

	r.mu.Lock()
	r.generation++
	view.Generation = r.generation
	previous := r.current
	r.current = view
	r.mu.Unlock()

	if previous != nil && r.dispose != nil {
		r.dispose(previous)
	}

	r.logger.Debug(ctx, "Progress report rendered", map[string]interface{}{
		"generation": view.Generation,
		"points":     len(report.ProgressTrend),
		"no_data":    view.NoData,
	})
	return view, nil
}

// Current returns the live view, or nil before the first Load.
func (r *Renderer) Current() *View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// IsCurrent reports whether the view is still the live generation.
func (r *Renderer) IsCurrent(v *View) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return v != nil && r.current != nil && v.Generation == r.current.Generation
}

func buildView(report *models.ProgressReport) *View {
	view := &View{
		Summary: Summary{
			TotalWordsAttempted:    report.TotalWordsAttemptedUnique,
			OverallAccuracyPercent: report.OverallAccuracy * 100,
			AverageTimeSeconds:     report.AverageTimePerAttempt,
		},
		Message: report.Message,
	}

	if len(report.ProgressTrend) == 0 {
		view.NoData = true
		if view.Message == "" {
			view.Message = "No progress data yet. Complete some exercises to see your history."
		}
		return view
	}

	labels := make([]string, len(report.ProgressTrend))
	accuracy := make([]float64, len(report.ProgressTrend))
	cumulative := make([]float64, len(report.ProgressTrend))
	for i, point := range report.ProgressTrend {
		labels[i] = point.Label()
		accuracy[i] = point.AccuracyAtPoint * 100
		cumulative[i] = float64(point.CumulativeWordsPracticed)
	}

	view.Charts = []Chart{
		{Kind: ChartLine, Title: "Accuracy Over Time (%)", Labels: labels, Values: accuracy},
		{Kind: ChartBar, Title: "Cumulative Words Practiced", Labels: labels, Values: cumulative},
	}
	return view
}
