package commands

import (
	"context"
	"fmt"
	"strings"

	"vocabapp/internal/progress"
	"vocabapp/internal/view"

	"github.com/spf13/cobra"
)

// ProgressCommands returns the progress report command.
func ProgressCommands(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show your practice history",
		Long:  `Show the aggregated practice report: headline figures plus accuracy and cumulative practice charts.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := requireLogin(app); err != nil {
				return err
			}
			ctx := context.Background()
			if err := app.Coordinator.Dispatch(ctx, view.IntentShowProgress, view.Args{}); err != nil {
				return err
			}
			report, err := app.Renderer.Load(ctx)
			if err != nil {
				app.Coordinator.BackToMain()
				return err
			}

			// The summary figures are shown even when there is no trend to chart.
			fmt.Println("Progress report")
			divider(40)
			fmt.Printf("Unique words attempted: %d\n", report.Summary.TotalWordsAttempted)
			fmt.Printf("Overall accuracy:       %.1f%%\n", report.Summary.OverallAccuracyPercent)
			fmt.Printf("Average time/attempt:   %.1fs\n", report.Summary.AverageTimeSeconds)
			if report.Message != "" {
				fmt.Println(report.Message)
			}
			if report.NoData {
				return nil
			}

			for _, chart := range report.Charts {
				fmt.Printf("\n%s\n", chart.Title)
				divider(len(chart.Title))
				printChart(chart)
			}
			return nil
		},
	}
}

// printChart renders a chart as horizontal ASCII bars scaled to the widest value.
func printChart(chart progress.Chart) {
	const barWidth = 40

	max := 0.0
	for _, v := range chart.Values {
		if v > max {
			max = v
		}
	}
	for i, label := range chart.Labels {
		value := chart.Values[i]
		filled := 0
		if max > 0 {
			filled = int(value / max * barWidth)
		}
		fmt.Printf("%-10s %s %.1f\n", label, strings.Repeat("#", filled), value)
	}
}
