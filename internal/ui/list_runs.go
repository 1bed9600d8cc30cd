package ui

import (
	"fmt"

	"github.com/greenpulse/greenpulse-cli/internal/catalog"
)

const runsToShow = 20

// ListRuns handles the UI for viewing past change detection runs
func ListRuns() {
	cat, err := catalog.Open(catalog.DefaultPath())
	if err != nil {
		PrintError(fmt.Sprintf("Error opening catalog: %s", err.Error()))
		return
	}
	defer cat.Close()

	runs, err := cat.ListRuns(runsToShow)
	if err != nil {
		PrintError(fmt.Sprintf("Error listing runs: %s", err.Error()))
		return
	}
	if len(runs) == 0 {
		PrintWarning("No runs recorded yet.")
		return
	}

	fmt.Printf("\n%sPast runs (newest first):%s\n", ColorGreen, ColorReset)
	for _, run := range runs {
		division := run.Division
		if division == "" {
			division = "full footprint"
		}
		fmt.Printf("%s- %s %s\n    %s vs %s (%s), threshold %.2f\n    %d gain, %d loss, mean change %.4f\n    outputs: %s%s\n",
			ColorGreen, run.FinishedAt.Format("2006-01-02 15:04"), run.RunID,
			run.EarlierScene, run.LaterScene, division, run.Threshold,
			run.GainCells, run.LossCells, run.MeanChange, run.OutputDir, ColorReset)
	}
}
