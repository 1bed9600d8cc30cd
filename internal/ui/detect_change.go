package ui

import (
	"context"
	"fmt"

	"github.com/greenpulse/greenpulse-cli/internal/catalog"
	"github.com/greenpulse/greenpulse-cli/internal/delivery"
	"github.com/greenpulse/greenpulse-cli/internal/notification"
)

// DetectChange handles the UI for comparing two downloaded scenes
func DetectChange() {
	PrintWarning("- Both scenes must cover the same footprint (same WRS path/row).\n- Missing scenes can be downloaded first with the inspect flow.")

	earlier, err := SelectScene("Enter the number of the earlier scene: ")
	if err != nil {
		PrintError(err.Error())
		return
	}
	later, err := SelectScene("Enter the number of the later scene: ")
	if err != nil {
		PrintError(err.Error())
		return
	}
	if earlier.ID == later.ID {
		PrintError("the two scenes must differ")
		return
	}

	opts := delivery.DefaultChangeOptions()
	opts.Threshold, err = ReadFloat(fmt.Sprintf("Enter the significance threshold (default %.2f): ", opts.Threshold), opts.Threshold)
	if err != nil {
		PrintError(err.Error())
		return
	}
	if opts.Threshold < 0 {
		PrintError("threshold cannot be negative")
		return
	}
	opts.MinRegionCells, err = ReadIntDefault(fmt.Sprintf("Enter the minimum region size in cells (default %d): ", opts.MinRegionCells), opts.MinRegionCells)
	if err != nil {
		PrintError(err.Error())
		return
	}

	if ReadYesNo("Clip to an administrative division? (y/N): ") {
		iso3 := ReadString("Enter the country ISO3 code (e.g. BGD): ")
		level, err := ReadIntDefault("Enter the GADM level (default 1): ", 1)
		if err != nil {
			PrintError(err.Error())
			return
		}
		division, err := SelectDivision(context.Background(), iso3, level)
		if err != nil {
			PrintError(err.Error())
			return
		}
		opts.Division = division
	}
	if ReadYesNo("Restrict to an elevation band? (y/N): ") {
		PrintWarning("- Elevation masking downloads a DEM tile and needs the OPENTOPOGRAPHY_API_KEY environment variable.")
		minElev, err := ReadFloat("Enter the minimum elevation in meters (default 0): ", 0)
		if err != nil {
			PrintError(err.Error())
			return
		}
		maxElev, err := ReadFloat("Enter the maximum elevation in meters (default 300): ", 300)
		if err != nil {
			PrintError(err.Error())
			return
		}
		if minElev > maxElev {
			PrintError("minimum elevation cannot exceed the maximum")
			return
		}
		opts.Elevation = &delivery.ElevationBand{Min: minElev, Max: maxElev}
	}
	opts.Animation = ReadYesNo("Write a flicker animation? (y/N): ")

	cat, err := catalog.Open(catalog.DefaultPath())
	if err != nil {
		PrintError(fmt.Sprintf("Error opening catalog: %s", err.Error()))
		return
	}
	defer cat.Close()

	report, err := delivery.DetectChange(context.Background(), cat, earlier, later, opts)
	if err != nil {
		PrintError(fmt.Sprintf("Error detecting change: %s", err.Error()))
		return
	}

	summary := fmt.Sprintf("Run %s: %s vs %s, %d gain cells, %d loss cells, %d regions.",
		report.RunID, report.Earlier.ID, report.Later.ID,
		report.Significant.GainCells, report.Significant.LossCells, len(report.Regions))
	if report.Weather != nil {
		summary += fmt.Sprintf(" Rainfall between acquisitions: %.1f mm.", report.Weather.TotalPrecipitation)
	}
	if err := notification.SendDiscordSuccessNotification(summary); err != nil {
		PrintWarning(fmt.Sprintf("Failed to send success notification: %s", err.Error()))
	}

	PrintSuccess(fmt.Sprintf("Successful analysis!\nOutputs located at: %s", report.OutputDir))
}
