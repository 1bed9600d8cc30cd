package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/greenpulse/greenpulse-cli/internal/delivery"
)

// PrepareRegion handles the UI for downloading a region's boundary and
// elevation data
func PrepareRegion() {
	PrintWarning("- Elevation downloads need the OPENTOPOGRAPHY_API_KEY environment variable.")

	iso3 := strings.ToUpper(ReadString("Enter the country ISO3 code (e.g. BGD): "))
	if len(iso3) != 3 {
		PrintError("country code must be three letters")
		return
	}
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

	report, err := delivery.PrepareRegion(context.Background(), iso3, level, division.Name)
	if err != nil {
		PrintError(fmt.Sprintf("Error preparing region: %s", err.Error()))
		return
	}

	PrintSuccess(fmt.Sprintf("Region %s prepared!\nElevation %.0f m to %.0f m over %d cells.\nOutputs located at: %s",
		report.Division.Name, report.Elevation.Min, report.Elevation.Max, report.Elevation.Cells, report.OutputDir))
}
