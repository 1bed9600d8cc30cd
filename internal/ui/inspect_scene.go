package ui

import (
	"context"
	"fmt"

	"github.com/greenpulse/greenpulse-cli/internal/catalog"
	"github.com/greenpulse/greenpulse-cli/internal/delivery"
)

// InspectScene handles the UI for downloading and summarizing a scene
func InspectScene() {
	PrintWarning("- Scene IDs look like LC08_L2SP_137044_20140128_20200912_02_T1.\n- Bands not on disk yet are downloaded from the configured host.")

	sceneID := ReadString("Enter the scene ID: ")
	if sceneID == "" {
		PrintError("scene ID cannot be empty")
		return
	}

	cat, err := catalog.Open(catalog.DefaultPath())
	if err != nil {
		PrintError(fmt.Sprintf("Error opening catalog: %s", err.Error()))
		return
	}
	defer cat.Close()

	report, err := delivery.InspectScene(context.Background(), cat, sceneID)
	if err != nil {
		PrintError(fmt.Sprintf("Error inspecting scene: %s", err.Error()))
		return
	}

	PrintSuccess(fmt.Sprintf("Scene %s inspected!\nCloud cover %.1f%%, mean NDVI %.3f over %d cells.\nOutputs located at: %s",
		report.Scene.ID, report.CloudCover*100, report.NDVI.Mean, report.NDVI.ValidCells, report.OutputDir))
}
