package ui

import (
	"errors"
	"fmt"
	"os"

	"github.com/greenpulse/greenpulse-cli/internal/catalog"
	"github.com/greenpulse/greenpulse-cli/internal/landsat"
	"github.com/greenpulse/greenpulse-cli/internal/utils"
)

// ListScenes handles the UI for viewing the downloaded scenes
func ListScenes() {
	scenes, err := landsat.ScanScenes(landsat.ScenesRoot())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			PrintWarning("No scenes downloaded yet. Use the inspect flow to fetch one.")
			return
		}
		PrintError(fmt.Sprintf("Error reading scenes folder: %s", err.Error()))
		return
	}
	if len(scenes) == 0 {
		PrintWarning("No scenes downloaded yet. Use the inspect flow to fetch one.")
		return
	}

	cat, err := catalog.Open(catalog.DefaultPath())
	if err != nil {
		PrintError(fmt.Sprintf("Error opening catalog: %s", err.Error()))
		return
	}
	defer cat.Close()

	fmt.Printf("\n%sDownloaded scenes:%s\n", ColorGreen, ColorReset)
	for _, date := range utils.GetSortedKeys(scenes, true) {
		scene := scenes[date]
		line := fmt.Sprintf("- %s acquired %s, path %03d row %03d",
			scene.ID, date.Format("2006-01-02"), scene.Path, scene.Row)
		if rec, err := cat.GetScene(scene.ID); err == nil {
			line += fmt.Sprintf(", cloud cover %.1f%%", rec.CloudCover*100)
		}
		fmt.Printf("%s%s%s\n", ColorGreen, line, ColorReset)
	}
}
