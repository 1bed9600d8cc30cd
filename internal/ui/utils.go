package ui

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/greenpulse/greenpulse-cli/internal/boundary"
	"github.com/greenpulse/greenpulse-cli/internal/landsat"
	"github.com/greenpulse/greenpulse-cli/internal/utils"
)

// Colors for consistent UI
const (
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorReset  = "\033[0m"
)

// PrintWarning displays a warning message with consistent formatting
func PrintWarning(message string) {
	fmt.Printf("%s\nWarning:%s\n", ColorYellow, ColorReset)
	fmt.Printf("%s%s%s\n", ColorYellow, message, ColorReset)
}

// PrintError displays an error message with consistent formatting
func PrintError(message string) {
	fmt.Printf("\n%sError: %s%s\n", ColorRed, message, ColorReset)
}

// PrintSuccess displays a success message with consistent formatting
func PrintSuccess(message string) {
	fmt.Printf("\n%s%s%s\n", ColorGreen, message, ColorReset)
}

// PrintInfo displays an info message with consistent formatting
func PrintInfo(message string) {
	fmt.Printf("%s%s%s", ColorBlue, message, ColorReset)
}

// ReadString reads a string from stdin with trimming
func ReadString(prompt string) string {
	reader := bufio.NewReader(os.Stdin)
	PrintInfo(prompt)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

// ReadInt reads an integer from stdin with validation
func ReadInt(prompt string, min, max int) (int, error) {
	PrintInfo(prompt)
	var input string
	fmt.Scanln(&input)
	input = strings.TrimSpace(input)

	value, err := strconv.Atoi(input)
	if err != nil {
		return 0, fmt.Errorf("invalid number: %s", input)
	}

	if value < min || value > max {
		return 0, fmt.Errorf("value must be between %d and %d", min, max)
	}

	return value, nil
}

// ReadFloat reads a float from stdin, falling back to a default on an
// empty line
func ReadFloat(prompt string, fallback float64) (float64, error) {
	input := ReadString(prompt)
	if input == "" {
		return fallback, nil
	}

	value, err := strconv.ParseFloat(input, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number: %s", input)
	}
	return value, nil
}

// ReadIntDefault reads an integer from stdin, falling back to a
// default on an empty line
func ReadIntDefault(prompt string, fallback int) (int, error) {
	input := ReadString(prompt)
	if input == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(input)
	if err != nil {
		return 0, fmt.Errorf("invalid number: %s", input)
	}
	return value, nil
}

// ReadYesNo reads a y/n answer, defaulting to no on an empty line
func ReadYesNo(prompt string) bool {
	input := strings.ToLower(ReadString(prompt))
	return input == "y" || input == "yes"
}

// SelectScene lists the downloaded scenes by acquisition date and
// returns the chosen one
func SelectScene(prompt string) (landsat.Scene, error) {
	scenes, err := landsat.ScanScenes(landsat.ScenesRoot())
	if err != nil {
		return landsat.Scene{}, fmt.Errorf("error listing downloaded scenes: %s", err.Error())
	}
	if len(scenes) == 0 {
		return landsat.Scene{}, fmt.Errorf("no scenes downloaded yet")
	}

	dates := utils.GetSortedKeys(scenes, true)
	fmt.Printf("%s\nDownloaded scenes:%s\n", ColorGreen, ColorReset)
	for i, date := range dates {
		fmt.Printf("%s%d. %s (%s)%s\n", ColorGreen, i+1, scenes[date].ID, date.Format("2006-01-02"), ColorReset)
	}

	choice, err := ReadInt(prompt, 1, len(dates))
	if err != nil {
		return landsat.Scene{}, err
	}
	return scenes[dates[choice-1]], nil
}

// SelectDivision downloads the GADM file for a country when needed,
// lists its divisions at the given level and returns the chosen one
func SelectDivision(ctx context.Context, iso3 string, level int) (*boundary.Division, error) {
	path, err := boundary.FetchGADM(ctx, iso3, level)
	if err != nil {
		return nil, err
	}
	fc, err := boundary.LoadCollection(path)
	if err != nil {
		return nil, err
	}

	names := boundary.ListDivisions(fc, level)
	if len(names) == 0 {
		return nil, fmt.Errorf("no divisions found for %s at level %d", iso3, level)
	}

	fmt.Printf("%s\nAvailable divisions:%s\n", ColorGreen, ColorReset)
	for i, name := range names {
		fmt.Printf("%s%d. %s%s\n", ColorGreen, i+1, name, ColorReset)
	}

	choice, err := ReadInt("Enter the number of the division: ", 1, len(names))
	if err != nil {
		return nil, err
	}
	return boundary.FindDivision(fc, level, names[choice-1])
}
