package elevation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/greenpulse/greenpulse-cli/internal/boundary"
	"github.com/greenpulse/greenpulse-cli/internal/cache"
	"github.com/greenpulse/greenpulse-cli/internal/properties"
)

// DefaultDEM is the 90m SRTM product, plenty for terrain masking of
// 30m scenes.
const DefaultDEM = "SRTMGL3"

const fetchRetries = 3

var retryDelay = 10 * time.Second

// boundPadding widens the requested box so edge pixels still sample
// inside the tile.
const boundPadding = 0.05

// FetchDEM downloads a DEM tile covering a lon/lat box and caches it
// under the data directory. Requires OPENTOPOGRAPHY_API_KEY.
func FetchDEM(ctx context.Context, demtype string, west, south, east, north float64) (string, error) {
	apiKey := properties.OpenTopographyAPIKey()
	if apiKey == "" {
		return "", errors.New("missing required environment variable: OPENTOPOGRAPHY_API_KEY")
	}

	dir := filepath.Join(properties.DataPath(), "elevation")
	file := fmt.Sprintf("%s_%.4f_%.4f_%.4f_%.4f.tif", demtype, west, south, east, north)
	dest := filepath.Join(dir, file)
	if _, err := os.Stat(dest); err == nil {
		return dest, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create elevation directory: %v", err)
	}

	url := properties.OpenTopographyHost()
	params := fmt.Sprintf("?demtype=%s&south=%f&north=%f&west=%f&east=%f&outputFormat=GTiff&API_Key=%s",
		demtype, south, north, west, east, apiKey)

	var attempt int
	for attempt < fetchRetries {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url+params, nil)
		if err != nil {
			return "", err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			fmt.Printf("Failed to retrieve DEM: %v. Retrying... (%d/%d)\n", err, attempt+1, fetchRetries)
			time.Sleep(retryDelay)
			attempt++
			continue
		}

		if resp.StatusCode == http.StatusOK {
			tmp := dest + ".part"
			out, err := os.Create(tmp)
			if err != nil {
				resp.Body.Close()
				return "", err
			}
			_, err = io.Copy(out, resp.Body)
			resp.Body.Close()
			if closeErr := out.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				os.Remove(tmp)
				return "", fmt.Errorf("failed to save DEM: %v", err)
			}
			if err := os.Rename(tmp, dest); err != nil {
				os.Remove(tmp)
				return "", err
			}
			return dest, nil
		}

		resp.Body.Close()
		fmt.Printf("Failed to retrieve DEM: %d. Retrying... (%d/%d)\n", resp.StatusCode, attempt+1, fetchRetries)
		time.Sleep(retryDelay)
		attempt++
	}

	return "", fmt.Errorf("failed to retrieve DEM after %d attempts", fetchRetries)
}

// FetchDivisionDEM downloads the tile covering a division's bounding
// box, padded so the outline never touches the tile edge.
func FetchDivisionDEM(ctx context.Context, division *boundary.Division, demtype string) (string, error) {
	bound := division.Bound()
	return FetchDEM(ctx, demtype,
		bound.Min.X()-boundPadding,
		bound.Min.Y()-boundPadding,
		bound.Max.X()+boundPadding,
		bound.Max.Y()+boundPadding)
}

// DivisionSummary loads (or fetches) the division's DEM, masks it to
// the outline and reduces it to terrain statistics. Results are cached
// as JSON; terrain does not move between runs.
func DivisionSummary(ctx context.Context, division *boundary.Division, demtype string) (Summary, error) {
	fileCache := cache.NewFileCache[Summary]("elevation")
	key := fileCache.GenerateKey(division.Country, division.GID, division.Level, demtype)
	if cached, ok := fileCache.Get(key); ok {
		return cached, nil
	}

	path, err := FetchDivisionDEM(ctx, division, demtype)
	if err != nil {
		return Summary{}, err
	}
	dem, err := LoadDEM(path)
	if err != nil {
		return Summary{}, err
	}
	masked, err := boundary.MaskGrid(dem, division)
	if err != nil {
		return Summary{}, err
	}

	summary := Summarize(masked)
	if err := fileCache.Set(key, summary); err != nil {
		fmt.Printf("\033[33mFailed to cache elevation summary: %v\033[0m\n", err)
	}
	return summary, nil
}
