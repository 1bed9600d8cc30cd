package boundary

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/greenpulse/greenpulse-cli/internal/properties"
)

const fetchRetries = 3

var retryDelay = 10 * time.Second

// GADMFile returns the GADM 4.1 file name for a country and admin
// level, e.g. gadm41_BGD_1.json.
func GADMFile(iso3 string, level int) string {
	return fmt.Sprintf("gadm41_%s_%d.json", strings.ToUpper(iso3), level)
}

// FetchGADM downloads a GADM country boundary file unless it is
// already on disk, and returns the local path.
func FetchGADM(ctx context.Context, iso3 string, level int) (string, error) {
	file := GADMFile(iso3, level)
	dir := filepath.Join(properties.DataPath(), "boundaries")
	dest := filepath.Join(dir, file)

	if _, err := os.Stat(dest); err == nil {
		return dest, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create boundary directory: %v", err)
	}

	url := fmt.Sprintf("%s/%s", strings.TrimRight(properties.GadmHost(), "/"), file)

	var attempt int
	for attempt < fetchRetries {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return "", err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			fmt.Printf("Failed to retrieve boundary: %v. Retrying... (%d/%d)\n", err, attempt+1, fetchRetries)
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
				return "", fmt.Errorf("failed to save boundary file: %v", err)
			}
			if err := os.Rename(tmp, dest); err != nil {
				os.Remove(tmp)
				return "", err
			}
			return dest, nil
		}

		resp.Body.Close()
		fmt.Printf("Failed to retrieve boundary: %d. Retrying... (%d/%d)\n", resp.StatusCode, attempt+1, fetchRetries)
		time.Sleep(retryDelay)
		attempt++
	}

	return "", fmt.Errorf("failed to retrieve boundary after %d attempts", fetchRetries)
}

// LoadDivision fetches the country file if needed and picks one
// division out of it.
func LoadDivision(ctx context.Context, iso3 string, level int, name string) (*Division, error) {
	path, err := FetchGADM(ctx, iso3, level)
	if err != nil {
		return nil, err
	}
	fc, err := LoadCollection(path)
	if err != nil {
		return nil, err
	}
	return FindDivision(fc, level, name)
}
