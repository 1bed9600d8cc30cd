package landsat

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/errgroup"

	"github.com/greenpulse/greenpulse-cli/internal/properties"
)

// DefaultBands are the band files fetched for every scene: red and NIR
// for the index math plus the QA mask.
var DefaultBands = []string{BandRed, BandNIR, BandQA}

const fetchRetries = 5

var retryDelay = 5 * time.Second

// httpClient returns an OAuth2 client-credentials client when the
// provider requires one, otherwise the default client. Public buckets
// need no token.
func httpClient(ctx context.Context) *http.Client {
	clientID := properties.LandsatClientID()
	clientSecret := properties.LandsatClientSecret()
	tokenURL := properties.LandsatTokenURL()
	if clientID == "" || clientSecret == "" || tokenURL == "" {
		return http.DefaultClient
	}

	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
	}
	return config.Client(ctx)
}

// ScenesRoot is the directory all downloaded scenes live under.
func ScenesRoot() string {
	return filepath.Join(properties.DataPath(), "scenes")
}

// SceneDir returns the local directory holding a scene's band files.
func SceneDir(scene Scene) string {
	return filepath.Join(ScenesRoot(), scene.ID)
}

func downloadFile(ctx context.Context, client *http.Client, url, dest string) error {
	var lastErr error
	for attempt := 1; attempt <= fetchRetries; attempt++ {
		lastErr = func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return err
			}
			resp, err := client.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
				return fmt.Errorf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(body)))
			}

			tmp := dest + ".part"
			out, err := os.Create(tmp)
			if err != nil {
				return err
			}
			bar := progressbar.DefaultBytes(resp.ContentLength, filepath.Base(dest))
			_, err = io.Copy(io.MultiWriter(out, bar), resp.Body)
			if closeErr := out.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				os.Remove(tmp)
				return err
			}
			return os.Rename(tmp, dest)
		}()
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return lastErr
		}
		fmt.Printf("Attempt %d failed: %v\n", attempt, lastErr)
		time.Sleep(retryDelay)
	}
	return fmt.Errorf("failed to download %s after %d attempts: %v", url, fetchRetries, lastErr)
}

// FetchScene downloads the band files of a scene that are not already
// on disk and returns the scene directory. Files download in parallel;
// a partial file never shadows a finished one.
func FetchScene(ctx context.Context, scene Scene, bands []string) (string, error) {
	if len(bands) == 0 {
		bands = DefaultBands
	}

	dir := SceneDir(scene)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create scene directory: %w", err)
	}

	client := httpClient(ctx)
	host := strings.TrimRight(properties.LandsatHost(), "/")

	group, ctx := errgroup.WithContext(ctx)
	for _, band := range bands {
		dest := filepath.Join(dir, scene.BandFileName(band))
		if _, err := os.Stat(dest); err == nil {
			fmt.Printf("\033[36m%s already downloaded, skipping\033[0m\n", filepath.Base(dest))
			continue
		}
		url := fmt.Sprintf("%s/%s", host, scene.RemotePath(band))
		group.Go(func() error {
			return downloadFile(ctx, client, url, dest)
		})
	}
	if err := group.Wait(); err != nil {
		return "", err
	}
	return dir, nil
}
