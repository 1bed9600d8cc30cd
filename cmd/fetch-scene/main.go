package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/airbusgeo/godal"
	"github.com/greenpulse/greenpulse-cli/internal/landsat"
	"github.com/greenpulse/greenpulse-cli/internal/properties"
	"github.com/joho/godotenv"
)

func main() {
	sceneID := flag.String("scene", "LC08_L2SP_137044_20240118_20240129_02_T1", "Collection 2 Level-2 product ID to download")
	bandList := flag.String("bands", strings.Join(landsat.DefaultBands, ","), "comma separated band suffixes")
	timeout := flag.Duration("timeout", 20*time.Minute, "overall download timeout")
	flag.Parse()

	fmt.Println("=== GreenPulse Scene Download ===")
	fmt.Printf("Scene: %s\n", *sceneID)
	fmt.Printf("Bands: %s\n", *bandList)
	fmt.Println()

	// Load environment variables
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
		fmt.Println("Make sure you have set the required environment variables:")
		fmt.Println("- LANDSAT_CLIENT_ID (optional for public archives)")
		fmt.Println("- LANDSAT_CLIENT_SECRET (optional for public archives)")
		fmt.Println("- LANDSAT_TOKEN_URL (optional for public archives)")
		fmt.Println("- ROOT_PATH")
		fmt.Println()
	}

	// Set ROOT_PATH if not already set
	if properties.RootPath() == "" {
		wd, err := os.Getwd()
		if err != nil {
			log.Fatalf("Failed to resolve working directory: %v", err)
		}
		os.Setenv("ROOT_PATH", wd)
		fmt.Printf("Setting ROOT_PATH to: %s\n", wd)
	}

	// Initialize GDAL
	godal.RegisterAll()

	scene, err := landsat.ParseSceneID(*sceneID)
	if err != nil {
		log.Fatalf("Invalid scene ID: %v", err)
	}
	fmt.Println("✓ Scene ID parsed successfully")
	fmt.Printf("Landsat %d, path %03d row %03d, acquired %s\n",
		scene.Satellite, scene.Path, scene.Row, scene.AcquiredAt.Format("2006-01-02"))

	bands := strings.Split(*bandList, ",")
	for i := range bands {
		bands[i] = strings.TrimSpace(bands[i])
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	fmt.Printf("Requesting %d bands from %s...\n", len(bands), properties.LandsatHost())
	dir, err := landsat.FetchScene(ctx, scene, bands)
	if err != nil {
		log.Fatalf("Failed to fetch scene: %v", err)
	}

	// Display results
	fmt.Printf("\n=== Results ===\n")
	fmt.Printf("Scene files saved to: %s\n", dir)

	if entries, err := os.ReadDir(dir); err == nil {
		fmt.Printf("Files in directory: %d\n", len(entries))
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				fmt.Printf("- %s\n", entry.Name())
				continue
			}
			fmt.Printf("- %s (%.1f MB)\n", entry.Name(), float64(info.Size())/(1024*1024))
		}
	}

	fmt.Println("\n✓ Download completed successfully!")
}
