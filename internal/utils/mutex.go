package utils

import "sync"

var gdalMu sync.Mutex

// ExecuteWithMutex serializes raster reads and writes. GDAL dataset
// handles are not safe to use from multiple goroutines at once.
func ExecuteWithMutex(fn func()) {
	gdalMu.Lock()
	defer gdalMu.Unlock()
	fn()
}
