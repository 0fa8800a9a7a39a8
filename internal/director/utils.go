package director

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// GenerateExportPath creates a timestamped export filename in dir
func GenerateExportPath(dir, name, ext string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	if name == "" {
		name = "edl"
	}
	return filepath.Join(dir, fmt.Sprintf("%s_%s.%s", name, timestamp, strings.TrimPrefix(ext, ".")))
}

// FindLatestEditMap finds the most recent .json/.yaml edit map in dir
func FindLatestEditMap(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read exports directory: %w", err)
	}

	var maps []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".json", ".yaml", ".yml":
			maps = append(maps, filepath.Join(dir, entry.Name()))
		}
	}

	if len(maps) == 0 {
		return "", fmt.Errorf("no edit map files found in %s", dir)
	}

	// Sort by modification time (newest first)
	sort.Slice(maps, func(i, j int) bool {
		infoI, _ := os.Stat(maps[i])
		infoJ, _ := os.Stat(maps[j])
		return infoI.ModTime().After(infoJ.ModTime())
	})

	return maps[0], nil
}
