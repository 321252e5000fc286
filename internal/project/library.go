package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/framefill/internal/model"
)

// DefaultLibraryPath returns the library file to use for config: its
// LibraryPath when set, otherwise ~/.framefill/library.json.
func DefaultLibraryPath(config model.AppConfig) string {
	if config.LibraryPath != "" {
		return config.LibraryPath
	}
	return filepath.Join(DefaultConfigDir(), "library.json")
}

// SaveLibrary writes the image library to the specified JSON file.
// It creates parent directories if they do not exist.
func SaveLibrary(path string, lib model.Library) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create library directory: %w", err)
	}
	data, err := json.MarshalIndent(lib, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal library: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write library: %w", err)
	}
	return nil
}

// LoadLibrary reads the image library from the specified JSON file.
// If the file does not exist, it returns an empty library.
func LoadLibrary(path string) (model.Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.NewLibrary(), nil
		}
		return model.Library{}, fmt.Errorf("failed to read library: %w", err)
	}
	var lib model.Library
	if err := json.Unmarshal(data, &lib); err != nil {
		return model.Library{}, fmt.Errorf("failed to parse library: %w", err)
	}
	if lib.Images == nil {
		lib.Images = []model.ImageItem{}
	}
	return lib, nil
}

// ImportLibrary merges the library stored at path into existing. Images
// already present by ID or source are skipped. Returns the merged library
// and the number of images added.
func ImportLibrary(path string, existing model.Library) (model.Library, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return existing, 0, fmt.Errorf("failed to read library: %w", err)
	}
	var imported model.Library
	if err := json.Unmarshal(data, &imported); err != nil {
		return existing, 0, fmt.Errorf("failed to parse library: %w", err)
	}
	added := existing.Merge(imported.Images)
	return existing, added, nil
}
