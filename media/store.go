package media

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Store defines the interface for the on-disk layout of datasets
type Store interface {
	// Save stores data from reader under the asset type's directory of a dataset
	// and returns the absolute path written
	Save(datasetID string, assetType AssetType, filename string, data io.Reader) (string, error)
	// DatasetDir returns the absolute root directory of a dataset
	DatasetDir(datasetID string) (string, error)
	// EnsureDataset makes sure the dataset root and its images/labels directories exist
	EnsureDataset(datasetID string) (string, error)
	// DeleteDataset removes the dataset directory and everything under it
	DeleteDataset(datasetID string) error
	// GetFullPath returns the absolute filesystem path for a path relative to a dataset
	GetFullPath(datasetID, relativePath string) (string, error)
}

// LocalStorage implements the Store interface using the local filesystem.
// Layout: <basePath>/<dataset_id>/{images,labels}/ and an optional data.yaml.
type LocalStorage struct {
	basePath string // absolute path to DATASETS_ROOT
}

// NewLocalStorage creates a new local filesystem store
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	absBasePath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("invalid base storage path '%s': %w", basePath, err)
	}

	if err := os.MkdirAll(absBasePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base storage directory '%s': %w", absBasePath, err)
	}

	log.Printf("media.store: Initialized LocalStorage at %s", absBasePath)
	return &LocalStorage{basePath: absBasePath}, nil
}

// BasePath returns the absolute datasets root
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

// DatasetDir resolves the dataset root and rejects ids escaping the base path
func (ls *LocalStorage) DatasetDir(datasetID string) (string, error) {
	if datasetID == "" || strings.ContainsAny(datasetID, `/\`) || strings.Contains(datasetID, "..") {
		return "", fmt.Errorf("invalid dataset id '%s'", datasetID)
	}
	dir := filepath.Join(ls.basePath, datasetID)
	if !strings.HasPrefix(filepath.Clean(dir), ls.basePath) {
		return "", fmt.Errorf("dataset id '%s' resolves outside base path", datasetID)
	}
	return dir, nil
}

// EnsureDataset creates the dataset directory tree if it doesn't exist
func (ls *LocalStorage) EnsureDataset(datasetID string) (string, error) {
	dir, err := ls.DatasetDir(datasetID)
	if err != nil {
		return "", err
	}
	for _, sub := range []string{ImagesSubDir, LabelsSubDir} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0755); err != nil {
			return "", fmt.Errorf("failed to ensure directory '%s': %w", filepath.Join(dir, sub), err)
		}
	}
	return dir, nil
}

// Save writes data to <dataset>/<asset dir>/<filename>
func (ls *LocalStorage) Save(datasetID string, assetType AssetType, filename string, data io.Reader) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("filename cannot be empty for LocalStorage.Save")
	}
	if filepath.Base(filename) != filename {
		return "", fmt.Errorf("invalid filename '%s'", filename)
	}

	datasetDir, err := ls.EnsureDataset(datasetID)
	if err != nil {
		return "", err
	}
	targetDir := filepath.Join(datasetDir, subDirFor(assetType))
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create sub-directory '%s': %w", targetDir, err)
	}

	fullSavePath := filepath.Join(targetDir, filename)

	outFile, err := os.Create(fullSavePath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file '%s': %w", fullSavePath, err)
	}
	defer outFile.Close()

	_, err = io.Copy(outFile, data)
	if err != nil {
		outFile.Close()
		os.Remove(fullSavePath)
		return "", fmt.Errorf("failed to write data to '%s': %w", fullSavePath, err)
	}

	log.Printf("media.store: Saved %s asset to %s", assetType, fullSavePath)
	return fullSavePath, nil
}

// DeleteDataset removes the whole dataset directory. A missing directory is not an error.
func (ls *LocalStorage) DeleteDataset(datasetID string) error {
	dir, err := ls.DatasetDir(datasetID)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to delete dataset directory '%s': %w", dir, err)
	}
	log.Printf("media.store: Deleted dataset directory %s", dir)
	return nil
}

// GetFullPath calculates the absolute path and performs security check
func (ls *LocalStorage) GetFullPath(datasetID, relativePath string) (string, error) {
	datasetDir, err := ls.DatasetDir(datasetID)
	if err != nil {
		return "", err
	}
	// clean the relative path first to prevent simple traversal tricks
	cleanRelativePath := filepath.Clean(relativePath)

	absFullPath, err := filepath.Abs(filepath.Join(datasetDir, cleanRelativePath))
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for '%s': %w", relativePath, err)
	}

	if absFullPath != datasetDir && !strings.HasPrefix(absFullPath, datasetDir+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid path: access denied for '%s'", relativePath)
	}

	return absFullPath, nil
}
