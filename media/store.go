package media

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// maxExtensionLen caps the extension carried over from an original filename
// so a hostile name cannot smuggle an arbitrarily long suffix.
const maxExtensionLen = 8

// Store defines the interface for saving, retrieving, and deleting uploaded assets
type Store interface {
	// Save stores data from reader under the asset type's directory. An empty
	// filenameHint generates a collision-resistant name; the extension of
	// originalName is preserved (lowercased, length-capped). Returns the final
	// filename and the absolute stored path.
	Save(assetType AssetType, filenameHint, originalName string, data io.Reader) (filename string, storedPath string, err error)
	// Get retrieves a reader for an asset
	Get(assetType AssetType, filename string) (io.ReadCloser, os.FileInfo, error)
	// Delete removes an asset
	Delete(assetType AssetType, filename string) error
	// FullPath returns the absolute filesystem path for an asset filename
	FullPath(assetType AssetType, filename string) (string, error)
	// List returns the filenames currently present for an asset type
	List(assetType AssetType) ([]string, error)
}

// LocalStorage implements the Store interface using the local filesystem
type LocalStorage struct {
	basePath  string               // absolute path to the STORAGE_DIR
	subDirMap map[AssetType]string // maps AssetType to subdirectory name
}

// NewLocalStorage creates a new local filesystem store rooted at basePath
func NewLocalStorage(basePath string, subDirs map[AssetType]string) (*LocalStorage, error) {
	absBasePath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("invalid base storage path '%s': %w", basePath, err)
	}

	if err := os.MkdirAll(absBasePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base storage directory '%s': %w", absBasePath, err)
	}

	for _, subDir := range subDirs {
		fullPath := filepath.Join(absBasePath, subDir)
		if !strings.HasPrefix(filepath.Clean(fullPath), absBasePath) {
			return nil, fmt.Errorf("invalid subdirectory configuration: '%s' resolves outside base path '%s'", subDir, absBasePath)
		}
		if err := os.MkdirAll(fullPath, 0755); err != nil {
			return nil, fmt.Errorf("failed to create storage subdirectory '%s': %w", fullPath, err)
		}
	}

	log.Printf("media.store: Initialized LocalStorage at %s", absBasePath)
	return &LocalStorage{
		basePath:  absBasePath,
		subDirMap: subDirs,
	}, nil
}

func (ls *LocalStorage) assetDir(assetType AssetType) (string, error) {
	subDir, ok := ls.subDirMap[assetType]
	if !ok {
		subDir = string(assetType)
	}
	dirPath := filepath.Join(ls.basePath, subDir)
	if !strings.HasPrefix(filepath.Clean(dirPath), ls.basePath) {
		return "", fmt.Errorf("asset type '%s' resolves outside base path", assetType)
	}
	return dirPath, nil
}

// SafeExtension extracts a lowercased, length-capped extension from a filename
func SafeExtension(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	if len(ext) > maxExtensionLen {
		ext = ext[:maxExtensionLen]
	}
	return ext
}

// GenerateFilename builds a collision-resistant filename from the current
// time, a random suffix, and the original file's extension.
func GenerateFilename(originalName string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), suffix, SafeExtension(originalName))
}

func (ls *LocalStorage) resolve(assetType AssetType, filename string) (string, error) {
	if filename == "" || strings.Contains(filename, "..") || strings.ContainsRune(filename, os.PathSeparator) {
		return "", fmt.Errorf("invalid asset filename '%s'", filename)
	}
	dirPath, err := ls.assetDir(assetType)
	if err != nil {
		return "", err
	}
	fullPath := filepath.Clean(filepath.Join(dirPath, filename))
	if !strings.HasPrefix(fullPath, dirPath) {
		return "", fmt.Errorf("asset filename '%s' resolves outside its directory", filename)
	}
	return fullPath, nil
}

func (ls *LocalStorage) Save(assetType AssetType, filenameHint, originalName string, data io.Reader) (string, string, error) {
	dirPath, err := ls.assetDir(assetType)
	if err != nil {
		return "", "", err
	}
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return "", "", fmt.Errorf("failed to ensure directory '%s': %w", dirPath, err)
	}

	finalFilename := filenameHint
	if finalFilename == "" {
		finalFilename = GenerateFilename(originalName)
	}

	fullSavePath, err := ls.resolve(assetType, finalFilename)
	if err != nil {
		return "", "", err
	}

	outFile, err := os.Create(fullSavePath)
	if err != nil {
		return "", "", fmt.Errorf("failed to create file '%s': %w", fullSavePath, err)
	}
	defer outFile.Close()

	if _, err := io.Copy(outFile, data); err != nil {
		os.Remove(fullSavePath)
		return "", "", fmt.Errorf("failed to write file '%s': %w", fullSavePath, err)
	}

	return finalFilename, fullSavePath, nil
}

func (ls *LocalStorage) Get(assetType AssetType, filename string) (io.ReadCloser, os.FileInfo, error) {
	fullPath, err := ls.resolve(assetType, filename)
	if err != nil {
		return nil, nil, err
	}
	info, err := os.Stat(fullPath)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(fullPath)
	if err != nil {
		return nil, nil, err
	}
	return f, info, nil
}

func (ls *LocalStorage) Delete(assetType AssetType, filename string) error {
	fullPath, err := ls.resolve(assetType, filename)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete '%s': %w", fullPath, err)
	}
	return nil
}

func (ls *LocalStorage) FullPath(assetType AssetType, filename string) (string, error) {
	return ls.resolve(assetType, filename)
}

func (ls *LocalStorage) List(assetType AssetType) ([]string, error) {
	dirPath, err := ls.assetDir(assetType)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dirPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list '%s': %w", dirPath, err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
