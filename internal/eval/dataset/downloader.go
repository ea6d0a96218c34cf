package dataset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

const (
	// HuggingFace dataset repository
	HFDatasetRepo = "instdin/institutional-books-1.0"

	DefaultHFBaseURL = "https://huggingface.co"

	// Default cache directory (similar to Python's datasets library)
	DefaultCacheDir = "~/.cache/huggingface/datasets"
)

// DownloadConfig configures dataset downloading
type DownloadConfig struct {
	BaseURL       string
	CacheDir      string
	ForceDownload bool
	Token         string // HuggingFace token for gated datasets
}

// Downloader handles downloading and caching datasets from HuggingFace
type Downloader struct {
	config DownloadConfig
	client *http.Client
}

// NewDownloader creates a new dataset downloader
func NewDownloader(config DownloadConfig) *Downloader {
	if config.BaseURL == "" {
		config.BaseURL = DefaultHFBaseURL
	}
	if config.CacheDir == "" {
		config.CacheDir = DefaultCacheDir
	}

	if strings.HasPrefix(config.CacheDir, "~") {
		if homeDir, err := os.UserHomeDir(); err == nil {
			config.CacheDir = filepath.Join(homeDir, config.CacheDir[1:])
		}
	}

	return &Downloader{
		config: config,
		client: &http.Client{},
	}
}

// CachePath returns the path where a dataset file is cached
func (d *Downloader) CachePath(filename string) string {
	return filepath.Join(d.config.CacheDir, HFDatasetRepo, filename)
}

// DownloadDataset fetches a dataset file unless it is already cached and
// returns its local path.
func (d *Downloader) DownloadDataset(ctx context.Context, filename string) (string, error) {
	cachedPath := d.CachePath(filename)
	if err := os.MkdirAll(filepath.Dir(cachedPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	if !d.config.ForceDownload {
		if _, err := os.Stat(cachedPath); err == nil {
			slog.Info("Using cached dataset", "path", cachedPath)
			return cachedPath, nil
		}
	}

	slog.Info("Downloading dataset from HuggingFace", "repo", HFDatasetRepo, "file", filename)
	url := fmt.Sprintf("%s/datasets/%s/resolve/main/%s", strings.TrimRight(d.config.BaseURL, "/"), HFDatasetRepo, filename)
	if err := d.downloadFile(ctx, url, cachedPath); err != nil {
		return "", fmt.Errorf("failed to download dataset: %w", err)
	}

	slog.Info("Dataset downloaded successfully", "path", cachedPath)
	return cachedPath, nil
}

func (d *Downloader) downloadFile(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if d.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+d.config.Token)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed with status: %d", resp.StatusCode)
	}

	tempPath := destPath + ".tmp"
	out, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	written, err := io.Copy(out, resp.Body)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("download failed: %w", err)
	}
	slog.Debug("Download finished", "bytes", written)

	if err := os.Rename(tempPath, destPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to move file: %w", err)
	}
	return nil
}

// LoadOrDownload loads a dataset from cache or downloads if not present
func LoadOrDownload(ctx context.Context, filename string, config DownloadConfig) (*Loader, error) {
	datasetPath, err := NewDownloader(config).DownloadDataset(ctx, filename)
	if err != nil {
		return nil, err
	}
	return NewLoader(datasetPath), nil
}
