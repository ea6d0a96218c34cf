package dataset

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// Loader handles loading of the Institutional Books dataset
type Loader struct {
	datasetPath string
}

// NewLoader creates a new dataset loader
func NewLoader(datasetPath string) *Loader {
	return &Loader{
		datasetPath: datasetPath,
	}
}

// Load loads every record from a dataset file (JSONL or Parquet)
func (l *Loader) Load() ([]InstitutionalBooksRecord, error) {
	return l.LoadSample(0)
}

// LoadSample loads at most limit records. A non-positive limit loads everything.
func (l *Loader) LoadSample(limit int) ([]InstitutionalBooksRecord, error) {
	ext := strings.ToLower(filepath.Ext(l.datasetPath))

	switch ext {
	case ".parquet":
		return l.loadParquet(limit)
	case ".jsonl", ".json":
		return l.loadJSONL(limit)
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: .parquet, .jsonl)", ext)
	}
}

func (l *Loader) loadJSONL(limit int) ([]InstitutionalBooksRecord, error) {
	slog.Debug("Opening JSONL file", "path", l.datasetPath, "limit", limit)

	file, err := os.Open(l.datasetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer file.Close()

	var records []InstitutionalBooksRecord
	scanner := bufio.NewScanner(file)

	// Records can carry full OCR text, so lines get long
	const maxCapacity = 10 * 1024 * 1024
	scanner.Buffer(make([]byte, 64*1024), maxCapacity)

	lineNum := 0
	for scanner.Scan() {
		if limit > 0 && len(records) >= limit {
			break
		}
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var record InstitutionalBooksRecord
		if err := json.Unmarshal(line, &record); err != nil {
			slog.Warn("Skipping malformed JSONL line", "line", lineNum, "err", err)
			continue
		}
		records = append(records, record)

		if lineNum%1000 == 0 {
			slog.Debug("Reading JSONL", "lines_read", lineNum)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading dataset: %w", err)
	}

	slog.Debug("Finished reading JSONL file", "total_records", len(records), "total_lines", lineNum)
	return records, nil
}

func (l *Loader) loadParquet(limit int) ([]InstitutionalBooksRecord, error) {
	slog.Debug("Opening Parquet file", "path", l.datasetPath, "limit", limit)

	file, err := os.Open(l.datasetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}
	slog.Debug("Parquet file opened", "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	reader := parquet.NewGenericReader[InstitutionalBooksRecord](pf)
	defer reader.Close()

	var records []InstitutionalBooksRecord
	rows := make([]InstitutionalBooksRecord, 128)

	for limit <= 0 || len(records) < limit {
		n, err := reader.Read(rows)
		if limit > 0 && n > limit-len(records) {
			n = limit - len(records)
		}
		records = append(records, rows[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}

	slog.Debug("Finished reading Parquet file", "total_records", len(records))
	return records, nil
}
