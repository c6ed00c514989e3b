package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"github.com/lehigh-university-libraries/movieetl/internal/movies"
)

// SaveParquet writes the dataset to path, creating parent directories.
func SaveParquet(path string, ds *movies.Dataset) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}
	defer file.Close()

	records := Records(ds)
	writer := parquet.NewGenericWriter[Record](file)
	if _, err := writer.Write(records); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}

	slog.Info("Saved dataset", "path", path, "format", "parquet", "rows", len(records))
	return nil
}

// LoadParquet reads a dataset written by SaveParquet.
func LoadParquet(path string) (*movies.Dataset, error) {
	file, err := os.Open(path)
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
	slog.Debug("Parquet file opened", "path", path, "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	reader := parquet.NewGenericReader[Record](pf)
	defer reader.Close()

	var records []Record
	for {
		batch := make([]Record, 128)
		n, err := reader.Read(batch)
		records = append(records, batch[:n]...)
		if err != nil {
			break
		}
	}

	if int64(len(records)) != pf.NumRows() {
		return nil, fmt.Errorf("read %d of %d parquet rows", len(records), pf.NumRows())
	}
	return FromRecords(records)
}
