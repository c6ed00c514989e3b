// Package rawdata reads and writes raw TMDB movie documents.
package rawdata

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lehigh-university-libraries/movieetl/internal/frame"
)

// FileName returns the name a raw movie document is saved under.
func FileName(id int64) string {
	return fmt.Sprintf("movie_%d.json", id)
}

// SaveRaw writes raw as pretty-printed JSON to dir/movie_<id>.json.
func SaveRaw(dir string, id int64, raw frame.Raw) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create raw data directory: %w", err)
	}

	data, err := json.MarshalIndent(raw, "", "    ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal movie %d: %w", id, err)
	}

	path := filepath.Join(dir, FileName(id))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// Load reads raw records from a directory of JSON documents, a JSONL file,
// or a single JSON file holding one object or an array of objects.
func Load(path string) ([]frame.Raw, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return LoadDir(path)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".jsonl":
		return LoadJSONL(path)
	case ".json":
		return loadJSONFile(path)
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: directory, .json, .jsonl)", ext)
	}
}

// LoadDir reads every *.json file in dir, in lexical file name order.
func LoadDir(dir string) ([]frame.Raw, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	sort.Strings(paths)

	slog.Debug("Loading raw documents", "dir", dir, "files", len(paths))

	raws := make([]frame.Raw, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		raw, err := decode(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", p, err)
		}
		raws = append(raws, raw)
	}
	return raws, nil
}

// LoadJSONL reads one JSON object per line. Blank lines are skipped.
func LoadJSONL(path string) ([]frame.Raw, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer file.Close()

	var raws []frame.Raw
	scanner := bufio.NewScanner(file)

	const maxCapacity = 10 * 1024 * 1024 // 10MB per line
	buf := make([]byte, maxCapacity)
	scanner.Buffer(buf, maxCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		raw, err := decode(line)
		if err != nil {
			return nil, fmt.Errorf("failed to parse JSON at line %d: %w", lineNum, err)
		}
		raws = append(raws, raw)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading dataset: %w", err)
	}

	slog.Debug("Finished reading JSONL file", "total_records", len(raws), "total_lines", lineNum)
	return raws, nil
}

func loadJSONFile(path string) ([]frame.Raw, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		var raws []frame.Raw
		decoder := json.NewDecoder(bytes.NewReader(trimmed))
		decoder.UseNumber()
		if err := decoder.Decode(&raws); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return raws, nil
	}
	raw, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return []frame.Raw{raw}, nil
}

// decode keeps numbers as json.Number so integral ids stay integral.
func decode(data []byte) (frame.Raw, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var raw frame.Raw
	if err := decoder.Decode(&raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("document is not a JSON object")
	}
	return raw, nil
}
