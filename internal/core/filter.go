package core

// filter.go implements the filter engine: load a CSV dataset, keep the
// records whose "name" value ends with one of the caller's suffixes,
// write the survivors to a new CSV, and report size/row statistics.
//
// The engine is a pure synchronous operation with no shared state; it is
// safe to invoke concurrently as long as each invocation uses its own
// input/output paths. Temp-file lifetime around the engine belongs to
// the caller.

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// NormalizeSuffixes trims each suffix and prepends a dot when missing.
// Order, duplicates and letter case are preserved; case folding happens
// only at comparison time.
func NormalizeSuffixes(suffixes []string) []string {
	normalized := make([]string, 0, len(suffixes))
	for _, s := range suffixes {
		s = strings.TrimSpace(s)
		if !strings.HasPrefix(s, ".") {
			s = "." + s
		}
		normalized = append(normalized, s)
	}
	return normalized
}

// Filter reads the CSV at inputPath, keeps the records whose "name"
// value ends with at least one of the given suffixes, writes them to
// outputPath and returns the run's statistics.
//
// A non-nil error is always an *Error; expected-bad input comes back as
// a tagged kind and anything unexpected as KindInternal. The output file
// appears atomically: it is written to a temp path in the destination
// directory and renamed into place only after a complete flush.
func Filter(inputPath, outputPath string, suffixes []string) (result *Result, err error) {
	// A panic anywhere below must surface as an internal error, not a
	// process crash.
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = errInternal("filtering", fmt.Errorf("panic: %v", r))
		}
	}()

	normalized := NormalizeSuffixes(suffixes)

	info, statErr := os.Stat(inputPath)
	if statErr != nil {
		return nil, errInternal("reading input file", statErr)
	}
	originalSize := info.Size()

	ds, readErr := readDataset(inputPath)
	if readErr != nil {
		return nil, readErr
	}

	nameCol := ds.ColumnIndex(NameColumn)
	if nameCol < 0 {
		return nil, errMissingColumn()
	}

	kept := make([][]string, 0, len(ds.Records))
	for _, record := range ds.Records {
		name, ok := ds.Cell(record, nameCol)
		if !ok {
			// A record without a name cannot match any extension.
			continue
		}
		if matchesAny(name, normalized) {
			kept = append(kept, record)
		}
	}

	if writeErr := writeDataset(outputPath, ds.Header, kept); writeErr != nil {
		return nil, writeErr
	}

	outInfo, statErr := os.Stat(outputPath)
	if statErr != nil {
		return nil, errInternal("reading output file", statErr)
	}
	filteredSize := outInfo.Size()

	return &Result{
		Success:              true,
		OriginalSize:         originalSize,
		FilteredSize:         filteredSize,
		SizeReductionBytes:   originalSize - filteredSize,
		SizeReductionPercent: reductionPercent(originalSize, filteredSize),
		TotalRows:            len(ds.Records),
		FilteredRows:         len(kept),
		RowsRemoved:          len(ds.Records) - len(kept),
		ExtensionsIncluded:   normalized,
	}, nil
}

// matchesAny reports whether the trimmed, lower-cased name ends with at
// least one of the suffixes. Suffix comparison is case-insensitive.
func matchesAny(name string, suffixes []string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, suffix := range suffixes {
		if strings.HasSuffix(name, strings.ToLower(suffix)) {
			return true
		}
	}
	return false
}

// readDataset loads and validates the CSV structure. A file yielding no
// records at all is empty input; a file with a header and zero data rows
// is a valid empty dataset.
func readDataset(path string) (*Dataset, *Error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errInternal("opening input file", err)
	}
	defer f.Close()

	reader := csv.NewReader(skipBOM(f))
	records, err := reader.ReadAll()
	if err != nil {
		if _, ok := err.(*csv.ParseError); ok {
			return nil, errMalformedInput(err)
		}
		return nil, errInternal("reading input file", err)
	}

	if len(records) == 0 {
		return nil, errEmptyInput()
	}

	return &Dataset{
		Header:  records[0],
		Records: records[1:],
	}, nil
}

// writeDataset writes the header and records to a temp file next to the
// destination and renames it into place, so a failed run never leaves a
// half-written file at the output path.
func writeDataset(path string, header []string, records [][]string) *Error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".sifter-*.csv")
	if err != nil {
		return errInternal("creating output file", err)
	}
	tmpPath := tmp.Name()

	writer := csv.NewWriter(tmp)
	writer.Write(header)
	for _, record := range records {
		writer.Write(record)
	}
	writer.Flush()

	if err := writer.Error(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errInternal("writing output file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errInternal("writing output file", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errInternal("writing output file", err)
	}
	return nil
}

// reductionPercent returns the size reduction as a percentage rounded to
// one decimal place, and 0 for an empty original to avoid dividing by
// zero.
func reductionPercent(original, filtered int64) float64 {
	if original == 0 {
		return 0
	}
	percent := float64(original-filtered) / float64(original) * 100
	return math.Round(percent*10) / 10
}
