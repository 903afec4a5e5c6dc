package keyword

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"
)

// Load reads keywords from path, choosing the reader by file extension.
// The returned words are normalized; blank cells and lines become "".
func Load(path string) ([]string, error) {
	file, err := os.Open(path) //nolint:gosec // path is user-supplied by design
	if err != nil {
		return nil, fmt.Errorf("failed to open keyword file: %w", err)
	}
	defer file.Close()

	var words []string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		words, err = LoadXLSX(file)
	case ".csv":
		words, err = LoadCSV(file)
	case ".txt":
		words, err = LoadText(file)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read keywords from %s: %w", path, err)
	}
	return words, nil
}

// LoadXLSX reads the first column of the first sheet of a workbook.
// Each row yields one keyword; rows without a first cell yield "".
func LoadXLSX(r io.Reader) ([]string, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}

	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	words := make([]string, 0, len(rows))
	for _, row := range rows {
		words = append(words, firstCell(row))
	}
	return words, nil
}

// LoadCSV reads the first field of every record.
// Records may have differing field counts.
func LoadCSV(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	words := make([]string, 0)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse csv: %w", err)
		}
		words = append(words, firstCell(record))
	}
	return words, nil
}

// LoadText reads one keyword per line. Lines starting with '#' are comments.
func LoadText(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	words := make([]string, 0)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		words = append(words, Normalize(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read text: %w", err)
	}
	return words, nil
}

func firstCell(row []string) string {
	if len(row) == 0 {
		return ""
	}
	return Normalize(row[0])
}

// maxParallelLoads bounds concurrent keyword file reads.
const maxParallelLoads = 4

// LoadAll reads every path concurrently and returns their keywords in the
// order of paths. The first failure cancels the remaining loads.
func LoadAll(ctx context.Context, paths ...string) ([]string, error) {
	results := make([][]string, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelLoads)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			words, err := Load(path)
			if err != nil {
				return err
			}
			results[i] = words
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return slices.Concat(results...), nil
}
