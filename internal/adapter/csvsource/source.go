// Package csvsource reads the combined detection CSV into raw, header-keyed rows.
package csvsource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/couchcryptid/wildfire-data/internal/domain"
)

// ErrNoHeader is returned for an input without a header line.
var ErrNoHeader = errors.New("csv has no header row")

// Source reads raw rows from a delimited-text file.
type Source struct {
	path string
}

// New returns a Source for the file at path.
func New(path string) *Source {
	return &Source{path: path}
}

// Path is the file the source reads.
func (s *Source) Path() string {
	return s.path
}

// Load opens the file and decodes every row. The context is checked between rows.
func (s *Source) Load(ctx context.Context) ([]domain.RawRow, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	rows, err := Decode(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	return rows, nil
}

// Decode reads a header line and keys each following record by it. Short
// records leave trailing columns absent, which the parser treats as missing.
func Decode(ctx context.Context, r io.Reader) ([]domain.RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	var rows []domain.RawRow //nolint:prealloc // size depends on file contents
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		row := make(domain.RawRow, len(columns))
		for i, v := range record {
			if i >= len(columns) {
				break
			}
			row[columns[i]] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}
