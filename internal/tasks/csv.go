package tasks

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/desertthunder/recon/internal/models"
	"github.com/desertthunder/recon/internal/shared"
)

const (
	emailColumn = "email"
	phoneColumn = "phoneNumber"
)

// ImportRow is one data line of an import file.
type ImportRow struct {
	Line     int // 1-based line number in the file, header included
	Identity models.Identity
}

// ReadCSVFile reads an import file from path. See [ReadCSV].
func ReadCSVFile(path string) ([]ImportRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	return ReadCSV(f)
}

// ReadCSV parses CSV with a header row naming an email and a phoneNumber column, in any order.
// Other columns are ignored. Empty cells are treated as absent identifiers.
func ReadCSV(r io.Reader) ([]ImportRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: missing header", shared.ErrMalformedImportFile)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrMalformedImportFile, err)
	}

	emailIdx, phoneIdx := -1, -1
	for i, col := range header {
		switch strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")) {
		case emailColumn:
			emailIdx = i
		case phoneColumn:
			phoneIdx = i
		}
	}
	if emailIdx < 0 || phoneIdx < 0 {
		return nil, fmt.Errorf("%w: header must contain %q and %q", shared.ErrMalformedImportFile, emailColumn, phoneColumn)
	}

	rows := []ImportRow{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", shared.ErrMalformedImportFile, err)
		}

		line, _ := reader.FieldPos(0)
		rows = append(rows, ImportRow{
			Line:     line,
			Identity: models.NewIdentity(strings.TrimSpace(record[emailIdx]), strings.TrimSpace(record[phoneIdx])),
		})
	}

	return rows, nil
}
