package convert

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// Rows sampled before committing a worker to the full chunked conversion.
const sampleRows = 10

// ErrInvalidFile marks a file that failed sample validation.
var ErrInvalidFile = errors.New("validation failed")

// ValidateSample reads up to sampleRows rows as raw text and rejects the
// file when the sample has zero rows, zero columns, or does not parse. A
// header-only file with at least one column is valid; an empty file is not.
func ValidateSample(path string, delimiter rune) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	rows, cols := 0, 0
	for rows < sampleRows {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidFile, err)
		}
		rows++
		if len(record) > cols {
			cols = len(record)
		}
	}

	if rows == 0 || cols == 0 {
		return fmt.Errorf("%w: file is empty or has no columns", ErrInvalidFile)
	}
	return nil
}
