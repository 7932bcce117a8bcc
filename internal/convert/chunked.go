package convert

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"

	"excelerate/internal/model"
)

// Name of the single sheet every output workbook carries.
const sheetName = "Sheet1"

// ChunkedConverter streams a validated CSV file into an output workbook in
// bounded-size row chunks, so peak memory is O(chunk size) rather than
// O(file size). Before each chunk is gathered the guard must approve the
// allocation; a refusal surfaces as StatusResourceExhausted and is handled
// by the retry controller.
type ChunkedConverter struct {
	Guard MemoryGuard
}

// NewChunkedConverter creates a converter with the given guard, defaulting
// to the live system memory guard.
func NewChunkedConverter(guard MemoryGuard) *ChunkedConverter {
	if guard == nil {
		guard = NewSystemGuard()
	}
	return &ChunkedConverter{Guard: guard}
}

// Convert runs one full conversion attempt for the job. Either the whole
// file is converted and the workbook saved at job.OutputPath, or nothing
// is: the workbook is only written on success, and the caller removes any
// leftover artifact on failure. Rows are appended in source order, header
// first, every cell as normalized text.
func (c *ChunkedConverter) Convert(ctx context.Context, job *model.ConversionJob) Result {
	file, err := os.Open(job.Source.Path)
	if err != nil {
		return fatal(fmt.Errorf("cannot open %s: %w", job.Source.Path, err))
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = job.Source.Delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	workbook := excelize.NewFile()
	defer workbook.Close()

	writer, err := workbook.NewStreamWriter(sheetName)
	if err != nil {
		return fatal(fmt.Errorf("cannot open stream writer: %w", err))
	}

	// The header row is read ahead so the guard can estimate the chunk
	// footprint from the real column count. It is written with chunk 0.
	header, err := reader.Read()
	if err == io.EOF {
		header = nil
	} else if err != nil {
		return fatal(fmt.Errorf("cannot read header of %s: %w", job.Source.Path, err))
	}

	rowNum := 1
	eof := header == nil
	for chunkIndex := 0; !eof; chunkIndex++ {
		if err := ctx.Err(); err != nil {
			return fatal(err)
		}
		if !c.Guard.Reserve(job.ChunkSize, len(header)) {
			return exhausted()
		}

		chunk := make([][]string, 0, job.ChunkSize)
		if chunkIndex == 0 {
			chunk = append(chunk, header)
		}
		for len(chunk) < job.ChunkSize {
			record, err := reader.Read()
			if err == io.EOF {
				eof = true
				break
			}
			if err != nil {
				return fatal(fmt.Errorf("read error in %s: %w", job.Source.Path, err))
			}
			chunk = append(chunk, record)
		}

		for _, record := range chunk {
			row := make([]interface{}, len(record))
			for i, cell := range record {
				row[i] = NormalizeCell(cell)
			}
			cellRef, err := excelize.CoordinatesToCellName(1, rowNum)
			if err != nil {
				return fatal(err)
			}
			if err := writer.SetRow(cellRef, row); err != nil {
				return fatal(fmt.Errorf("cannot append row %d: %w", rowNum, err))
			}
			rowNum++
		}
	}

	if err := writer.Flush(); err != nil {
		return fatal(fmt.Errorf("cannot finalize workbook: %w", err))
	}
	if err := workbook.SaveAs(job.OutputPath); err != nil {
		return fatal(fmt.Errorf("cannot save %s: %w", job.OutputPath, err))
	}
	return ok(rowNum - 1)
}
