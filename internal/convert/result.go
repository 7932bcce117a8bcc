// Package convert implements the per-file conversion core: delimiter
// detection, sample validation, chunked CSV-to-workbook streaming, and the
// memory-pressure retry loop around it.
package convert

import "excelerate/pkg/utils"

// Status classifies the outcome of a conversion attempt. The retry
// controller dispatches on the variant instead of inspecting error types,
// since "out of memory" is not a catchable condition in Go.
type Status int

const (
	StatusOK Status = iota
	StatusResourceExhausted // retryable: shrink the chunk and restart the file
	StatusFatal             // terminal: recorded as a per-file failure
)

// Result is the outcome of one conversion attempt.
type Result struct {
	Status Status
	Rows   int // rows written to the workbook, header included
	Err    error
}

func ok(rows int) Result     { return Result{Status: StatusOK, Rows: rows} }
func exhausted() Result      { return Result{Status: StatusResourceExhausted} }
func fatal(err error) Result { return Result{Status: StatusFatal, Err: err} }

// MemoryGuard approves a chunk allocation before it happens. Returning false
// signals resource exhaustion for the current chunk size.
type MemoryGuard interface {
	Reserve(rows, cols int) bool
}

// Estimated in-memory footprint of one string cell, including slice overhead.
const bytesPerCell = 64

// SystemGuard approves allocations against currently available system
// memory: a chunk may use at most 1/15th (~7%) of what is available at the
// time of the check.
type SystemGuard struct {
	AvailableMB func() uint64
}

// NewSystemGuard returns a guard backed by the live system memory probe.
func NewSystemGuard() *SystemGuard {
	return &SystemGuard{AvailableMB: utils.AvailableMemoryMB}
}

// Reserve reports whether rows x cols string cells fit the memory budget.
// When the probe is unavailable the guard approves; conversion should not
// stall on a metrics failure.
func (g *SystemGuard) Reserve(rows, cols int) bool {
	avail := g.AvailableMB()
	if avail == 0 {
		return true
	}
	if cols < 1 {
		cols = 1
	}
	needMB := uint64(rows) * uint64(cols) * bytesPerCell / (1 << 20)
	return needMB <= avail/chunkMemoryDivisor
}
