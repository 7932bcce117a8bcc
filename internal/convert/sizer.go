package convert

const (
	// minInitialChunk is the smallest starting chunk size regardless of memory.
	minInitialChunk = 1000

	// chunkMemoryDivisor sizes a chunk at ~7% of available memory.
	chunkMemoryDivisor = 15
)

// InitialChunkSize computes the run-wide starting chunk size from currently
// available system memory: max(1000, availableMB/15). It is a coarse
// heuristic taken once at pipeline start; each job shrinks its own copy on
// retry, this value is only ever a starting point.
func InitialChunkSize(availableMB uint64) int {
	size := int(availableMB / chunkMemoryDivisor)
	if size < minInitialChunk {
		return minInitialChunk
	}
	return size
}
