package utils

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/mem"
)

// AvailableMemoryMB returns the currently available system memory in MB.
// Returns 0 when the probe fails; callers fall back to their own floor.
func AvailableMemoryMB() uint64 {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0
	}
	return vm.Available / (1024 * 1024)
}

// MemorySnapshot renders the current system memory usage for the run summary,
// e.g. "Memory Usage: 42.1% of 15.61 GB".
func MemorySnapshot() string {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return "Memory Usage: unavailable"
	}
	return fmt.Sprintf("Memory Usage: %.1f%% of %.2f GB",
		vm.UsedPercent, float64(vm.Total)/(1024*1024*1024))
}
