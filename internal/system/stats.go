package system

import (
	"fmt"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// Stats is a snapshot of this process and the host it runs on
type Stats struct {
	CPUPercent   float64
	RSSBytes     uint64
	Threads      int32
	Goroutines   int
	LogicalCPUs  int
	HostMemTotal uint64
	HostMemUsed  float64 // percent
}

// CollectStats samples the current process. Host figures are best effort.
func CollectStats() (Stats, error) {
	s := Stats{Goroutines: runtime.NumGoroutine()}

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return s, fmt.Errorf("failed to inspect process: %w", err)
	}
	if pct, err := p.CPUPercent(); err == nil {
		s.CPUPercent = pct
	}
	if mi, err := p.MemoryInfo(); err == nil {
		s.RSSBytes = mi.RSS
	}
	if n, err := p.NumThreads(); err == nil {
		s.Threads = n
	}

	if n, err := cpu.Counts(true); err == nil {
		s.LogicalCPUs = n
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		s.HostMemTotal = vm.Total
		s.HostMemUsed = vm.UsedPercent
	}
	return s, nil
}

// String formats the snapshot for the performance report
func (s Stats) String() string {
	return fmt.Sprintf("CPU: %.1f%% | RSS: %.1f MB | Threads: %d | Goroutines: %d | Host: %d CPUs, %.1f GB (%.0f%% used)",
		s.CPUPercent, float64(s.RSSBytes)/(1<<20), s.Threads, s.Goroutines,
		s.LogicalCPUs, float64(s.HostMemTotal)/(1<<30), s.HostMemUsed)
}
