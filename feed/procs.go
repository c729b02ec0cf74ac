package feed

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/shirou/gopsutil/v3/process"
)

// Processes pages through the process table ordered by PID. The table is
// read again for every page, so pages reflect the moment they were loaded.
type Processes struct{}

func (Processes) Name() string { return "processes" }

func (Processes) Page(ctx context.Context, index, size int) ([]Entry, error) {
	if index < 0 || size <= 0 {
		return nil, nil
	}
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}
	slices.SortFunc(procs, func(a, b *process.Process) int { return int(a.Pid - b.Pid) })

	lo, hi := window(index, size, len(procs))
	entries := make([]Entry, 0, hi-lo)
	for _, p := range procs[lo:hi] {
		entries = append(entries, processEntry(ctx, p))
	}
	return entries, nil
}

func processEntry(ctx context.Context, p *process.Process) Entry {
	name, _ := p.NameWithContext(ctx)
	if name == "" {
		name = "?"
	}
	cpuPct, _ := p.CPUPercentWithContext(ctx)
	memInfo, _ := p.MemoryInfoWithContext(ctx)
	var rss uint64
	if memInfo != nil {
		rss = memInfo.RSS
	}
	cmdline, _ := p.CmdlineWithContext(ctx)

	e := Entry{
		ID:     "pid-" + strconv.Itoa(int(p.Pid)),
		Title:  name,
		Meta:   fmt.Sprintf("pid %d · cpu %.1f%% · rss %d KiB", p.Pid, cpuPct, rss/1024),
		Marker: true,
	}
	if cmdline != "" {
		e.Body = "`" + cmdline + "`"
	}
	return e
}
