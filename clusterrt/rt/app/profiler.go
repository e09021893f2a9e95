package app

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"
)

// smoothing is the weight of the newest sample in a scope's running average.
const smoothing = 0.1

// Profiler keeps CPU timings of named frame scopes and integer counters.
type Profiler struct {
	Last    map[string]time.Duration
	Average map[string]time.Duration
	Counts  map[string]int
	Order   []string

	starts map[string]time.Time
	now    func() time.Time
}

func NewProfiler() *Profiler {
	return &Profiler{
		Last:    make(map[string]time.Duration),
		Average: make(map[string]time.Duration),
		Counts:  make(map[string]int),
		starts:  make(map[string]time.Time),
		now:     time.Now,
	}
}

func (p *Profiler) BeginScope(name string) {
	p.starts[name] = p.now()
	if !slices.Contains(p.Order, name) {
		p.Order = append(p.Order, name)
	}
}

func (p *Profiler) EndScope(name string) {
	start, ok := p.starts[name]
	if !ok {
		return
	}
	delete(p.starts, name)

	d := p.now().Sub(start)
	p.Last[name] = d
	if avg, seen := p.Average[name]; seen {
		p.Average[name] = avg + time.Duration(smoothing*float64(d-avg))
	} else {
		p.Average[name] = d
	}
}

func (p *Profiler) SetCount(name string, count int) {
	p.Counts[name] = count
}

func (p *Profiler) GetStatsString() string {
	var sb strings.Builder

	sb.WriteString("Timings (CPU):\n")
	for _, name := range p.Order {
		last := float64(p.Last[name].Microseconds()) / 1000.0
		avg := float64(p.Average[name].Microseconds()) / 1000.0
		sb.WriteString(fmt.Sprintf("  %-15s: %.2f ms (avg %.2f)\n", name, last, avg))
	}

	sb.WriteString("\nStats:\n")
	keys := make([]string, 0, len(p.Counts))
	for k := range p.Counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("  %-15s: %d\n", k, p.Counts[k]))
	}

	return sb.String()
}
