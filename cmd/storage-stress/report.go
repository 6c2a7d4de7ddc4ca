package main

import (
	"io"
	"runtime"
	"sort"
	"text/template"
	"time"

	"github.com/plus3/compstore/ecs"
)

type Report struct {
	// Configuration
	Duration  time.Duration
	Frames    int
	Entities  int
	Workers   int
	ChurnRate float64

	// Results
	TotalUpdates   int64
	TotalTime      time.Duration
	UpdateTime     Stats
	Types          []ecs.TypeStats
	TotalSlots     int
	TotalFilled    int
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		if sample < s.Min {
			s.Min = sample
		}
		if sample > s.Max {
			s.Max = sample
		}
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

// newReport creates a report for cfg with its samples and storage breakdown
// merged from every worker. Per-type figures are summed by type name.
func newReport(cfg Config, results []*workerResult) *Report {
	r := &Report{
		Duration:       cfg.Duration,
		Frames:         cfg.Frames,
		Entities:       cfg.Entities,
		Workers:        cfg.Workers,
		ChurnRate:      cfg.ChurnRate,
		GCPauseMetrics: cfg.GCPauseMetrics,
		UpdateTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	byName := make(map[string]*ecs.TypeStats)
	for _, res := range results {
		if res == nil {
			continue
		}
		r.TotalUpdates += res.Frames
		r.UpdateTime.Samples = append(r.UpdateTime.Samples, res.Samples...)
		if res.Stats == nil {
			continue
		}

		r.TotalSlots += res.Stats.TotalSlots
		r.TotalFilled += res.Stats.TotalFilled
		for _, ts := range res.Stats.Types {
			merged, ok := byName[ts.Name]
			if !ok {
				merged = &ecs.TypeStats{Type: ts.Type, Name: ts.Name}
				byName[ts.Name] = merged
			}
			merged.Len += ts.Len
			merged.Count += ts.Count
			merged.Blocks += ts.Blocks
		}
	}

	for _, ts := range byName {
		r.Types = append(r.Types, *ts)
	}
	sort.Slice(r.Types, func(i, j int) bool { return r.Types[i].Name < r.Types[j].Name })

	r.UpdateTime.Finalize()
	return r
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Component Storage Stress Test Report

## Test Configuration
- **Run Duration:** {{.Duration}}
- **Frame Limit:** {{if .Frames}}{{.Frames}}{{else}}none{{end}}
- **Entities Per Worker:** {{.Entities}}
- **Workers:** {{.Workers}}
- **Churn Rate:** {{.ChurnRate}}

## Performance Results
- **Total Updates:** {{.TotalUpdates}}
- **Total Test Time:** {{.TotalTime}}
- **Update Time (Frame):**
  - **Avg:** {{.UpdateTime.Avg}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}

## Component Arrays
- **Total Slots:** {{.TotalSlots}}
- **Filled Slots:** {{.TotalFilled}}
{{range .Types}}- {{.Name}}: {{.Count}}/{{.Len}} filled, {{.Blocks}} blocks
{{end}}
## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Sys Memory:     {{.MemStatsStart.Sys}} (start) -> {{.MemStatsEnd.Sys}} (end) -> delta: {{bsub .MemStatsEnd.Sys .MemStatsStart.Sys}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}

{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
- **Num GC Cycles:** {{ usub .MemStatsEnd.NumGC .MemStatsStart.NumGC }}
{{end}}
`

	fm := template.FuncMap{
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
