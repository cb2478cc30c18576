package main

import (
	"fmt"
	"io"
	"runtime"
	"slices"
	"text/template"
	"time"
)

// Report is the outcome of a bench run.
type Report struct {
	Duration time.Duration
	Level    string
	Seed     uint64

	Runs     int
	Wins     int
	Deaths   int
	Frames   int64
	BestRun  int
	Score    int
	Entities int

	TotalTime     time.Duration
	StepTime      Stats
	Systems       []SystemTime
	MemStatsStart runtime.MemStats
	MemStatsEnd   runtime.MemStats
}

// SystemTime is the accumulated time of one system across every run.
type SystemTime struct {
	Name  string
	Calls int64
	Total time.Duration
	Max   time.Duration
}

func (s SystemTime) Avg() time.Duration {
	if s.Calls == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Calls)
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	P99     time.Duration
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
		s.Min = min(s.Min, sample)
		s.Max = max(s.Max, sample)
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
	s.P99 = percentile(s.Samples, 0.99)
}

func percentile(samples []time.Duration, p float64) time.Duration {
	sorted := append([]time.Duration(nil), samples...)
	slices.Sort(sorted)
	i := int(float64(len(sorted)-1) * p)
	return sorted[i]
}

// FPS is simulated frames per wall-clock second.
func (r *Report) FPS() float64 {
	if r.TotalTime <= 0 {
		return 0
	}
	return float64(r.Frames) / r.TotalTime.Seconds()
}

const reportTemplate = `
# Flapper Bench Report

## Configuration
- **Run Duration:** {{.Duration}}
- **Level:** {{.Level}}
- **Seed:** {{.Seed}}

## Gameplay
- **Runs:** {{.Runs}} ({{.Wins}} won, {{.Deaths}} died)
- **Frames Simulated:** {{.Frames}}
- **Pipes Passed:** {{.Score}} (best run {{.BestRun}})
- **Entities In Last World:** {{.Entities}}

## Performance
- **Total Time:** {{.TotalTime}}
- **Simulated FPS:** {{printf "%.0f" .FPS}}
- **Step Time:**
  - **Avg:** {{.StepTime.Avg}}
  - **Min:** {{.StepTime.Min}}
  - **Max:** {{.StepTime.Max}}
  - **P99:** {{.StepTime.P99}}

## Systems
| System | Calls | Avg | Max |
|---|---|---|---|
{{- range .Systems}}
| {{.Name}} | {{.Calls}} | {{.Avg}} | {{.Max}} |
{{- end}}

## Memory Usage
- Heap Alloc:  {{mb .MemStatsStart.HeapAlloc}} MB (start) -> {{mb .MemStatsEnd.HeapAlloc}} MB (end)
- Total Alloc: {{mb (bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc)}} MB during the run
- Num GC:      {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
- GC Pause:    {{ns (bsub .MemStatsEnd.PauseTotalNs .MemStatsStart.PauseTotalNs)}}
`

func (r *Report) Generate(w io.Writer) error {
	fm := template.FuncMap{
		"mb": func(v uint64) string {
			return fmt.Sprintf("%.2f", float64(v)/1024/1024)
		},
		"bsub": func(a, b uint64) uint64 {
			if a < b {
				return 0
			}
			return a - b
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
