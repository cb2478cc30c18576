// Package score keeps the best scores per level.
package score

import (
	"context"
	"sort"
	"time"

	"gitlab.com/tozd/go/errors"
)

var ErrUnknownDriver = errors.Base("unknown score driver")

// Entry is one finished run.
type Entry struct {
	Level  string    `yaml:"level"`
	Player string    `yaml:"player"`
	Score  int       `yaml:"score"`
	At     time.Time `yaml:"at"`
}

// Store persists entries. Submit reports whether the entry beat the
// previous best for its level.
type Store interface {
	Best(ctx context.Context, level string) (int, error)
	Submit(ctx context.Context, e Entry) (newBest bool, err error)
	Top(ctx context.Context, level string, n int) ([]Entry, error)
	Close() error
}

// Config selects and configures a Store.
type Config struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	DSN    string `yaml:"dsn"`
}

const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Open returns the store cfg.Driver names.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case DriverFile, "":
		return OpenFile(cfg.Path)
	case DriverPostgres:
		return OpenPostgres(ctx, cfg.DSN)
	case DriverMemory:
		return NewMemory(), nil
	}
	return nil, errors.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
}

func best(entries []Entry, level string) int {
	b := 0
	for _, e := range entries {
		if e.Level == level {
			b = max(b, e.Score)
		}
	}
	return b
}

// top returns up to n of level's entries, highest first; ties go to the
// earlier run.
func top(entries []Entry, level string, n int) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Level == level {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].At.Before(out[j].At)
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func stamp(e Entry) Entry {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	return e
}
