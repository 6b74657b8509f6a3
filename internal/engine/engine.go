// Package engine runs one analysis: it loads a spawn log from the cache or
// the parser, aggregates it and builds the report.
package engine

import (
	"fmt"
	"io"
	"os"

	"github.com/lawnchairsociety/roguestats/internal/cache"
	"github.com/lawnchairsociety/roguestats/internal/history"
	"github.com/lawnchairsociety/roguestats/internal/logger"
	"github.com/lawnchairsociety/roguestats/internal/report"
	"github.com/lawnchairsociety/roguestats/internal/spawnlog"
	"github.com/lawnchairsociety/roguestats/internal/stats"
)

// Source names the input of one run. Name "" or "-" is standard input; a
// nil Reader with a file name opens the file.
type Source struct {
	Name   string
	Reader io.Reader
}

// Stdin returns the standard input source.
func Stdin() Source {
	return Source{Name: "-", Reader: os.Stdin}
}

// File returns the source for a named file.
func File(path string) Source {
	if path == "" || path == "-" {
		return Stdin()
	}
	return Source{Name: path}
}

// IsStdin reports whether src reads standard input.
func (src Source) IsStdin() bool {
	return src.Name == "" || src.Name == "-"
}

// Recorder persists a completed run.
type Recorder interface {
	RecordRun(run history.Run) (history.Run, error)
}

// Result is the outcome of one analysis.
type Result struct {
	Log          *spawnlog.Log
	Distribution *stats.Distribution
	Report       *report.Report
	CacheHit     bool
	Fingerprint  cache.Fingerprint
}

// Engine ties the cache, the aggregator and the history together.
type Engine struct {
	cache    *cache.Store
	recorder Recorder
}

// Option configures an Engine.
type Option func(*Engine)

// WithRecorder records every successful analysis.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		e.recorder = r
	}
}

// New creates an engine. A nil store disables caching.
func New(store *cache.Store, opts ...Option) *Engine {
	e := &Engine{cache: store}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load returns the spawn log for src, from the cache when the file is
// unchanged and from the parser otherwise.
func (e *Engine) Load(src Source) (*spawnlog.Log, cache.Fingerprint, bool, error) {
	var fp cache.Fingerprint
	if !src.IsStdin() {
		if f, ok := cache.FingerprintFor(src.Name); ok {
			fp = f
		}
	}

	if log, ok := e.cache.Lookup(fp); ok {
		return log, fp, true, nil
	}

	log, err := e.parse(src)
	if err != nil {
		return nil, fp, false, err
	}
	e.cache.Store(fp, log)
	return log, fp, false, nil
}

func (e *Engine) parse(src Source) (*spawnlog.Log, error) {
	r := src.Reader
	if r == nil {
		logger.Debug("Reading spawn log", "path", src.Name)
		f, err := os.Open(src.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to open spawn log: %w", err)
		}
		defer f.Close()
		r = f
	}

	name := src.Name
	if src.IsStdin() {
		name = ""
	}
	return spawnlog.Parse(r, name)
}

// Analyze loads src and derives every view with the given weights.
func (e *Engine) Analyze(src Source, w stats.Weights) (*Result, error) {
	log, fp, hit, err := e.Load(src)
	if err != nil {
		return nil, err
	}

	w = stats.NewWeights(w.Level, w.Wander)
	dist := stats.Aggregate(log.Table, w)
	res := &Result{
		Log:          log,
		Distribution: dist,
		Report:       report.Build(log.Header, dist),
		CacheHit:     hit,
		Fingerprint:  fp,
	}

	h := log.Header
	logger.Info("Analyzed spawn log",
		"filename", h.Filename,
		"levels", h.Levels,
		"lines", h.Lines,
		"monsters_per_line", h.MonstersPerLine,
		"total_monsters", h.TotalMonsters,
		"cache_hit", hit)

	e.record(res)
	return res, nil
}

func (e *Engine) record(res *Result) {
	if e.recorder == nil {
		return
	}
	run := history.Run{
		Source:        res.Log.Header.Filename,
		Levels:        res.Log.Header.Levels,
		TotalMonsters: res.Log.Header.TotalMonsters,
		LevelWeight:   float64(res.Distribution.Weights.Level),
		WanderWeight:  float64(res.Distribution.Weights.Wander),
		CacheHit:      res.CacheHit,
	}
	if res.Fingerprint.Valid() {
		run.Fingerprint = res.Fingerprint.Key()
	}
	if run.Source == "" {
		run.Source = "-"
	}
	if _, err := e.recorder.RecordRun(run); err != nil {
		logger.Warning("Could not record run", "error", err)
	}
}
