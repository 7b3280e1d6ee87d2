// Package profiler aggregates named scope timings per frame window. The
// sandbox uses it to report how long rendering and batch flushes take.
package profiler

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"sort"
	"sync"
	"time"
)

// Scope is the aggregate of every Start/end pair recorded under one name.
type Scope struct {
	Name  string        `json:"name"`
	Count int           `json:"count"`
	Total time.Duration `json:"total_ns"`
	Max   time.Duration `json:"max_ns"`
}

// Mean returns the average duration of one scope.
func (s Scope) Mean() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

// Profiler is safe for concurrent use.
type Profiler struct {
	mu     sync.Mutex
	scopes map[string]*Scope
	now    func() time.Time
}

func New() *Profiler {
	return &Profiler{scopes: map[string]*Scope{}, now: time.Now}
}

// Start begins a scope and returns an end func to be deferred.
func (p *Profiler) Start(name string) func() {
	begin := p.now()
	return func() { p.Record(name, p.now().Sub(begin)) }
}

// Record adds one sample of d to the named scope.
func (p *Profiler) Record(name string, d time.Duration) {
	if d < 0 {
		d = 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.scopes[name]
	if !ok {
		s = &Scope{Name: name}
		p.scopes[name] = s
	}
	s.Count++
	s.Total += d
	if d > s.Max {
		s.Max = d
	}
}

// Snapshot returns the scopes sorted by name.
func (p *Profiler) Snapshot() []Scope {
	p.mu.Lock()
	out := make([]Scope, 0, len(p.scopes))
	for _, s := range p.scopes {
		out = append(out, *s)
	}
	p.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Reset drops every recorded sample.
func (p *Profiler) Reset() {
	p.mu.Lock()
	clear(p.scopes)
	p.mu.Unlock()
}

// Dump writes the current snapshot as indented JSON to path.
func (p *Profiler) Dump(path string) error {
	scopes := p.Snapshot()
	if len(scopes) == 0 {
		return fmt.Errorf("profiler: no scopes to dump")
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(scopes); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func MemoryUsage() uint64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.Alloc
}

func MemoryAllocs() uint64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.Mallocs
}

func NumGoroutine() int {
	return runtime.NumGoroutine()
}
