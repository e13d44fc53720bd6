package classlens

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/yacobolo/classlens/internal/engine"
	"github.com/yacobolo/classlens/internal/logging"
)

// State is the lifecycle state of a Manager.
type State int32

// Manager states. Uninitialized is never observable after NewManager.
const (
	StateUninitialized State = iota
	StateDefaultConfigured
	StateReloading
	StateConfigured
)

func (s State) String() string {
	switch s {
	case StateDefaultConfigured:
		return "default-configured"
	case StateReloading:
		return "reloading"
	case StateConfigured:
		return "configured"
	default:
		return "uninitialized"
	}
}

// Snapshot is an immutable, versioned configuration together with the
// compiler and enumerator built from it.
type Snapshot struct {
	Version    uint64
	Source     string // root directory, empty for built-in defaults
	State      State
	LoadedAt   time.Time
	Config     *Config
	Compiler   Compiler
	Enumerator Enumerator

	scanner Scanner
}

// Scanner returns the boundary scanner for the snapshot's token grammar.
func (s *Snapshot) Scanner() Scanner {
	return s.scanner
}

// Builder derives a compiler and enumerator from a configuration.
type Builder func(cfg *Config) (Compiler, Enumerator, error)

// DefaultBuilder builds the utility engine.
func DefaultBuilder(cfg *Config) (Compiler, Enumerator, error) {
	g, err := engine.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	return g, engineEnumerator{g}, nil
}

type engineEnumerator struct {
	g *engine.Generator
}

func (e engineEnumerator) Enumerate(ctx context.Context, text string, offset int) (Enumeration, error) {
	s, err := e.g.Enumerate(ctx, text, offset)
	if err != nil {
		return Enumeration{}, err
	}
	return Enumeration{Tokens: s.Items, Span: Span{Start: s.Start, End: s.End}}, nil
}

// ReloadError reports a failed reload. It matches ErrDiscovery or ErrBuild
// with errors.Is, depending on the failing stage.
type ReloadError struct {
	Root  string
	Stage error // ErrDiscovery or ErrBuild
	Err   error
}

func (e *ReloadError) Error() string {
	return fmt.Sprintf("reload %s: %v: %v", e.Root, e.Stage, e.Err)
}

func (e *ReloadError) Unwrap() []error {
	return []error{e.Stage, e.Err}
}

// ReloadResult is delivered by ReloadAsync.
type ReloadResult struct {
	Snapshot *Snapshot
	Err      error
}

// Manager owns the current Snapshot. Readers load it without locking;
// reloads build a new Snapshot and swap the pointer.
type Manager struct {
	current    atomic.Pointer[Snapshot]
	version    atomic.Uint64
	generation atomic.Uint64
	requests   atomic.Uint64
	reloading  atomic.Int32

	publishMu sync.Mutex
	published uint64 // generation of the last published reload
	group     singleflight.Group

	discoverer Discoverer
	build      Builder
	now        func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithBuilder replaces the engine builder.
func WithBuilder(b Builder) Option {
	return func(m *Manager) {
		m.build = b
	}
}

// WithClock sets the time source used for Snapshot.LoadedAt.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager returns a Manager serving the built-in defaults. d is used by
// Reload and may be nil when the configuration never changes.
func NewManager(d Discoverer, opts ...Option) (*Manager, error) {
	m := &Manager{
		discoverer: d,
		build:      DefaultBuilder,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}

	cfg := engine.DefaultConfig()
	compiler, enumerator, err := m.build(cfg)
	if err != nil {
		return nil, fmt.Errorf("build defaults: %w", err)
	}
	m.current.Store(m.newSnapshot("", StateDefaultConfigured, cfg, compiler, enumerator))
	return m, nil
}

func (m *Manager) newSnapshot(root string, state State, cfg *Config, c Compiler, e Enumerator) *Snapshot {
	return &Snapshot{
		Version:    m.version.Add(1),
		Source:     root,
		State:      state,
		LoadedAt:   m.now(),
		Config:     cfg,
		Compiler:   c,
		Enumerator: e,
		scanner:    scannerFor(c),
	}
}

// Current returns the snapshot requests should run against.
func (m *Manager) Current() *Snapshot {
	return m.current.Load()
}

// State reports StateReloading while any reload runs, otherwise the state
// of the current snapshot.
func (m *Manager) State() State {
	if m.reloading.Load() > 0 {
		return StateReloading
	}
	return m.Current().State
}

// reloadRun is the outcome of one discovery run shared by its callers.
type reloadRun struct {
	snap    *Snapshot
	started uint64 // request counter when the run began
}

// Reload discovers the configuration under rootDir and publishes a new
// snapshot. On failure the current snapshot is kept and a *ReloadError is
// returned.
//
// Concurrent reloads of the same root share one run, but a caller never
// settles for a run that began before its request: it waits for that run
// and then joins or starts a fresh one, so changes made before Reload was
// called are always read.
//
// Among successful reloads the one started last wins. A reload that
// finishes after a later-started reload has published returns
// ErrReloadSuperseded; a later-started reload that fails does not block an
// earlier one from publishing.
func (m *Manager) Reload(ctx context.Context, rootDir string) (*Snapshot, error) {
	ticket := m.requests.Add(1)
	for {
		v, err, _ := m.group.Do(rootDir, func() (any, error) {
			run := reloadRun{started: m.requests.Load()}
			snap, err := m.reload(ctx, rootDir)
			run.snap = snap
			return run, err
		})
		run := v.(reloadRun)
		if run.started >= ticket || ctx.Err() != nil {
			if err != nil {
				return nil, err
			}
			return run.snap, nil
		}
	}
}

// ReloadAsync runs Reload in the background. The channel receives exactly
// one result and is then closed.
func (m *Manager) ReloadAsync(ctx context.Context, rootDir string) <-chan ReloadResult {
	ch := make(chan ReloadResult, 1)
	go func() {
		defer close(ch)
		snap, err := m.Reload(ctx, rootDir)
		ch <- ReloadResult{Snapshot: snap, Err: err}
	}()
	return ch
}

func (m *Manager) reload(ctx context.Context, rootDir string) (*Snapshot, error) {
	gen := m.generation.Add(1)
	m.reloading.Add(1)
	defer m.reloading.Add(-1)

	if m.discoverer == nil {
		return nil, &ReloadError{Root: rootDir, Stage: ErrDiscovery, Err: errors.New("no discoverer configured")}
	}

	cfg, err := m.discoverer.Discover(ctx, rootDir)
	if err != nil {
		return nil, &ReloadError{Root: rootDir, Stage: ErrDiscovery, Err: err}
	}
	if cfg == nil {
		cfg = engine.DefaultConfig()
	}

	compiler, enumerator, err := m.build(cfg)
	if err != nil {
		return nil, &ReloadError{Root: rootDir, Stage: ErrBuild, Err: err}
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("reload %s: %w", rootDir, err)
	}

	m.publishMu.Lock()
	defer m.publishMu.Unlock()
	if m.published > gen {
		return nil, fmt.Errorf("reload %s: %w", rootDir, ErrReloadSuperseded)
	}
	m.published = gen
	snap := m.newSnapshot(rootDir, StateConfigured, cfg, compiler, enumerator)
	m.current.Store(snap)

	logging.FromContext(ctx).Debug("configuration published",
		logging.FieldRoot, rootDir,
		logging.FieldVersion, snap.Version,
		logging.FieldSources, len(cfg.Sources))
	return snap, nil
}
