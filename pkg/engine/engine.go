package engine

import(
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/samber/lo"

	"github.com/abworrall/lutgrade/pkg/emath"
	"github.com/abworrall/lutgrade/pkg/grade"
	"github.com/abworrall/lutgrade/pkg/lut"
)

// An Entry is a loaded LUT, as held in the registry.
type Entry struct {
	ID    int
	Path  string
	Blend float64
	Table *lut.Table
}

func (e Entry)String() string {
	return fmt.Sprintf("LUT#%d[%s, blend=%.2f, %s]", e.ID, e.Path, e.Blend, e.Table)
}

// A ProgressFunc is told how far through a batch we are, in [0,1].
type ProgressFunc func(fraction float64)

// The callbacks are swapped as a unit, so a reader never sees a sink
// from one call paired with a progress func from another.
type callbacks struct {
	sink     EventSink
	progress ProgressFunc
}

// Engine owns a registry of loaded LUTs and runs grading and synthesis
// jobs against it. All methods are safe for concurrent use.
type Engine struct {
	cfg       Config

	mu        sync.Mutex
	luts      map[int]Entry
	nextID    int
	lastError string

	cb        atomic.Pointer[callbacks]
	cancel    atomic.Pointer[atomic.Bool]
}

func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %v: %w", err, ErrInitializationFailed)
	}

	e := &Engine{
		cfg:    cfg,
		luts:   map[int]Entry{},
		nextID: 1,
	}
	e.cb.Store(&callbacks{sink: NewLogSink(cfg.Verbosity)})
	e.emit(LevelDebug, "initialized engine", String("config", fmt.Sprintf("%+v", cfg.Grading)))

	return e, nil
}

func (e *Engine)Config() Config { return e.cfg }

// Close drops every LUT, callback and cancel flag, and clears the last
// error. The engine can still be used afterwards.
func (e *Engine)Close() {
	e.mu.Lock()
	e.luts = map[int]Entry{}
	e.lastError = ""
	e.mu.Unlock()

	e.cancel.Store(nil)
	e.cb.Store(&callbacks{sink: NopSink{}})
}

// LoadLUT reads a .cube file into the registry, returning its new id.
// Blend is clamped to [0,1].
func (e *Engine)LoadLUT(path string, blend float64) (int, error) {
	t, err := lut.LoadFile(path)
	if err != nil {
		return 0, e.fail(fmt.Errorf("load LUT: %w", err))
	}

	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.luts[id] = Entry{ID: id, Path: path, Blend: emath.Clamp01(blend), Table: t}
	e.mu.Unlock()

	e.emit(LevelInfo, "loaded LUT", Int("id", id), String("path", path), Float("blend", blend))
	return id, nil
}

// UnloadLUT forgets the LUT; jobs already holding it are unaffected.
// Unknown ids are ignored.
func (e *Engine)UnloadLUT(id int) {
	e.mu.Lock()
	delete(e.luts, id)
	e.mu.Unlock()

	e.emit(LevelInfo, "unloaded LUT", Int("id", id))
}

func (e *Engine)ClearLUTs() {
	e.mu.Lock()
	e.luts = map[int]Entry{}
	e.mu.Unlock()

	e.emit(LevelInfo, "cleared all LUTs")
}

// Entries lists the registry, in id order.
func (e *Engine)Entries() []Entry {
	e.mu.Lock()
	defer e.mu.Unlock()

	ids := lo.Keys(e.luts)
	sort.Ints(ids)
	return lo.Map(ids, func(id int, _ int) Entry { return e.luts[id] })
}

// resolve copies out the entries for the ids, in the order given. The
// copies stay valid even if the LUTs are unloaded mid-job.
func (e *Engine)resolve(ids []int) ([]grade.Step, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	steps := make([]grade.Step, 0, len(ids))
	for _, id := range ids {
		entry, exists := e.luts[id]
		if !exists {
			return nil, fmt.Errorf("unknown LUT id %d: %w", id, ErrInvalidLut)
		}
		steps = append(steps, grade.Step{Table: entry.Table, Blend: entry.Blend})
	}
	return steps, nil
}

// SetEventSink routes all events to s; nil silences them.
func (e *Engine)SetEventSink(s EventSink) {
	if s == nil {
		s = NopSink{}
	}
	e.swapCallbacks(func(cb callbacks) callbacks { cb.sink = s; return cb })
}

func (e *Engine)SetProgressFunc(f ProgressFunc) {
	e.swapCallbacks(func(cb callbacks) callbacks { cb.progress = f; return cb })
}

func (e *Engine)swapCallbacks(update func(callbacks) callbacks) {
	for {
		old := e.cb.Load()
		next := update(*old)
		if e.cb.CompareAndSwap(old, &next) {
			return
		}
	}
}

// SetCancelFlag installs a flag owned by the caller. Setting it to true
// makes in-flight and future jobs stop at their next checkpoint (before
// each LUT in a chain, each file in a batch, each synthesized size).
func (e *Engine)SetCancelFlag(flag *atomic.Bool) {
	e.cancel.Store(flag)
}

func (e *Engine)IsCancelled() bool {
	flag := e.cancel.Load()
	return flag != nil && flag.Load()
}

// cancelled also honours the context of the current call.
func (e *Engine)cancelled(ctx context.Context) bool {
	return e.IsCancelled() || ctx.Err() != nil
}

// LastError is the message of the most recent failure, from any
// goroutine.
func (e *Engine)LastError() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastError
}

// fail records err as the last error, reports it, and hands it back.
func (e *Engine)fail(err error) error {
	e.mu.Lock()
	e.lastError = err.Error()
	e.mu.Unlock()

	e.emit(LevelError, err.Error(), String("status", StatusOf(err).String()))
	return err
}

func (e *Engine)emit(level Level, msg string, fields ...Field) {
	cb := e.cb.Load()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("event sink panicked on %q: %v", msg, r)
		}
	}()
	cb.sink.Event(level, msg, fields...)
}

func (e *Engine)progress(fraction float64) {
	cb := e.cb.Load()
	if cb.progress == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			e.emit(LevelWarn, "progress callback panicked", String("panic", fmt.Sprint(r)))
		}
	}()
	cb.progress(fraction)
}

func (e *Engine)gradeOptions(ctx context.Context) grade.Options {
	opts := e.cfg.gradeOptions()
	opts.Cancelled = func() bool { return e.cancelled(ctx) }
	return opts
}
