// Package workspace holds the dataset a session works on together with its
// lazily computed transformations, and notifies subscribers of changes.
package workspace

import (
	"errors"
	"sort"
	"sync"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
	"github.com/KaramelBytes/datalens-cli/internal/transform"
	"go.uber.org/zap"
)

// Original names the untransformed variant.
const Original = "original"

// ErrEmpty is returned when no dataset has been loaded.
var ErrEmpty = errors.New("no dataset loaded")

// EventType identifies a workspace change.
type EventType int

const (
	DataChanged EventType = iota
	TransformCompleted
	Cleared
)

func (e EventType) String() string {
	switch e {
	case DataChanged:
		return "data_changed"
	case TransformCompleted:
		return "transform_completed"
	case Cleared:
		return "cleared"
	}
	return "unknown"
}

// Event is delivered to subscribers after the change is visible.
type Event struct {
	Type EventType
	// Variant is the transformation name for TransformCompleted.
	Variant string
	Source  string
}

// Listener receives workspace events.
type Listener func(Event)

// Workspace is safe for concurrent use.
type Workspace struct {
	mu         sync.RWMutex
	source     string
	data       *dataset.Dataset
	transforms map[transform.Kind]*dataset.Dataset

	subMu  sync.Mutex
	nextID int
	subs   map[int]Listener

	log *zap.Logger
}

// New returns an empty workspace. A nil logger disables logging.
func New(log *zap.Logger) *Workspace {
	if log == nil {
		log = zap.NewNop()
	}
	return &Workspace{
		transforms: map[transform.Kind]*dataset.Dataset{},
		subs:       map[int]Listener{},
		log:        log,
	}
}

// Subscribe registers fn and returns a function that removes it.
func (w *Workspace) Subscribe(fn Listener) (unsubscribe func()) {
	w.subMu.Lock()
	id := w.nextID
	w.nextID++
	w.subs[id] = fn
	w.subMu.Unlock()
	return func() {
		w.subMu.Lock()
		delete(w.subs, id)
		w.subMu.Unlock()
	}
}

func (w *Workspace) notify(ev Event) {
	w.subMu.Lock()
	ids := make([]int, 0, len(w.subs))
	for id := range w.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]Listener, len(ids))
	for i, id := range ids {
		fns[i] = w.subs[id]
	}
	w.subMu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

// Load replaces the dataset and drops cached transformations.
func (w *Workspace) Load(ds *dataset.Dataset, source string) error {
	if ds == nil {
		return dataset.Invalid("dataset", "nothing to load from %q", source)
	}
	w.mu.Lock()
	w.data = ds
	w.source = source
	w.transforms = map[transform.Kind]*dataset.Dataset{}
	w.mu.Unlock()
	w.log.Debug("dataset loaded", zap.String("source", source), zap.Int("rows", ds.NumRows()), zap.Int("cols", ds.NumCols()))
	w.notify(Event{Type: DataChanged, Source: source})
	return nil
}

// Clear removes the dataset.
func (w *Workspace) Clear() {
	w.mu.Lock()
	src := w.source
	w.data = nil
	w.source = ""
	w.transforms = map[transform.Kind]*dataset.Dataset{}
	w.mu.Unlock()
	w.notify(Event{Type: Cleared, Source: src})
}

// Dataset returns the original dataset, or nil if none is loaded.
func (w *Workspace) Dataset() *dataset.Dataset {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.data
}

// Source describes where the current dataset came from.
func (w *Workspace) Source() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.source
}

// Variants lists "original" followed by the transformation names.
func Variants() []string {
	return append([]string{Original}, transform.Names()...)
}

// Variant returns the original dataset or a transformation of it, computing
// and caching the transformation on first use.
func (w *Workspace) Variant(name string) (*dataset.Dataset, error) {
	if name == Original || name == "" {
		if ds := w.Dataset(); ds != nil {
			return ds, nil
		}
		return nil, ErrEmpty
	}
	k, err := transform.ParseKind(name)
	if err != nil {
		return nil, err
	}
	return w.Transform(k)
}

// Transform returns the cached transformation k, computing it if needed.
func (w *Workspace) Transform(k transform.Kind) (*dataset.Dataset, error) {
	w.mu.RLock()
	data, cached := w.data, w.transforms[k]
	w.mu.RUnlock()
	if data == nil {
		return nil, ErrEmpty
	}
	if cached != nil {
		return cached, nil
	}
	out, err := transform.Apply(data, k)
	if err != nil {
		return nil, err
	}
	w.mu.Lock()
	if w.data != data {
		// Reloaded meanwhile; hand back the result without caching it.
		w.mu.Unlock()
		return out, nil
	}
	if prev := w.transforms[k]; prev != nil {
		w.mu.Unlock()
		return prev, nil
	}
	w.transforms[k] = out
	w.mu.Unlock()
	w.log.Debug("transform computed", zap.String("kind", k.String()))
	w.notify(Event{Type: TransformCompleted, Variant: k.String(), Source: w.Source()})
	return out, nil
}

// ComputeAll fills the transformation cache for every kind.
func (w *Workspace) ComputeAll() error {
	for _, k := range transform.Kinds {
		if _, err := w.Transform(k); err != nil {
			return err
		}
	}
	return nil
}

// Computed reports which transformations are cached, in display order.
func (w *Workspace) Computed() []transform.Kind {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var out []transform.Kind
	for _, k := range transform.Kinds {
		if w.transforms[k] != nil {
			out = append(out, k)
		}
	}
	return out
}
