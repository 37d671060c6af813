package workspace

import (
	"sync"
	"testing"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
	"github.com/KaramelBytes/datalens-cli/internal/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func sample(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New([]string{"a", "b"}, [][]float64{{1, 2, 3, 4, 5}, {2, 4, 6, 8, 10}})
	require.NoError(t, err)
	return ds
}

func TestEmptyWorkspace(t *testing.T) {
	w := New(nil)
	_, err := w.Variant(Original)
	assert.ErrorIs(t, err, ErrEmpty)
	_, err = w.Transform(transform.MinMax)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestLoadRejectsNil(t *testing.T) {
	w := New(nil)
	var got []Event
	w.Subscribe(func(e Event) { got = append(got, e) })
	err := w.Load(nil, "x.csv")
	assert.ErrorIs(t, err, dataset.ErrInvalidInput)
	assert.Empty(t, got)
	_, err = w.Variant(Original)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestLoadNotifiesAndResetsCache(t *testing.T) {
	w := New(nil)
	var got []Event
	unsub := w.Subscribe(func(e Event) { got = append(got, e) })

	require.NoError(t, w.Load(sample(t), "a.csv"))
	require.NoError(t, w.ComputeAll())
	assert.Equal(t, transform.Kinds, w.Computed())

	require.NoError(t, w.Load(sample(t), "b.csv"))
	assert.Empty(t, w.Computed())

	require.Len(t, got, 1+len(transform.Kinds)+1)
	assert.Equal(t, Event{Type: DataChanged, Source: "a.csv"}, got[0])
	assert.Equal(t, TransformCompleted, got[1].Type)
	assert.Equal(t, "z_transform", got[1].Variant)
	assert.Equal(t, DataChanged, got[len(got)-1].Type)

	unsub()
	w.Clear()
	assert.Len(t, got, 1+len(transform.Kinds)+1)
	assert.Nil(t, w.Dataset())
}

func TestVariantCachesTransform(t *testing.T) {
	w := New(nil)
	require.NoError(t, w.Load(sample(t), "mem"))
	count := 0
	w.Subscribe(func(e Event) {
		if e.Type == TransformCompleted {
			count++
		}
	})

	a, err := w.Variant("minmax")
	require.NoError(t, err)
	b, err := w.Variant("minmax")
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, 1, count)
	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75, 1}, a.Column(0))

	orig, err := w.Variant(Original)
	require.NoError(t, err)
	assert.Same(t, w.Dataset(), orig)

	_, err = w.Variant("cube_root")
	assert.ErrorIs(t, err, dataset.ErrUnknownName)
}

func TestConcurrentVariants(t *testing.T) {
	w := New(nil)
	require.NoError(t, w.Load(sample(t), "mem"))
	var wg sync.WaitGroup
	results := make([]*dataset.Dataset, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ds, err := w.Transform(transform.Kinds[i%len(transform.Kinds)])
			assert.NoError(t, err)
			results[i] = ds
		}(i)
	}
	wg.Wait()
	for i := range results {
		k := transform.Kinds[i%len(transform.Kinds)]
		cached, err := w.Transform(k)
		require.NoError(t, err)
		assert.Equal(t, cached.Column(0), results[i].Column(0))
	}
}

func TestLogsEvents(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	w := New(zap.New(core))
	require.NoError(t, w.Load(sample(t), "x.csv"))
	_, err := w.Variant("log")
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("dataset loaded").Len())
	assert.Equal(t, 1, logs.FilterMessage("transform computed").Len())
}

func TestVariantsList(t *testing.T) {
	assert.Equal(t, []string{"original", "z_transform", "minmax", "robust", "maxabs", "log"}, Variants())
}
