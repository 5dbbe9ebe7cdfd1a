package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Linux0Hat/physicium/internal/physics"
)

func recordRun(t *testing.T, st *Store, frames int) RunMetadata {
	t.Helper()
	w := physics.NewWorld(physics.DefaultConfig())
	_, err := w.AddObject(0, 10, 1, 0, 0.5, 2)
	require.NoError(t, err)
	_, err = w.AddObject(3, 0, 0, 0, 1, 5, physics.Static())
	require.NoError(t, err)

	rec, err := st.Create(RunMetadata{Scenario: "test", FrameMs: 16, Broadphase: "brute"})
	require.NoError(t, err)
	for i := 0; i < frames; i++ {
		require.NoError(t, rec.Record(w.Snapshot()))
		w.ApplyPhysic(16)
	}
	meta, err := rec.Close(map[string]float64{"energy": 1.5})
	require.NoError(t, err)
	return meta
}

func TestStore_RecordAndLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	meta := recordRun(t, st, 3)
	assert.NotEmpty(t, meta.ID)
	assert.Equal(t, 3, meta.Frames)
	assert.Equal(t, 2, meta.Bodies)

	loaded, err := st.Load(meta.ID)
	require.NoError(t, err)
	assert.Equal(t, "test", loaded.Scenario)
	assert.Equal(t, 1.5, loaded.Metrics["energy"])
	assert.True(t, meta.Timestamp.Equal(loaded.Timestamp))

	series, err := st.LoadSeries(meta.ID)
	require.NoError(t, err)
	assert.Equal(t, header(2), series.Header)
	require.Len(t, series.Rows, 3)

	assert.Equal(t, []float64{0, 0.016, 0.032}, roundAll(series.Column("time")))
	assert.Equal(t, []float64{10}, series.Column("y0")[:1])
	assert.Equal(t, []float64{3, 3, 3}, series.Column("x1"), "static body never moves")
	assert.InDelta(t, 1.0, series.Column("kinetic")[0], 1e-9)
	assert.Nil(t, series.Column("missing"))
}

func roundAll(vs []float64) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = float64(int64(v*1e6+0.5)) / 1e6
	}
	return out
}

func TestStore_List(t *testing.T) {
	st := New(t.TempDir())

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	first := recordRun(t, st, 1)
	second := recordRun(t, st, 2)

	// unfinished runs and stray directories are skipped
	_, err = st.Create(RunMetadata{Scenario: "unfinished"})
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(st.baseDir, "junk"), 0755))

	runs, err = st.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	ids := []string{runs[0].ID, runs[1].ID}
	assert.ElementsMatch(t, []string{first.ID, second.ID}, ids)
	assert.False(t, runs[0].Timestamp.Before(runs[1].Timestamp), "newest first")
}

func TestStore_RejectsBadIDs(t *testing.T) {
	st := New(t.TempDir())

	_, err := st.Load("../../etc")
	assert.ErrorIs(t, err, ErrInvalidRunID)
	_, err = st.LoadSeries("nope")
	assert.ErrorIs(t, err, ErrInvalidRunID)
}

func TestRecorder_BodyCountIsFixed(t *testing.T) {
	st := New(t.TempDir())
	rec, err := st.Create(RunMetadata{Scenario: "x"})
	require.NoError(t, err)

	require.NoError(t, rec.Record(physics.Snapshot{Bodies: make([]physics.BodyState, 1)}))
	assert.Error(t, rec.Record(physics.Snapshot{Bodies: make([]physics.BodyState, 2)}))

	meta, err := rec.Close(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, meta.Frames)
}

func TestRecorder_Discard(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	require.NoError(t, st.Init())

	kept := recordRun(t, st, 2)

	rec, err := st.Create(RunMetadata{Scenario: "aborted"})
	require.NoError(t, err)
	assert.NotEqual(t, kept.ID, rec.ID())
	require.NoError(t, rec.Discard())

	_, err = os.Stat(filepath.Join(dir, rec.ID()))
	assert.True(t, os.IsNotExist(err))

	runs, err := st.List()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, kept.ID, runs[0].ID)
}
