package session

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-2048/internal/storage"
	"github.com/vovakirdan/tui-2048/internal/t2048"
)

func fixedSeed() int64 { return 42 }

func newManager(t *testing.T) *Manager {
	t.Helper()
	dir := t.TempDir()
	return NewManager(Options{
		Seed: fixedSeed,
		Slots: func(id string) t2048.RecordStore {
			store, err := storage.NewFileStore(filepath.Join(dir, id+".yaml"))
			require.NoError(t, err)
			return store
		},
	})
}

func TestCreateStartsFreshGame(t *testing.T) {
	m := newManager(t)

	s, err := m.Create("Alpha")
	require.NoError(t, err)
	assert.Equal(t, "alpha", s.ID)

	snap := s.Snapshot()
	assert.Equal(t, 0, snap.Score)
	assert.False(t, snap.Over)
	assert.Equal(t, 2, snap.Grid.Count())
}

func TestCreateGeneratesID(t *testing.T) {
	m := newManager(t)

	a, err := m.Create("")
	require.NoError(t, err)
	b, err := m.Create("")
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestCreateDuplicate(t *testing.T) {
	m := newManager(t)

	_, err := m.Create("game")
	require.NoError(t, err)
	_, err = m.Create("GAME")
	assert.ErrorIs(t, err, ErrSessionAlreadyExists)
}

func TestCreateInvalidID(t *testing.T) {
	m := newManager(t)

	for _, id := range []string{"has space", "a/b", string(make([]byte, maxIDLength+1))} {
		_, err := m.Create(id)
		assert.ErrorIs(t, err, ErrInvalidSessionID, "id %q", id)
	}
}

func TestGetCaseInsensitive(t *testing.T) {
	m := newManager(t)

	created, err := m.Create("MixedCase")
	require.NoError(t, err)

	got, err := m.Get("MIXEDCASE")
	require.NoError(t, err)
	assert.Same(t, created, got)

	_, err = m.Get("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestGetOrCreate(t *testing.T) {
	m := newManager(t)

	first, err := m.GetOrCreate("abc")
	require.NoError(t, err)
	second, err := m.GetOrCreate("ABC")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, m.Len())
}

func TestListAndDelete(t *testing.T) {
	m := newManager(t)

	for _, id := range []string{"one", "two", "three"} {
		_, err := m.Create(id)
		require.NoError(t, err)
	}
	assert.Len(t, m.List(), 3)

	require.NoError(t, m.Delete("TWO"))
	assert.ErrorIs(t, m.Delete("two"), ErrSessionNotFound)

	ids := make([]string, 0)
	for _, s := range m.List() {
		ids = append(ids, s.ID)
	}
	assert.ElementsMatch(t, []string{"one", "three"}, ids)
}

func TestCleanupExpired(t *testing.T) {
	m := newManager(t)

	stale, err := m.Create("stale")
	require.NoError(t, err)
	_, err = m.Create("fresh")
	require.NoError(t, err)

	stale.mu.Lock()
	stale.lastAccessedAt = time.Now().Add(-time.Hour)
	stale.mu.Unlock()

	assert.Equal(t, 1, m.CleanupExpired(time.Minute))
	_, err = m.Get("stale")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = m.Get("fresh")
	assert.NoError(t, err)
}

func TestDoMovesGame(t *testing.T) {
	m := newManager(t)
	s, err := m.Create("mover")
	require.NoError(t, err)

	before := s.Snapshot()
	moved := false
	for _, dir := range t2048.Directions {
		err := s.Do(func(st *t2048.State) error {
			moved, _ = st.ApplyMove(dir)
			return nil
		})
		require.NoError(t, err)
		if moved {
			break
		}
	}
	require.True(t, moved, "a fresh two-tile board always has a legal move")
	assert.NotEqual(t, before.Grid, s.Snapshot().Grid)
}

func TestDoPropagatesError(t *testing.T) {
	m := newManager(t)
	s, err := m.Create("err")
	require.NoError(t, err)

	boom := errors.New("boom")
	assert.ErrorIs(t, s.Do(func(*t2048.State) error { return boom }), boom)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	m := newManager(t)
	s, err := m.Create("saver")
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx))
	saved := s.Snapshot()

	require.NoError(t, s.Do(func(st *t2048.State) error {
		st.Restart()
		return nil
	}))
	require.NoError(t, s.Load(ctx))

	assert.Equal(t, saved.Grid, s.Snapshot().Grid)
	assert.Equal(t, saved.Score, s.Snapshot().Score)
}

func TestLoadWithoutSave(t *testing.T) {
	m := newManager(t)
	s, err := m.Create("empty")
	require.NoError(t, err)

	err = s.Load(context.Background())
	var loadErr *t2048.LoadError
	assert.ErrorAs(t, err, &loadErr)
	assert.ErrorIs(t, err, t2048.ErrNoSavedGame)
}

func TestNoSlot(t *testing.T) {
	m := NewManager(Options{Seed: fixedSeed})
	s, err := m.Create("x")
	require.NoError(t, err)

	assert.ErrorIs(t, s.Save(context.Background()), ErrNoStore)
	assert.ErrorIs(t, s.Load(context.Background()), ErrNoStore)
}

func TestConcurrentAccess(t *testing.T) {
	m := newManager(t)
	s, err := m.Create("shared")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				dir := t2048.Directions[(i+j)%len(t2048.Directions)]
				_ = s.Do(func(st *t2048.State) error {
					st.OnDirection(dir)
					return nil
				})
				_ = s.Snapshot()
				_, _ = m.GetOrCreate("shared")
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, m.Len())
}

func TestApplyCommands(t *testing.T) {
	m := newManager(t)
	s, err := m.Create("cmd")
	require.NoError(t, err)
	ctx := context.Background()

	res, err := s.Apply(ctx, Command{Action: "STATE"})
	require.NoError(t, err)
	assert.Equal(t, ActionState, res.Action)
	assert.Equal(t, 2, res.Snapshot.Grid.Count())

	moved := false
	for _, dir := range []string{"Left", "right", "up", "down"} {
		res, err = s.Apply(ctx, Command{Action: ActionMove, Direction: dir})
		require.NoError(t, err)
		if res.Moved {
			moved = true
			break
		}
	}
	assert.True(t, moved)
	wantTiles := 3
	if res.ScoreDelta > 0 {
		wantTiles = 2
	}
	assert.Equal(t, wantTiles, res.Snapshot.Grid.Count())

	_, err = s.Apply(ctx, Command{Action: ActionSave})
	require.NoError(t, err)
	saved := s.Snapshot()

	res, err = s.Apply(ctx, Command{Action: ActionRestart})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Snapshot.Score)

	res, err = s.Apply(ctx, Command{Action: ActionLoad})
	require.NoError(t, err)
	assert.Equal(t, saved.Grid, res.Snapshot.Grid)
}

func TestApplyRejectsBadInput(t *testing.T) {
	m := newManager(t)
	s, err := m.Create("bad")
	require.NoError(t, err)
	before := s.Snapshot()

	_, err = s.Apply(context.Background(), Command{Action: ActionMove, Direction: "diagonal"})
	assert.ErrorIs(t, err, ErrInvalidDirection)

	_, err = s.Apply(context.Background(), Command{Action: "undo"})
	assert.ErrorIs(t, err, ErrUnknownAction)

	assert.Equal(t, before, s.Snapshot())
}

func TestCommandMutates(t *testing.T) {
	assert.True(t, Command{Action: ActionMove}.Mutates())
	assert.True(t, Command{Action: "Restart"}.Mutates())
	assert.True(t, Command{Action: ActionLoad}.Mutates())
	assert.False(t, Command{Action: ActionSave}.Mutates())
	assert.False(t, Command{Action: ActionState}.Mutates())
}
