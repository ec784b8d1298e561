package store_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo/internal/storage/memstore"
	"todo/internal/store"
	"todo/internal/task"
)

var fixedNow = time.Date(2026, 10, 14, 15, 4, 5, 0, time.Local)

// newStore returns a store over a fresh memstore with a fixed clock and
// sequential ids ("id-1", "id-2", ...).
func newStore(t *testing.T) (*store.Store, *memstore.Store) {
	t.Helper()
	backend := memstore.New()
	return newStoreOn(backend), backend
}

func newStoreOn(backend *memstore.Store) *store.Store {
	n := 0
	return store.New(backend,
		store.WithClock(func() time.Time { return fixedNow }),
		store.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
}

func texts(tasks []task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Text
	}
	return out
}

func TestAddValidTask(t *testing.T) {
	s, backend := newStore(t)
	ctx := context.Background()

	for _, d := range []string{"", "2026-10-14", "2027-01-01"} {
		before := s.Len()
		added, err := s.Add(ctx, "  Buy milk  ", d)
		require.NoError(t, err)

		assert.Equal(t, before+1, s.Len())
		assert.Equal(t, "Buy milk", added.Text, "text is trimmed")
		assert.Equal(t, d, added.Deadline)
		assert.False(t, added.Completed)
		assert.NotEmpty(t, added.ID)
	}
	assert.Equal(t, 3, backend.Puts())
}

func TestAddRejectsTextLength(t *testing.T) {
	s, backend := newStore(t)

	for _, text := range []string{"", "ab", "  ab  ", strings.Repeat("x", 256)} {
		_, err := s.Add(context.Background(), text, "")
		assert.ErrorIs(t, err, task.ErrInvalidTextLength, "text %q", text)
	}
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, backend.Puts())
}

func TestAddRejectsPastDeadline(t *testing.T) {
	s, backend := newStore(t)

	_, err := s.Add(context.Background(), "Pay rent", "2026-10-13")
	assert.ErrorIs(t, err, task.ErrInvalidDeadline)
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, backend.Puts())
}

func TestUpdateDeadline(t *testing.T) {
	s, backend := newStore(t)
	ctx := context.Background()
	added, err := s.Add(ctx, "Pay rent", "2026-10-20")
	require.NoError(t, err)

	err = s.UpdateDeadline(ctx, added.ID, "2026-01-01")
	assert.ErrorIs(t, err, task.ErrInvalidDeadline)
	got, _ := s.Get(added.ID)
	assert.Equal(t, "2026-10-20", got.Deadline, "failed update leaves state unchanged")
	assert.Equal(t, 1, backend.Puts())

	require.NoError(t, s.UpdateDeadline(ctx, added.ID, "2026-10-14"))
	got, _ = s.Get(added.ID)
	assert.Equal(t, "2026-10-14", got.Deadline)

	require.NoError(t, s.UpdateDeadline(ctx, added.ID, ""))
	got, _ = s.Get(added.ID)
	assert.Empty(t, got.Deadline, "empty deadline clears it")
	assert.Equal(t, 3, backend.Puts())
}

func TestUpdateText(t *testing.T) {
	s, backend := newStore(t)
	ctx := context.Background()
	added, err := s.Add(ctx, "Buy milk", "")
	require.NoError(t, err)

	assert.ErrorIs(t, s.UpdateText(ctx, added.ID, "no"), task.ErrInvalidTextLength)
	got, _ := s.Get(added.ID)
	assert.Equal(t, "Buy milk", got.Text)

	require.NoError(t, s.UpdateText(ctx, added.ID, "Buy oat milk"))
	got, _ = s.Get(added.ID)
	assert.Equal(t, "Buy oat milk", got.Text)
	assert.Equal(t, 2, backend.Puts())
}

func TestToggleTwiceRestoresFlag(t *testing.T) {
	s, backend := newStore(t)
	ctx := context.Background()
	added, err := s.Add(ctx, "Water plants", "")
	require.NoError(t, err)
	putsAfterAdd := backend.Puts()

	require.NoError(t, s.ToggleCompleted(ctx, added.ID))
	got, _ := s.Get(added.ID)
	assert.True(t, got.Completed)

	require.NoError(t, s.ToggleCompleted(ctx, added.ID))
	got, _ = s.Get(added.ID)
	assert.False(t, got.Completed)

	assert.Equal(t, 2, backend.Puts()-putsAfterAdd, "each toggle persists exactly once")
}

func TestDeleteShiftsPositions(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	for _, text := range []string{"milk", "silk", "bread"} {
		_, err := s.Add(ctx, text, "")
		require.NoError(t, err)
	}

	first, err := s.At(1)
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, first.ID))

	assert.Equal(t, []string{"silk", "bread"}, texts(s.Tasks()))
	second, err := s.At(1)
	require.NoError(t, err)
	assert.Equal(t, "silk", second.Text)
}

func TestUnknownIDIsNotFound(t *testing.T) {
	s, backend := newStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.Delete(ctx, "missing"), task.ErrNotFound)
	assert.ErrorIs(t, s.ToggleCompleted(ctx, "missing"), task.ErrNotFound)
	assert.ErrorIs(t, s.UpdateText(ctx, "missing", "valid text"), task.ErrNotFound)
	assert.ErrorIs(t, s.UpdateDeadline(ctx, "missing", ""), task.ErrNotFound)
	assert.Equal(t, 0, backend.Puts())

	_, err := s.At(0)
	assert.ErrorIs(t, err, task.ErrNotFound)
	_, err = s.At(1)
	assert.ErrorIs(t, err, task.ErrNotFound)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, backend := newStore(t)
	ctx := context.Background()
	_, err := s.Add(ctx, "Buy milk", "2026-11-01")
	require.NoError(t, err)
	b, err := s.Add(ctx, "Call mom", "")
	require.NoError(t, err)
	require.NoError(t, s.ToggleCompleted(ctx, b.ID))
	require.NoError(t, s.Save(ctx))

	fresh := newStoreOn(backend)
	require.NoError(t, fresh.Load(ctx))
	assert.Equal(t, s.Tasks(), fresh.Tasks())
}

func TestLoadMissingKeyIsEmpty(t *testing.T) {
	s, _ := newStore(t)
	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, 0, s.Len())
}

func TestLoadLegacyRecordsWithoutIDs(t *testing.T) {
	backend := memstore.New()
	backend.Seed(store.DefaultKey, `[{"text":"milk","deadline":"","completed":false},{"text":"bread","deadline":"2020-01-01","completed":true}]`)
	s := newStoreOn(backend)
	ctx := context.Background()

	require.NoError(t, s.Load(ctx))
	tasks := s.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, []string{"milk", "bread"}, texts(tasks))
	assert.Equal(t, "id-1", tasks[0].ID)
	assert.Equal(t, "id-2", tasks[1].ID)
	assert.Equal(t, "2020-01-01", tasks[1].Deadline, "past deadlines survive load")

	require.NoError(t, s.Save(ctx))
	assert.Contains(t, backend.Raw(store.DefaultKey), `"id":"id-1"`)
}

func TestLoadCorruptState(t *testing.T) {
	backend := memstore.New()
	backend.Seed(store.DefaultKey, `{not json`)
	s := newStoreOn(backend)

	err := s.Load(context.Background())
	assert.ErrorIs(t, err, task.ErrCorruptState)
	assert.Equal(t, 0, s.Len())
}

func TestPersistFailureRollsBack(t *testing.T) {
	s, backend := newStore(t)
	ctx := context.Background()
	added, err := s.Add(ctx, "Buy milk", "")
	require.NoError(t, err)

	backend.PutErr = errors.New("disk full")
	_, err = s.Add(ctx, "Buy eggs", "")
	assert.Error(t, err)
	assert.ErrorIs(t, s.ToggleCompleted(ctx, added.ID), backend.PutErr)

	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	assert.False(t, tasks[0].Completed)
}

func TestOnChangeCalledAfterEachMutation(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	calls := 0
	s.OnChange(func() {
		calls++
		// Listeners may read the store without deadlocking.
		_ = s.Tasks()
	})

	added, err := s.Add(ctx, "Buy milk", "")
	require.NoError(t, err)
	require.NoError(t, s.ToggleCompleted(ctx, added.ID))
	_, _ = s.Add(ctx, "no", "")
	require.NoError(t, s.Delete(ctx, added.ID))

	assert.Equal(t, 3, calls, "failed writes do not notify")
}

func TestReplace(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	_, err := s.Add(ctx, "old entry", "")
	require.NoError(t, err)

	err = s.Replace(ctx, []task.Task{
		{Text: "imported one", Deadline: "2001-01-01"},
		{ID: "keep", Text: "imported two", Completed: true},
	})
	require.NoError(t, err)

	tasks := s.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "2001-01-01", tasks[0].Deadline)
	assert.NotEmpty(t, tasks[0].ID)
	assert.Equal(t, "keep", tasks[1].ID)

	err = s.Replace(ctx, []task.Task{{Text: "x"}})
	assert.ErrorIs(t, err, task.ErrInvalidTextLength)
	assert.Len(t, s.Tasks(), 2)
}
