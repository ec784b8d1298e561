package remote_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo/internal/remote"
	"todo/internal/task"
	"todo/internal/testutil"
)

func TestPushCreatesListAndKeepsOrder(t *testing.T) {
	svc := testutil.NewFakeService()
	m := remote.NewMirror(svc, "todo", nil)

	local := []task.Task{
		{ID: "1", Text: "Buy milk", Deadline: "2026-10-20"},
		{ID: "2", Text: "Call mom", Completed: true},
	}
	n, err := m.Push(context.Background(), local)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	lists := svc.Lists()
	require.Len(t, lists, 1)
	assert.Equal(t, "todo", lists[0].Title)

	remoteTasks := svc.Tasks(lists[0].ID)
	require.Len(t, remoteTasks, 2)
	assert.Equal(t, "Buy milk", remoteTasks[0].Title)
	assert.Equal(t, "2026-10-20", remoteTasks[0].Due)
	assert.Equal(t, remote.StatusNeedsAction, remoteTasks[0].Status)
	assert.Equal(t, "Call mom", remoteTasks[1].Title)
	assert.Equal(t, remote.StatusCompleted, remoteTasks[1].Status)
}

func TestPushReplacesRemoteContent(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddList("L1", "Todo")
	svc.AddTask("L1", remote.Task{Title: "stale"})
	m := remote.NewMirror(svc, "todo", nil)

	_, err := m.Push(context.Background(), []task.Task{{Text: "fresh"}})
	require.NoError(t, err)

	remoteTasks := svc.Tasks("L1")
	require.Len(t, remoteTasks, 1)
	assert.Equal(t, "fresh", remoteTasks[0].Title)
}

func TestPushThenPullRoundTrip(t *testing.T) {
	svc := testutil.NewFakeService()
	m := remote.NewMirror(svc, "todo", nil)
	local := []task.Task{
		{Text: "Buy milk", Deadline: "2026-10-20"},
		{Text: "Call mom", Completed: true},
		{Text: "Water plants"},
	}

	_, err := m.Push(context.Background(), local)
	require.NoError(t, err)
	pulled, err := m.Pull(context.Background())
	require.NoError(t, err)

	assert.Equal(t, local, pulled)
}

func TestPullMissingList(t *testing.T) {
	m := remote.NewMirror(testutil.NewFakeService(), "todo", nil)

	_, err := m.Pull(context.Background())
	assert.ErrorIs(t, err, remote.ErrNotFound)
}

func TestPushReportsBackendErrors(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.CreateTaskErr = errors.New("quota exceeded")
	m := remote.NewMirror(svc, "todo", nil)

	n, err := m.Push(context.Background(), []task.Task{{Text: "Buy milk"}})
	assert.ErrorIs(t, err, svc.CreateTaskErr)
	assert.Equal(t, 0, n)
}
