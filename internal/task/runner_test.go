package task

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnflow/learnflow-api/internal/domain"
)

// fakeTask is a scripted Task for runner tests.
type fakeTask struct {
	id      uuid.UUID
	ownerID uuid.UUID
	err     error
	started chan struct{}
	block   chan struct{}
	ran     atomic.Bool
}

func newFakeTask(err error) *fakeTask {
	return &fakeTask{id: uuid.New(), ownerID: uuid.New(), err: err}
}

func (f *fakeTask) ID() uuid.UUID         { return f.id }
func (f *fakeTask) Type() domain.TaskType { return domain.TaskTypeArticle }
func (f *fakeTask) OwnerID() uuid.UUID    { return f.ownerID }

func (f *fakeTask) Execute(ctx context.Context) error {
	f.ran.Store(true)
	if f.started != nil {
		close(f.started)
	}
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
		}
	}
	return f.err
}

func runnerFixture(t *testing.T, workers int) (*Runner, *Tracker, *memoryTaskStore) {
	t.Helper()
	taskStore := newMemoryTaskStore()
	tracker := startTracker(t, taskStore, 100)

	runner, err := NewRunner(tracker, RunnerConfig{WorkerCount: workers, QueueSize: 10}, testLogger())
	require.NoError(t, err)
	require.NoError(t, runner.Start(context.Background()))
	t.Cleanup(runner.Stop)
	return runner, tracker, taskStore
}

// registerRecord creates the progress record a service would have
// created before submitting the task.
func registerRecord(t *testing.T, tracker *Tracker, task Task) {
	t.Helper()
	record, err := domain.NewGenerationTask(task.OwnerID(), task.Type(), "topic", 0)
	require.NoError(t, err)
	record.ID = task.ID()
	require.NoError(t, tracker.Create(context.Background(), record))
}

func waitForStatus(t *testing.T, tracker *Tracker, id uuid.UUID, want domain.TaskStatus) *domain.GenerationTask {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		tracker.Sync()
		got, err := tracker.GetStatus(context.Background(), id)
		require.NoError(t, err)
		if got.Status == want {
			return got
		}
		select {
		case <-deadline:
			t.Fatalf("task %s never reached %s, still %s", id, want, got.Status)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestRunnerProcessesTasks(t *testing.T) {
	runner, tracker, _ := runnerFixture(t, 2)

	task := newFakeTask(nil)
	registerRecord(t, tracker, task)

	require.NoError(t, runner.Submit(context.Background(), task))
	got := waitForStatus(t, tracker, task.ID(), domain.TaskStatusCompleted)

	assert.True(t, task.ran.Load())
	assert.Empty(t, got.Error)
}

func TestRunnerMarksFailedTasks(t *testing.T) {
	runner, tracker, _ := runnerFixture(t, 1)

	task := newFakeTask(errors.New("generation blew up"))
	registerRecord(t, tracker, task)

	require.NoError(t, runner.Submit(context.Background(), task))
	got := waitForStatus(t, tracker, task.ID(), domain.TaskStatusFailed)

	assert.Equal(t, "generation blew up", got.Error)
}

func TestRunnerQueueFull(t *testing.T) {
	taskStore := newMemoryTaskStore()
	tracker := startTracker(t, taskStore, 100)

	// Workers never started, so the queue only drains by capacity.
	runner, err := NewRunner(tracker, RunnerConfig{WorkerCount: 1, QueueSize: 1}, testLogger())
	require.NoError(t, err)
	t.Cleanup(runner.Stop)

	first := newFakeTask(nil)
	second := newFakeTask(nil)
	require.NoError(t, runner.Submit(context.Background(), first))

	err = runner.Submit(context.Background(), second)
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestRunnerStartFailsOrphans(t *testing.T) {
	taskStore := newMemoryTaskStore()
	tracker := startTracker(t, taskStore, 100)

	orphan, err := domain.NewGenerationTask(uuid.New(), domain.TaskTypeDocument, "topic", 5)
	require.NoError(t, err)
	orphan.Status = domain.TaskStatusRunning
	require.NoError(t, taskStore.Create(context.Background(), orphan))

	runner, err := NewRunner(tracker, DefaultRunnerConfig(), testLogger())
	require.NoError(t, err)
	require.NoError(t, runner.Start(context.Background()))
	t.Cleanup(runner.Stop)

	got, err := taskStore.GetByID(context.Background(), orphan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusFailed, got.Status)
}

func TestRunnerStopWaitsForRunningTask(t *testing.T) {
	taskStore := newMemoryTaskStore()
	tracker := startTracker(t, taskStore, 100)

	runner, err := NewRunner(tracker, RunnerConfig{WorkerCount: 1, QueueSize: 10}, testLogger())
	require.NoError(t, err)
	require.NoError(t, runner.Start(context.Background()))

	task := newFakeTask(nil)
	task.started = make(chan struct{})
	task.block = make(chan struct{})
	registerRecord(t, tracker, task)

	require.NoError(t, runner.Submit(context.Background(), task))
	<-task.started

	stopped := make(chan struct{})
	go func() {
		runner.Stop()
		close(stopped)
	}()

	// Stop cancels the runner context, which unblocks the task.
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop")
	}
	assert.True(t, task.ran.Load())
}
