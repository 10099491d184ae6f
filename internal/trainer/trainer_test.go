package trainer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"neurosym/internal/coherence"
	"neurosym/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testTrainerConfig() config.TrainerConfig {
	cfg := config.DefaultConfig().Trainer
	cfg.Steps = 5
	cfg.Interval = "1ms"
	cfg.Seed = 42
	return cfg
}

type stepRecorder struct {
	mu    sync.Mutex
	steps []Step
}

func (r *stepRecorder) emit(s Step) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = append(r.steps, s)
}

func TestRun_SingleSession(t *testing.T) {
	engine := coherence.New()
	tr := New(engine, testTrainerConfig(), nil)

	var rec stepRecorder
	require.NoError(t, tr.Run(context.Background(), rec.emit))

	require.Len(t, rec.steps, 5)
	for i, step := range rec.steps {
		assert.Equal(t, i, step.Index)
		assert.Equal(t, 5, step.Total)
		assert.Len(t, step.Session.History, i+1)
		assert.Equal(t, step.Snapshot.Score, step.Session.History[i])
	}

	final, ok := engine.Session(rec.steps[0].SessionID)
	require.True(t, ok)
	assert.Len(t, final.History, 5)
}

func TestRun_MultipleSessionsAreIndependent(t *testing.T) {
	engine := coherence.New()
	cfg := testTrainerConfig()
	cfg.Sessions = 3
	tr := New(engine, cfg, nil)

	var rec stepRecorder
	require.NoError(t, tr.Run(context.Background(), rec.emit))

	require.Len(t, rec.steps, 3*5)

	perSession := make(map[string]int)
	for _, step := range rec.steps {
		perSession[step.SessionID]++
	}
	require.Len(t, perSession, 3)
	for id, n := range perSession {
		assert.Equalf(t, 5, n, "session %s", id)
		s, ok := engine.Session(id)
		require.True(t, ok)
		assert.Len(t, s.History, 5)
	}
}

func TestRun_DeterministicUnderFixedSeed(t *testing.T) {
	cfg := testTrainerConfig()
	cfg.Interval = "0s"

	run := func() []float64 {
		engine := coherence.New()
		tr := New(engine, cfg, nil)
		var rec stepRecorder
		require.NoError(t, tr.Run(context.Background(), rec.emit))
		scores := make([]float64, 0, len(rec.steps))
		for _, s := range rec.steps {
			scores = append(scores, s.Snapshot.Score)
		}
		return scores
	}

	assert.Equal(t, run(), run())
}

func TestRun_CancellationStopsEarly(t *testing.T) {
	engine := coherence.New()
	cfg := testTrainerConfig()
	cfg.Steps = 1000
	cfg.Interval = "10ms"
	tr := New(engine, cfg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	var rec stepRecorder
	done := make(chan error, 1)
	go func() { done <- tr.Run(ctx, rec.emit) }()

	time.Sleep(25 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("trainer did not stop after cancellation")
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Less(t, len(rec.steps), 1000)
}

func TestRun_NilEmitIsAllowed(t *testing.T) {
	engine := coherence.New()
	tr := New(engine, testTrainerConfig(), nil)
	assert.NoError(t, tr.Run(context.Background(), nil))
}

func TestRun_RampClimbsTowardMaxLevel(t *testing.T) {
	engine := coherence.New()
	cfg := testTrainerConfig()
	cfg.Steps = 20
	cfg.Interval = "0s"
	tr := New(engine, cfg, nil)

	var rec stepRecorder
	require.NoError(t, tr.Run(context.Background(), rec.emit))
	require.Len(t, rec.steps, 20)

	// Averaged over the run the synthetic signals tighten up, so the back
	// half of the run should outscore the front half.
	var front, back float64
	for i, s := range rec.steps {
		if i < 10 {
			front += s.Snapshot.Score
		} else {
			back += s.Snapshot.Score
		}
	}
	assert.Greater(t, back, front)
}
