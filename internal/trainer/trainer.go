// Package trainer drives synthetic coherence-training runs against the
// engine: synthesize one signature per channel, analyze the snapshot, feed
// the score back into the session, and report each step to the caller.
// It exists so both the live view and the plain console output share one
// loop; real signal acquisition would slot in where the synthesizer sits.
package trainer

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"neurosym/internal/biometric"
	"neurosym/internal/coherence"
	"neurosym/internal/config"
)

// Step reports one completed training iteration.
type Step struct {
	SessionID string
	UserID    string
	// Index is zero-based within the session.
	Index int
	// Total steps planned for the session.
	Total int
	// Snapshot is the analyzed snapshot for this step.
	Snapshot coherence.Snapshot
	// Session is the post-update session copy.
	Session coherence.Session
}

// Trainer runs one or more concurrent training sessions against a shared
// engine. The engine serializes per-session updates internally; the trainer
// only fans the loops out.
type Trainer struct {
	engine *coherence.Engine
	cfg    config.TrainerConfig
	logger *zap.Logger
}

// New returns a trainer. A nil logger means no logging.
func New(engine *coherence.Engine, cfg config.TrainerConfig, logger *zap.Logger) *Trainer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Trainer{engine: engine, cfg: cfg, logger: logger}
}

// Run executes the configured sessions to completion, calling emit after
// every step. emit may be called from multiple goroutines when more than one
// session is configured and must be safe for concurrent use. Run returns the
// context error if cancelled mid-run.
func (t *Trainer) Run(ctx context.Context, emit func(Step)) error {
	sessions := t.cfg.Sessions
	if sessions < 1 {
		sessions = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < sessions; i++ {
		seed := t.cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		// Distinct per-session streams even under a fixed seed.
		rng := rand.New(rand.NewSource(seed + int64(i)))

		sessionID := fmt.Sprintf("session-%02d-%s", i+1, shortID())
		userID := fmt.Sprintf("user-%02d", i+1)

		g.Go(func() error {
			return t.runSession(ctx, sessionID, userID, rng, emit)
		})
	}
	return g.Wait()
}

func (t *Trainer) runSession(ctx context.Context, sessionID, userID string, rng *rand.Rand, emit func(Step)) error {
	synth := biometric.NewSynthesizer(rng)
	freqs := t.cfg.BaseFrequencies
	interval := t.cfg.StepInterval()

	t.engine.CreateSession(sessionID, userID)
	t.logger.Info("training session started",
		zap.String("session_id", sessionID),
		zap.String("user_id", userID),
		zap.Int("steps", t.cfg.Steps))

	for step := 0; step < t.cfg.Steps; step++ {
		level := math.Min(t.cfg.StartLevel+float64(step)*t.cfg.Ramp, t.cfg.MaxLevel)

		snap := coherence.NewSnapshot(
			synth.Signature(biometric.StreamBreath, freqs.Breath, level),
			synth.Signature(biometric.StreamHeart, freqs.Heart, level),
			synth.Signature(biometric.StreamMovement, freqs.Movement, level),
			synth.Signature(biometric.StreamNeural, freqs.Neural, level),
			time.Now(),
		)

		analyzed := t.engine.Analyze(snap)
		t.engine.UpdateSession(sessionID, analyzed.Score)

		session, ok := t.engine.Session(sessionID)
		if !ok {
			// Only possible if a caller overwrites the table mid-run.
			return fmt.Errorf("session %s vanished mid-run", sessionID)
		}

		if emit != nil {
			emit(Step{
				SessionID: sessionID,
				UserID:    userID,
				Index:     step,
				Total:     t.cfg.Steps,
				Snapshot:  analyzed,
				Session:   session,
			})
		}

		// Pacing is illustrative, not a scheduling contract; skip the final
		// sleep so short runs return promptly.
		if step == t.cfg.Steps-1 || interval == 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}

	final, _ := t.engine.Session(sessionID)
	t.logger.Info("training session finished",
		zap.String("session_id", sessionID),
		zap.Stringer("phase", final.Phase),
		zap.Duration("duration", final.Duration))

	return nil
}

func shortID() string {
	return uuid.NewString()[:8]
}
