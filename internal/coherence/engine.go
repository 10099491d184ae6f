package coherence

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Engine computes composite coherence scores and owns the session table.
//
// Analyze is a pure transform and safe to call from anywhere. Session
// operations are read-modify-write on the table, so the engine serializes
// them internally behind one RWMutex; callers never need external locking,
// and everything handed back is a copy.
type Engine struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	thresholds Thresholds
	rules      PhaseRules

	logger *zap.Logger
	now    func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger attaches a logger; the default is a nop logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithThresholds overrides the classification bands.
func WithThresholds(t Thresholds) Option {
	return func(e *Engine) { e.thresholds = t }
}

// WithPhaseRules overrides the phase-advancement rules.
func WithPhaseRules(r PhaseRules) Option {
	return func(e *Engine) { e.rules = r }
}

// withClock overrides the time source. Tests only.
func withClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New returns an engine with the default thresholds and rules.
func New(opts ...Option) *Engine {
	e := &Engine{
		sessions:   make(map[string]*Session),
		thresholds: DefaultThresholds(),
		rules:      DefaultPhaseRules(),
		logger:     zap.NewNop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Thresholds returns the engine's classification bands.
func (e *Engine) Thresholds() Thresholds { return e.thresholds }

// Analyze scores a snapshot and returns a new, fully populated copy; the
// input is left untouched.
//
// The score is the mean of the 12 off-diagonal cells of the 4×4 pairwise
// coherence matrix over the channels in canonical order. The diagonal is
// excluded because self-coherence is trivially ~1.0 and would bias the
// average upward. The function is total: degraded signatures lower
// individual cells to 0.0 per Signature.CoherenceWith, they never error.
func (e *Engine) Analyze(snap Snapshot) Snapshot {
	sigs := snap.signatures()

	var sum float64
	for i := range sigs {
		for j := range sigs {
			if i == j {
				continue
			}
			sum += sigs[i].CoherenceWith(sigs[j])
		}
	}
	score := sum / 12.0

	out := snap
	out.Score = score
	out.State = e.thresholds.Classify(score)

	e.logger.Debug("analyzed snapshot",
		zap.Float64("score", score),
		zap.Stringer("state", out.State))

	return out
}

// CreateSession allocates a session in phase attunement with empty history
// and stores it under id, silently replacing any prior session with the same
// id (last-write-wins). It returns a copy of the stored session.
func (e *Engine) CreateSession(id, userID string) Session {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.sessions[id]; exists {
		e.logger.Info("replacing existing session", zap.String("session_id", id))
	}

	s := &Session{
		ID:        id,
		UserID:    userID,
		Phase:     PhaseAttunement,
		History:   make([]float64, 0),
		StartedAt: e.now(),
	}
	e.sessions[id] = s

	e.logger.Info("session created",
		zap.String("session_id", id),
		zap.String("user_id", userID))

	return s.clone()
}

// UpdateSession appends score to the session's history, refreshes its
// duration, and advances its phase by at most one step when the rolling
// average crosses the next threshold.
//
// An unknown id is a silent no-op (logged at warn level, no error): callers
// that need to detect a missing session must use Session instead.
func (e *Engine) UpdateSession(id string, score float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.sessions[id]
	if !ok {
		e.logger.Warn("update for unknown session dropped", zap.String("session_id", id))
		return
	}

	s.History = append(s.History, score)
	s.Duration = e.now().Sub(s.StartedAt)

	avg := s.RollingAverage(e.rules.Window)
	if next := e.rules.next(s.Phase, avg); next != s.Phase {
		e.logger.Info("phase advanced",
			zap.String("session_id", id),
			zap.Stringer("from", s.Phase),
			zap.Stringer("to", next),
			zap.Float64("rolling_avg", avg))
		s.Phase = next
	}
}

// Session returns a copy of the session stored under id.
func (e *Engine) Session(id string) (Session, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	s, ok := e.sessions[id]
	if !ok {
		return Session{}, false
	}
	return s.clone(), true
}
