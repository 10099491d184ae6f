package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"neurosym/cmd/neurosym/ui"
	"neurosym/internal/coherence"
	"neurosym/internal/trainer"
)

var (
	trainSteps    int
	trainSessions int
	trainSeed     int64
	trainInterval string
	trainPlain    bool
)

// trainCmd runs the synthetic coherence-training loop
var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Run a synthetic coherence-training session",
	Long: `train synthesizes the four biometric channels with a coherence level that
ramps up over the run, scores each snapshot, and feeds the scores into the
session phase machine. By default it renders a live view; --plain prints one
line per step instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("steps") {
			cfg.Trainer.Steps = trainSteps
		}
		if cmd.Flags().Changed("sessions") {
			cfg.Trainer.Sessions = trainSessions
		}
		if cmd.Flags().Changed("seed") {
			cfg.Trainer.Seed = trainSeed
		}
		if cmd.Flags().Changed("interval") {
			cfg.Trainer.Interval = trainInterval
		}

		engine := coherence.New(
			coherence.WithLogger(logger.Named("engine")),
			coherence.WithThresholds(cfg.Coherence),
			coherence.WithPhaseRules(cfg.Phases),
		)
		tr := trainer.New(engine, cfg.Trainer, logger.Named("trainer"))

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if trainPlain {
			return runTrainPlain(ctx, tr)
		}
		return runTrainLive(ctx, tr)
	},
}

// runTrainPlain prints one styled line per step and a summary per session.
func runTrainPlain(ctx context.Context, tr *trainer.Trainer) error {
	var (
		mu       sync.Mutex
		sessions = make(map[string]coherence.Session)
	)

	err := tr.Run(ctx, func(step trainer.Step) {
		mu.Lock()
		defer mu.Unlock()
		sessions[step.SessionID] = step.Session
		fmt.Println(ui.RenderStep(step))
	})
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(sessions))
	for id := range sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Println(ui.RenderSummary(sessions[id]))
	}
	return nil
}

// runTrainLive renders the run in a bubbletea view, feeding trainer steps to
// the program as messages.
func runTrainLive(ctx context.Context, tr *trainer.Trainer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(ui.NewTrainModel())

	errCh := make(chan error, 1)
	go func() {
		err := tr.Run(ctx, func(step trainer.Step) {
			p.Send(ui.StepMsg(step))
		})
		p.Send(ui.DoneMsg{Err: err})
		errCh <- err
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-errCh
		return err
	}

	// The view may have been quit mid-run; stop the trainer and surface any
	// error other than our own cancellation.
	cancel()
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func init() {
	trainCmd.Flags().IntVar(&trainSteps, "steps", 20, "steps per session")
	trainCmd.Flags().IntVar(&trainSessions, "sessions", 1, "concurrent sessions")
	trainCmd.Flags().Int64Var(&trainSeed, "seed", 0, "synthetic signal seed (0 = time-seeded)")
	trainCmd.Flags().StringVar(&trainInterval, "interval", "100ms", "pacing between steps")
	trainCmd.Flags().BoolVar(&trainPlain, "plain", false, "print per-step lines instead of the live view")
}
