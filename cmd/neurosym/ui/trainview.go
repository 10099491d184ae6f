package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"neurosym/internal/coherence"
	"neurosym/internal/trainer"
)

// StepMsg carries one trainer step into the view.
type StepMsg trainer.Step

// DoneMsg signals that the trainer has finished.
type DoneMsg struct{ Err error }

// sessionRow tracks the latest step for one session.
type sessionRow struct {
	step trainer.Step
	bar  progress.Model
}

// TrainModel is the live view of a training run: one row per session with a
// score bar, classification, and learning phase.
type TrainModel struct {
	rows  map[string]*sessionRow
	order []string

	done bool
	err  error
}

// NewTrainModel returns an empty live view; rows appear as sessions report
// their first step.
func NewTrainModel() TrainModel {
	return TrainModel{rows: make(map[string]*sessionRow)}
}

// Init implements tea.Model.
func (m TrainModel) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m TrainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}

	case StepMsg:
		row, ok := m.rows[msg.SessionID]
		if !ok {
			bar := progress.New(progress.WithDefaultGradient())
			bar.Width = 30
			row = &sessionRow{bar: bar}
			m.rows[msg.SessionID] = row
			m.order = append(m.order, msg.SessionID)
			sort.Strings(m.order)
		}
		row.step = trainer.Step(msg)
		return m, nil

	case DoneMsg:
		m.done = true
		m.err = msg.Err
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model.
func (m TrainModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("neurosym coherence training"))
	b.WriteString("\n\n")

	if len(m.order) == 0 {
		b.WriteString(mutedStyle.Render("waiting for signals..."))
		b.WriteString("\n")
	}

	for _, id := range m.order {
		row := m.rows[id]
		step := row.step

		// Bars show the usable positive score range; negatives pin to zero.
		pct := step.Snapshot.Score
		if pct < 0 {
			pct = 0
		} else if pct > 1 {
			pct = 1
		}

		fmt.Fprintf(&b, "%s  step %2d/%d\n",
			mutedStyle.Render(id), step.Index+1, step.Total)
		fmt.Fprintf(&b, "  %s %6.3f  %s  %s\n",
			row.bar.ViewAs(pct),
			step.Snapshot.Score,
			StateStyle(step.Snapshot.State).Render(step.Snapshot.State.String()),
			phaseStyle.Render(step.Session.Phase.String()),
		)
	}

	b.WriteString("\n")
	if m.done {
		if m.err != nil {
			b.WriteString(StateStyle(coherence.StateDissociated).Render("training failed: " + m.err.Error()))
		} else {
			b.WriteString(titleStyle.Render("training complete"))
		}
	} else {
		b.WriteString(mutedStyle.Render("q to quit"))
	}
	b.WriteString("\n")
	return b.String()
}
