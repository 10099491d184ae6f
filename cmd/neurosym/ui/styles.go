// Package ui provides the visual styling and the live training view for the
// neurosym CLI.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"neurosym/internal/biometric"
	"neurosym/internal/coherence"
	"neurosym/internal/trainer"
)

// Semantic colors
var (
	Success     = lipgloss.Color("#8BC34A") // Lime Green
	Warning     = lipgloss.Color("#FFC107") // Yellow
	Destructive = lipgloss.Color("#e53935") // Red
	Info        = lipgloss.Color("#2196F3") // Blue
	Muted       = lipgloss.Color("#808080")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(Muted)
	phaseStyle   = lipgloss.NewStyle().Foreground(Info)
	summaryStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Muted).
			Padding(0, 1)
)

// StateColor maps a classification onto its semantic color: the two top
// bands render as success, the adaptive midband as warning, the rest as
// trouble.
func StateColor(s coherence.State) lipgloss.Color {
	switch s {
	case coherence.StateDeepSync, coherence.StateHarmonic:
		return Success
	case coherence.StateAdaptive:
		return Warning
	default:
		return Destructive
	}
}

// StateStyle returns the foreground style for a classification.
func StateStyle(s coherence.State) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(StateColor(s))
}

// RenderStep formats one training step as a single console line.
func RenderStep(step trainer.Step) string {
	marker := StateStyle(step.Snapshot.State).Render("●")
	return fmt.Sprintf("%s %s step %2d/%d  coherence %6.3f  %-20s phase %s",
		marker,
		mutedStyle.Render(step.SessionID),
		step.Index+1,
		step.Total,
		step.Snapshot.Score,
		StateStyle(step.Snapshot.State).Render(step.Snapshot.State.String()),
		phaseStyle.Render(step.Session.Phase.String()),
	)
}

// RenderSummary formats the end-of-run summary for one session.
func RenderSummary(s coherence.Session) string {
	var last float64
	if len(s.History) > 0 {
		last = s.History[len(s.History)-1]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", titleStyle.Render("session "+s.ID))
	fmt.Fprintf(&b, "user            %s\n", s.UserID)
	fmt.Fprintf(&b, "final coherence %.3f\n", last)
	fmt.Fprintf(&b, "final phase     %s\n", phaseStyle.Render(s.Phase.String()))
	fmt.Fprintf(&b, "updates         %d\n", len(s.History))
	fmt.Fprintf(&b, "duration        %s", s.Duration.Round(10*time.Millisecond))
	return summaryStyle.Render(b.String())
}

// RenderAnalysis formats a scored snapshot, including the pairwise
// coherence matrix over the four channels.
func RenderAnalysis(snap coherence.Snapshot) string {
	sigs := [4]biometric.Signature{snap.Breath, snap.Heart, snap.Movement, snap.Neural}
	streams := biometric.Streams()

	var b strings.Builder
	fmt.Fprintf(&b, "%s %.4f\n", titleStyle.Render("coherence score"), snap.Score)
	fmt.Fprintf(&b, "%s %s\n\n", titleStyle.Render("state          "),
		StateStyle(snap.State).Render(snap.State.String()))

	fmt.Fprintf(&b, "%12s", "")
	for _, s := range streams {
		fmt.Fprintf(&b, " %11s", s)
	}
	b.WriteString("\n")
	for i, row := range sigs {
		fmt.Fprintf(&b, "%12s", streams[i])
		for _, col := range sigs {
			fmt.Fprintf(&b, " %11.4f", row.CoherenceWith(col))
		}
		b.WriteString("\n")
	}
	return b.String()
}
