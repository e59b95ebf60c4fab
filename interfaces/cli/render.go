package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/iclean/application"
	"github.com/felixgeelhaar/iclean/domain/agent"
	"github.com/felixgeelhaar/iclean/domain/simulation"
)

const (
	labelWidth   = 26
	stepRule     = "------------------------------------------------"
	stopRule     = "---------------------------------------------------------------"
	summaryTitle = "================ Simulation Summary ================"
	actionsTitle = "=== Final Action Sequence ==="
	endingLine   = "ending the simulation..."
	exitOnZeroT  = "exiting program... due to T = 0"
)

// renderer writes the console transcript of a simulation.
type renderer struct {
	w      io.Writer
	digits int
	title  lipgloss.Style
	value  lipgloss.Style
}

func newRenderer(w io.Writer, digits int) *renderer {
	r := lipgloss.NewRenderer(w)
	return &renderer{
		w:      w,
		digits: digits,
		title:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		value:  r.NewStyle().Foreground(lipgloss.Color("10")),
	}
}

func (r *renderer) line(label string, value any) {
	fmt.Fprintf(r.w, "%-*s %v\n", labelWidth, label, value)
}

// Step writes the block for one timestamp, followed by the stop notices
// when it was the last one.
func (r *renderer) Step(res application.StepResult) {
	fmt.Fprintf(r.w, "\nTimestamp: %0*d\n", r.digits, res.Timestamp)
	fmt.Fprintln(r.w, stepRule)

	r.line("Agent status:", res.StartState)
	r.line("Starting energy level:", formatEnergy(res.StartEnergy))
	r.line(fmt.Sprintf("Current Room %d Status:", res.Room.Index), res.Room.Dirtiness)
	r.line("Agent action:", res.Action)
	r.line("Rooms cleaned so far:", res.RoomsCleaned)
	r.line("Remaining energy so far:", formatEnergy(res.RemainingEnergy))
	r.line("Energy consumed so far:", formatEnergy(res.EnergyConsumed))
	r.line("Final rooms state:", res.RoomsStatusLog)
	fmt.Fprintln(r.w)

	r.Stop(res.StopReasons)
}

// Stop writes one notice per stop reason and the closing line.
func (r *renderer) Stop(reasons []simulation.StopReason) {
	if len(reasons) == 0 {
		return
	}
	for _, reason := range reasons {
		fmt.Fprintln(r.w, stopRule)
		fmt.Fprintln(r.w, reason.Message())
	}
	fmt.Fprintln(r.w, stopRule)
	fmt.Fprintln(r.w, endingLine)
}

// Summary writes the final totals and the action sequence.
func (r *renderer) Summary(report *simulation.Report) {
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, r.title.Render(summaryTitle))
	fmt.Fprintf(r.w, "Total rooms cleaned: %s\n", r.value.Render(strconv.Itoa(report.RoomsCleaned)))
	fmt.Fprintf(r.w, "Total energy consumed: %s\n", r.value.Render(formatEnergy(report.EnergyConsumed)))
	fmt.Fprintf(r.w, "Final remaining energy: %s\n", r.value.Render(formatEnergy(report.RemainingEnergy)))
	fmt.Fprintf(r.w, "Final rooms state: %s\n", report.FinalStatusLog)

	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, r.title.Render(actionsTitle))
	fmt.Fprintln(r.w, formatActions(report.Actions))
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatEnergy prints energy as a decimal that always carries a fraction,
// e.g. 5.0 and 7.5.
func formatEnergy(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// formatActions prints actions as a quoted list, e.g. ['SUCK', 'MOVE_RIGHT'].
func formatActions(actions []agent.Action) string {
	quoted := make([]string, len(actions))
	for i, a := range actions {
		quoted[i] = "'" + a.String() + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
