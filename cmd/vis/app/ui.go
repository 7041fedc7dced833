package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/torven/breaker"
)

// ringRowSize is how many bucket boxes are drawn per row before the
// ring wraps to the next line.
const ringRowSize = 5

var (
	serviceStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(0, 3)

	bucketStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(0, 1)

	cursorBucketStyle = lipgloss.NewStyle().
				Border(lipgloss.ThickBorder()).
				Padding(0, 1)

	successStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("2")).
			Foreground(lipgloss.Color("0")).
			Padding(0, 1)

	failureStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("1")).
			Foreground(lipgloss.Color("15")).
			Padding(0, 1)

	closedBadge = lipgloss.NewStyle().
			Background(lipgloss.Color("2")).
			Foreground(lipgloss.Color("0")).
			Padding(0, 1)

	openBadge = lipgloss.NewStyle().
			Background(lipgloss.Color("1")).
			Foreground(lipgloss.Color("15")).
			Padding(0, 1)

	halfOpenBadge = lipgloss.NewStyle().
			Background(lipgloss.Color("3")).
			Foreground(lipgloss.Color("0")).
			Padding(0, 1)

	successText = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failureText = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	faintText   = lipgloss.NewStyle().Faint(true)
)

// ui renders the breaker and its window. It consumes only read-only
// accessors; all decision logic stays in the breaker.
type ui struct {
	circuit *breaker.Breaker
	flash   *eventFlash
}

func newUI(circuit *breaker.Breaker, flash *eventFlash) *ui {
	return &ui{circuit: circuit, flash: flash}
}

func (u *ui) Render(now time.Time) string {
	sections := []string{
		serviceStyle.Render("Service"),
		u.renderEventArrow(now),
		u.renderStatus(),
		"",
		u.renderRing(),
		"",
		faintText.Render("s: success · f: failure · q: quit"),
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(
		strings.Join(sections, "\n"),
	)
}

// renderEventArrow draws the path from the service to the breaker. The
// middle glyph acts as a gate that mirrors the circuit state: a solid
// line when closed, a half line when half-open, a break when open.
func (u *ui) renderEventArrow(now time.Time) string {
	label := "   │"
	style := faintText
	switch u.flash.Current(now) {
	case eventSuccess:
		label = "Success"
		style = successText
	case eventFailure:
		label = "Failure"
		style = failureText
	}

	var gate string
	switch u.circuit.State() {
	case breaker.Closed:
		gate = "│"
	case breaker.HalfOpen:
		gate = "/"
	case breaker.Open:
		gate = "─"
	}

	lines := []string{
		style.Render("   │"),
		style.Render(label),
		style.Render("   │"),
		"   " + gate,
		"   │",
		"   ▼",
	}
	return strings.Join(lines, "\n")
}

func (u *ui) renderStatus() string {
	var badge string
	switch u.circuit.State() {
	case breaker.Closed:
		badge = closedBadge.Render("Closed")
	case breaker.Open:
		badge = openBadge.Render("Open")
	case breaker.HalfOpen:
		badge = halfOpenBadge.Render("Half Open")
	}

	lines := []string{
		"    Status: " + badge,
		fmt.Sprintf("Error Rate: %.2f%%", u.circuit.ErrorRate()),
		u.renderIndicator(),
	}
	return strings.Join(lines, "\n")
}

// renderIndicator shows the most relevant countdown for the current
// state: time to the next bucket while closed, time to the next probe
// while open, trial progress while half-open.
func (u *ui) renderIndicator() string {
	switch u.circuit.State() {
	case breaker.Closed:
		return fmt.Sprintf("Next Bucket: %.1fs", u.circuit.NextBucket().Seconds())
	case breaker.Open:
		return fmt.Sprintf("     Retry: %.1fs", u.circuit.RetryRemaining().Seconds())
	case breaker.HalfOpen:
		return fmt.Sprintf("    Trials: %d/%d", u.circuit.TrialSuccesses(), u.circuit.Config().TrialSuccesses)
	}
	return ""
}

// renderRing draws the window as rows of bucket boxes connected by
// arrows, with the accumulating bucket emphasized.
func (u *ui) renderRing() string {
	capacity := u.circuit.Config().Capacity
	cursor := u.circuit.Cursor()

	var rows []string
	for start := 0; start < capacity; start += ringRowSize {
		end := min(start+ringRowSize, capacity)

		cells := make([]string, 0, 2*(end-start))
		for i := start; i < end; i++ {
			if i > start {
				cells = append(cells, " ─▶ ")
			}
			cells = append(cells, u.renderBucket(i, i == cursor))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Center, cells...))
	}

	ring := strings.Join(rows, "\n      ▼\n")
	return ring + "\n" + faintText.Render("      └─◀ wraps to B0")
}

func (u *ui) renderBucket(i int, active bool) string {
	counts := u.circuit.Bucket(i)
	body := fmt.Sprintf("B%-2d %s %s",
		i,
		successStyle.Render(fmt.Sprintf("%03d", counts.Successes)),
		failureStyle.Render(fmt.Sprintf("%03d", counts.Failures)),
	)
	if active {
		return cursorBucketStyle.Render(body)
	}
	return bucketStyle.Render(body)
}
