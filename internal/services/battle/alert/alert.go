// Package alert delivers action notifications to operators.
package alert

import (
	"context"
	"fmt"
	"log"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Severity ranks an alert.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityOK
	SeverityWarn
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityOK:
		return "ok"
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

// Result icons used for claim outcomes.
const (
	IconWin  = "https://i.imgur.com/TPFdwZG.png"
	IconLoss = "https://i.imgur.com/LON2Wdj.png"
)

// Alert is one notification about an action or failure.
type Alert struct {
	Action   string
	Content  string
	Severity Severity
	// SubjectID is the mine or unit the alert is about; zero when none.
	SubjectID int64
	Icon      string
}

// Subject renders the alert context line.
func (a Alert) Subject() string {
	if a.SubjectID == 0 {
		return "Battle bot"
	}
	return fmt.Sprintf("Mine %d", a.SubjectID)
}

// Sink receives alerts. Delivery failures are handled by the sink.
type Sink interface {
	Notify(ctx context.Context, a Alert)
}

// LogSink writes alerts to the process log.
type LogSink struct{}

// Notify implements Sink.
func (LogSink) Notify(_ context.Context, a Alert) {
	log.Printf("alert %s: %s - %s - %s", a.Severity, a.Subject(), a.Action, a.Content)
}

type multi []Sink

// Multi fans an alert out to every non-nil sink in order.
func Multi(sinks ...Sink) Sink {
	out := make(multi, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (m multi) Notify(ctx context.Context, a Alert) {
	for _, s := range m {
		s.Notify(ctx, a)
	}
}

var printer = message.NewPrinter(language.English)

// FormatAmount renders a balance with thousands separators and at most two
// decimals.
func FormatAmount(v float64) string {
	s := printer.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// FormatCount renders an integer with thousands separators.
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}
