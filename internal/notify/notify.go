// Package notify is the user-visible failure channel. Components that hit a
// network or parse failure raise exactly one notification per failing
// operation; how it is shown (stderr line, TUI alert box) is up to the shell.
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

// FailureMessage is shown for every catalog API failure.
const FailureMessage = "There was an error retrieving the information from the Pokemon API. Please try reloading the page or reach out to us."

// Notifier surfaces a blocking, human-readable failure message.
type Notifier interface {
	Notify(msg string)
}

// Func adapts a function to Notifier.
type Func func(msg string)

// Notify calls f(msg).
func (f Func) Notify(msg string) { f(msg) }

// Suppressed reports whether the failure of an operation run under ctx is a
// caller cancellation, which is never notified. Deadlines are failures and
// are notified like any other error.
func Suppressed(ctx context.Context, err error) bool {
	if errors.Is(err, context.Canceled) {
		return true
	}
	return ctx != nil && errors.Is(ctx.Err(), context.Canceled)
}

// Discard drops every notification.
var Discard Notifier = Func(func(string) {})

// OrDiscard returns n, or Discard when n is nil.
func OrDiscard(n Notifier) Notifier {
	if n == nil {
		return Discard
	}
	return n
}

// Writer prints notifications as lines to an io.Writer.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter creates a Writer notifier.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Notify writes "! msg".
func (n *Writer) Notify(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "! %s\n", msg)
}

// Recorder keeps notifications in memory.
type Recorder struct {
	mu       sync.Mutex
	messages []string
}

// Notify records msg.
func (r *Recorder) Notify(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}

// Messages returns a copy of everything recorded so far.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

// Count returns how many notifications were recorded.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages)
}
