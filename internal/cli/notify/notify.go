// Package notify delivers user-visible messages from the request pipeline,
// keeping the HTTP client independent of how the CLI shows them.
package notify

import (
	"fmt"
	"io"
	"sync"
)

// Notifier shows a one-shot message to the user.
type Notifier interface {
	Notify(message string)
}

// Func adapts a plain function to Notifier.
type Func func(message string)

func (f Func) Notify(message string) { f(message) }

// Console пишет сообщения в writer (обычно os.Stderr) в виде "error: <msg>".
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsole returns a Console writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Notify(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "error: %s\n", message)
}

// Discard drops every message.
var Discard Notifier = Func(func(string) {})
