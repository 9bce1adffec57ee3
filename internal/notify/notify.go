// Package notify delivers status-change alerts.
package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"go.uber.org/multierr"
)

type Notifier interface {
	Send(ctx context.Context, title, text string) error
}

// Multi fans a message out to every non-nil notifier and returns all
// failures combined.
type Multi []Notifier

func (m Multi) Send(ctx context.Context, title, text string) error {
	var err error
	for _, n := range m {
		if n == nil {
			continue
		}
		err = multierr.Append(err, n.Send(ctx, title, text))
	}
	return err
}

// Writer prints alerts to a terminal or any other io.Writer.
type Writer struct {
	mu sync.Mutex
	W  io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{W: w}
}

func (w *Writer) Send(ctx context.Context, title, text string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, err := fmt.Fprintf(w.W, "\n%s\n%s\n", title, text)
	return err
}
