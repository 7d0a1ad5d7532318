// Package clipboard hands text to the system clipboard
package clipboard

import (
	"context"
	"errors"

	"github.com/atotto/clipboard"
)

// ErrUnsupported means no clipboard utility is available on this system
var ErrUnsupported = errors.New("clipboard not supported on this system")

// Writer writes to the system clipboard
type Writer struct {
	write func(string) error
}

// New returns a Writer backed by the system clipboard
func New() *Writer {
	return &Writer{write: writeSystem}
}

func writeSystem(text string) error {
	if !Available() {
		return ErrUnsupported
	}
	return clipboard.WriteAll(text)
}

// Available reports whether a clipboard utility was found
func Available() bool {
	return !clipboard.Unsupported
}

// WriteText places text on the clipboard
func (w *Writer) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return w.write(text)
}
