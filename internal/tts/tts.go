// Package tts holds the synthesizers the dialog can speak through.
package tts

import (
	"context"
	"fmt"
	"io"
)

// Console writes replies instead of voicing them.
type Console struct {
	Out io.Writer
}

func (c *Console) Speak(_ context.Context, text string) error {
	_, err := fmt.Fprintf(c.Out, "Robot: %s\n", text)
	return err
}
