// Package console lets a conversation run from a terminal without a
// microphone.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"weathervox/internal/dialog"
)

// Keyboard reads one utterance per line. A blank line counts as silence.
type Keyboard struct {
	sc     *bufio.Scanner
	prompt io.Writer
}

var _ dialog.Listener = (*Keyboard)(nil)

func NewKeyboard(in io.Reader, prompt io.Writer) *Keyboard {
	return &Keyboard{sc: bufio.NewScanner(in), prompt: prompt}
}

func (k *Keyboard) Listen(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if k.prompt != nil {
		fmt.Fprint(k.prompt, "You: ")
	}

	if !k.sc.Scan() {
		if err := k.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}

	line := strings.TrimSpace(k.sc.Text())
	if line == "" {
		return "", dialog.ErrNoSpeech
	}
	return strings.ToLower(line), nil
}
