package voice

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"iter"
	"strings"
)

// LineRecognizer treats every non-empty line of a reader as one transcript.
// It stands in for a speech engine on terminals and in tests.
type LineRecognizer struct {
	r   io.Reader
	err error
}

func NewLineRecognizer(r io.Reader) *LineRecognizer {
	return &LineRecognizer{r: r}
}

func (l *LineRecognizer) Recognize(ctx context.Context) iter.Seq[string] {
	return func(yield func(string) bool) {
		scanner := bufio.NewScanner(l.r)
		for scanner.Scan() {
			if ctx.Err() != nil {
				return
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if !yield(line) {
				return
			}
		}
		l.err = scanner.Err()
	}
}

// Err returns the read error that stopped recognition, if any.
func (l *LineRecognizer) Err() error {
	return l.err
}

// WriterSpeaker writes every reply as a line.
type WriterSpeaker struct {
	w      io.Writer
	prefix string
}

func NewWriterSpeaker(w io.Writer, prefix string) *WriterSpeaker {
	return &WriterSpeaker{w: w, prefix: prefix}
}

func (s *WriterSpeaker) Speak(_ context.Context, text string) error {
	_, err := fmt.Fprintf(s.w, "%s%s\n", s.prefix, text)
	return err
}
