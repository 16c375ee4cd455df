// Package relay forwards a streamed completion to the visitor while it arrives.
package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/cacildafilmes/cacilda/internal/logging"
	"github.com/cacildafilmes/cacilda/internal/openai"
	"github.com/cacildafilmes/cacilda/internal/sse"
)

const defaultReadSize = 4096

// DecodeFunc extracts the text fragment carried by one event payload.
type DecodeFunc func(payload string) (string, error)

// Result is the outcome of a relay run.
type Result struct {
	// Text is everything forwarded downstream, in arrival order.
	Text string
	// Completed is true when the upstream ended normally, by sentinel or EOF.
	Completed bool
}

// Relay reads an event stream sequentially and writes each text delta downstream
// as soon as its line is complete.
type Relay struct {
	logger   *zap.Logger
	decode   DecodeFunc
	readSize int
}

// Option configures a Relay.
type Option func(*Relay)

// WithDecoder replaces the payload decoder.
func WithDecoder(decode DecodeFunc) Option {
	return func(r *Relay) { r.decode = decode }
}

// WithReadSize sets the size of each upstream read.
func WithReadSize(n int) Option {
	return func(r *Relay) {
		if n > 0 {
			r.readSize = n
		}
	}
}

func New(logger *zap.Logger, opts ...Option) *Relay {
	r := &Relay{
		logger:   logging.OrNop(logger),
		decode:   openai.DecodeDelta,
		readSize: defaultReadSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run consumes upstream until the sentinel, EOF, a read failure, a downstream
// write failure or cancellation of ctx. Only the first two complete the result;
// otherwise the partial text is returned with the error.
func (r *Relay) Run(ctx context.Context, upstream io.Reader, w io.Writer) (Result, error) {
	parser := sse.NewParser()
	var text strings.Builder
	buf := make([]byte, r.readSize)

	for {
		if err := ctx.Err(); err != nil {
			return Result{Text: text.String()}, err
		}

		n, readErr := upstream.Read(buf)
		if n > 0 {
			done, err := r.forward(parser.Feed(buf[:n]), w, &text)
			if err != nil {
				return Result{Text: text.String()}, err
			}
			if done {
				return Result{Text: text.String(), Completed: true}, nil
			}
		}

		if errors.Is(readErr, io.EOF) {
			if _, err := r.forward(parser.End(), w, &text); err != nil {
				return Result{Text: text.String()}, err
			}
			return Result{Text: text.String(), Completed: true}, nil
		}
		if readErr != nil {
			if err := ctx.Err(); err != nil {
				return Result{Text: text.String()}, err
			}
			return Result{Text: text.String()}, fmt.Errorf("failed to read upstream stream: %w", readErr)
		}
	}
}

// forward writes the deltas of events in order and reports whether the sentinel
// was among them.
func (r *Relay) forward(events []sse.Event, w io.Writer, text *strings.Builder) (bool, error) {
	for _, ev := range events {
		if ev.Type == sse.EventDone {
			return true, nil
		}

		delta, err := r.decode(ev.Data)
		if err != nil {
			r.logger.Warn("skipping malformed stream payload",
				zap.String("payload", truncate(ev.Data, 256)),
				zap.Error(err),
			)
			continue
		}
		if delta == "" {
			continue
		}

		if _, err := io.WriteString(w, delta); err != nil {
			return false, fmt.Errorf("failed to write downstream: %w", err)
		}
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		text.WriteString(delta)
	}
	return false, nil
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
