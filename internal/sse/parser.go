// Package sse incrementally parses a server-sent-event byte stream into data
// events, independent of how the bytes were split across network reads.
package sse

import (
	"bytes"
)

const (
	// DataPrefix marks a line carrying an event payload.
	DataPrefix = "data:"
	// DoneSentinel is the payload that ends a completion stream.
	DoneSentinel = "[DONE]"
)

// EventType distinguishes payload events from the end-of-stream sentinel.
type EventType int

const (
	EventData EventType = iota
	EventDone
)

func (t EventType) String() string {
	switch t {
	case EventData:
		return "data"
	case EventDone:
		return "done"
	}
	return "unknown"
}

// Event is one complete unit extracted from the stream.
type Event struct {
	Type EventType
	Data string
}

// Parser assembles lines from arbitrary chunks. It is not safe for concurrent use.
type Parser struct {
	buf  []byte
	done bool
}

func NewParser() *Parser {
	return &Parser{}
}

// Done reports whether the sentinel has been seen. After that every call
// returns no events.
func (p *Parser) Done() bool {
	return p.done
}

// Buffered returns the number of bytes waiting for a line terminator.
func (p *Parser) Buffered() int {
	return len(p.buf)
}

// Feed appends chunk to the line buffer and returns the events of every line it
// completed. The trailing fragment without a newline stays buffered.
func (p *Parser) Feed(chunk []byte) []Event {
	if p.done {
		return nil
	}
	p.buf = append(p.buf, chunk...)

	var events []Event
	for {
		i := bytes.IndexByte(p.buf, '\n')
		if i < 0 {
			break
		}
		line := p.buf[:i]
		p.buf = p.buf[i+1:]

		ev, ok := parseLine(line)
		if !ok {
			continue
		}
		events = append(events, ev)
		if ev.Type == EventDone {
			p.finish()
			return events
		}
	}

	// Compact so a long stream does not pin every consumed byte.
	if len(p.buf) == 0 {
		p.buf = nil
	} else if cap(p.buf) > 2*len(p.buf)+4096 {
		p.buf = append([]byte(nil), p.buf...)
	}
	return events
}

// End flushes the stream once the underlying reader is exhausted. A leftover
// fragment is interpreted one last time: as a data line when it carries the
// prefix, otherwise as a bare payload.
func (p *Parser) End() []Event {
	if p.done {
		return nil
	}
	tail := bytes.TrimSpace(p.buf)
	p.finish()
	if len(tail) == 0 {
		return nil
	}

	if ev, ok := parseLine(tail); ok {
		return []Event{ev}
	}
	payload := string(tail)
	if payload == DoneSentinel {
		return []Event{{Type: EventDone}}
	}
	return []Event{{Type: EventData, Data: payload}}
}

func (p *Parser) finish() {
	p.done = true
	p.buf = nil
}

func parseLine(line []byte) (Event, bool) {
	line = bytes.TrimSuffix(line, []byte("\r"))
	if !bytes.HasPrefix(line, []byte(DataPrefix)) {
		return Event{}, false
	}
	payload := line[len(DataPrefix):]
	payload = bytes.TrimPrefix(payload, []byte(" "))

	if string(payload) == DoneSentinel {
		return Event{Type: EventDone}, true
	}
	return Event{Type: EventData, Data: string(payload)}, true
}
