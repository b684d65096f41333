package actlog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"

	"github.com/actlog/actlog-go/internal/parser"
	"github.com/actlog/actlog-go/pkg/actlog/event"
)

// discardLogger returns a logger that discards all output.
var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// window walks a text buffer in line-aligned chunks of roughly size bytes.
type window struct {
	text string
	pos  int
	size int
}

// next returns the next chunk. A chunk extends past size to the end of the
// line it would otherwise split.
func (w *window) next() (string, bool) {
	if w.pos >= len(w.text) {
		return "", false
	}
	end := w.pos + w.size
	if end >= len(w.text) {
		end = len(w.text)
	} else if i := strings.IndexByte(w.text[end:], '\n'); i >= 0 {
		end += i + 1
	} else {
		end = len(w.text)
	}
	chunk := w.text[w.pos:end]
	w.pos = end
	return chunk, true
}

// Progress returns the fraction of the buffer consumed so far.
func (w *window) Progress() float64 {
	if len(w.text) == 0 {
		return 1
	}
	return float64(w.pos) / float64(len(w.text))
}

func (w *window) offset() int { return w.pos }

// eachLine calls fn for every line of chunk, without the trailing newline.
func eachLine(chunk string, fn func(line string)) {
	for len(chunk) > 0 {
		i := strings.IndexByte(chunk, '\n')
		if i < 0 {
			fn(chunk)
			return
		}
		fn(chunk[:i])
		chunk = chunk[i+1:]
	}
}

// stepper is a resumable scan: each Step processes one window and reports
// whether input remains.
type stepper interface {
	Step() bool
	Progress() float64
	offset() int
}

// drive runs s to completion. With yield set it checks ctx before every
// window and yields the processor between windows; without it the pass is
// uninterrupted. Both produce the same result.
func drive(ctx context.Context, op string, s stepper, progress ProgressFunc, yield bool) error {
	for {
		if yield {
			if err := ctx.Err(); err != nil {
				return &ScanError{Op: op, Offset: s.offset(), Err: err}
			}
		}
		more := s.Step()
		if progress != nil {
			if err := progress(s.Progress()); err != nil {
				return &ScanError{Op: OpProgress, Offset: s.offset(), Err: err}
			}
		}
		if !more {
			return nil
		}
		if yield {
			runtime.Gosched()
		}
	}
}

// Scanner decodes a log buffer window by window.
//
// A Scanner is a step function: call Step until it returns false, then read
// Result. Scan and ScanImmediate are ready-made drivers. A Scanner must not
// be used from multiple goroutines.
type Scanner struct {
	window
	cfg  *config
	acc  *accumulator
	done bool
}

// NewScanner validates opts and prepares a scan of text.
func NewScanner(text string, opts ...Option) (*Scanner, error) {
	cfg := applyOptions(opts)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return &Scanner{
		window: window{text: text, size: cfg.windowSize},
		cfg:    cfg,
		acc:    newAccumulator(cfg.classifier),
	}, nil
}

// Step processes one window. It returns false once the input is exhausted.
func (s *Scanner) Step() bool {
	if s.done {
		return false
	}
	chunk, ok := s.next()
	if ok {
		eachLine(chunk, s.line)
	}
	if s.pos >= len(s.text) {
		s.done = true
		s.cfg.logger.Debug("scan complete",
			"bytes", len(s.text),
			"events", len(s.acc.res.Events),
			"truncated", s.acc.res.Truncated,
			"malformed", s.acc.res.MalformedLines)
		return false
	}
	return true
}

func (s *Scanner) line(line string) {
	n, ok := parser.LeadingCode(line)
	if !ok {
		return
	}
	code := event.Code(n)
	if !code.Supported() {
		return
	}
	if code.IsStatus() && !s.cfg.includeStatus {
		return
	}

	acc := s.acc
	if len(acc.res.Events) >= s.cfg.maxEvents {
		s.truncate("max events reached")
		return
	}
	if code.IsStatus() && acc.statusCount >= s.cfg.maxStatusEvents {
		s.truncate("max status events reached")
		return
	}

	ev, err := parser.Parse(line)
	if err != nil {
		acc.res.MalformedLines++
		return
	}
	if ev == nil {
		return
	}
	if !s.cfg.includeRawLine {
		event.ClearRaw(ev)
	}
	acc.add(ev)
}

func (s *Scanner) truncate(reason string) {
	if !s.acc.res.Truncated {
		s.cfg.logger.Debug("dropping lines past cap", "reason", reason, "offset", s.pos)
	}
	s.acc.res.Truncated = true
}

// Result returns the aggregate of everything decoded so far.
func (s *Scanner) Result() *ParseResult {
	return s.acc.result()
}

// Scan decodes text in windows, yielding between them and stopping with a
// *ScanError if ctx is cancelled at a window boundary.
func Scan(ctx context.Context, text string, opts ...Option) (*ParseResult, error) {
	s, err := NewScanner(text, opts...)
	if err != nil {
		return nil, err
	}
	if err := drive(ctx, OpScan, s, s.cfg.progress, true); err != nil {
		return nil, err
	}
	return s.Result(), nil
}

// ScanImmediate decodes text in a single uninterrupted pass. For the same text
// and options the result is identical to Scan.
func ScanImmediate(text string, opts ...Option) (*ParseResult, error) {
	s, err := NewScanner(text, opts...)
	if err != nil {
		return nil, err
	}
	if err := drive(context.Background(), OpScan, s, s.cfg.progress, false); err != nil {
		return nil, err
	}
	return s.Result(), nil
}
