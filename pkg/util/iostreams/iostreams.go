package iostreams

import (
	"fmt"
	"io"
)

// Interface abstracts formatted access to the output and error streams so
// commands and probes can log without holding on to raw writers.
type Interface interface {
	// Fprintf writes formatted output to Out with an automatic newline.
	Fprintf(format string, args ...any)

	// Fprintln writes output to Out with an automatic newline.
	Fprintln(args ...any)

	// Errorf writes formatted output to ErrOut with an automatic newline.
	Errorf(format string, args ...any)

	// Errorln writes output to ErrOut with an automatic newline.
	Errorln(args ...any)

	// Out returns the underlying output stream.
	Out() io.Writer
}

// IOStreams is the default Interface implementation over a set of streams.
type IOStreams struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

// NewIOStreams creates an IOStreams over the given streams.
func NewIOStreams(in io.Reader, out io.Writer, errOut io.Writer) *IOStreams {
	return &IOStreams{
		in:     in,
		out:    out,
		errOut: errOut,
	}
}

// Fprintf writes formatted output to Out with an automatic newline.
// When no args are provided the format string is written as-is.
func (s *IOStreams) Fprintf(format string, args ...any) {
	write(s.out, format, args...)
}

// Fprintln writes output to Out with an automatic newline.
func (s *IOStreams) Fprintln(args ...any) {
	if s.out == nil {
		return
	}

	_, _ = fmt.Fprintln(s.out, args...)
}

// Errorf writes formatted output to ErrOut with an automatic newline.
// When no args are provided the format string is written as-is.
func (s *IOStreams) Errorf(format string, args ...any) {
	write(s.errOut, format, args...)
}

// Errorln writes output to ErrOut with an automatic newline.
func (s *IOStreams) Errorln(args ...any) {
	if s.errOut == nil {
		return
	}

	_, _ = fmt.Fprintln(s.errOut, args...)
}

// Out returns the underlying output stream.
func (s *IOStreams) Out() io.Writer {
	return s.out
}

func write(w io.Writer, format string, args ...any) {
	if w == nil {
		return
	}

	message := format
	if len(args) > 0 {
		message = fmt.Sprintf(format, args...)
	}

	_, _ = fmt.Fprintln(w, message)
}

// QuietWrapper suppresses error-stream chatter (progress messages) while
// leaving report output untouched. Used when verbose mode is off.
type QuietWrapper struct {
	delegate Interface
}

// NewQuietWrapper wraps an Interface, dropping Errorf/Errorln output.
func NewQuietWrapper(delegate Interface) *QuietWrapper {
	return &QuietWrapper{delegate: delegate}
}

// Fprintf writes formatted output to Out with an automatic newline.
func (q *QuietWrapper) Fprintf(format string, args ...any) {
	q.delegate.Fprintf(format, args...)
}

// Fprintln writes output to Out with an automatic newline.
func (q *QuietWrapper) Fprintln(args ...any) {
	q.delegate.Fprintln(args...)
}

// Errorf drops progress output in quiet mode.
func (q *QuietWrapper) Errorf(_ string, _ ...any) {}

// Errorln drops progress output in quiet mode.
func (q *QuietWrapper) Errorln(_ ...any) {}

// Out returns the underlying output stream.
func (q *QuietWrapper) Out() io.Writer {
	return q.delegate.Out()
}
