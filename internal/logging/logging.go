// Package logging builds the zerolog logger used for diagnostic output.
// Diagnostic logs go to stderr only; user-facing progress text is printed
// by the commands themselves.
package logging

import (
	"io"
	"os"
	"regexp"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// RedactedValue replaces secrets in log output.
const RedactedValue = "[REDACTED]"

var sensitivePatterns = []*regexp.Regexp{
	// Google API keys.
	regexp.MustCompile(`AIza[0-9A-Za-z_\-]{35}`),
	// Credentials passed as a query parameter.
	regexp.MustCompile(`([?&]key=)[^&\s"]+`),
	regexp.MustCompile(`(?i)(GEMINI_API_KEY\s*=\s*)\S+`),
}

// FilterSensitiveValue replaces API keys in s with RedactedValue.
func FilterSensitiveValue(s string) string {
	s = sensitivePatterns[0].ReplaceAllString(s, RedactedValue)
	for _, pattern := range sensitivePatterns[1:] {
		s = pattern.ReplaceAllString(s, "${1}"+RedactedValue)
	}
	return s
}

// FilteringWriter redacts secrets from everything written through it.
type FilteringWriter struct {
	w io.Writer
}

// NewFilteringWriter wraps w.
func NewFilteringWriter(w io.Writer) *FilteringWriter {
	return &FilteringWriter{w: w}
}

// Write implements io.Writer. It reports the original length so zerolog does
// not treat redaction as a short write.
func (fw *FilteringWriter) Write(p []byte) (int, error) {
	if _, err := fw.w.Write([]byte(FilterSensitiveValue(string(p)))); err != nil {
		return 0, err
	}
	return len(p), nil
}

// New returns a logger writing to w. Verbose enables debug level; otherwise
// only warnings and errors are emitted. A terminal gets human-readable console
// output, anything else gets JSON lines.
func New(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	var out io.Writer = NewFilteringWriter(w)
	if isTerminal(w) {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen, NoColor: os.Getenv("NO_COLOR") != ""}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
