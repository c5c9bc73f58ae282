package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// contextShownToUsers lists the context keys printed after a user-facing message.
var contextShownToUsers = []string{"field", "store", "file", "id"}

// CLIErrorAdapter prints errors and exits with a category-specific code.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	out     io.Writer
	exit    func(int)
}

// NewCLIErrorAdapter creates an adapter writing to stderr.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{verbose: verbose, logger: logger, out: os.Stderr, exit: os.Exit}
}

// ExitCodeFor returns 0 for nil, 1 for unclassified errors and the category code otherwise.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	if c, ok := AsClassified(err); ok {
		return c.Category().ExitCode()
	}
	return 1
}

// FormatError renders err for the terminal. Operator-correctable problems show
// their message and key context; everything else needs -v for details.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	c, ok := AsClassified(err)
	switch {
	case !ok:
		return "Error: " + err.Error()
	case a.verbose:
		return c.Error()
	case !c.Category().UserFacing():
		return "Internal error occurred (use -v for details)"
	}

	var b strings.Builder
	b.WriteString("Error: ")
	b.WriteString(c.Message())
	for _, key := range contextShownToUsers {
		if v, ok := c.Context().GetString(key); ok {
			fmt.Fprintf(&b, " (%s: %s)", key, v)
		}
	}
	return b.String()
}

// HandleError prints err and exits. A nil error returns without exiting.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}
	if a.shouldLog(err) {
		a.logError(err)
	}
	_, _ = fmt.Fprintln(a.out, a.FormatError(err))
	a.exit(a.ExitCodeFor(err))
}

func (a *CLIErrorAdapter) shouldLog(err error) bool {
	c, ok := AsClassified(err)
	return a.verbose || !ok || c.IsFatal()
}

func (a *CLIErrorAdapter) logError(err error) {
	c, ok := AsClassified(err)
	if !ok {
		a.logger.Error("Unclassified error", "error", err)
		return
	}
	attrs := []slog.Attr{slog.String("category", string(c.Category()))}
	for _, k := range c.Context().Keys() {
		attrs = append(attrs, slog.Any(k, c.Context()[k]))
	}
	if cause := c.Cause(); cause != nil {
		attrs = append(attrs, slog.String("cause", cause.Error()))
	}
	a.logger.LogAttrs(context.Background(), slogLevel(c.Severity()), c.Message(), attrs...)
}
