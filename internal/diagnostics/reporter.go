package diagnostics

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

// Reporter prints CompileErrors and a one-line pass summary. Color is
// only emitted when the destination is an actual terminal, so ANSI
// escapes never land in redirected output.
type Reporter struct {
	w        io.Writer
	useColor bool
}

func NewReporter(w io.Writer) *Reporter {
	useColor := false
	if f, ok := w.(*os.File); ok {
		useColor = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Reporter{w: w, useColor: useColor}
}

const (
	colorRed    = "\x1b[31m"
	colorYellow = "\x1b[33m"
	colorReset  = "\x1b[0m"
)

func (r *Reporter) colorFor(phase Phase) string {
	switch phase {
	case PhaseInheritance:
		return colorYellow
	default:
		return colorRed
	}
}

// Report prints every error, one per line.
func (r *Reporter) Report(errs []*CompileError) {
	for _, e := range errs {
		if r.useColor {
			fmt.Fprintf(r.w, "%s%s%s\n", r.colorFor(e.Phase), e.Error(), colorReset)
		} else {
			fmt.Fprintln(r.w, e.Error())
		}
	}
}

// Summary prints a one-line digest of a completed pass: how many
// classes/traits/functions were examined and how long it took.
func (r *Reporter) Summary(passName string, classCount, functionCount int, elapsed time.Duration) {
	fmt.Fprintf(r.w, "%s: examined %s classes/traits and %s functions (%s)\n",
		passName,
		humanize.Comma(int64(classCount)),
		humanize.Comma(int64(functionCount)),
		elapsed.Round(time.Microsecond),
	)
}
