// Package progress reports reindex progress to the terminal or CI logs.
package progress

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Reporter provides progress feedback during reindex runs.
type Reporter interface {
	Start(total int)
	Update(current int, message string)
	Finish()
}

// NewReporter picks a reporter for the environment: line-by-line output
// under CI, a terminal bar otherwise.
func NewReporter() Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &lineReporter{}
	}
	return &barReporter{}
}

// barReporter renders an in-place progress bar on stderr, off the MCP and
// log stream.
type barReporter struct {
	bar *progressbar.ProgressBar
}

func (r *barReporter) Start(total int) {
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Reindexing"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *barReporter) Update(current int, message string) {
	if r.bar == nil {
		return
	}
	r.bar.Describe(message)
	_ = r.bar.Set(current)
}

func (r *barReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

// lineReporter prints one line per document, suitable for CI logs.
type lineReporter struct {
	total int
}

func (r *lineReporter) Start(total int) {
	r.total = total
	fmt.Fprintf(os.Stderr, "Reindexing %d documents\n", total)
}

func (r *lineReporter) Update(current int, message string) {
	fmt.Fprintf(os.Stderr, "[%d/%d] %s\n", current, r.total, message)
}

func (r *lineReporter) Finish() {
	fmt.Fprintln(os.Stderr, "Reindex complete")
}
