package main

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/Delete1994/PDF-Compare/internal/result"
)

// progress shows one step per comparison method on stderr.
type progress struct {
	bar *progressbar.ProgressBar
}

func newProgress(steps int) *progress {
	return &progress{bar: progressbar.NewOptions(steps,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("comparing"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)}
}

func (p *progress) Started(m result.Method) {
	p.bar.Describe(fmt.Sprintf("comparing: %s", m))
}

func (p *progress) Finished(result.MethodResult) {
	_ = p.bar.Add(1)
}

func (p *progress) Close() {
	_ = p.bar.Finish()
}
