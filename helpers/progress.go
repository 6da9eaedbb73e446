package helpers

import (
	"fmt"
	"io"

	"github.com/cheggaaa/pb/v3"
)

const defaultBarStyle = "█"

// ProgressBar reports per-file fetch progress on a terminal.
type ProgressBar struct {
	out         io.Writer
	style       string
	description string
	bar         *pb.ProgressBar
}

func NewProgressBar(out io.Writer, style, description string) *ProgressBar {
	if style == "" {
		style = defaultBarStyle
	}
	return &ProgressBar{out: out, style: style, description: description}
}

func (p *ProgressBar) template() pb.ProgressBarTemplate {
	return pb.ProgressBarTemplate(fmt.Sprintf(
		`{{string . "prefix"}} {{counters . }} {{bar . "|" %q %q " " "|"}} {{percent . }} {{speed . "%%s files/s"}}`,
		p.style, p.style,
	))
}

func (p *ProgressBar) Start(total int) {
	p.bar = p.template().New(total)
	p.bar.SetWriter(p.out)
	p.bar.Set("prefix", p.description)
	p.bar.Start()
}

func (p *ProgressBar) Increment(int) {
	if p.bar != nil {
		p.bar.Increment()
	}
}

func (p *ProgressBar) Finish() {
	if p.bar != nil {
		p.bar.Finish()
	}
}

// Current is the number of completed increments.
func (p *ProgressBar) Current() int64 {
	if p.bar == nil {
		return 0
	}
	return p.bar.Current()
}
