package utils

/*
 * This file contains structs and functions related to progress reporting.
 */

import (
	"io"
	"os"
	"time"

	"github.com/greenplum-db/gp-common-go-libs/gplog"
	"github.com/vbauerster/mpb/v5"
	"github.com/vbauerster/mpb/v5/decor"
	"golang.org/x/term"
)

/*
 * The following constants are used for determining when to display a progress bar
 *
 * PB_INFO only shows in info mode because some methods have a different way of
 * logging in verbose mode and we don't want them to conflict
 * PB_VERBOSE shows a progress bar in INFO and VERBOSE mode
 *
 * A simple incremental progress tracker will be shown in info mode and
 * in verbose mode we will log progress at increments of 5 percent
 */
const (
	PB_NONE = iota
	PB_INFO
	PB_VERBOSE

	INCR_PERCENT = 5
)

type ProgressBar interface {
	Start()
	Finish()
	Add(n int64)
}

// StdoutIsTerminal reports whether stdout is attached to a terminal; bars
// are suppressed when output is piped or redirected.
func StdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// NewByteProgressBar tracks progress through a byte stream of known total
// size.
func NewByteProgressBar(total int64, prefix string, showProgressBar int) ProgressBar {
	if showProgressBar == PB_NONE || !StdoutIsTerminal() {
		return &NoopProgressBar{}
	}
	progress := mpb.New(mpb.WithWidth(60), mpb.WithRefreshRate(180*time.Millisecond))
	bar := progress.AddBar(total, mpb.BarStyle(mpb.DefaultBarStyle),
		mpb.PrependDecorators(decor.Name(prefix), decor.CountersKibiByte(" %.1f / %.1f")),
		mpb.AppendDecorators(decor.Percentage()),
	)
	if showProgressBar == PB_VERBOSE {
		return &VerboseProgressBar{total: total, prefix: prefix, nextPercentToPrint: INCR_PERCENT, Bar: bar, Progress: progress}
	}
	return &ByteProgressBar{Bar: bar, Progress: progress}
}

type NoopProgressBar struct{}

func (*NoopProgressBar) Start()      {}
func (*NoopProgressBar) Finish()     {}
func (*NoopProgressBar) Add(n int64) {}

type ByteProgressBar struct {
	*mpb.Bar
	*mpb.Progress
}

func (pb *ByteProgressBar) Start()      {}
func (pb *ByteProgressBar) Finish()     { pb.Bar.SetTotal(0, true); pb.Progress.Wait() }
func (pb *ByteProgressBar) Add(n int64) { pb.Bar.IncrInt64(n) }

type VerboseProgressBar struct {
	current            int64
	total              int64
	prefix             string
	nextPercentToPrint int
	*mpb.Bar
	*mpb.Progress
}

func (vpb *VerboseProgressBar) Start()  {}
func (vpb *VerboseProgressBar) Finish() { vpb.Bar.SetTotal(0, true); vpb.Progress.Wait() }

func (vpb *VerboseProgressBar) Add(n int64) {
	vpb.Bar.IncrInt64(n)
	if vpb.current < vpb.total {
		vpb.current += n
		vpb.checkPercent()
	}
}

/*
 * If progress reaches a percentage that is a multiple of 5, log a message to
 * stdout. We increment nextPercentToPrint so the same percentage will not be
 * printed multiple times.
 */
func (vpb *VerboseProgressBar) checkPercent() {
	currPercent := int(float64(vpb.current) / float64(vpb.total) * 100)
	closestMult := currPercent / INCR_PERCENT * INCR_PERCENT
	if closestMult >= vpb.nextPercentToPrint {
		vpb.nextPercentToPrint = closestMult
		gplog.Verbose("%s %d%% (%d/%d bytes)", vpb.prefix, vpb.nextPercentToPrint, vpb.current, vpb.total)
		vpb.nextPercentToPrint += INCR_PERCENT
	}
}

// CountingReader feeds a progress bar as bytes flow through it.
type CountingReader struct {
	rd  io.Reader
	bar ProgressBar
}

func NewCountingReader(rd io.Reader, bar ProgressBar) *CountingReader {
	return &CountingReader{rd: rd, bar: bar}
}

func (c *CountingReader) Read(p []byte) (int, error) {
	n, err := c.rd.Read(p)
	if n > 0 {
		c.bar.Add(int64(n))
	}
	return n, err
}
