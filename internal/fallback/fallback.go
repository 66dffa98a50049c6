// Package fallback implements the non-interactive output mode (spec.md §6):
// when stdout is not a terminal, reap falls back to a line-oriented listing
// of matches followed by one grand-total line instead of the interactive
// TUI.
//
// Progress reporting is grounded on the teacher's internal/progress (a
// progressbar wrapper that is a no-op when disabled) and its verbose-mode
// stdout reporting in internal/deduper/deduper.go (clear the progress line,
// then print one line per completed item).
package fallback

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/kalbhor/reap/internal/discover"
	"github.com/kalbhor/reap/internal/ignore"
	"github.com/kalbhor/reap/internal/model"
	"github.com/kalbhor/reap/internal/sizecalc"
	"github.com/kalbhor/reap/internal/sizefmt"
)

// Options configures a non-interactive run.
type Options struct {
	Root            string
	Pattern         string
	Ignore          *ignore.Set
	DiscoverWorkers int
	SizeWorkers     int
	// Quiet suppresses the progress spinner (e.g. when stderr is not a
	// terminal either).
	Quiet bool
}

// Run walks root for Pattern, computes each match's size, and prints one
// line per match followed by a grand total. It returns the discovery
// error, if any, so the caller can choose the process exit code.
func Run(out io.Writer, opts Options) error {
	discoverCh := make(chan model.DiscoveryMsg, 256)
	go discover.Stream(opts.Root, opts.Pattern, opts.Ignore, opts.DiscoverWorkers, discoverCh)

	pool := sizecalc.New(opts.SizeWorkers)
	defer pool.Close()

	spinner := newSpinner(!opts.Quiet)

	var (
		total    uint64
		discErr  error
		pending  int
		discDone bool
	)
	resultsSeen := 0

	paths := make([]string, 0, 64)

	for !discDone || pending > 0 {
		select {
		case msg, ok := <-discoverCh:
			if !ok {
				discDone = true
				continue
			}
			switch msg.Kind {
			case model.DiscoveryFound:
				paths = append(paths, msg.Path)
				pending++
				pool.Submit(msg.Path)
				spinner.Describe(fmt.Sprintf("scanning… %d found", len(paths)))
			case model.DiscoveryComplete:
				discDone = true
			case model.DiscoveryError:
				discErr = msg.Error
				discDone = true
			}
		case res := <-pool.Results():
			pending--
			resultsSeen++
			total += res.Size
			spinner.Clear()
			printResult(out, res)
			spinner.Describe(fmt.Sprintf("computing… %d/%d", resultsSeen, len(paths)))
		}
	}

	spinner.Finish()

	if discErr != nil {
		fmt.Fprintf(out, "discovery error: %v\n", discErr)
		return discErr
	}

	fmt.Fprintf(out, "%d matches, %s total\n", len(paths), sizefmt.Bytes(total))
	return nil
}

func printResult(out io.Writer, res model.SizeMsg) {
	if res.Err != nil {
		fmt.Fprintf(out, "%s\terror: %v\n", res.Path, res.Err)
		return
	}
	fmt.Fprintf(out, "%s\t%s\n", res.Path, sizefmt.Bytes(res.Size))
}

// spinner wraps progressbar.ProgressBar with enabled/disabled handling, the
// same no-op-when-disabled shape as the teacher's internal/progress.Bar.
type spinner struct {
	bar *progressbar.ProgressBar
}

func newSpinner(enabled bool) *spinner {
	if !enabled {
		return &spinner{}
	}
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionClearOnFinish(),
	)
	return &spinner{bar: bar}
}

func (s *spinner) Describe(text string) {
	if s.bar != nil {
		s.bar.Describe(text)
	}
}

func (s *spinner) Clear() {
	if s.bar != nil {
		fmt.Fprint(os.Stderr, "\r\033[K")
	}
}

func (s *spinner) Finish() {
	if s.bar != nil {
		_ = s.bar.Finish()
	}
}
