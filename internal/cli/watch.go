package cli

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/disposition/pkg/errors"
	"github.com/matzehuels/disposition/pkg/pipeline"
)

const defaultDebounce = 100 * time.Millisecond

func (c *CLI) watchCommand() *cobra.Command {
	var (
		opts     renderOpts
		debounce time.Duration
		plain    bool
	)

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-render a diagram whenever it changes",
		Long: `Watch a diagram document and re-render it on every change.

Changes made while a render is running are folded into a single follow-up
render. The status list shows parse errors, mapping warnings and layout
errors in that order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyRenderConfig(cmd, &opts)
			interactive := !plain && isTerminal(os.Stdout)
			return c.runWatch(cmd.Context(), cmd.OutOrStdout(), args[0], &opts, debounce, interactive)
		},
	}
	addRenderFlags(cmd, &opts)
	cmd.Flags().DurationVar(&debounce, "debounce", defaultDebounce, "wait this long after a change before rendering")
	cmd.Flags().BoolVar(&plain, "plain", false, "log results instead of showing the status view")
	return cmd
}

// watchStatus is the outcome of one render.
type watchStatus struct {
	Output string
	At     time.Time
	Result *pipeline.Result
	Issues []string
	Err    error
}

// statusKind orders the lines of the status list.
type statusKind int

const (
	statusParseError statusKind = iota
	statusWarning
	statusLayoutError
	statusOtherError
)

type statusLine struct {
	Kind statusKind
	Text string
}

// Lines returns the status list: parse errors, then mapping warnings, then
// layout errors.
func (s watchStatus) Lines() []statusLine {
	var lines []statusLine
	if s.Err != nil && errors.Is(s.Err, errors.ErrCodeParse) {
		lines = append(lines, statusLine{statusParseError, errors.UserMessage(s.Err)})
	}
	for _, issue := range s.Issues {
		lines = append(lines, statusLine{statusWarning, issue})
	}
	switch {
	case s.Err == nil, errors.Is(s.Err, errors.ErrCodeParse):
	case errors.Is(s.Err, errors.ErrCodeLayout), errors.Is(s.Err, errors.ErrCodeInvalidInput):
		lines = append(lines, statusLine{statusLayoutError, errors.UserMessage(s.Err)})
	default:
		lines = append(lines, statusLine{statusOtherError, s.Err.Error()})
	}
	return lines
}

// coalescer folds any number of notifications into at most one pending run.
type coalescer struct {
	pending chan struct{}
}

func newCoalescer() *coalescer {
	return &coalescer{pending: make(chan struct{}, 1)}
}

// Notify marks a run as pending. It never blocks.
func (c *coalescer) Notify() {
	select {
	case c.pending <- struct{}{}:
	default:
	}
}

// C receives once per pending run.
func (c *coalescer) C() <-chan struct{} { return c.pending }

// watchLoop calls run once at start and again after every notification,
// waiting debounce first so that a burst of changes yields one run.
func watchLoop(ctx context.Context, co *coalescer, debounce time.Duration, run func() watchStatus, sink func(watchStatus)) error {
	sink(run())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-co.C():
		}
		if debounce > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(debounce):
			}
			// Drop the notification the burst left behind.
			select {
			case <-co.C():
			default:
			}
		}
		sink(run())
	}
}

// watchFile notifies co whenever path is written, created or renamed. The
// directory is watched so that editors replacing the file are seen.
func watchFile(ctx context.Context, path string, co *coalescer) (func() error, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", path)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create watcher")
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "watch %s", filepath.Dir(abs))
	}

	logger := loggerFromContext(ctx)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs {
					continue
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
					logger.Debug("file changed", "path", ev.Name, "op", ev.Op.String())
					co.Notify()
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("watch error", "err", err)
			}
		}
	}()
	return w.Close, nil
}

func (c *CLI) runWatch(ctx context.Context, stdout io.Writer, input string, opts *renderOpts, debounce time.Duration, interactive bool) error {
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	co := newCoalescer()
	closeWatcher, err := watchFile(ctx, input, co)
	if err != nil {
		return err
	}
	defer closeWatcher()

	output := baseOutput(input, opts.output)
	if len(opts.lods) > 1 {
		opts.lods = opts.lods[:1]
	}

	run := func() watchStatus {
		return c.renderOnce(ctx, runner, input, output, opts)
	}

	if !interactive {
		logger := loggerFromContext(ctx)
		err := watchLoop(ctx, co, debounce, run, func(s watchStatus) {
			logWatchStatus(logger, s)
		})
		if stderrors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	// Runner logs would draw over the status view.
	runner.Logger = newLogger(io.Discard, LogInfo)
	p := tea.NewProgram(newWatchModel(input), tea.WithContext(ctx), tea.WithOutput(stdout))
	go func() {
		_ = watchLoop(ctx, co, debounce, run, func(s watchStatus) { p.Send(s) })
	}()
	_, err = p.Run()
	if stderrors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// renderOnce renders input and replaces output on success. On failure the
// previous output is left in place.
func (c *CLI) renderOnce(ctx context.Context, runner *pipeline.Runner, input, output string, opts *renderOpts) watchStatus {
	st := watchStatus{Output: output, At: time.Now()}

	doc, err := os.ReadFile(input)
	if err != nil {
		st.Err = errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", input)
		return st
	}
	res, err := runner.Execute(ctx, opts.pipelineOptions(doc)[0])
	if err != nil {
		st.Err = err
		if errors.Is(err, errors.ErrCodeLayout) {
			st.Issues = mappingIssues(doc)
		}
		return st
	}
	st.Result, st.Issues = res, res.Issues
	if err := writeFileAtomic(output, res.SVG); err != nil {
		st.Err = err
	}
	return st
}

// mappingIssues reruns the front of the pipeline to recover the issues of
// a document whose layout failed.
func mappingIssues(doc []byte) []string {
	in, err := pipeline.Parse(doc, -1)
	if err != nil {
		return nil
	}
	_, issues := pipeline.Lower(in)
	return issues
}

func logWatchStatus(logger *log.Logger, s watchStatus) {
	for _, line := range s.Lines() {
		switch line.Kind {
		case statusWarning:
			logger.Warn(line.Text)
		default:
			logger.Error(line.Text)
		}
	}
	if s.Err == nil && s.Result != nil {
		logger.Info("rendered", "output", s.Output, "nodes", s.Result.Stats.NodeCount, "edges", s.Result.Stats.EdgeCount, "cached", s.Result.CacheInfo.Hit)
	}
}
