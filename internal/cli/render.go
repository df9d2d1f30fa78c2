package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/matzehuels/disposition/pkg/errors"
	"github.com/matzehuels/disposition/pkg/pipeline"
	"github.com/matzehuels/disposition/pkg/render/nodelink"
)

// renderOpts holds the flags shared by render and watch.
type renderOpts struct {
	output        string   // output file, or base path when several LODs are rendered
	lods          []string // levels of detail: simple, normal
	width         float64  // layout width, 0 for no limit
	height        float64  // layout height, 0 for no limit
	edgeAnimation string   // always, step_focus or none
	noFont        bool     // leave out the embedded font
	tooltips      bool     // add <title> tooltips from descriptions
	noCache       bool     // bypass the render cache
	refresh       bool     // re-render even when cached
	overview      bool     // also write a Graphviz overview
}

func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <file|->",
		Short: "Render a diagram document to SVG",
		Long: `Render a diagram document to a self-contained SVG.

Pass --lod more than once to render several levels of detail in parallel;
each is written to <output>.<lod>.svg.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyRenderConfig(cmd, &opts)
			return c.runRender(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), args[0], &opts)
		},
	}
	addRenderFlags(cmd, &opts)
	cmd.Flags().BoolVar(&opts.overview, "overview", false, "also write a Graphviz overview to <output>.overview.svg")
	return cmd
}

func addRenderFlags(cmd *cobra.Command, opts *renderOpts) {
	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output file (default: input name with .svg)")
	f.StringSliceVar(&opts.lods, "lod", nil, "level of detail: simple, normal (repeatable)")
	f.Float64Var(&opts.width, "width", 0, "layout width in pixels (0 = no limit)")
	f.Float64Var(&opts.height, "height", 0, "layout height in pixels (0 = no limit)")
	f.StringVar(&opts.edgeAnimation, "edge-animation", "", "interaction edge animation: always, step_focus, none")
	f.BoolVar(&opts.noFont, "no-font", false, "do not embed the monospace font")
	f.BoolVar(&opts.tooltips, "tooltips", false, "add tooltips from entity descriptions")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	f.BoolVar(&opts.refresh, "refresh", false, "re-render even when a cached result exists")
}

// applyRenderConfig fills every flag the user did not set from the config
// file.
func (c *CLI) applyRenderConfig(cmd *cobra.Command, opts *renderOpts) {
	rc := c.Config.Render
	f := cmd.Flags()
	if !f.Changed("lod") {
		opts.lods = []string{rc.LOD}
	}
	if !f.Changed("width") {
		opts.width = rc.Width
	}
	if !f.Changed("height") {
		opts.height = rc.Height
	}
	if !f.Changed("edge-animation") {
		opts.edgeAnimation = rc.EdgeAnimation
	}
	if !f.Changed("no-font") {
		opts.noFont = rc.NoFont
	}
	if !f.Changed("tooltips") {
		opts.tooltips = rc.Tooltips
	}
	if !f.Changed("no-cache") {
		opts.noCache = rc.NoCache
	}
}

// pipelineOptions returns one option set per level of detail.
func (o *renderOpts) pipelineOptions(doc []byte) []pipeline.Options {
	out := make([]pipeline.Options, 0, len(o.lods))
	for _, lod := range o.lods {
		out = append(out, pipeline.Options{
			Document:      string(doc),
			Width:         o.width,
			Height:        o.height,
			LOD:           lod,
			EdgeAnimation: o.edgeAnimation,
			NoFont:        o.noFont,
			Tooltips:      o.tooltips,
			Refresh:       o.refresh,
		})
	}
	return out
}

func (c *CLI) runRender(ctx context.Context, stdin io.Reader, stdout io.Writer, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	doc, err := readDocument(input, stdin)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	var spin *Spinner
	if isTerminal(os.Stderr) {
		spin = newSpinner(ctx, os.Stderr, "Rendering "+input)
		spin.Start()
	}
	results, err := runner.ExecuteAll(ctx, opts.pipelineOptions(doc))
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}

	paths := outputPaths(input, opts.output, opts.lods)
	printIssues(stdout, results[0].Issues)
	for i, res := range results {
		if err := writeFileAtomic(paths[i], res.SVG); err != nil {
			return err
		}
		printSuccess(stdout, "Rendered %s", opts.lods[i])
		printFile(stdout, paths[i])
		printStats(stdout, res)
	}

	if opts.overview {
		svg, err := runner.Overview(ctx, doc, "svg", nodelink.Options{})
		if err != nil {
			return err
		}
		path := trimExt(baseOutput(input, opts.output)) + ".overview.svg"
		if err := writeFileAtomic(path, svg); err != nil {
			return err
		}
		printFile(stdout, path)
	}

	prog.done(fmt.Sprintf("Rendered %s", input))
	return nil
}

// readDocument reads path, or stdin when path is "-".
func readDocument(path string, stdin io.Reader) ([]byte, error) {
	var (
		doc []byte
		err error
	)
	if path == "-" {
		doc, err = io.ReadAll(stdin)
	} else {
		doc, err = os.ReadFile(path)
	}
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "no such file: %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	return doc, nil
}

// baseOutput is the output path for a single render.
func baseOutput(input, output string) string {
	if output != "" {
		return output
	}
	if input == "-" {
		return "diagram.svg"
	}
	return trimExt(input) + ".svg"
}

func trimExt(p string) string {
	return strings.TrimSuffix(p, filepath.Ext(p))
}

// outputPaths returns the output file for each level of detail.
func outputPaths(input, output string, lods []string) []string {
	base := baseOutput(input, output)
	if len(lods) <= 1 {
		return []string{base}
	}
	stem := trimExt(base)
	paths := make([]string, len(lods))
	for i, lod := range lods {
		paths[i] = stem + "." + lod + ".svg"
	}
	return paths
}

// writeFileAtomic replaces path so readers never see a partial document.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeEmit, err, "write %s", path)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeEmit, err, "write %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeEmit, err, "write %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(errors.ErrCodeEmit, err, "write %s", path)
	}
	return nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
