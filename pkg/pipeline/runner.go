package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/disposition/pkg/cache"
	"github.com/matzehuels/disposition/pkg/errors"
	"github.com/matzehuels/disposition/pkg/observability"
	"github.com/matzehuels/disposition/pkg/render/nodelink"
)

// Runner executes the pipeline with caching.
//
// A Runner holds no per-run state, so one Runner may serve many goroutines.
// Concurrent calls with the same document and options share a single
// execution.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	flight singleflight.Group
}

// NewRunner returns a runner. A nil cache disables caching and a nil keyer
// uses the DefaultKeyer.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// cachedResult is the cache envelope of a rendered document.
type cachedResult struct {
	SVG    []byte   `json:"svg"`
	Issues []string `json:"issues,omitempty"`
	Width  float64  `json:"width"`
	Height float64  `json:"height"`
	Nodes  int      `json:"nodes"`
	Edges  int      `json:"edges"`
}

// Execute renders opts.Document.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	docHash := cache.Hash([]byte(opts.Document))
	key := r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts())

	if !opts.Refresh {
		if res, ok := r.lookup(ctx, key); ok {
			res.DocHash = docHash
			opts.Logger.Debug("cache hit", "key", key)
			return res, nil
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// The shared run outlives any one caller; each caller waits on its own ctx.
	ch := r.flight.DoChan(key, func() (any, error) {
		wctx := context.WithoutCancel(ctx)
		res, err := r.run(wctx, opts)
		if err != nil {
			return nil, err
		}
		r.store(wctx, key, res)
		return res, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case out := <-ch:
		if out.Err != nil {
			return nil, out.Err
		}
		res := *out.Val.(*Result)
		res.DocHash = docHash
		res.CacheInfo.Shared = out.Shared
		return &res, nil
	}
}

// ExecuteAll renders several option sets in parallel. Results are in the
// order of opts; the first error cancels the remaining runs.
func (r *Runner) ExecuteAll(ctx context.Context, opts []Options) ([]*Result, error) {
	out := make([]*Result, len(opts))
	g, ctx := errgroup.WithContext(ctx)
	for i, o := range opts {
		g.Go(func() error {
			res, err := r.Execute(ctx, o)
			if err != nil {
				return err
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Runner) run(ctx context.Context, opts Options) (*Result, error) {
	hooks := observability.Pipeline()
	res := &Result{}

	stage := func(s observability.Stage, d *time.Duration, fn func() error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		hooks.OnStageStart(ctx, s)
		start := time.Now()
		err := fn()
		*d = time.Since(start)
		hooks.OnStageComplete(ctx, s, *d, err)
		return err
	}

	var p pass
	if err := stage(observability.StageParse, &res.Stats.ParseTime, func() (err error) {
		p.in, err = Parse([]byte(opts.Document), opts.MaxBytes)
		return err
	}); err != nil {
		return nil, err
	}
	_ = stage(observability.StageMap, &res.Stats.MapTime, func() error {
		p.d, res.Issues = Lower(p.in)
		return nil
	})
	hooks.OnIssues(ctx, len(res.Issues))
	for _, issue := range res.Issues {
		opts.Logger.Warn(issue)
	}

	if err := stage(observability.StageLayout, &res.Stats.LayoutTime, func() (err error) {
		p.l, err = Layout(p.d, opts)
		return err
	}); err != nil {
		return nil, err
	}
	if err := stage(observability.StageGeometry, &res.Stats.GeometryTime, func() error {
		p.e = Geometry(p.d, p.l, opts)
		return nil
	}); err != nil {
		return nil, err
	}
	if err := stage(observability.StageEmit, &res.Stats.EmitTime, func() error {
		res.SVG = Emit(p.d, p.e, opts)
		return nil
	}); err != nil {
		return nil, err
	}

	res.Stats.NodeCount = p.d.Nodes.Len()
	res.Stats.EdgeCount = p.d.EdgeCount()
	res.Stats.Width, res.Stats.Height = p.e.Width, p.e.Height

	opts.Logger.Info("rendered diagram",
		"nodes", res.Stats.NodeCount,
		"edges", res.Stats.EdgeCount,
		"size", p.l.DimensionAndLOD.Dimension,
		"lod", p.l.LOD,
		"duration", res.Stats.Total())
	return res, nil
}

func (r *Runner) lookup(ctx context.Context, key string) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
	}
	var c cachedResult
	if !hit || json.Unmarshal(data, &c) != nil {
		observability.Cache().OnCacheMiss(ctx, "svg")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "svg")
	return &Result{
		SVG:       c.SVG,
		Issues:    c.Issues,
		Stats:     Stats{NodeCount: c.Nodes, EdgeCount: c.Edges, Width: c.Width, Height: c.Height},
		CacheInfo: CacheInfo{Hit: true},
	}, true
}

func (r *Runner) store(ctx context.Context, key string, res *Result) {
	data, err := json.Marshal(cachedResult{
		SVG:    res.SVG,
		Issues: res.Issues,
		Width:  res.Stats.Width,
		Height: res.Stats.Height,
		Nodes:  res.Stats.NodeCount,
		Edges:  res.Stats.EdgeCount,
	})
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "svg", len(data))
}

// Overview renders the document's IR as Graphviz DOT, or as SVG when
// format is "svg".
func (r *Runner) Overview(ctx context.Context, doc []byte, format string, opts nodelink.Options) ([]byte, error) {
	if format != "dot" && format != "svg" {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "invalid overview format %q (must be dot or svg)", format)
	}
	cacheable := opts == nodelink.Options{}
	key := r.Keyer.OverviewKey(cache.Hash(doc), format)
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit && cacheable {
		observability.Cache().OnCacheHit(ctx, "overview")
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, "overview")

	in, err := Parse(doc, DefaultMaxBytes)
	if err != nil {
		return nil, err
	}
	d, _ := Lower(in)
	dot := nodelink.ToDOT(d, opts)

	out := []byte(dot)
	if format == "svg" {
		if out, err = nodelink.RenderSVG(ctx, dot); err != nil {
			return nil, err
		}
	}
	if cacheable {
		if err := r.Cache.Set(ctx, key, out, cache.TTLOverview); err == nil {
			observability.Cache().OnCacheSet(ctx, "overview", len(out))
		}
	}
	return out, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
