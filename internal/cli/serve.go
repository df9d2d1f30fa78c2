package cli

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/matzehuels/disposition/pkg/cache"
	"github.com/matzehuels/disposition/pkg/errors"
	"github.com/matzehuels/disposition/pkg/observability"
	"github.com/matzehuels/disposition/pkg/pipeline"
	"github.com/matzehuels/disposition/pkg/render/nodelink"
)

const (
	headerRequestID = "X-Request-ID"
	headerIssues    = "X-Disposition-Issues"
	headerCache     = "X-Disposition-Cache"

	shutdownTimeout = 10 * time.Second
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		redisURL string
		envFile  string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Render diagrams over HTTP",
		Long: `Serve the render pipeline over HTTP.

Endpoints:
  POST /render     YAML body, or a JSON body with "document" and render options
                   (?download=name.svg serves the SVG as an attachment)
  POST /validate   YAML body; returns parse errors and mapping issues
  POST /overview   YAML body; returns the Graphviz overview (?format=dot|svg)
  GET  /healthz
  GET  /metrics    Prometheus metrics

Settings come from the [serve] table of the config file, then from a .env
file and DISPOSITION_* variables, then from flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.Config.Serve
			if err := cfg.applyEnv(envFile); err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("redis-url") {
				cfg.RedisURL = redisURL
			}
			return c.runServe(cmd.Context(), cfg, noCache)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&redisURL, "redis-url", "", "share the render cache through redis")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "environment file to load")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the render cache")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg ServeConfig, noCache bool) error {
	logger := loggerFromContext(ctx)

	var (
		ch    cache.Cache
		keyer cache.Keyer
		err   error
	)
	switch {
	case cfg.RedisURL != "" && !noCache:
		ch, err = cache.NewRedisCache(ctx, cfg.RedisURL)
		keyer = cache.NewScopedKeyer(nil, appName+":")
	default:
		ch, err = newCache(noCache)
	}
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(ch, keyer, logger)
	defer runner.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := observability.NewPrometheus(reg)
	observability.SetPipelineHooks(prom)
	observability.SetCacheHooks(prom)
	observability.SetHTTPHooks(prom)
	defer observability.Reset()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newServer(runner, cfg, reg).routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return withLogger(context.Background(), logger) },
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", cfg.Addr, "redis", cfg.RedisURL != "", "rate", cfg.Rate)
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server exited")
	return nil
}

// server holds the state shared by the HTTP handlers.
type server struct {
	runner   *pipeline.Runner
	cfg      ServeConfig
	limiter  *rate.Limiter
	gatherer prometheus.Gatherer
}

// newServer returns a server. A non-positive rate disables limiting.
func newServer(runner *pipeline.Runner, cfg ServeConfig, gatherer prometheus.Gatherer) *server {
	s := &server{runner: runner, cfg: cfg, gatherer: gatherer}
	if cfg.Rate > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.Rate), max(cfg.Burst, 1))
	}
	return s
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(instrument)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Post("/render", s.handleRender)
		r.Post("/validate", s.handleValidate)
		r.Post("/overview", s.handleOverview)
	})
	return r
}

// requestID tags every request with an id, taken from the X-Request-ID
// header when the client sends one, and adds it to the request logger.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get(headerRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		w.Header().Set(headerRequestID, rid)
		logger := loggerFromContext(r.Context()).With("request_id", rid)
		next.ServeHTTP(w, r.WithContext(withLogger(r.Context(), logger)))
	})
}

// instrument reports every request to the HTTP hooks.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		d := time.Since(start)
		observability.HTTP().OnRequest(r.Context(), r.Method, route, status, d)
		loggerFromContext(r.Context()).Debug("request", "method", r.Method, "route", route, "status", status, "duration", d)
	})
}

func (s *server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			w.Header().Set("Retry-After", "1")
			writeError(w, errors.New(errors.ErrCodeRateLimited, "rate limit exceeded"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	download := r.URL.Query().Get("download")
	if download != "" {
		if err := errors.ValidateFilename(download); err != nil {
			writeError(w, err)
			return
		}
	}
	opts, err := s.renderOptions(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	opts.Logger = loggerFromContext(r.Context())

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set(headerIssues, strconv.Itoa(len(res.Issues)))
	w.Header().Set(headerCache, cacheStatus(res.CacheInfo))
	w.Header().Set("ETag", `"`+res.DocHash[:16]+`"`)
	if download != "" {
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": download}))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.SVG)
}

// renderOptions reads the render request. A JSON body carries Options; any
// other body is the YAML document, with options from the query string.
func (s *server) renderOptions(w http.ResponseWriter, r *http.Request) (pipeline.Options, error) {
	body, err := s.readBody(w, r)
	if err != nil {
		return pipeline.Options{}, err
	}

	var opts pipeline.Options
	if mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mt == "application/json" {
		if err := json.Unmarshal(body, &opts); err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid JSON body: %v", err)
		}
	} else {
		opts.Document = string(body)
		q := r.URL.Query()
		opts.LOD = q.Get("lod")
		opts.EdgeAnimation = q.Get("edge_animation")
		opts.NoFont = q.Has("no_font")
		opts.Tooltips = q.Has("tooltips")
		if opts.Width, err = queryFloat(q.Get("width")); err != nil {
			return opts, err
		}
		if opts.Height, err = queryFloat(q.Get("height")); err != nil {
			return opts, err
		}
	}
	opts.MaxBytes = s.cfg.MaxBytes
	return opts, nil
}

// readBody reads the request body, allowing room for a JSON envelope around
// a document of the configured maximum size.
func (s *server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	limit := int64(pipeline.DefaultMaxBytes)
	if s.cfg.MaxBytes != 0 {
		limit = int64(s.cfg.MaxBytes)
	}
	if limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, 2*limit+4096)
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, errors.New(errors.ErrCodeTooLarge, "request body too large (max %d bytes)", tooLarge.Limit)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body")
	}
	return body, nil
}

func queryFloat(v string) (float64, error) {
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid number %q", v)
	}
	return f, nil
}

// validateResponse is the body of a successful /validate request.
type validateResponse struct {
	Issues []string `json:"issues"`
	Nodes  int      `json:"nodes"`
	Edges  int      `json:"edges"`
}

func (s *server) handleValidate(w http.ResponseWriter, r *http.Request) {
	body, err := s.readBody(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	in, err := pipeline.Parse(body, s.cfg.MaxBytes)
	if err != nil {
		writeError(w, err)
		return
	}
	d, issues := pipeline.Lower(in)
	if issues == nil {
		issues = []string{}
	}
	writeJSON(w, http.StatusOK, validateResponse{Issues: issues, Nodes: d.Nodes.Len(), Edges: d.EdgeCount()})
}

func (s *server) handleOverview(w http.ResponseWriter, r *http.Request) {
	body, err := s.readBody(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "svg"
	}
	out, err := s.runner.Overview(r.Context(), body, format, nodelink.Options{
		Detailed:    r.URL.Query().Has("detailed"),
		LeftToRight: r.URL.Query().Has("lr"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if format == "svg" {
		w.Header().Set("Content-Type", "image/svg+xml")
	} else {
		w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	}
	_, _ = w.Write(out)
}

func cacheStatus(ci pipeline.CacheInfo) string {
	switch {
	case ci.Hit:
		return "hit"
	case ci.Shared:
		return "shared"
	default:
		return "miss"
	}
}

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

// httpStatus maps an error to its response status.
func httpStatus(err error) int {
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case stderrors.Is(err, context.Canceled):
		return 499
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeParse:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeTooLarge:
		return http.StatusRequestEntityTooLarge
	case errors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := httpStatus(err)
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError && errors.GetCode(err) == "" {
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: msg, Code: errors.GetCode(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
