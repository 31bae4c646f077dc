package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/recera/visgraph/cmd/visgraph/internal/config"
	"github.com/recera/visgraph/cmd/visgraph/internal/source"
	"github.com/recera/visgraph/pkg/components/visgraph"
	"github.com/recera/visgraph/pkg/engine"
	"github.com/recera/visgraph/pkg/live"
	"github.com/recera/visgraph/pkg/logging"
	"github.com/recera/visgraph/pkg/metrics"
	"github.com/recera/visgraph/pkg/renderer/html"
	"github.com/recera/visgraph/pkg/snapshot"
	"github.com/recera/visgraph/pkg/vex/builder"
)

// containerID is the DOM id of the graph container on the served page.
const containerID = "graph"

func newServeCommand(flags *rootFlags) *cobra.Command {
	var (
		port    int
		host    string
		watch   bool
		zoomKey string
	)

	cmd := &cobra.Command{
		Use:   "serve [graph file]",
		Short: "Serve an interactive view of a graph",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return err
			}
			// CLI flags take precedence over the config file.
			if len(args) == 1 {
				cfg.Graph = args[0]
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("watch") {
				cfg.Server.Watch = watch
			}
			if cmd.Flags().Changed("zoom-key") {
				cfg.ZoomKey = zoomKey
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to serve on")
	cmd.Flags().StringVarP(&host, "host", "H", "localhost", "Host to bind to")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reload the graph and options files on change")
	cmd.Flags().StringVar(&zoomKey, "zoom-key", "", "Modifier required for scroll-to-zoom: ctrl, shift or alt")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	a, err := newApp(cfg, metrics.DefaultRegistry())
	if err != nil {
		return err
	}
	defer a.close()

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           a.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if cfg.Server.Watch {
		go func() {
			if err := a.src.Watch(ctx, a.reload); err != nil {
				a.log.Error("watch stopped", "err", err)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("serving", "addr", "http://"+cfg.Addr(), "graph", cfg.Graph, "watch", cfg.Server.Watch)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// app serves one graph to any number of live sessions. Each session gets
// its own component instance; all of them follow the same source.
type app struct {
	cfg      *config.Config
	src      *source.Source
	live     *live.Server
	metrics  *metrics.Registry
	renderer *snapshot.Renderer
	zoomKey  engine.ZoomKey
	events   engine.Events
	log      *log.Logger

	mu         sync.Mutex
	snap       source.Snapshot
	components map[string]*visgraph.Responsive
}

func newApp(cfg *config.Config, reg *metrics.Registry) (*app, error) {
	zk, err := engine.ParseZoomKey(cfg.ZoomKey)
	if err != nil {
		return nil, err
	}
	src := source.New(cfg.Graph, cfg.Options)
	snap := src.Load()
	if snap.Err != nil {
		return nil, snap.Err
	}

	a := &app{
		cfg:     cfg,
		src:     src,
		metrics: reg,
		renderer: snapshot.NewRenderer(
			snapshot.Options{RankDir: cfg.Snapshot.RankDir, Detailed: cfg.Snapshot.Detailed},
			snapshot.NewCache(cfg.Snapshot.CacheSize),
		),
		zoomKey:    zk,
		log:        logging.For("serve"),
		snap:       snap,
		components: make(map[string]*visgraph.Responsive),
	}
	a.events = engine.Events{
		engine.EventClick:       a.logEvent,
		engine.EventDoubleClick: a.logEvent,
		engine.EventSelectNode:  a.logEvent,
		engine.EventDragEnd:     a.logEvent,
	}
	a.live = live.NewServer(
		live.WithTelemetry(reg),
		live.WithOnConnect(a.connect),
	)
	return a, nil
}

func (a *app) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(a.metrics.Middleware)

	r.Get("/", a.servePage)
	r.Get("/client.js", live.ServeClient)
	r.Get("/live/{session}", a.live.HandleWebSocket)
	r.Get("/snapshot.svg", a.serveSnapshot)
	r.Method(http.MethodGet, "/metrics", a.metrics.Handler())
	r.Get("/healthz", a.serveHealth)
	return r
}

func (a *app) props() visgraph.Props {
	a.mu.Lock()
	defer a.mu.Unlock()
	return visgraph.Props{
		Graph:   a.snap.Data,
		Options: a.snap.Options,
		Events:  a.events,
		ZoomKey: a.zoomKey,
		ID:      containerID,
	}
}

func (a *app) logEvent(p engine.Params) {
	a.log.Info("interaction", "event", p.Event, "nodes", p.Nodes, "edges", p.Edges)
}

// connect mounts a component for a new live session and unmounts it when
// the session ends.
func (a *app) connect(sess *live.Session) {
	c, err := visgraph.NewResponsive(a.props(), live.NewFactory(sess),
		visgraph.WithTelemetry(a.metrics),
		visgraph.WithObserver(live.RemoteObserver(sess)),
		visgraph.WithResizeWait(time.Duration(a.cfg.Resize.Wait), time.Duration(a.cfg.Resize.MaxWait)),
		visgraph.WithLogger(logging.For("visgraph").With("session", sess.ID)),
	)
	if err != nil {
		a.log.Error("create component", "session", sess.ID, "err", err)
		sess.Close()
		return
	}
	if err := c.Mount(live.Host(containerID)); err != nil {
		a.log.Error("mount component", "session", sess.ID, "err", err)
		sess.Close()
		return
	}

	a.mu.Lock()
	a.components[sess.ID] = c
	a.mu.Unlock()

	go func() {
		<-sess.Done()
		c.Unmount()
		a.mu.Lock()
		delete(a.components, sess.ID)
		a.mu.Unlock()
	}()
}

// reload applies a fresh snapshot to every mounted component. A snapshot
// that failed to load keeps the previous graph on screen.
func (a *app) reload(s source.Snapshot) {
	if s.Err != nil {
		a.log.Warn("reload failed, keeping previous graph", "err", s.Err)
		return
	}
	a.mu.Lock()
	a.snap = s
	comps := make([]*visgraph.Responsive, 0, len(a.components))
	for _, c := range a.components {
		comps = append(comps, c)
	}
	a.mu.Unlock()

	p := a.props()
	for _, c := range comps {
		if err := c.Update(p); err != nil {
			a.log.Warn("update component", "err", err)
		}
	}
	a.log.Info("reloaded", "nodes", len(s.Data.Nodes), "edges", len(s.Data.Edges), "sessions", len(comps))
}

func (a *app) servePage(w http.ResponseWriter, r *http.Request) {
	// The page only renders the container; it never mounts.
	g, err := visgraph.New(a.props(), nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	title := a.cfg.Title
	if title == "" {
		title = "visgraph"
	}
	body := builder.Div().
		Style("height:100%").
		Children(
			g.Render(),
			builder.El("noscript").Children(
				builder.El("img").Attr("src", "/snapshot.svg").Attr("alt", title).Build(),
			).Build(),
		).
		Build()

	page := html.Page{
		Title:   title,
		Scripts: []string{a.cfg.Server.VisURL, "/client.js"},
		Boot: fmt.Sprintf(
			`visgraphLive((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/live/%s");`,
			live.NewSessionID()),
		Body: body,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Write(w); err != nil {
		a.log.Warn("write page", "err", err)
	}
}

func (a *app) serveSnapshot(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	d := a.snap.Data
	a.mu.Unlock()

	start := time.Now()
	svg, err := a.renderer.Render(r.Context(), d)
	a.metrics.RecordSnapshot(err, time.Since(start))
	if err != nil {
		a.log.Error("snapshot", "err", err)
		http.Error(w, "snapshot failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Content-Length", strconv.Itoa(len(svg)))
	_, _ = w.Write(svg)
}

func (a *app) serveHealth(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	mounted := len(a.components)
	a.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":     "ok",
		"sessions":   len(a.live.Sessions()),
		"components": mounted,
	})
}

func (a *app) close() {
	a.live.Close()
}
