// Package server is the local file server that hosts HLS and DASH test content.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/streamplay-cli/streamplay/filesystem"
	"github.com/streamplay-cli/streamplay/key"
	"github.com/streamplay-cli/streamplay/log"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	Port int
	// Root holds the served files; paths under /video/ are resolved against it.
	Root       afero.Fs
	RateLimit  int
	Metrics    bool
	CORSOrigin string
	// AccessLog receives one line per request. Nil discards them.
	AccessLog io.Writer
}

// OptionsFromConfig reads the server.* configuration.
func OptionsFromConfig() Options {
	return Options{
		Port:       viper.GetInt(key.ServerPort),
		Root:       filesystem.Sub(viper.GetString(key.ServerRoot)),
		RateLimit:  viper.GetInt(key.ServerRateLimit),
		Metrics:    viper.GetBool(key.ServerMetrics),
		CORSOrigin: viper.GetString(key.ServerCORSOrigin),
	}
}

// Server serves stream files.
type Server struct {
	opts   Options
	router chi.Router
}

// New builds the router and middleware chain.
func New(opts Options) *Server {
	if opts.Port == 0 {
		opts.Port = 8095
	}
	if opts.CORSOrigin == "" {
		opts.CORSOrigin = "*"
	}
	if opts.AccessLog == nil {
		opts.AccessLog = io.Discard
	}
	if opts.Root == nil {
		opts.Root = afero.NewMemMapFs()
	}

	s := &Server{opts: opts}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(Recover)
	r.Use(AccessLog(s.opts.AccessLog))
	r.Use(CORS(s.opts.CORSOrigin))
	if s.opts.Metrics {
		r.Use(Metrics)
	}
	if s.opts.RateLimit > 0 {
		r.Use(RateLimit(s.opts.RateLimit, time.Minute))
	}

	r.Get("/healthz", healthz)
	r.Get("/video/*", s.video)
	if s.opts.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// Handler is the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr is the listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort("", strconv.Itoa(s.opts.Port))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Infof("server listening on %s", ln.Addr())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		log.Infof("server shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte("OK"))
}
