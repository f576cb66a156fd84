// Package app wires all speakdrill subsystems into a running application.
//
// The App struct owns the full lifecycle: New creates and connects all
// subsystems, Run serves HTTP until the context is cancelled, and Shutdown
// tears everything down in order.
//
// For testing, inject test doubles via functional options (WithCourse,
// WithMetrics). When an option is not provided, New creates real
// implementations from the config.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hqnguyen/speakdrill/internal/catalog"
	"github.com/hqnguyen/speakdrill/internal/config"
	"github.com/hqnguyen/speakdrill/internal/observe"
	"github.com/hqnguyen/speakdrill/internal/server"
	"github.com/hqnguyen/speakdrill/pkg/provider/stt"
	"github.com/hqnguyen/speakdrill/pkg/provider/tts"
)

// shutdownGrace bounds how long the HTTP server may take to drain in-flight
// requests once Run's context is cancelled.
const shutdownGrace = 5 * time.Second

// Providers holds one interface value per provider slot. Nil means the
// provider is not configured; the corresponding endpoints answer 503.
// Populated by main.go via the config registry. The App owns the providers
// once passed in and closes them during Shutdown.
type Providers struct {
	STT stt.Recognizer
	TTS tts.Synthesizer
}

// App owns all subsystem lifetimes.
type App struct {
	cfg       *config.Config
	providers *Providers
	metrics   *observe.Metrics

	// course is swapped atomically when the course file hot-reloads.
	course atomic.Pointer[catalog.Catalog]

	srv  *server.Server
	http *http.Server

	// logLevel is the dynamic slog level, adjusted on config hot-reload.
	logLevel *slog.LevelVar

	// configPath enables config hot-reloading when non-empty.
	configPath string

	// closers are called in order during Shutdown.
	closers []func() error

	// stopOnce guards the Shutdown path.
	stopOnce sync.Once
}

// Option is a functional option for New. Use these to inject test doubles.
type Option func(*App)

// WithCourse injects a course catalog instead of loading one from config.
func WithCourse(c *catalog.Catalog) Option {
	return func(a *App) { a.course.Store(c) }
}

// WithMetrics injects a metrics instance instead of the global default.
func WithMetrics(m *observe.Metrics) Option {
	return func(a *App) { a.metrics = m }
}

// WithLogLevelVar hands the App the dynamic log level so config hot-reloads
// can adjust verbosity at runtime.
func WithLogLevelVar(v *slog.LevelVar) Option {
	return func(a *App) { a.logLevel = v }
}

// WithConfigWatch enables hot-reloading of the config file at path while the
// App runs. Speech, drill, course, and log-level changes apply live; all
// other changes require a restart.
func WithConfigWatch(path string) Option {
	return func(a *App) { a.configPath = path }
}

// New creates an App by wiring all subsystems together. The providers struct
// comes from main.go (populated via the config registry).
func New(ctx context.Context, cfg *config.Config, providers *Providers, opts ...Option) (*App, error) {
	a := &App{
		cfg:       cfg,
		providers: providers,
	}
	for _, o := range opts {
		o(a)
	}
	if a.metrics == nil {
		a.metrics = observe.DefaultMetrics()
	}

	// ── 1. Course catalog ────────────────────────────────────────────────
	if a.course.Load() == nil {
		c, err := loadCourse(cfg.Course.File)
		if err != nil {
			return nil, fmt.Errorf("app: load course: %w", err)
		}
		a.course.Store(c)
	}

	// ── 2. HTTP API ──────────────────────────────────────────────────────
	a.srv = server.New(a.Course, providers.TTS, providers.STT,
		server.WithMetrics(a.metrics),
		server.WithSpeech(cfg.Speech),
		server.WithDrillConfig(cfg.Drill),
	)
	a.http = &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           a.srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ── 3. Provider closers ──────────────────────────────────────────────
	if providers.TTS != nil {
		a.closers = append(a.closers, providers.TTS.Close)
	}
	if providers.STT != nil {
		a.closers = append(a.closers, providers.STT.Close)
	}

	return a, nil
}

// loadCourse returns the YAML course at path, or the built-in five-unit
// course when path is empty.
func loadCourse(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.BuiltIn(), nil
	}
	return catalog.Load(path)
}

// Course returns the current course catalog. Safe for concurrent use; the
// pointer is swapped atomically on hot-reload.
func (a *App) Course() *catalog.Catalog {
	return a.course.Load()
}

// Run serves the HTTP API and, when configured, watches the config file for
// hot-reloadable changes. It blocks until ctx is cancelled or the server
// fails, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("http server listening", "addr", a.http.Addr)
		var err error
		if tls := a.cfg.Server.TLS; tls != nil {
			err = a.http.ListenAndServeTLS(tls.CertFile, tls.KeyFile)
		} else {
			err = a.http.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-ctx.Done()
		drainCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := a.http.Shutdown(drainCtx); err != nil {
			slog.Warn("http drain error", "err", err)
		}
		return ctx.Err()
	})

	if a.configPath != "" {
		watcher, err := config.NewWatcher(a.configPath, a.applyConfigChange)
		if err != nil {
			return fmt.Errorf("app: watch config: %w", err)
		}
		g.Go(func() error {
			<-ctx.Done()
			watcher.Stop()
			return nil
		})
		slog.Info("config hot-reload enabled", "path", a.configPath)
	}

	return g.Wait()
}

// applyConfigChange applies the hot-reloadable parts of a config change:
// log level, speech defaults, drill tunables, and the course file. New
// WebSocket sessions pick up speech and drill changes; existing sessions
// keep their settings.
func (a *App) applyConfigChange(old, new *config.Config) {
	diff := config.Diff(old, new)

	if diff.LogLevelChanged && a.logLevel != nil {
		a.logLevel.Set(slogLevel(diff.NewLogLevel))
		slog.Info("log level changed", "level", diff.NewLogLevel)
	}
	if diff.SpeechChanged {
		a.srv.SetSpeech(diff.NewSpeech)
		slog.Info("speech defaults changed, applies to new requests")
	}
	if diff.DrillChanged {
		a.srv.SetDrill(diff.NewDrill)
		slog.Info("drill tunables changed, applies to new sessions")
	}
	if diff.CourseChanged {
		c, err := loadCourse(diff.NewCourseFile)
		if err != nil {
			slog.Error("course reload failed, keeping previous course", "err", err)
			return
		}
		a.course.Store(c)
		slog.Info("course reloaded", "file", diff.NewCourseFile, "units", len(c.Units))
	}
}

// slogLevel maps a config log level to its slog value.
func slogLevel(level config.LogLevel) slog.Level {
	switch level {
	case config.LogDebug:
		return slog.LevelDebug
	case config.LogWarn:
		return slog.LevelWarn
	case config.LogError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Shutdown tears down all subsystems in order. It respects the context
// deadline: if ctx expires before all closers finish, remaining closers are
// skipped and the context error is returned.
func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error
	a.stopOnce.Do(func() {
		slog.Info("shutting down", "closers", len(a.closers))

		for i, closer := range a.closers {
			select {
			case <-ctx.Done():
				slog.Warn("shutdown deadline exceeded", "remaining", len(a.closers)-i)
				shutdownErr = ctx.Err()
				return
			default:
			}
			if err := closer(); err != nil {
				slog.Warn("closer error", "index", i, "err", err)
			}
		}

		slog.Info("shutdown complete")
	})
	return shutdownErr
}
