// Package bootstrap wires all dependencies for the modelkit tools.
// Configuration comes from a YAML file or MODELKIT_* environment variables.
package bootstrap

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/artpar/modelkit/adapters/logging"
	"github.com/artpar/modelkit/adapters/metrics"
	"github.com/artpar/modelkit/adapters/valuegen"
	"github.com/artpar/modelkit/config"
	"github.com/artpar/modelkit/core/definition"
	"github.com/artpar/modelkit/core/model"
	"github.com/artpar/modelkit/core/registry"
	"github.com/artpar/modelkit/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// App represents the running application.
type App struct {
	Config      *config.Config
	Logger      zerolog.Logger
	Metrics     *metrics.Collector
	Observer    model.Observer
	Definitions *definition.Watcher
}

// Options provides optional configuration for application initialization.
type Options struct {
	// ConfigPath is the YAML config file. When it does not exist the
	// configuration is read from the environment.
	ConfigPath string

	// Config, if set, is used as is and ConfigPath is ignored.
	Config *config.Config

	// LogWriter receives log output. Defaults to stderr.
	LogWriter io.Writer

	// Registerer receives metrics when they are enabled. Defaults to the
	// global Prometheus registerer.
	Registerer prometheus.Registerer

	// Sources behind the $now, $uuid and $token value factories. Each
	// defaults to its system implementation.
	Clock  ports.Clock
	IDs    ports.IDGenerator
	Random ports.Random
}

func (o Options) factories() definition.Factories {
	clk, ids, rnd := o.Clock, o.IDs, o.Random
	if clk == nil {
		clk = valuegen.SystemClock{}
	}
	if ids == nil {
		ids = valuegen.UUIDs{}
	}
	if rnd == nil {
		rnd = valuegen.CryptoRandom{}
	}
	return valuegen.Factories(clk, ids, rnd)
}

// New creates and initializes the application: configuration, logger,
// observers and the type registry built from the definitions directory.
func New(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		var err error
		cfg, err = config.LoadWithFallback(opts.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}

	w := opts.LogWriter
	if w == nil {
		w = os.Stderr
	}
	logger := logging.NewWithWriter(cfg.Logging, w)

	a := &App{
		Config: cfg,
		Logger: logger,
	}

	observers := []model.Observer{logging.NewObserver(logger)}
	if cfg.Metrics.Enabled {
		reg := opts.Registerer
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		a.Metrics = metrics.NewWithRegistry(reg, cfg.Metrics.Namespace)
		observers = append(observers, a.Metrics)
		logger.Info().Str("namespace", cfg.Metrics.Namespace).Msg("prometheus metrics enabled")
	}
	a.Observer = model.Observers(observers...)

	defs, err := definition.NewWatcher(cfg.Definitions.Dir, logger, a.NewRegistry,
		definition.WithFactories(opts.factories()))
	if err != nil {
		return nil, fmt.Errorf("init definitions: %w", err)
	}
	a.Definitions = defs

	if a.Metrics != nil {
		a.Metrics.TypesRegistered.Set(float64(defs.Get().Len()))
		defs.OnChange(func(reg *registry.Registry) {
			a.Metrics.RecordReload(reg.Len())
		})
	}

	logger.Info().
		Str("dir", cfg.Definitions.Dir).
		Int("types", defs.Get().Len()).
		Msg("definitions loaded")

	return a, nil
}

// NewRegistry returns an empty registry whose types report to the app's
// observers.
func (a *App) NewRegistry() *registry.Registry {
	return registry.New(a.Logger, registry.WithObserver(a.Observer))
}

// Registry returns the current type registry.
func (a *App) Registry() *registry.Registry {
	return a.Definitions.Get()
}

// Type looks up a model type by name in the current registry.
func (a *App) Type(name string) (*model.Type, error) {
	reg := a.Registry()
	t, ok := reg.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown type %q (available: %v)", name, reg.Names())
	}
	return t, nil
}

// Watch starts rebuilding the registry on definition file changes.
func (a *App) Watch() error {
	if err := a.Definitions.Start(); err != nil {
		return fmt.Errorf("watch definitions: %w", err)
	}
	a.Logger.Info().Str("dir", a.Config.Definitions.Dir).Msg("watching definitions")
	return nil
}

// Run watches the definitions directory and blocks until interrupted.
func (a *App) Run() error {
	if err := a.Watch(); err != nil {
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	a.Logger.Info().Str("signal", sig.String()).Msg("shutting down")

	return a.Shutdown()
}

// Shutdown stops the definitions watcher.
func (a *App) Shutdown() error {
	if a.Definitions != nil {
		a.Definitions.Stop()
	}
	a.Logger.Debug().Msg("shutdown complete")
	return nil
}
