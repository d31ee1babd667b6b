package menuflow

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	httpAdapter "github.com/rejoice-framework/menuflow/internal/adapters/http"
	"github.com/rejoice-framework/menuflow/internal/adapters/memory"
	"github.com/rejoice-framework/menuflow/internal/kernel"
	"github.com/rejoice-framework/menuflow/internal/logging"
	"github.com/rejoice-framework/menuflow/internal/metrics"
	"github.com/rejoice-framework/menuflow/pkg/domain"
	"github.com/rejoice-framework/menuflow/pkg/entity"
	"github.com/rejoice-framework/menuflow/pkg/ports"
	"github.com/rejoice-framework/menuflow/pkg/registry"
)

// Version is the library version, overridable at build time.
var Version = "0.1.0"

// App is the high-level entry point: one configured engine over one menu
// graph, ready to handle requests or serve HTTP.
type App struct {
	cfg      kernel.Config
	menus    *registry.Registry
	entities *entity.Registry
	store    ports.SessionStore
	fwd      ports.Forwarder
	sms      ports.SMSSender
	locker   ports.Locker
	logger   *slog.Logger
	registry *prometheus.Registry

	menuPath     string
	snapshotPath string

	kernel *kernel.Kernel
}

// Option configures an App.
type Option func(*App)

// WithConfig replaces the whole engine configuration.
func WithConfig(cfg kernel.Config) Option {
	return func(a *App) { a.cfg = cfg }
}

// WithMenuFile loads the menu graph from a YAML file.
func WithMenuFile(path string) Option {
	return func(a *App) { a.menuPath = path }
}

// WithMenuSnapshot loads the menu graph from an exported snapshot, used
// when no YAML file is given.
func WithMenuSnapshot(path string) Option {
	return func(a *App) { a.snapshotPath = path }
}

// WithMenus injects a prebuilt registry, bypassing file loading.
func WithMenus(menus *registry.Registry) Option {
	return func(a *App) { a.menus = menus }
}

// WithEntity registers a menu entity constructor.
func WithEntity(menu string, ctor func() any) Option {
	return func(a *App) { a.entities.Register(menu, ctor) }
}

// WithStore sets the session backend. Defaults to the in-memory store.
func WithStore(store ports.SessionStore) Option {
	return func(a *App) { a.store = store }
}

// WithForwarder sets the relay for remote application handoffs.
func WithForwarder(fwd ports.Forwarder) Option {
	return func(a *App) { a.fwd = fwd }
}

// WithSMSSender sets the out-of-band message sender.
func WithSMSSender(sms ports.SMSSender) Option {
	return func(a *App) { a.sms = sms }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) { a.logger = logger }
}

// WithLocker serializes handling per subscriber, for fleets sharing one
// session backend.
func WithLocker(l ports.Locker) Option {
	return func(a *App) { a.locker = l }
}

// New assembles an app. Menus come from WithMenus, WithMenuFile or
// WithMenuSnapshot, in that order of preference.
func New(opts ...Option) (*App, error) {
	a := &App{
		cfg:      kernel.DefaultConfig(),
		entities: entity.NewRegistry(),
		logger:   logging.NewNop(),
		registry: prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.store == nil {
		a.store = memory.New()
	}

	if a.menus == nil {
		menus, err := registry.LoadFrom(a.menuPath, a.snapshotPath,
			registry.WithEntityPresence(a.entities.Has),
			registry.WithLogger(a.logger))
		if err != nil {
			return nil, fmt.Errorf("loading menus: %w", err)
		}
		a.menus = menus
	}

	k, err := kernel.New(a.cfg, a.menus, a.entities, a.store,
		kernel.WithLogger(a.logger),
		kernel.WithForwarder(a.fwd),
		kernel.WithSMSSender(a.sms),
		kernel.WithLocker(a.locker),
		kernel.WithMetrics(metrics.New(a.registry)),
	)
	if err != nil {
		return nil, err
	}
	a.kernel = k
	return a, nil
}

// Handle processes one request end to end.
func (a *App) Handle(ctx context.Context, req *domain.Request) *domain.Response {
	return a.kernel.Handle(ctx, req)
}

// Handler returns the gateway-facing HTTP handler, including the health
// and metrics endpoints.
func (a *App) Handler() http.Handler {
	return httpAdapter.NewHandler(a.kernel, a.registry, httpAdapter.WithLogger(a.logger))
}

// Menus exposes the menu registry, e.g. for graph validation.
func (a *App) Menus() *registry.Registry {
	return a.menus
}

// Sessions exposes the session backend, e.g. for inspection tooling.
func (a *App) Sessions() ports.SessionStore {
	return a.store
}

// WelcomeMenu returns the configured entry menu name.
func (a *App) WelcomeMenu() string {
	if a.cfg.WelcomeMenu == "" {
		return domain.DefaultWelcomeMenu
	}
	return a.cfg.WelcomeMenu
}
