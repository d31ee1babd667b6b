// Package kernel is the engine core: it owns the per-request pipeline that
// turns an inbound gateway request into a rendered screen, driving the
// declarative menu graph, the entity hook lifecycle, session persistence and
// screen pagination.
package kernel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rejoice-framework/menuflow/internal/logging"
	"github.com/rejoice-framework/menuflow/internal/metrics"
	"github.com/rejoice-framework/menuflow/internal/render"
	"github.com/rejoice-framework/menuflow/pkg/domain"
	"github.com/rejoice-framework/menuflow/pkg/entity"
	"github.com/rejoice-framework/menuflow/pkg/ports"
	"github.com/rejoice-framework/menuflow/pkg/registry"
)

// Kernel processes requests against one menu graph. It is safe for
// concurrent use; all per-request state lives in the scope value threaded
// through the pipeline.
type Kernel struct {
	cfg      Config
	menus    *registry.Registry
	entities *entity.Registry
	store    ports.SessionStore
	fwd      ports.Forwarder
	sms      ports.SMSSender
	renderer *render.Renderer
	metrics  *metrics.Metrics
	locker   ports.Locker
	logger   *slog.Logger
	now      func() time.Time
}

// lockTTL bounds how long a crashed request can keep a subscriber locked.
const lockTTL = 30 * time.Second

// Option configures a Kernel.
type Option func(*Kernel)

// WithLogger sets the kernel logger.
func WithLogger(logger *slog.Logger) Option {
	return func(k *Kernel) { k.logger = logger }
}

// WithForwarder sets the relay used for remote application handoffs.
func WithForwarder(fwd ports.Forwarder) Option {
	return func(k *Kernel) { k.fwd = fwd }
}

// WithSMSSender sets the out-of-band sender used for terminal-screen
// fallbacks and admin fatal alerts.
func WithSMSSender(sms ports.SMSSender) Option {
	return func(k *Kernel) { k.sms = sms }
}

// WithMetrics sets the metrics sink. Without it, observations are dropped.
func WithMetrics(m *metrics.Metrics) Option {
	return func(k *Kernel) { k.metrics = m }
}

// WithLocker serializes request handling per subscriber. Needed when
// several engine instances share one session backend; without it two
// in-flight requests for the same msisdn can interleave session writes.
func WithLocker(l ports.Locker) Option {
	return func(k *Kernel) { k.locker = l }
}

// WithClock overrides the time source. Tests use it to drive expiry.
func WithClock(now func() time.Time) Option {
	return func(k *Kernel) { k.now = now }
}

// New assembles a kernel over a menu graph, an entity registry and a session
// store. The store is mandatory; forwarder and SMS sender are optional and
// the features needing them fail soft when absent.
func New(cfg Config, menus *registry.Registry, entities *entity.Registry, store ports.SessionStore, opts ...Option) (*Kernel, error) {
	if menus == nil {
		return nil, fmt.Errorf("kernel needs a menu registry")
	}
	if store == nil {
		return nil, fmt.Errorf("kernel needs a session store")
	}
	if entities == nil {
		entities = entity.NewRegistry()
	}
	if cfg.WelcomeMenu == "" {
		cfg.WelcomeMenu = domain.DefaultWelcomeMenu
	}
	k := &Kernel{
		cfg:      cfg,
		menus:    menus,
		entities: entities,
		store:    store,
		logger:   logging.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(k)
	}
	k.renderer = render.New(cfg.Render, render.WithLogger(k.logger))
	if !menus.Has(cfg.WelcomeMenu) && !entities.Has(cfg.WelcomeMenu) {
		return nil, &domain.ConfigError{Menu: cfg.WelcomeMenu, Detail: "welcome menu is not defined"}
	}
	return k, nil
}

// scope is the state of one request traversal.
type scope struct {
	req     *domain.Request
	session *domain.SessionState
	call    *entity.Call
	logger  *slog.Logger

	warnings []string
	infos    []string
}

func (sc *scope) warn(msg string) { sc.warnings = append(sc.warnings, msg) }

func (sc *scope) info(msg string) { sc.infos = append(sc.infos, msg) }

// Handle processes one request end to end and always returns a response the
// transport can write: framework failures are caught here, logged, counted
// and collapsed into a generic terminating message.
func (k *Kernel) Handle(ctx context.Context, req *domain.Request) *domain.Response {
	start := k.now()
	resp, err := k.locked(ctx, req)
	outcome := "ok"
	if err != nil {
		outcome = "fatal"
		resp = k.fatal(ctx, req, err)
	}
	k.metrics.ObserveRequest(string(req.Type), outcome, k.now().Sub(start).Seconds())
	return resp
}

// locked wraps handle in the subscriber's lock when a locker is configured,
// so concurrent requests for one msisdn run their load-process-save cycles
// one at a time.
func (k *Kernel) locked(ctx context.Context, req *domain.Request) (*domain.Response, error) {
	if k.locker == nil {
		return k.handle(ctx, req)
	}
	unlock, err := k.locker.Lock(ctx, req.Msisdn, lockTTL)
	if err != nil {
		return nil, fmt.Errorf("locking subscriber %q: %w", req.Msisdn, err)
	}
	defer func() {
		if unlockErr := unlock(ctx); unlockErr != nil {
			k.logger.Warn("subscriber lock not released", "msisdn", req.Msisdn, "err", unlockErr)
		}
	}()
	return k.handle(ctx, req)
}

func (k *Kernel) handle(ctx context.Context, req *domain.Request) (resp *domain.Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while handling request: %v", r)
		}
	}()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	sc, err := k.openSession(ctx, req)
	if err != nil {
		return nil, err
	}

	switch req.Type {
	case domain.RequestInit:
		return k.handleInit(ctx, sc)
	case domain.RequestUserSentResponse:
		return k.handleUserResponse(ctx, sc)
	case domain.RequestCancelled:
		return k.hardEnd(ctx, sc, k.cfg.CancelMessage)
	default:
		// END and ASK_USER_RESPONSE are outbound codes; a gateway echoing
		// one back gets the session closed out.
		return k.hardEnd(ctx, sc, k.cfg.UnknownOperatorError)
	}
}

// openSession loads or initializes the subscriber's session. Expiry is only
// checked on first contact: mid-dialog requests keep their session however
// old it is, because the operator is still holding the line open.
func (k *Kernel) openSession(ctx context.Context, req *domain.Request) (*scope, error) {
	now := k.now()
	state, err := k.store.Load(ctx, req.Msisdn)
	switch {
	case err == nil:
		state.IsNew = false
		if req.Type == domain.RequestInit && state.Expired(k.cfg.SessionLifetime, now) {
			if err := k.store.Delete(ctx, req.Msisdn); err != nil {
				return nil, fmt.Errorf("discarding expired session: %w", err)
			}
			state = domain.NewSessionState(now)
		}
	case isNotFound(err):
		state = domain.NewSessionState(now)
	default:
		return nil, fmt.Errorf("loading session: %w", err)
	}
	state.UpdatedAt = now

	logger := k.logger.With("msisdn", req.Msisdn, "session_id", req.SessionID)
	return &scope{
		req:     req,
		session: state,
		call:    entity.NewCall(req, state, logger),
		logger:  logger,
	}, nil
}

// handleInit starts or resumes a dialog. With a previous session on file the
// resume policy decides between continuing where the user left off, asking
// them first, or discarding the old state.
func (k *Kernel) handleInit(ctx context.Context, sc *scope) (*domain.Response, error) {
	resumable := !sc.session.IsNew && sc.session.CurrentMenu != "" && !k.cfg.AlwaysStartNewSession
	if !sc.session.IsNew && sc.session.RemoteEndpoint != "" {
		if k.cfg.AlwaysStartNewSession {
			sc.session.Reset(k.now())
			return k.runMenu(ctx, sc, k.cfg.WelcomeMenu, "")
		}
		// The remote application owns this dialog: it must see the fresh
		// dial too, or the screen shown and the handler of the reply would
		// disagree.
		sc.info("resumed remote session")
		return k.relayRemote(ctx, sc)
	}
	if resumable {
		if k.cfg.AskUserBeforeReloadLastSession && sc.session.CurrentMenu != k.cfg.WelcomeMenu {
			return k.runMenu(ctx, sc, domain.MenuAskContinue, "")
		}
		sc.info("resumed previous session")
		return k.runMenu(ctx, sc, sc.session.CurrentMenu, "")
	}
	if !sc.session.IsNew {
		sc.session.Reset(k.now())
	}
	return k.runMenu(ctx, sc, k.cfg.WelcomeMenu, "")
}

func (k *Kernel) handleUserResponse(ctx context.Context, sc *scope) (*domain.Response, error) {
	if sc.session.IsNew {
		// A response without a live session: the previous screen was a
		// terminal one kept open to dodge the operator timeout. Close it.
		return k.hardEnd(ctx, sc, k.cfg.EndMessage)
	}
	if sc.session.RemoteEndpoint != "" {
		return k.relayRemote(ctx, sc)
	}
	return k.processResponse(ctx, sc)
}

// fatal logs a framework failure, alerts the admin and collapses the error
// into a generic terminating response. The session is left as stored so a
// fresh dial starts clean via expiry or reset.
func (k *Kernel) fatal(ctx context.Context, req *domain.Request, err error) *domain.Response {
	k.logger.Error("request failed",
		"err", err,
		"msisdn", req.Msisdn,
		"session_id", req.SessionID,
		"request_type", string(req.Type))
	k.metrics.ObserveFatal()
	k.alertAdmin(req, err)

	resp := &domain.Response{
		Message:   k.cfg.FatalErrorMessage,
		ServiceOp: domain.RequestEnd,
		SessionID: req.SessionID,
	}
	if !k.cfg.Production {
		resp.Errors = []string{err.Error()}
	}
	return resp
}

// alertAdmin sends the fatal error to the configured admin msisdn. It runs
// detached with its own deadline so alert delivery never holds up or takes
// down the response path.
func (k *Kernel) alertAdmin(req *domain.Request, err error) {
	if k.sms == nil || k.cfg.AdminMsisdn == "" {
		return
	}
	text := fmt.Sprintf("menuflow fatal error for %s: %v", req.Msisdn, err)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if sendErr := k.sms.Send(ctx, k.cfg.AdminMsisdn, text); sendErr != nil {
			k.logger.Warn("admin alert not delivered", "err", sendErr)
		}
	}()
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrSessionNotFound)
}
