package kernel

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rejoice-framework/menuflow/internal/validate"
	"github.com/rejoice-framework/menuflow/pkg/domain"
	"github.com/rejoice-framework/menuflow/pkg/entity"
)

// processResponse runs the full response pipeline on the current menu:
// action matching, flow resolution, validation, save-as, the after hook,
// then dispatch to the resolved destination.
func (k *Kernel) processResponse(ctx context.Context, sc *scope) (*domain.Response, error) {
	response := strings.TrimSpace(sc.req.Response)
	if response == "" {
		// An empty response is recoverable whatever the error policy says.
		return k.runMenu(ctx, sc, sc.session.CurrentMenu, k.cfg.DefaultErrorMessage)
	}

	current := sc.session.CurrentMenu
	if current == "" {
		// A response with no current menu means the transport skipped the
		// INIT leg; start the dialog anyway.
		return k.runMenu(ctx, sc, k.cfg.WelcomeMenu, "")
	}

	menu, err := k.menuFor(current)
	if err != nil {
		return nil, err
	}
	hooks := k.entities.Bind(current)
	actions, err := k.effectiveActions(ctx, sc, menu, hooks)
	if err != nil {
		return nil, err
	}

	matched, _ := actions.Get(response)
	_, fromForced := sc.session.PeekForced()
	next, ok := k.resolveNext(sc, menu, hooks, response, matched)
	if !ok {
		sc.logger.Debug("response did not resolve", "menu", current, "response", response)
		return k.userError(ctx, sc, k.cfg.DefaultErrorMessage)
	}

	if resp, done, err := k.validateResponse(ctx, sc, menu, hooks, response, matched, next); done {
		return resp, err
	}
	if fromForced {
		// The response passed; the detour is committed and comes off the
		// queue.
		sc.session.DequeueForced()
	}

	if !next.IsURL() && !domain.IsReserved(next.Name) && !k.menus.Has(next.Name) && !k.entities.Has(next.Name) {
		sc.logger.Error("resolved menu is not defined", "menu", current, "next", next.Name)
		sc.warn(fmt.Sprintf("menu %q is not defined", next.Name))
		if k.cfg.EndOnUnhandledAction {
			return k.hardEnd(ctx, sc, k.cfg.DefaultErrorMessage)
		}
		return k.runMenu(ctx, sc, current, k.cfg.DefaultErrorMessage)
	}

	// A matched action keeps its later declarations even when the forced
	// queue preempted its destination.
	later := next.Later
	if matched != nil {
		later = matched.Next.Later
	}
	if len(later) > 0 {
		sc.session.EnqueueForced(later...)
	}

	k.logSaveAs(ctx, sc, current, hooks, response, matched)

	if hooks.After != nil {
		if err := hooks.After(ctx, sc.call, response); err != nil {
			return nil, fmt.Errorf("menu %q after: %w", current, err)
		}
		if resp, done, err := k.endIfTerminated(ctx, sc); done {
			return resp, err
		}
	}

	if next.IsURL() {
		if resp, done, err := k.fireMoveHook(ctx, sc, hooks, response, current); done {
			return resp, err
		}
		sc.session.RemoteEndpoint = next.Name
		sc.session.Pagination = nil
		return k.relayRemote(ctx, sc)
	}

	if domain.IsReserved(next.Name) {
		return k.runReserved(ctx, sc, hooks, response, next.Name)
	}
	if resp, done, err := k.fireMoveHook(ctx, sc, hooks, response, current); done {
		return resp, err
	}
	return k.runMenu(ctx, sc, next.Name, "")
}

// validateResponse applies, in order, the menu-level rules, the entity
// validate hook, and any rules attached to the matched action. Free-form
// rules are skipped for matched actions and reserved destinations.
func (k *Kernel) validateResponse(ctx context.Context, sc *scope, menu *domain.Menu, hooks *entity.Hooks, response string, matched *domain.Action, next domain.NextMenu) (*domain.Response, bool, error) {
	if needsValidation(matched, next) {
		if len(menu.Validate) > 0 {
			fb, err := validate.Check(response, menu.Validate)
			if err != nil {
				return nil, true, fmt.Errorf("menu %q validation: %w", menu.Name, err)
			}
			if !fb.OK {
				resp, err := k.userError(ctx, sc, strings.Join(fb.Errors, "\n"))
				return resp, true, err
			}
		}
		if hooks.Validate != nil {
			res, err := hooks.Validate(ctx, sc.call, response)
			if err != nil {
				return nil, true, fmt.Errorf("menu %q validate hook: %w", menu.Name, err)
			}
			if !res.OK {
				msg := res.Message
				if msg == "" {
					msg = k.cfg.DefaultErrorMessage
				}
				resp, err := k.userError(ctx, sc, msg)
				return resp, true, err
			}
		}
	}
	if matched != nil && len(matched.Validate) > 0 {
		fb, err := validate.Check(response, matched.Validate)
		if err != nil {
			return nil, true, fmt.Errorf("menu %q action %q validation: %w", menu.Name, matched.Trigger, err)
		}
		if !fb.OK {
			resp, err := k.userError(ctx, sc, strings.Join(fb.Errors, "\n"))
			return resp, true, err
		}
	}
	return nil, false, nil
}

// logSaveAs records the response into the previous-responses log, applying
// the action's inline save-as or the entity's save-as hook. When both are
// declared the inline one wins and the conflict is surfaced as a warning.
func (k *Kernel) logSaveAs(ctx context.Context, sc *scope, menu string, hooks *entity.Hooks, response string, matched *domain.Action) {
	saved := response
	switch {
	case matched != nil && matched.HasSaveAs:
		if hooks.SaveAs != nil {
			sc.warn(fmt.Sprintf("menu %q declares both an inline save_as and a save-as hook; the inline value wins", menu))
			sc.logger.Warn("inline save_as shadows save-as hook", "menu", menu)
		}
		saved = matched.SaveAs
	case hooks.SaveAs != nil:
		transformed, err := hooks.SaveAs(ctx, sc.call, response)
		if err != nil {
			// A broken transform must not lose the raw keystroke.
			sc.logger.Error("save-as hook failed, keeping raw response", "menu", menu, "err", err)
		} else {
			saved = transformed
		}
	}
	sc.session.LogResponse(menu, saved)
}

func (k *Kernel) fireMoveHook(ctx context.Context, sc *scope, hooks *entity.Hooks, response, menu string) (*domain.Response, bool, error) {
	if hooks.OnMoveToNextMenu == nil {
		return nil, false, nil
	}
	if err := hooks.OnMoveToNextMenu(ctx, sc.call, response); err != nil {
		return nil, true, fmt.Errorf("menu %q move hook: %w", menu, err)
	}
	return k.endIfTerminated(ctx, sc)
}

// runReserved executes an engine-owned pseudo-destination.
func (k *Kernel) runReserved(ctx context.Context, sc *scope, hooks *entity.Hooks, response, name string) (*domain.Response, error) {
	current := sc.session.CurrentMenu
	switch name {
	case domain.MenuWelcome:
		if current == domain.MenuAskContinue {
			// The user chose to start over instead of resuming.
			sc.session.Reset(k.now())
		}
		if resp, done, err := k.fireMoveHook(ctx, sc, hooks, response, current); done {
			return resp, err
		}
		return k.runMenu(ctx, sc, k.cfg.WelcomeMenu, "")

	case domain.MenuSame:
		return k.runMenu(ctx, sc, current, "")

	case domain.MenuBack:
		prev, ok := sc.session.HistoryTop()
		if !ok {
			return nil, &domain.ConfigError{Menu: current, Detail: "back navigation with an empty history"}
		}
		if hooks.OnBack != nil {
			if err := hooks.OnBack(ctx, sc.call); err != nil {
				return nil, fmt.Errorf("menu %q back hook: %w", current, err)
			}
			if resp, done, err := k.endIfTerminated(ctx, sc); done {
				return resp, err
			}
		}
		// Drop the response that had been logged on the menu we return to,
		// so re-submitting there does not stack a duplicate.
		sc.session.PopResponse(prev)
		return k.runMenu(ctx, sc, prev, "")

	case domain.MenuContinuePrevious:
		prev, ok := sc.session.HistoryTop()
		if !ok {
			return nil, &domain.ConfigError{Menu: current, Detail: "no previous session menu to continue"}
		}
		if resp, done, err := k.fireMoveHook(ctx, sc, hooks, response, current); done {
			return resp, err
		}
		return k.runMenu(ctx, sc, prev, "")

	case domain.MenuEnd:
		return k.hardEnd(ctx, sc, k.cfg.EndMessage)

	case domain.MenuSplitNext, domain.MenuPaginateForward:
		return k.paginate(ctx, sc, hooks, true)

	case domain.MenuSplitBack, domain.MenuPaginateBack:
		return k.paginate(ctx, sc, hooks, false)
	}
	return nil, &domain.ConfigError{Menu: current, Detail: fmt.Sprintf("unknown reserved destination %q", name)}
}

// paginate flips the live split-screen one chunk forward or back without
// touching the history stack.
func (k *Kernel) paginate(ctx context.Context, sc *scope, hooks *entity.Hooks, forward bool) (*domain.Response, error) {
	p := sc.session.Pagination
	if p == nil {
		return nil, &domain.PaginationStateError{Index: 0, Chunks: 0}
	}
	var (
		text string
		err  error
	)
	if forward {
		text, err = p.Next()
	} else {
		text, err = p.Back()
	}
	if err != nil {
		return nil, err
	}

	hook := hooks.OnPaginateForward
	if !forward {
		hook = hooks.OnPaginateBack
	}
	if hook != nil {
		if err := hook(ctx, sc.call); err != nil {
			return nil, fmt.Errorf("menu %q paginate hook: %w", sc.session.CurrentMenu, err)
		}
		if resp, done, err := k.endIfTerminated(ctx, sc); done {
			return resp, err
		}
	}
	return k.ask(ctx, sc, text)
}

// relayRemote forwards the request to the session's remote endpoint and
// relays the body back. The body is also parsed as a wire response when
// possible, so non-HTTP hosts still get a usable message and the relay can
// notice the remote side ending the dialog.
func (k *Kernel) relayRemote(ctx context.Context, sc *scope) (*domain.Response, error) {
	if k.fwd == nil {
		return nil, &domain.ConfigError{Detail: "session switched to a remote endpoint but no forwarder is configured"}
	}
	body, err := k.fwd.Forward(ctx, sc.session.RemoteEndpoint, sc.req)
	if err != nil {
		// The remote side's fault is surfaced verbatim; the local session
		// stays intact so the subscriber can retry.
		sc.logger.Error("remote relay failed", "endpoint", sc.session.RemoteEndpoint, "err", err)
		return k.ask(ctx, sc, err.Error())
	}

	resp := &domain.Response{
		Message:   string(body),
		ServiceOp: domain.RequestAskUserResponse,
		SessionID: sc.req.SessionID,
		Raw:       body,
	}
	var parsed domain.Response
	if jsonErr := json.Unmarshal(body, &parsed); jsonErr == nil && parsed.Message != "" {
		resp.Message = parsed.Message
		if parsed.ServiceOp != "" {
			resp.ServiceOp = parsed.ServiceOp
		}
	}

	if resp.Continues() {
		if err := k.store.Save(ctx, sc.req.Msisdn, sc.session); err != nil {
			return nil, fmt.Errorf("saving session: %w", err)
		}
	} else if err := k.store.Delete(ctx, sc.req.Msisdn); err != nil {
		return nil, fmt.Errorf("wiping session: %w", err)
	}
	return resp, nil
}
