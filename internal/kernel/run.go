package kernel

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rejoice-framework/menuflow/pkg/domain"
	"github.com/rejoice-framework/menuflow/pkg/entity"
)

// runMenu moves the session onto a menu, runs its screen lifecycle (before
// hook, message composition, action merge, rendering) and emits the screen.
// errMsg, when set, is prepended to the message as a recoverable user error.
func (k *Kernel) runMenu(ctx context.Context, sc *scope, target, errMsg string) (*domain.Response, error) {
	menu, err := k.menuFor(target)
	if err != nil {
		return nil, err
	}
	hooks := k.entities.Bind(menu.Name)

	k.moveTo(sc.session, menu.Name)

	if hooks.Before != nil {
		if err := hooks.Before(ctx, sc.call); err != nil {
			return nil, fmt.Errorf("menu %q before: %w", menu.Name, err)
		}
		if resp, done, err := k.endIfTerminated(ctx, sc); done {
			return resp, err
		}
	}

	lines, err := k.composeMessage(ctx, sc, menu, hooks, errMsg)
	if err != nil {
		return nil, err
	}
	actions, err := k.effectiveActions(ctx, sc, menu, hooks)
	if err != nil {
		return nil, err
	}

	terminal := actions.Len() == 0 && menu.DefaultNextMenu == "" && hooks.DefaultNextMenu == nil

	res, err := k.renderer.Render(lines, actions, sc.req.Channel)
	if err != nil {
		return nil, err
	}
	if res.Pagination != nil {
		k.metrics.ObserveSplit()
	}
	sc.session.Pagination = res.Pagination

	if terminal && res.Pagination == nil {
		k.sendSMSFallback(sc, strings.Join(lines, "\n"))
		if !k.cfg.AllowTimeout && sc.req.Channel.Bounded() {
			// Keep the operator session open so the final message is not
			// cut short by the gateway timeout; our own session is wiped
			// and whatever the user sends next closes the dialog.
			if err := k.store.Delete(ctx, sc.req.Msisdn); err != nil {
				return nil, fmt.Errorf("wiping session: %w", err)
			}
			text := res.Text
			if k.cfg.TimeoutHintMessage != "" {
				text += "\n" + k.cfg.TimeoutHintMessage
			}
			return sc.respond(text, domain.RequestAskUserResponse, k.cfg.Production), nil
		}
		return k.hardEnd(ctx, sc, res.Text)
	}
	return k.ask(ctx, sc, res.Text)
}

// menuFor returns the effective menu definition for a name: the built-in
// resume screen, a clone of the declarative definition, or a synthetic empty
// menu when only an entity exists under that name.
func (k *Kernel) menuFor(name string) (*domain.Menu, error) {
	if name == domain.MenuAskContinue {
		return k.askContinueMenu(), nil
	}
	menu, err := k.menus.Get(name)
	if err != nil {
		if errors.Is(err, domain.ErrMenuNotFound) && k.entities.Has(name) {
			return &domain.Menu{Name: name}, nil
		}
		return nil, err
	}
	return menu.Clone(), nil
}

// askContinueMenu is the built-in screen offering to resume a previous
// session or start over.
func (k *Kernel) askContinueMenu() *domain.Menu {
	actions := domain.NewActions()
	actions.Set(domain.Action{
		Trigger: "1",
		Display: k.cfg.ResumeDisplay,
		Next:    domain.NextMenu{Name: domain.MenuContinuePrevious},
	})
	actions.Set(domain.Action{
		Trigger: "2",
		Display: k.cfg.RestartDisplay,
		Next:    domain.NextMenu{Name: domain.MenuWelcome},
	})
	return &domain.Menu{
		Name:    domain.MenuAskContinue,
		Message: []string{k.cfg.AskContinueMessage},
		Actions: actions,
	}
}

// moveTo maintains the back stack around a menu change. Returning to the
// menu on top of the stack pops it; any other genuine change pushes the menu
// being left. Split-screen paging never comes through here, so pagination
// cannot pollute the history.
func (k *Kernel) moveTo(s *domain.SessionState, target string) {
	if top, ok := s.HistoryTop(); ok && top == target {
		s.PopHistory()
	} else if s.CurrentMenu != "" && s.CurrentMenu != target {
		s.PushHistory(s.CurrentMenu)
	}
	s.CurrentMenu = target
}

// composeMessage assembles the screen's message lines: a leading error
// message if any, then the entity contribution, then the declarative lines.
// A map contribution substitutes :key: placeholders into the declarative
// message instead of adding lines.
func (k *Kernel) composeMessage(ctx context.Context, sc *scope, menu *domain.Menu, hooks *entity.Hooks, errMsg string) ([]string, error) {
	var lines []string
	if errMsg != "" {
		lines = append(lines, errMsg)
	}
	declarative := append([]string(nil), menu.Message...)

	if hooks.Message != nil {
		v, err := hooks.Message(ctx, sc.call)
		if err != nil {
			return nil, fmt.Errorf("menu %q message: %w", menu.Name, err)
		}
		switch got := v.(type) {
		case nil:
		case string:
			if got != "" {
				lines = append(lines, got)
			}
		case []string:
			lines = append(lines, got...)
		case map[string]string:
			if len(declarative) == 0 {
				return nil, &domain.ConfigError{Menu: menu.Name, Detail: "message hook returned placeholder values but the menu has no message to substitute into"}
			}
			for key, val := range got {
				declarative = substitute(declarative, key, val)
			}
		case map[string]any:
			if len(declarative) == 0 {
				return nil, &domain.ConfigError{Menu: menu.Name, Detail: "message hook returned placeholder values but the menu has no message to substitute into"}
			}
			for key, val := range got {
				declarative = substitute(declarative, key, fmt.Sprint(val))
			}
		default:
			return nil, &domain.ConfigError{Menu: menu.Name, Detail: fmt.Sprintf("message hook returned %T, want string, []string or map", v)}
		}
	}
	return append(lines, declarative...), nil
}

func substitute(lines []string, key, val string) []string {
	placeholder := ":" + key + ":"
	for i, line := range lines {
		lines[i] = strings.ReplaceAll(line, placeholder, val)
	}
	return lines
}

// effectiveActions merges, in order, the declarative actions, the session's
// replayed overrides for this menu, and the entity's contribution.
func (k *Kernel) effectiveActions(ctx context.Context, sc *scope, menu *domain.Menu, hooks *entity.Hooks) (*domain.Actions, error) {
	actions := domain.NewActions()
	if menu.Actions != nil {
		actions.Merge(menu.Actions)
	}
	for _, ov := range sc.session.ActionOverrides {
		if ov.Menu != menu.Name {
			continue
		}
		if ov.Replace {
			actions = domain.NewActions()
		}
		if ov.Actions != nil {
			actions.Merge(ov.Actions)
		}
	}
	if hooks.Actions != nil {
		extra, err := hooks.Actions(ctx, sc.call)
		if err != nil {
			return nil, fmt.Errorf("menu %q actions: %w", menu.Name, err)
		}
		if extra != nil {
			actions.Merge(extra)
		}
	}
	return actions, nil
}

// userError reports unresolvable or invalid input, either by re-rendering
// the current menu with the message or by terminating when configured to.
func (k *Kernel) userError(ctx context.Context, sc *scope, message string) (*domain.Response, error) {
	if k.cfg.EndOnUserError {
		return k.hardEnd(ctx, sc, message)
	}
	return k.runMenu(ctx, sc, sc.session.CurrentMenu, message)
}

// endIfTerminated turns a hook's pending termination signal into the end
// response. done is false when no termination was requested.
func (k *Kernel) endIfTerminated(ctx context.Context, sc *scope) (resp *domain.Response, done bool, err error) {
	if !sc.call.Terminated() {
		return nil, false, nil
	}
	msg := sc.call.TerminationMessage()
	if msg == "" {
		msg = k.cfg.EndMessage
	}
	if sc.call.TerminationHard() {
		resp, err = k.hardEnd(ctx, sc, msg)
	} else {
		resp, err = k.softEnd(ctx, sc, msg)
	}
	return resp, true, err
}

// hardEnd terminates the dialog and wipes the session document.
func (k *Kernel) hardEnd(ctx context.Context, sc *scope, message string) (*domain.Response, error) {
	if err := k.store.Delete(ctx, sc.req.Msisdn); err != nil {
		return nil, fmt.Errorf("wiping session: %w", err)
	}
	return sc.respond(message, domain.RequestEnd, k.cfg.Production), nil
}

// softEnd terminates the dialog but keeps the session document, so the next
// dial can resume it.
func (k *Kernel) softEnd(ctx context.Context, sc *scope, message string) (*domain.Response, error) {
	if err := k.store.Save(ctx, sc.req.Msisdn, sc.session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}
	return sc.respond(message, domain.RequestEnd, k.cfg.Production), nil
}

// ask persists the session and emits an open screen expecting further input.
func (k *Kernel) ask(ctx context.Context, sc *scope, text string) (*domain.Response, error) {
	if err := k.store.Save(ctx, sc.req.Msisdn, sc.session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}
	return sc.respond(text, domain.RequestAskUserResponse, k.cfg.Production), nil
}

// sendSMSFallback delivers a terminal screen's plain message by SMS so the
// subscriber keeps it after the operator screen disappears. Best effort,
// detached from the response path.
func (k *Kernel) sendSMSFallback(sc *scope, text string) {
	if k.sms == nil || !sc.req.Channel.Bounded() || text == "" {
		return
	}
	to := sc.req.Msisdn
	logger := sc.logger
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := k.sms.Send(ctx, to, text); err != nil {
			logger.Warn("sms fallback not delivered", "err", err)
		}
	}()
}

func (sc *scope) respond(message string, op domain.RequestType, production bool) *domain.Response {
	resp := &domain.Response{
		Message:   message,
		ServiceOp: op,
		SessionID: sc.req.SessionID,
	}
	if !production {
		resp.Warnings = sc.warnings
		resp.Infos = sc.infos
	}
	return resp
}
