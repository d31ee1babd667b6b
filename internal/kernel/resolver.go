package kernel

import (
	"github.com/rejoice-framework/menuflow/pkg/domain"
	"github.com/rejoice-framework/menuflow/pkg/entity"
)

// resolveNext picks the destination for a response on the current menu.
// Precedence, first match wins:
//
//  1. forced-flow queue head
//  2. explicit action matched by trigger
//  3. split navigation (forward, then back) while a pagination is live
//  4. the menu's declarative default next menu
//  5. the entity's programmatic default next menu
//
// The matched action, when the explicit branch won, comes back alongside so
// the caller can apply its save-as and action-level validation. ok is false
// when nothing resolved, which is a user input error.
func (k *Kernel) resolveNext(sc *scope, menu *domain.Menu, hooks *entity.Hooks, response string, matched *domain.Action) (domain.NextMenu, bool) {
	// Peek, don't consume: if validation later rejects the response, the
	// queued detour must survive for the retry.
	if forced, ok := sc.session.PeekForced(); ok {
		return domain.NextMenu{Name: forced}, true
	}
	if matched != nil {
		return matched.Next, true
	}
	if p := sc.session.Pagination; p != nil {
		switch response {
		case k.cfg.Render.NextTrigger:
			if !p.AtEnd() {
				return domain.NextMenu{Name: domain.MenuPaginateForward}, true
			}
		case k.cfg.Render.BackTrigger:
			if !p.AtStart() {
				return domain.NextMenu{Name: domain.MenuPaginateBack}, true
			}
		}
	}
	if menu.DefaultNextMenu != "" {
		return domain.NextMenu{Name: menu.DefaultNextMenu}, true
	}
	if hooks.DefaultNextMenu != nil {
		if next, ok := hooks.DefaultNextMenu(sc.call); ok {
			return next, true
		}
	}
	return domain.NextMenu{}, false
}

// needsValidation reports whether the free-form validation stage applies to
// the resolved move. Matched explicit actions and reserved pseudo-moves are
// exempt: picking a listed option is not free-form input.
func needsValidation(matched *domain.Action, next domain.NextMenu) bool {
	if matched != nil {
		return false
	}
	if next.IsURL() {
		return false
	}
	return !domain.IsReserved(next.Name)
}
