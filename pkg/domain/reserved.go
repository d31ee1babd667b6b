package domain

// Reserved menu names. These are engine-owned pseudo-destinations: an action
// whose next menu is one of these triggers special handling in the kernel
// instead of a lookup in the declarative graph.
const (
	MenuWelcome          = "__welcome"
	MenuBack             = "__back"
	MenuSame             = "__same"
	MenuEnd              = "__end"
	MenuSplitNext        = "__split_next"
	MenuSplitBack        = "__split_back"
	MenuPaginateForward  = "__paginate_forward"
	MenuPaginateBack     = "__paginate_back"
	MenuContinuePrevious = "__continue_last_session"

	// MenuAskContinue is the built-in confirmation screen shown when a
	// previous session exists and the engine is configured to ask before
	// resuming it.
	MenuAskContinue = "__ask_continue"
)

// DefaultWelcomeMenu is the menu name the engine starts from unless
// configured otherwise.
const DefaultWelcomeMenu = "welcome"

// IsReserved reports whether name is an engine-owned menu name.
func IsReserved(name string) bool {
	switch name {
	case MenuWelcome, MenuBack, MenuSame, MenuEnd,
		MenuSplitNext, MenuSplitBack,
		MenuPaginateForward, MenuPaginateBack,
		MenuContinuePrevious, MenuAskContinue:
		return true
	}
	return false
}
