package kernel

import (
	"time"

	"github.com/rejoice-framework/menuflow/internal/render"
)

// Config controls the kernel's flow policy and user-visible texts.
type Config struct {
	// WelcomeMenu is the entry menu of the graph.
	WelcomeMenu string

	// SessionLifetime bounds how old a stored session may be before an
	// INIT request discards it. Zero disables expiry.
	SessionLifetime time.Duration

	// AlwaysStartNewSession makes every INIT request ignore any stored
	// session instead of resuming it.
	AlwaysStartNewSession bool

	// AskUserBeforeReloadLastSession shows a confirmation screen before
	// resuming a previous session, instead of resuming directly.
	AskUserBeforeReloadLastSession bool

	// EndOnUserError hard-terminates the session on unresolvable input or
	// failed validation instead of re-rendering with an error message.
	EndOnUserError bool

	// EndOnUnhandledAction hard-terminates when a resolved menu exists
	// neither declaratively nor as an entity.
	EndOnUnhandledAction bool

	// AllowTimeout, when false, sends terminal screens as open prompts
	// with a cancel hint so the operator's timeout never cuts the final
	// message short.
	AllowTimeout bool

	// Production suppresses the diagnostic arrays on wire responses.
	Production bool

	DefaultErrorMessage  string
	CancelMessage        string
	UnknownOperatorError string
	FatalErrorMessage    string
	EndMessage           string
	TimeoutHintMessage   string
	AskContinueMessage   string
	ResumeDisplay        string
	RestartDisplay       string

	// AdminMsisdn, when set together with an SMS sender, receives an
	// alert for every fatal framework error.
	AdminMsisdn string

	Render render.Config
}

// DefaultConfig returns the stock policy: resume previous sessions
// directly, recover user errors in place, allow operator timeouts.
func DefaultConfig() Config {
	return Config{
		WelcomeMenu:          "welcome",
		SessionLifetime:      2 * time.Minute,
		AllowTimeout:         true,
		DefaultErrorMessage:  "Invalid input. Try again.",
		CancelMessage:        "Session cancelled.",
		UnknownOperatorError: "Unable to process your request.",
		FatalErrorMessage:    "Something went wrong. Please try again later.",
		EndMessage:           "Thank you.",
		TimeoutHintMessage:   "Press Cancel to end.",
		AskContinueMessage:   "Continue from where you left off?",
		ResumeDisplay:        "Continue",
		RestartDisplay:       "Start over",
		Render:               render.DefaultConfig(),
	}
}
