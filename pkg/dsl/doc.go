/*
Package dsl provides a fluent builder for programmatically constructing
menu graphs.

It lets developers define flows using a type-safe builder pattern instead
of external YAML files. This is particularly useful for dynamic graph
generation, unit testing, and leveraging IDE autocompletion/type-checking.

Example usage:

	b := dsl.New()

	b.Menu("welcome").
		Line("Welcome to Acme").
		Option("1", "Check balance", "balance").
		Option("2", "Talk to us", "ask_message")

	b.Menu("balance").
		Line("Your balance is :balance:")

	b.Menu("ask_message").
		Line("Type your message:").
		Validate("max", "160", "").
		Default("thanks")

	b.Menu("thanks").
		Line("Thank you!")

	// The resulting registry plugs straight into the engine.
	app, err := menuflow.New(menuflow.WithMenus(b.Build()))
*/
package dsl
