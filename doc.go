/*
Package menuflow is a session-driven menu engine for USSD and other
screen-by-screen conversational channels.

An application is a graph of named menus. Each menu renders a message and a
numbered list of actions; the subscriber's reply selects an action, and the
engine moves the session to the action's next menu. Menus are declared in
YAML, optionally backed by Go entities that hook into the screen lifecycle
(before, message, actions, validate, save-as, after, movement), and the
engine takes care of everything in between: session persistence, back
navigation, screen pagination within the channel's character and line
budgets, forced flows, validation and remote application handoffs.

# Usage

Declare the graph in a menus.yml:

	welcome:
	  message: Welcome to TestBank
	  actions:
	    "1": { display: Check balance, next_menu: balance }
	    "2": { display: Transfer, next_menu: transfer }

	balance:
	  message: Your balance is loading...

Then assemble and serve the app:

	app, err := menuflow.New(
		menuflow.WithMenuFile("menus.yml"),
		menuflow.WithEntity("balance", func() any { return &BalanceMenu{} }),
		menuflow.WithStore(redis.New("127.0.0.1:6379", "", 0)),
	)
	if err != nil {
		log.Fatal(err)
	}
	http.ListenAndServe(":8080", app.Handler())

Entities implement only the hooks they need; the engine detects the
capability set once at bind time:

	type BalanceMenu struct{}

	func (BalanceMenu) Message(ctx context.Context, call *entity.Call) (any, error) {
		return fmt.Sprintf("Your balance is GHS %.2f", lookup(call.Request().Msisdn)), nil
	}

Hexagonal structure: pkg/domain holds the model, pkg/ports the driven
interfaces (session store, forwarder, SMS), and internal/adapters their
implementations (memory, file, redis, bolt, postgres, HTTP).
*/
package menuflow
