package menuflow_test

import (
	"context"
	"fmt"

	"github.com/rejoice-framework/menuflow"
	"github.com/rejoice-framework/menuflow/pkg/domain"
	"github.com/rejoice-framework/menuflow/pkg/dsl"
)

func ExampleApp_Handle() {
	b := dsl.New()
	b.Menu("welcome").
		Line("Welcome to Acme").
		Option("1", "Check balance", "balance").
		Option("2", "Exit", "bye")
	b.Menu("balance").
		Line("Your balance is GHS 12.50").
		Option("0", "Back", domain.MenuBack)
	b.Menu("bye").
		Line("Goodbye!")

	app, err := menuflow.New(menuflow.WithMenus(b.Build()))
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	resp := app.Handle(ctx, &domain.Request{
		Msisdn: "233541234567", Network: "MTN", SessionID: "s-1",
		Type: domain.RequestInit,
	})
	fmt.Println(resp.Message)
	fmt.Println("--")

	resp = app.Handle(ctx, &domain.Request{
		Msisdn: "233541234567", Network: "MTN", SessionID: "s-1",
		Response: "1", Type: domain.RequestUserSentResponse,
	})
	fmt.Println(resp.Message)

	// Output:
	// Welcome to Acme
	// 1. Check balance
	// 2. Exit
	// --
	// Your balance is GHS 12.50
	// 0. Back
}
