package dsl

import (
	"testing"

	"github.com/rejoice-framework/menuflow/pkg/domain"
)

func TestBuilder_SimpleFlow(t *testing.T) {
	b := New()

	b.Menu("welcome").
		Line("Welcome to Acme").
		Option("1", "Check balance", "balance").
		Option("2", "Leave a message", "ask_message")

	b.Menu("ask_message").
		Line("Type your message:").
		Validate("max", "160", "").
		Default("thanks")

	b.Menu("thanks").
		Line("Thank you!")

	reg := b.Build()

	welcome, err := reg.Get("welcome")
	if err != nil {
		t.Fatalf("Get('welcome') failed: %v", err)
	}
	if len(welcome.Message) != 1 || welcome.Message[0] != "Welcome to Acme" {
		t.Errorf("Unexpected welcome message: %v", welcome.Message)
	}
	if welcome.Actions.Len() != 2 {
		t.Fatalf("Expected 2 actions, got %d", welcome.Actions.Len())
	}
	act, ok := welcome.Actions.Get("1")
	if !ok {
		t.Fatal("Trigger '1' not registered")
	}
	if act.Next.Name != "balance" {
		t.Errorf("Expected next menu 'balance', got '%s'", act.Next.Name)
	}

	ask, err := reg.Get("ask_message")
	if err != nil {
		t.Fatalf("Get('ask_message') failed: %v", err)
	}
	if ask.DefaultNextMenu != "thanks" {
		t.Errorf("Expected default next 'thanks', got '%s'", ask.DefaultNextMenu)
	}
	if len(ask.Validate) != 1 || ask.Validate[0].Name != "max" || ask.Validate[0].Param != "160" {
		t.Errorf("Unexpected validation rules: %v", ask.Validate)
	}
}

func TestBuilder_MenuIsIdempotent(t *testing.T) {
	b := New()
	b.Menu("home").Line("first")
	b.Menu("home").Line("second")

	home, err := b.Build().Get("home")
	if err != nil {
		t.Fatalf("Get('home') failed: %v", err)
	}
	if len(home.Message) != 2 {
		t.Errorf("Expected both lines on the same menu, got %v", home.Message)
	}
}

func TestBuilder_ActionDetails(t *testing.T) {
	b := New()
	b.Menu("transfer").
		Line("Enter amount:").
		Action(domain.Action{
			Trigger: "0",
			Display: "Back",
			Next:    domain.NextMenu{Name: domain.MenuBack},
			SaveAs:  "cancelled", HasSaveAs: true,
		})

	transfer, err := b.Build().Get("transfer")
	if err != nil {
		t.Fatalf("Get('transfer') failed: %v", err)
	}
	act, ok := transfer.Actions.Get("0")
	if !ok {
		t.Fatal("Trigger '0' not registered")
	}
	if !act.HasSaveAs || act.SaveAs != "cancelled" {
		t.Errorf("save_as not carried through: %+v", act)
	}
}

func TestBuilder_Terminal(t *testing.T) {
	b := New()
	b.Menu("bye").
		Line("Goodbye").
		Option("1", "Again", "welcome").
		Default("welcome").
		Terminal()

	bye, err := b.Build().Get("bye")
	if err != nil {
		t.Fatalf("Get('bye') failed: %v", err)
	}
	if bye.Actions.Len() != 0 || bye.DefaultNextMenu != "" {
		t.Errorf("Terminal() should clear outgoing edges: %+v", bye)
	}
}
