package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/rejoice-framework/menuflow/pkg/domain"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Run the flow in an interactive terminal simulator",
	Long: `Simulates a gateway session in the terminal: dial, respond, and watch the
screens exactly as a subscriber would, including pagination on the USSD
screen budget.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, closer, err := buildApp(cmd)
		if err != nil {
			return err
		}
		if closer != nil {
			defer closer.Close()
		}

		msisdn, _ := cmd.Flags().GetString("msisdn")
		channelFlag, _ := cmd.Flags().GetString("channel")
		channel := domain.ChannelUSSD
		if strings.EqualFold(channelFlag, "console") {
			channel = domain.ChannelConsole
		}

		out := termenv.NewOutput(os.Stdout)
		sessionID := uuid.NewString()
		ctx := cmd.Context()

		fmt.Println(out.String("menuflow console simulator").Bold())
		fmt.Println(out.String("type /exit to hang up, /dial to start a fresh dial").Faint())
		fmt.Println()

		req := &domain.Request{
			Msisdn:    msisdn,
			Network:   "CONSOLE",
			SessionID: sessionID,
			Type:      domain.RequestInit,
			Channel:   channel,
		}

		reader := bufio.NewReader(os.Stdin)
		for {
			resp := app.Handle(ctx, req)

			printScreen(out, resp)
			if !resp.Continues() {
				return nil
			}

			fmt.Print(out.String("> ").Bold())
			line, err := reader.ReadString('\n')
			if err != nil {
				return nil
			}
			input := strings.TrimSpace(line)

			switch input {
			case "/exit":
				app.Handle(ctx, &domain.Request{
					Msisdn: msisdn, Network: "CONSOLE", SessionID: sessionID,
					Type: domain.RequestCancelled, Channel: channel,
				})
				fmt.Println(out.String("hung up").Faint())
				return nil
			case "/dial":
				sessionID = uuid.NewString()
				req = &domain.Request{
					Msisdn: msisdn, Network: "CONSOLE", SessionID: sessionID,
					Type: domain.RequestInit, Channel: channel,
				}
			default:
				req = &domain.Request{
					Msisdn: msisdn, Network: "CONSOLE", SessionID: sessionID,
					Response: input, Type: domain.RequestUserSentResponse,
					Channel: channel,
				}
			}
		}
	},
}

func printScreen(out *termenv.Output, resp *domain.Response) {
	fmt.Println(out.String(strings.Repeat("-", 34)).Faint())
	fmt.Println(resp.Message)
	fmt.Println(out.String(strings.Repeat("-", 34)).Faint())
	for _, w := range resp.Warnings {
		fmt.Println(out.String("warning: " + w).Foreground(termenv.ANSIYellow))
	}
	for _, e := range resp.Errors {
		fmt.Println(out.String("error: " + e).Foreground(termenv.ANSIRed))
	}
	if !resp.Continues() {
		fmt.Println(out.String("session ended").Faint())
	}
}

func init() {
	rootCmd.AddCommand(consoleCmd)
	consoleCmd.Flags().String("msisdn", "233000000000", "Subscriber number to simulate")
	consoleCmd.Flags().String("channel", "ussd", "Channel to simulate: ussd (bounded screens) or console")
}
