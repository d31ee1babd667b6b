package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rejoice-framework/menuflow/internal/presentation/graph"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the menu graph as a Mermaid diagram",
	Long: `Outputs a Mermaid flowchart (graph TD) of the menu graph. With --msisdn,
the subscriber's stored session is overlaid: visited menus are highlighted
and the current menu is marked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, closer, err := buildApp(cmd)
		if err != nil {
			return err
		}
		if closer != nil {
			defer closer.Close()
		}

		var overlay *graph.Overlay
		if msisdn, _ := cmd.Flags().GetString("msisdn"); msisdn != "" {
			session, err := app.Sessions().Load(cmd.Context(), msisdn)
			if err != nil {
				return fmt.Errorf("loading session for %s: %w", msisdn, err)
			}
			overlay = &graph.Overlay{
				VisitedMenus: session.History,
				CurrentMenu:  session.CurrentMenu,
			}
		}

		fmt.Print(graph.GenerateMermaid(app.Menus(), app.WelcomeMenu(), overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("msisdn", "", "Overlay the stored session of this subscriber")
}
