package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the menu graph for broken links and unreachable screens",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, closer, err := buildApp(cmd)
		if err != nil {
			return err
		}
		if closer != nil {
			defer closer.Close()
		}

		problems := app.Menus().ValidateGraph()
		if len(problems) == 0 {
			fmt.Printf("ok: %d menus, no graph problems\n", len(app.Menus().Names()))
			return nil
		}
		for _, p := range problems {
			fmt.Printf("problem: %v\n", p)
		}
		return fmt.Errorf("%d graph problem(s) found", len(problems))
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
