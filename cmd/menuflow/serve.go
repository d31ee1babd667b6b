package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rejoice-framework/menuflow/internal/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gateway-facing HTTP server",
	Long:  `Starts the engine and exposes it to USSD gateways over HTTP, with health and metrics endpoints.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, closer, err := buildApp(cmd)
		if err != nil {
			return err
		}
		if closer != nil {
			defer closer.Close()
		}

		addr := config.String("MENUFLOW_LISTEN_ADDR", ":8080")
		if flagAddr, _ := cmd.Flags().GetString("addr"); flagAddr != "" {
			addr = flagAddr
		}

		srv := &http.Server{
			Addr:              addr,
			Handler:           app.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			fmt.Printf("menuflow listening on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			fmt.Printf("\nshutting down (%v)\n", sig)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				if err := srv.Close(); err != nil {
					return fmt.Errorf("killing server: %w", err)
				}
			}
			fmt.Println("menuflow stopped")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (overrides MENUFLOW_LISTEN_ADDR)")
}
