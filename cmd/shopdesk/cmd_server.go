package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/shopdesk/app/services"
	"github.com/shashiranjanraj/shopdesk/internal/kernel"
	"github.com/shashiranjanraj/shopdesk/internal/server"
	"github.com/shashiranjanraj/shopdesk/pkg/ws"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run", "start"},
	Short:   "Start the HTTP and gRPC servers",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return server.Run(ctx)
	},
}

var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered named routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Routes are only listed, never served, so the services stay unwired.
		r := kernel.New(kernel.Options{Services: services.New(services.Deps{}), Hub: ws.NewHub()})

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range r.Routes() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}
