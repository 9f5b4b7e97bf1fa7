// Command tripctl plans a group trip from the terminal.
//
//	tripctl register <email> <name> <password>
//	tripctl login <email> <password>
//	tripctl groups
//	tripctl create <name>
//	tripctl join <code>
//	tripctl status <group-id>
//	tripctl vote <group-id> <destination-id>
//	tripctl rsvp <group-id> <pending|confirmed|declined>
//	tripctl pay <group-id> <not_paid|partially_paid|paid> [amount]
//	tripctl finalize <group-id>
//	tripctl watch <group-id>
//
// The server and token come from TRIP_SERVER and TRIP_TOKEN, or -server and
// -token.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mmynk/tripplanner/internal/config"
	"github.com/mmynk/tripplanner/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, args, err := config.LoadCLI(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, args, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "tripctl:", err)
		os.Exit(1)
	}
}
