package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bennieslab/threatwatch/internal/client/cli"
	"github.com/bennieslab/threatwatch/internal/client/config"
	"github.com/bennieslab/threatwatch/internal/flagx"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	rootCmd := cli.NewRootCmd(app)
	// the config package owns a few flags of its own; cobra never sees them
	rootCmd.SetArgs(flagx.StripArgs(os.Args[1:], config.OwnedFlags()))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
