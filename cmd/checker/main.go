package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"pwned/internal/checker"
	"pwned/internal/config"
	"pwned/internal/console"
	"pwned/internal/digest"
	"pwned/internal/observability"
)

func main() {
	password := flag.String("p", "", "password or SHA1 hash to check; omit for interactive mode")
	apiURL := flag.String("api", "", "breach lookup service base URL (default $CHECKER_API_URL)")
	show := flag.Bool("show", false, "echo submitted values in interactive mode")
	supersede := flag.Bool("supersede", false, "cancel a pending lookup when a new one is submitted")
	flag.Parse()

	cfg, err := config.LoadService("CLI_")
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if *apiURL == "" {
		*apiURL = cfg.Checker.APIURL
	}

	logger := observability.NewLoggerTo(os.Stderr, "pwned-checker", cfg.LogLevel, true)
	lookup := checker.NewHTTPLookup(*apiURL, &http.Client{Timeout: cfg.Checker.Timeout}, logger)
	opts := []checker.Option{checker.WithLogger(logger)}
	if *supersede {
		opts = append(opts, checker.WithPolicy(checker.SupersedePrior))
	}
	c := checker.New(digest.SHA1{}, lookup, opts...)
	if *show {
		c.ToggleVisibility()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *password != "" {
		st := c.Check(ctx, *password)
		fmt.Println(console.Line(st))
		if st.Severity == checker.SeverityError {
			stop()
			os.Exit(1)
		}
		return
	}

	if err := console.Run(ctx, c, os.Stdin, os.Stdout, console.TerminalSecret(os.Stdin)); err != nil && ctx.Err() == nil {
		logger.Fatal().Err(err).Msg("console failed")
	}
}
