// Command agendar conduz o fluxo de agendamento pelo terminal contra um servidor AgendaMed.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"agendamed/internal/apiclient"
)

func main() {
	home, _ := os.UserHomeDir()
	apiURL := flag.String("api", envOr("AGENDAMED_API", "http://localhost:8080"), "URL base do servidor")
	sessionPath := flag.String("session", filepath.Join(home, ".agendamed-session.json"), "arquivo da sessão salva")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli := &CLI{
		Client:      apiclient.New(*apiURL),
		SessionPath: *sessionPath,
		In:          os.Stdin,
		Out:         os.Stdout,
	}
	if err := cli.Run(ctx); err != nil {
		if errors.Is(err, errQuit) {
			fmt.Fprintln(os.Stdout, "Até logo.")
			return
		}
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}
