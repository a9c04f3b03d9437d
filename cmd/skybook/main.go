package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Domenick1991/skybook/config"
	"github.com/Domenick1991/skybook/internal/app"
	"github.com/Domenick1991/skybook/internal/backend"
	"github.com/Domenick1991/skybook/internal/identity"
)

func main() {
	defaultPath := os.Getenv("CONFIG_PATH")
	if defaultPath == "" {
		defaultPath = "config.yaml"
	}
	cfgPath := flag.String("config", defaultPath, "path to the YAML config")
	user := flag.String("user", "", "sign in as this account (email or id) before running commands")
	verbose := flag.Bool("v", false, "log background activity to stderr")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	level := slog.LevelError
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := app.New(cfg.Client, app.Deps{
		Backend:  backend.NewClient(cfg.Client.BackendURL),
		Provider: identity.NewLocalProvider(cfg.Identity),
		Logger:   logger,
	})
	a.Start(ctx)
	defer a.Close()

	sh := &shell{app: a, out: os.Stdout}
	if *user != "" {
		sh.run(ctx, "login "+*user)
	}

	if args := flag.Args(); len(args) > 0 {
		sh.run(ctx, strings.Join(args, " "))
		return
	}

	fmt.Fprintf(os.Stdout, "SkyBook (%s). Type 'help' for commands.\n", cfg.Client.BackendURL)
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(os.Stdout, "> ")
		if !scanner.Scan() {
			return
		}
		if sh.run(ctx, scanner.Text()) {
			return
		}
		if ctx.Err() != nil {
			return
		}
	}
}
