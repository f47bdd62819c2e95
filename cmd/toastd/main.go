package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"toastd/internal/app"
)

const usage = `usage: toastd [-config path] <command> [flags]

commands:
  add      raise a toast in a flash session
  flash    store a plain (legacy) flash message
  list     show pending toasts
  render   print pending toasts as HTML
  prune    remove stale flash sessions once
  janitor  run the pruning schedule and metrics endpoint until stopped
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("toastd", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	cfgPath := fs.String("config", "", "path to config (json, yaml or toml)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}
	name, rest := fs.Arg(0), fs.Args()[1:]

	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "toastd: unknown command %q\n\n%s", name, usage)
		return 2
	}

	a, err := app.New(*cfgPath)
	if err != nil {
		fmt.Fprintln(stderr, "fatal:", err)
		return 1
	}

	if name == "janitor" {
		return runDaemon(a, stderr)
	}
	defer a.Close()

	if err := cmd(context.Background(), a, rest, stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 2
		}
		fmt.Fprintf(stderr, "toastd %s: %v\n", name, err)
		return 1
	}
	return 0
}

func runDaemon(a *app.App, stderr io.Writer) int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := a.Start(ctx); err != nil {
		fmt.Fprintln(stderr, "fatal start:", err)
		_ = a.Close()
		return 1
	}

	reason := app.StopSIGTERM
	select {
	case <-ctx.Done():
	case <-a.Done():
		reason = app.StopFatalError
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	_ = a.Stop(stopCtx, reason)

	if err := a.Err(); err != nil {
		fmt.Fprintln(stderr, "fatal:", err)
		return 1
	}
	return 0
}
