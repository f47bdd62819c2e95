package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"toastd/internal/app"
	"toastd/internal/termview"
	"toastd/internal/toast"
)

type command func(ctx context.Context, a *app.App, args []string, stdout io.Writer) error

var commands = map[string]command{
	"add":     cmdAdd,
	"flash":   cmdFlash,
	"list":    cmdList,
	"render":  cmdRender,
	"prune":   cmdPrune,
	"janitor": nil, // handled by runDaemon
}

var errNoSession = errors.New("-session is required")

func newFlagSet(name string, stdout io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stdout)
	return fs
}

// cmdAdd prints the session id so the next call can pass it back.
func cmdAdd(ctx context.Context, a *app.App, args []string, stdout io.Writer) error {
	fs := newFlagSet("add", stdout)
	session := fs.String("session", "", "flash session id (empty starts a new session)")
	status := fs.String("status", toast.StatusInfo, "toast status")
	message := fs.String("message", "", "toast message")
	description := fs.String("description", "", "optional description (inline HTML allowed)")
	compact := fs.Bool("compact", false, "render in compact form")
	timeout := fs.Duration("timeout", -1, "auto-dismiss delay (negative uses the configured default)")
	icon := fs.String("icon", "", "icon key (defaults to the status)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *message == "" {
		return errors.New("-message is required")
	}

	opts := []toast.Option{toast.WithCompact(*compact)}
	if *description != "" {
		opts = append(opts, toast.WithDescription(*description))
	}
	if *timeout >= 0 {
		opts = append(opts, toast.WithTimeout(*timeout))
	}
	if *icon != "" {
		opts = append(opts, toast.WithIcon(*icon))
	}

	id, err := a.WithSession(ctx, *session, func(st *toast.Store) error {
		return st.AddMessage(*status, *message, opts...)
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, id)
	return nil
}

func cmdFlash(ctx context.Context, a *app.App, args []string, stdout io.Writer) error {
	fs := newFlagSet("flash", stdout)
	session := fs.String("session", "", "flash session id (empty starts a new session)")
	key := fs.String("key", toast.StatusInfo, "flash key, read back as the toast status")
	text := fs.String("text", "", "flash text")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *text == "" {
		return errors.New("-text is required")
	}
	id, err := a.AddFlash(ctx, *session, *key, *text)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, id)
	return nil
}

// readToasts loads the pending toasts of a session in display order.
func readToasts(ctx context.Context, a *app.App, session string, peek bool) ([]*toast.Record, error) {
	if session == "" {
		return nil, errNoSession
	}
	var out []*toast.Record
	_, err := a.WithSession(ctx, session, func(st *toast.Store) error {
		all, err := st.GetAllMessages(peek)
		out = toast.Ordered(all)
		return err
	})
	return out, err
}

type listItem struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	Message     string    `json:"message"`
	Count       int       `json:"count"`
	FirstSeenAt time.Time `json:"first_seen_at"`
	TimeoutMS   *int64    `json:"timeout_ms,omitempty"`
	Description *string   `json:"description,omitempty"`
}

func cmdList(ctx context.Context, a *app.App, args []string, stdout io.Writer) error {
	fs := newFlagSet("list", stdout)
	session := fs.String("session", "", "flash session id")
	consume := fs.Bool("consume", false, "drain the toasts instead of peeking")
	asJSON := fs.Bool("json", false, "print JSON instead of cards")
	if err := fs.Parse(args); err != nil {
		return err
	}
	records, err := readToasts(ctx, a, *session, !*consume)
	if err != nil {
		return err
	}

	if !*asJSON {
		fmt.Fprintln(stdout, termview.List(records, time.Now()))
		return nil
	}
	items := make([]listItem, 0, len(records))
	for _, r := range records {
		it := listItem{
			ID:          r.ID(),
			Status:      r.Status(),
			Message:     r.Message(),
			Count:       r.Count(),
			FirstSeenAt: r.FirstSeenAt(),
			Description: r.Description(),
		}
		if d, ok := r.EffectiveTimeout(); ok {
			ms := d.Milliseconds()
			it.TimeoutMS = &ms
		}
		items = append(items, it)
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

func cmdRender(ctx context.Context, a *app.App, args []string, stdout io.Writer) error {
	fs := newFlagSet("render", stdout)
	session := fs.String("session", "", "flash session id")
	peek := fs.Bool("peek", false, "leave the toasts in the session")
	hidden := fs.Bool("hidden", false, "add the hidden class to every toast")
	if err := fs.Parse(args); err != nil {
		return err
	}
	records, err := readToasts(ctx, a, *session, *peek)
	if err != nil {
		return err
	}
	icons := a.Toasts().Icons()
	for _, r := range records {
		fmt.Fprintln(stdout, toast.NewView(r, icons).Hidden(*hidden).String())
	}
	return nil
}

func cmdPrune(ctx context.Context, a *app.App, args []string, stdout io.Writer) error {
	fs := newFlagSet("prune", stdout)
	if err := fs.Parse(args); err != nil {
		return err
	}
	n, err := a.Prune(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "pruned %d session(s)\n", n)
	return nil
}
