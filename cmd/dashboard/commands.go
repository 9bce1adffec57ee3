package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/hamed0406/upmonitor/internal/domain"
	"github.com/hamed0406/upmonitor/internal/notify"
	"github.com/hamed0406/upmonitor/internal/scheduler"
	"github.com/hamed0406/upmonitor/internal/session"
	"github.com/hamed0406/upmonitor/internal/syncer"
	"github.com/hamed0406/upmonitor/internal/view"
)

func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errw)
	return fs
}

func (a *app) credentials(name string, args []string) (string, string, error) {
	fs := a.flags(name)
	user := fs.String("u", "", "username")
	pass := fs.String("p", "", "password")
	if err := fs.Parse(args); err != nil {
		return "", "", err
	}
	if *user == "" {
		*user = a.prompt("Username: ")
	}
	if *pass == "" {
		*pass = a.prompt("Password: ")
	}
	return *user, *pass, nil
}

func (a *app) signUp(ctx context.Context, args []string) error {
	user, pass, err := a.credentials("signup", args)
	if err != nil {
		return err
	}
	if err := a.coord.SignUp(ctx, user, pass); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Account created. Sign in with: dashboard signin")
	return nil
}

func (a *app) signIn(ctx context.Context, args []string) error {
	user, pass, err := a.credentials("signin", args)
	if err != nil {
		return err
	}
	if err := a.coord.SignIn(ctx, user, pass); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed in.")
	return nil
}

func (a *app) list(ctx context.Context, args []string) error {
	if err := a.flags("list").Parse(args); err != nil {
		return err
	}
	l := syncer.NewList(a.log, a.gate, a.api, view.NewListState())
	if err := l.Sync(ctx); errors.Is(err, session.ErrNoSession) {
		return err
	}
	renderList(a.out, l.State().Snapshot())
	return nil
}

// watch keeps the list mounted until interrupted, redrawing on every
// accepted publish and alerting on Up/Down flips.
func (a *app) watch(ctx context.Context, args []string) error {
	if err := a.flags("watch").Parse(args); err != nil {
		return err
	}
	if _, ok := a.gate.Require(); !ok {
		return session.ErrNoSession
	}

	state := view.NewListState()
	state.OnChange(func(s view.ListSnapshot) {
		fmt.Fprint(a.out, "\033[H\033[2J")
		renderList(a.out, s)
	})
	l := syncer.NewList(a.log, a.gate, a.api, state)
	m := l.Mount(ctx, a.cfg.PollInterval)

	notifiers := notify.Multi{notify.NewWriter(a.errw)}
	if sl := notify.NewSlack(a.cfg.SlackWebhookURL); sl != nil {
		notifiers = append(notifiers, sl)
	}
	alerter := scheduler.NewAlerter(a.log, state, notifiers, scheduler.AlerterConfig{
		AlertOnRecovery: a.cfg.AlertOnRecovery,
		Cooldown:        a.cfg.AlertCooldown,
	})
	alertCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = alerter.Run(alertCtx)
	}()

	<-ctx.Done()
	cancel()
	m.Unmount()
	m.Wait()
	<-done
	return nil
}

func (a *app) show(ctx context.Context, args []string) error {
	fs := a.flags("show")
	watch := fs.Bool("watch", false, "keep refreshing")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id := domain.WebsiteID(strings.TrimSpace(fs.Arg(0)))

	state := view.NewDetailState()
	d := syncer.NewDetail(a.log, a.gate, a.api, state, id)
	if !*watch {
		if err := d.Sync(ctx); errors.Is(err, session.ErrNoSession) {
			return err
		}
		renderDetail(a.out, state.Snapshot())
		return nil
	}

	if _, ok := a.gate.Require(); !ok {
		return session.ErrNoSession
	}
	state.OnChange(func(s view.DetailSnapshot) {
		fmt.Fprint(a.out, "\033[H\033[2J")
		renderDetail(a.out, s)
	})
	m := d.Mount(ctx, a.cfg.PollInterval)
	<-ctx.Done()
	m.Unmount()
	m.Wait()
	return nil
}

func (a *app) add(ctx context.Context, args []string) error {
	fs := a.flags("add")
	if err := fs.Parse(args); err != nil {
		return err
	}
	l := syncer.NewList(a.log, a.gate, a.api, view.NewListState())
	a.coord.SetRefresher(listRefresher{ctx: ctx, list: l})
	defer a.coord.SetRefresher(nil)

	a.coord.OpenAdd()
	if err := a.coord.AddWebsite(ctx, fs.Arg(0)); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Website added.")
	renderList(a.out, l.State().Snapshot())
	return nil
}

// listRefresher runs one list cycle in place when the coordinator asks for
// a refresh.
type listRefresher struct {
	ctx  context.Context
	list *syncer.List
}

func (r listRefresher) Refresh() { _ = r.list.Sync(r.ctx) }

func (a *app) remove(ctx context.Context, args []string) error {
	fs := a.flags("rm")
	yes := fs.Bool("y", false, "do not ask for confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id := strings.TrimSpace(fs.Arg(0))
	if id == "" {
		return errors.New("rm: website id required")
	}

	a.coord.RequestDeleteWebsite(domain.WebsiteID(id))
	if !*yes && !a.confirm(fmt.Sprintf("Stop monitoring %s? This deletes its history. [y/N] ", id)) {
		a.coord.CancelDelete()
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}
	if err := a.coord.ConfirmDeleteWebsite(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Website deleted.")
	return nil
}

func (a *app) deleteAccount(ctx context.Context, args []string) error {
	fs := a.flags("delete-account")
	yes := fs.Bool("y", false, "do not ask for confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a.coord.RequestDeleteAccount()
	if !*yes && !a.confirm("Delete your account and every website it monitors? [y/N] ") {
		a.coord.CancelDeleteAccount()
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}
	if err := a.coord.ConfirmDeleteAccount(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Account deleted.")
	return nil
}

func (a *app) prompt(label string) string {
	fmt.Fprint(a.out, label)
	line, _ := a.in.ReadString('\n')
	return strings.TrimSpace(line)
}

func (a *app) confirm(label string) bool {
	switch strings.ToLower(a.prompt(label)) {
	case "y", "yes":
		return true
	}
	return false
}
