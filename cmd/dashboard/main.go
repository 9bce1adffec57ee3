package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/hamed0406/upmonitor/internal/apiclient"
	"github.com/hamed0406/upmonitor/internal/config"
	"github.com/hamed0406/upmonitor/internal/logging"
	"github.com/hamed0406/upmonitor/internal/mutation"
	"github.com/hamed0406/upmonitor/internal/session"
	"github.com/hamed0406/upmonitor/internal/view"
)

const usage = `usage: dashboard <command> [flags]

commands:
  signup  [-u user] [-p password]   create an account
  signin  [-u user] [-p password]   sign in and store the session
  signout                           forget the stored session
  list                              show every website once
  watch                             keep the list on screen, refreshing and alerting
  show    [-watch] <id>             show one website's history
  add     <url>                     start monitoring a URL
  rm      [-y] <id>                 stop monitoring a website
  delete-account [-y]               delete the account and all its websites
`

type app struct {
	cfg   config.Config
	log   *zap.Logger
	in    *bufio.Reader
	out   io.Writer
	errw  io.Writer
	nav   *view.History
	gate  *session.Gate
	api   *apiclient.Client
	coord *mutation.Coordinator
}

func newApp(cfg config.Config, logger *zap.Logger, in io.Reader, out, errw io.Writer) *app {
	a := &app{cfg: cfg, log: logger, in: bufio.NewReader(in), out: out, errw: errw}
	a.nav = view.NewHistory(func(r view.Route) {
		logger.Debug("navigate", zap.String("route", string(r)))
	})
	a.gate = session.NewGate(session.NewFileStore(cfg.SessionFile), a.nav, logger)
	a.api = apiclient.New(cfg.APIBase, apiclient.NewHTTPClient(cfg.HTTPTimeout), logger)
	a.coord = mutation.New(logger, a.api, a.gate, a.nav, nil)
	return a
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.FromEnv()
	logger, err := logging.NewLogger(cfg.LogDir, "dashboard", cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := newApp(cfg, logger, os.Stdin, os.Stdout, os.Stderr)
	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		_ = logger.Sync()
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	var err error
	switch cmd {
	case "signup":
		err = a.signUp(ctx, args)
	case "signin":
		err = a.signIn(ctx, args)
	case "signout":
		a.gate.SignOut()
		fmt.Fprintln(a.out, "Signed out.")
	case "list":
		err = a.list(ctx, args)
	case "watch":
		err = a.watch(ctx, args)
	case "show":
		err = a.show(ctx, args)
	case "add":
		err = a.add(ctx, args)
	case "rm":
		err = a.remove(ctx, args)
	case "delete-account":
		err = a.deleteAccount(ctx, args)
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
	default:
		fmt.Fprint(a.errw, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}

	if errors.Is(err, session.ErrNoSession) {
		return errors.New("not signed in, run: dashboard signin")
	}
	return err
}
