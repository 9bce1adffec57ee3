// cmd/preflight/main.go
package main

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/hamed0406/upmonitor/internal/config"
)

func main() {
	failed := false
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		failed = true
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	cfg := config.FromEnv()

	if u, err := url.Parse(cfg.APIBase); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		fail("API_BASE must be an http(s) URL, got " + cfg.APIBase)
	} else {
		ok("API_BASE=" + cfg.APIBase)
	}

	dir := filepath.Dir(cfg.SessionFile)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		fail("session directory " + dir + " is not writable: " + err.Error())
	} else {
		ok("SESSION_FILE=" + cfg.SessionFile)
	}

	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		fail("LOG_DIR " + cfg.LogDir + " is not writable: " + err.Error())
	} else {
		ok("LOG_DIR=" + cfg.LogDir)
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		warn("LOG_LEVEL=" + cfg.LogLevel + " is unknown; info will be used.")
	}

	if cfg.SlackWebhookURL == "" {
		warn("SLACK_WEBHOOK_URL empty; watch alerts go to the terminal only.")
	} else if !strings.HasPrefix(cfg.SlackWebhookURL, "https://") {
		fail("SLACK_WEBHOOK_URL must be https.")
	} else {
		ok("SLACK_WEBHOOK_URL present")
	}

	if os.Getenv("JWT_SECRET") == "" {
		warn("JWT_SECRET empty; the dev backend signs tokens with a built-in key.")
	}

	if failed {
		os.Exit(1)
	}
	ok("preflight passed")
}
