package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/samvad-directory-client/internal/app"
	"github.com/samvad-hq/samvad-directory-client/internal/config"
	"github.com/samvad-hq/samvad-directory-client/internal/logger"
	"github.com/spf13/pflag"
)

const usage = `usage: dirctl [flags] <command>

commands:
  <vendors|users> list
  <vendors|users> get <id>
  <vendors|users> create '<json>'
  <vendors|users> update <id> '<json>'
  <vendors|users> delete <id>
  journal [limit]

flags:
`

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "dirctl: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("dirctl", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.String("base-url", "", "directory server base URL (env API_BASE_URL)")
	fs.String("log-level", "", "log level: debug, info, warn, error (env LOG_LEVEL)")
	fs.Int("timeout", 0, "request timeout in seconds, 0 for none (env REQUEST_TIMEOUT_SECONDS)")
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	cmd, err := app.ParseCommand(fs.Args())
	if err != nil {
		fs.Usage()
		return err
	}

	cfg, err := config.LoadWithFlags(fs)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.InitWriter(cfg, stderr)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.DebugObj("dirctl starting", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dir, err := app.NewDirectory(ctx, cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize directory", "error", err)
		return err
	}
	defer dir.Close()

	out, err := dir.Execute(ctx, cmd)
	if err != nil {
		log.ErrorObj("directory request failed", "error", err)
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
