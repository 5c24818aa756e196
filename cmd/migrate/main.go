package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/wms/backend/internal/infrastructure/config"
	"github.com/wms/backend/internal/infrastructure/logger"
	"github.com/wms/backend/internal/infrastructure/migration"
	"go.uber.org/zap"
)

const usage = `wms schema migration tool

Usage:
  migrate [flags] <command> [arg]

Commands:
  up               apply all pending migrations
  down             roll back all migrations
  step <n>         move n versions (negative rolls back)
  version          print the current schema version
  force <version>  pin the version without running SQL (dirty-state recovery)

Flags:
  -dir string        migrations directory (default "migrations")
  -log-level string  debug, info, warn or error (default "info")
`

func main() {
	dir := flag.String("dir", "migrations", "migrations directory")
	level := flag.String("log-level", "info", "log level")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	log, err := logger.New(&logger.Config{Level: *level, Format: "console", Output: "stdout"})
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(flag.Args(), *dir, log); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
}

func run(args []string, dir string, log *zap.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	r, err := migration.Open(cfg.Database.DSN(), abs, log)
	if err != nil {
		return err
	}
	defer r.Close()

	intArg := func(name string) (int, error) {
		if len(args) < 2 {
			return 0, fmt.Errorf("%s requires a numeric argument", name)
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return 0, fmt.Errorf("%s: not a number: %q", name, args[1])
		}
		return n, nil
	}

	switch args[0] {
	case "up":
		return r.Apply()
	case "down":
		return r.Rollback()
	case "step":
		n, err := intArg("step")
		if err != nil {
			return err
		}
		return r.Shift(n)
	case "version":
		v, dirty, err := r.State()
		if err != nil {
			return err
		}
		if v == 0 {
			log.Info("no migrations applied yet")
		} else {
			log.Info("schema version", zap.Uint("version", v), zap.Bool("dirty", dirty))
		}
		return nil
	case "force":
		v, err := intArg("force")
		if err != nil {
			return err
		}
		return r.Pin(v)
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}
