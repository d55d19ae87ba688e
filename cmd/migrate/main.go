// Command migrate manages the PostgreSQL schema of the order service.
package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/masala/backend/internal/infrastructure/config"
	"github.com/masala/backend/internal/infrastructure/logger"
	"github.com/masala/backend/internal/infrastructure/migration"
	"github.com/masala/backend/migrations"
	"go.uber.org/zap"
)

type options struct {
	path     string
	embedded bool
}

func main() {
	var (
		opts     options
		logLevel string
	)
	flag.StringVar(&opts.path, "path", "", "Path to migrations directory (default: migration.path from config)")
	flag.BoolVar(&opts.embedded, "embedded", false, "Use the migrations compiled into the binary")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	if flag.NArg() == 0 {
		printUsage(os.Stderr)
		os.Exit(2)
	}

	log, err := logger.New(logger.Config{Level: logLevel, Format: "console", Output: "stdout"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(flag.Args(), opts, log); err != nil {
		log.Error("Migration command failed", zap.String("command", flag.Arg(0)), zap.Error(err))
		if errors.Is(err, errUsage) {
			printUsage(os.Stderr)
		}
		_ = log.Sync()
		os.Exit(1)
	}
}

var errUsage = errors.New("invalid usage")

// argument returns args[1] or a usage error naming what is missing
func argument(args []string, what string) (string, error) {
	if len(args) < 2 {
		return "", fmt.Errorf("%w: %s %s required", errUsage, args[0], what)
	}
	return args[1], nil
}

func run(args []string, opts options, log *zap.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if opts.path == "" {
		opts.path = cfg.Migration.Path
	}
	command := args[0]
	log.Info("Migration CLI started",
		zap.String("command", command),
		zap.String("migrations_path", opts.path),
		zap.Bool("embedded", opts.embedded),
	)

	switch command {
	case "create":
		name, err := argument(args, "<name>")
		if err != nil {
			return err
		}
		mf, err := migration.CreateMigration(opts.path, name)
		if err != nil {
			return err
		}
		log.Info("Migration created",
			zap.Uint("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath),
		)
		return nil
	case "list":
		fsys := os.DirFS(opts.path)
		if opts.embedded {
			fsys = migrations.FS
		}
		entries, err := migration.ListMigrations(fsys)
		if err != nil {
			return err
		}
		printEntries(os.Stdout, entries)
		return nil
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	source := opts.path
	if opts.embedded {
		source = ""
	}
	m, err := migration.New(db, source, log)
	if err != nil {
		return err
	}
	defer m.Close()

	switch command {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "step":
		raw, err := argument(args, "<n>")
		if err != nil {
			return err
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid step count %q", raw)
		}
		return m.Steps(n)
	case "goto":
		raw, err := argument(args, "<version>")
		if err != nil {
			return err
		}
		version, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid version %q", raw)
		}
		return m.GoTo(uint(version))
	case "force":
		raw, err := argument(args, "<version>")
		if err != nil {
			return err
		}
		version, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid version %q", raw)
		}
		return m.Force(version)
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		if version == 0 {
			log.Info("No migrations applied")
			return nil
		}
		log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		return nil
	}
	return fmt.Errorf("%w: unknown command %q", errUsage, command)
}

func printEntries(w io.Writer, entries []migration.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No migrations found")
		return
	}
	for _, e := range entries {
		state := "ok"
		if !e.HasUp || !e.HasDown {
			state = "missing up or down"
		}
		fmt.Fprintf(w, "  %06d  %-40s %s\n", e.Version, e.Name, state)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `Usage: migrate [flags] <command> [argument]

Commands:
  up | down         Apply or roll back every migration
  step <n>          Move n migrations (negative rolls back)
  goto <version>    Migrate to version
  force <version>   Record version without migrating, clearing a dirty state
  version           Print the applied version
  create <name>     Write an empty up/down pair under -path
  list              List migrations under -path, or the embedded set

Flags:
  -path, -embedded, -log-level

Connection settings come from the database section of config.toml or
MASALA_DATABASE_HOST, _PORT, _USER, _PASSWORD, _DBNAME and _SSLMODE.`)
}
