package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"agrimarket/config"
	logs "agrimarket/internal/infra/log"
	"agrimarket/internal/infra/persistence/migrations"

	"github.com/pkg/errors"
	pgLib "github.com/slighter12/go-lib/database/postgres"
)

// Supported subcommands:
// - up:      Apply all pending migrations
// - down:    Roll back the given number of migrations
// - version: Print the current schema version

func main() {
	upCmd := flag.NewFlagSet("up", flag.ExitOnError)
	downCmd := flag.NewFlagSet("down", flag.ExitOnError)
	versionCmd := flag.NewFlagSet("version", flag.ExitOnError)

	downSteps := downCmd.Int("steps", 1, "Number of migrations to roll back")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	if err := run(os.Args[1], os.Args[2:], upCmd, downCmd, versionCmd, downSteps); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(subcommand string, args []string, upCmd, downCmd, versionCmd *flag.FlagSet, downSteps *int) error {
	var cmd *flag.FlagSet
	switch subcommand {
	case "up":
		cmd = upCmd
	case "down":
		cmd = downCmd
	case "version":
		cmd = versionCmd
	default:
		printUsage()

		return errors.Errorf("unknown subcommand %q", subcommand)
	}
	if err := cmd.Parse(args); err != nil {
		return errors.WithStack(err)
	}

	migrator, closeDB, err := openMigrator()
	if err != nil {
		return err
	}
	defer closeDB()

	switch subcommand {
	case "up":
		return migrator.Up()
	case "down":
		if *downSteps < 1 {
			return errors.New("steps must be at least 1")
		}

		return migrator.Down(*downSteps)
	default:
		version, dirty, err := migrator.Version()
		if err != nil {
			return errors.Wrap(err, "failed to read schema version")
		}
		fmt.Printf("version=%d dirty=%t\n", version, dirty)

		return nil
	}
}

func openMigrator() (*migrations.Migrator, func(), error) {
	cfg, err := config.New()
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to load config")
	}

	logger, err := logs.New(logs.Params{Config: cfg})
	if err != nil {
		return nil, nil, err
	}

	db, err := pgLib.New(cfg.Postgres)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to connect to PostgreSQL")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to get PostgreSQL sql.DB")
	}

	migrator, err := migrations.New(sqlDB, logger)
	if err != nil {
		_ = sqlDB.Close()

		return nil, nil, err
	}

	return migrator, func() {
		if err := sqlDB.Close(); err != nil {
			logger.Warn("Failed to close PostgreSQL connection", slog.Any("error", err))
		}
	}, nil
}

func printUsage() {
	fmt.Println("Usage: migrate <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  up                 Apply all pending migrations")
	fmt.Println("  down -steps N      Roll back N migrations (default 1)")
	fmt.Println("  version            Print the current schema version")
}
