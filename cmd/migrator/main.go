package main

import (
	"fmt"
	"log"
	"os"

	"github.com/example/fashion-catalog/internal/config"
	"github.com/example/fashion-catalog/internal/infrastructure/store"
	"github.com/spf13/pflag"
)

const usage = `Usage: migrator [flags] <up|down|version>

Commands:
  up        apply all pending migrations
  down      roll back --steps migrations
  version   print the current schema version

Flags:
`

func main() {
	flags := pflag.NewFlagSet("migrator", pflag.ExitOnError)
	steps := flags.Int("steps", 1, "migrations to roll back with down")
	verbose := flags.BoolP("verbose", "v", false, "log every migration step")
	flags.String("config", "", "config file")
	flags.String("env-file", ".env", "dotenv file")
	flags.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flags.PrintDefaults()
	}
	flags.Parse(os.Args[1:])

	if flags.NArg() != 1 {
		flags.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("[Migrate] Invalid configuration: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("[Migrate] DATABASE_URL is required")
	}

	switch cmd := flags.Arg(0); cmd {
	case "up":
		err = store.MigrateUp(cfg.DatabaseURL, *verbose)
	case "down":
		err = store.MigrateDown(cfg.DatabaseURL, *steps, *verbose)
	case "version":
		var (
			version uint
			dirty   bool
		)
		version, dirty, err = store.MigrationVersion(cfg.DatabaseURL)
		if err == nil {
			fmt.Printf("version=%d dirty=%t\n", version, dirty)
		}
	default:
		flags.Usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatalf("[Migrate] %v", err)
	}
}
