package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/stcolombus/campus-portal/internal/config"
	"github.com/stcolombus/campus-portal/internal/logger"
)

func main() {
	var migrationDir string
	flag.StringVar(&migrationDir, "path", "migrations", "Path to migration files")
	flag.Parse()

	cfg := config.Load()
	log := logger.New(os.Stderr, cfg.LogLevel, "pretty")

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		return
	}

	m, err := migrate.New(fmt.Sprintf("file://%s", migrationDir), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Migration failed to initialize")
	}
	defer m.Close()

	switch command := args[0]; command {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Msg("Up failed")
		}
		log.Info().Msg("Migrated up successfully")
	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Msg("Down failed")
		}
		log.Info().Msg("Migrated down successfully")
	case "steps":
		n := intArg(args, "steps")
		if err := m.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Int("steps", n).Msg("Steps failed")
		}
		log.Info().Int("steps", n).Msg("Migrated successfully")
	case "version":
		version, dirty, err := m.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			log.Fatal().Err(err).Msg("Version failed")
		}
		fmt.Printf("Version: %d, Dirty: %t\n", version, dirty)
	case "force":
		v := intArg(args, "force")
		if err := m.Force(v); err != nil {
			log.Fatal().Err(err).Int("version", v).Msg("Force failed")
		}
		log.Info().Int("version", v).Msg("Forced version")
	default:
		printUsage()
		os.Exit(2)
	}
}

func intArg(args []string, command string) int {
	if len(args) < 2 {
		fmt.Fprintf(os.Stderr, "%s requires a number argument\n", command)
		os.Exit(2)
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid number %q: %v\n", args[1], err)
		os.Exit(2)
	}
	return n
}

func printUsage() {
	fmt.Println("Usage: migrate [flags] <command>")
	fmt.Println("Commands: up, down, steps <n>, version, force <version>")
	fmt.Println("Flags:")
	flag.PrintDefaults()
}
