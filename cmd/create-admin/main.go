package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"net/mail"
	"os"
	"strings"
	"syscall"

	"github.com/stcolombus/campus-portal/internal/config"
	"github.com/stcolombus/campus-portal/internal/database"
	"github.com/stcolombus/campus-portal/internal/logger"
	"github.com/stcolombus/campus-portal/internal/model"
	"github.com/stcolombus/campus-portal/internal/repository"
	"github.com/stcolombus/campus-portal/internal/service"
	"golang.org/x/term"
)

func main() {
	roleFlag := flag.String("role", string(model.RoleAdmin), "Role of the new profile (admin, faculty, student)")
	reset := flag.Bool("reset", false, "Reset the password of an existing profile instead of creating one")
	flag.Parse()

	role := model.Role(*roleFlag)
	if !role.Valid() {
		fmt.Fprintf(os.Stderr, "Error: unknown role %q\n", *roleFlag)
		os.Exit(2)
	}

	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.New(os.Stderr, cfg.LogLevel, "pretty")

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	profiles := repository.NewProfileRepository(pool)
	// Only password hashing is used here, so no Redis client is needed.
	auth := service.NewAuthService(cfg, nil, profiles, log)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	if *reset {
		fmt.Println("=== Reset Profile Password ===")
	} else {
		fmt.Printf("=== Create New Profile (%s) ===\n", role)
	}

	email := prompt(reader, "Enter Email: ")
	if _, err := mail.ParseAddress(email); err != nil {
		fmt.Println("Error: a valid email is required")
		return
	}

	var name string
	if !*reset {
		name = prompt(reader, "Enter Full Name: ")
		if len(name) < 2 {
			fmt.Println("Error: Full name is required")
			return
		}
	}

	password, err := readPassword("Enter Password: ")
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	if len(password) < 6 {
		fmt.Println("Error: Password must be at least 6 characters")
		return
	}
	confirm, err := readPassword("Confirm Password: ")
	if err != nil || confirm != password {
		fmt.Println("Error: Passwords do not match")
		return
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}

	if *reset {
		existing, err := profiles.GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				fmt.Printf("Error: no profile with email %s\n", email)
				return
			}
			log.Fatal().Err(err).Msg("Failed to look up profile")
		}
		if err := profiles.UpdatePassword(ctx, existing.ID, hash); err != nil {
			log.Fatal().Err(err).Msg("Failed to update password")
		}
		fmt.Printf("\nSuccess! Password reset for '%s' (%s).\n", existing.FullName, existing.Email)
		return
	}

	p := &model.Profile{
		Email:        strings.ToLower(email),
		FullName:     name,
		Role:         role,
		PasswordHash: hash,
	}
	if err := profiles.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			fmt.Printf("Error: a profile with email %s already exists (use -reset to change its password)\n", p.Email)
			return
		}
		log.Fatal().Err(err).Msg("Failed to create profile")
	}

	fmt.Printf("\nSuccess! %s '%s' (%s) created with ID: %s\n", role, p.FullName, p.Email, p.ID)
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func readPassword(label string) (string, error) {
	fmt.Print(label)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // Newline after password input
	return string(b), err
}
