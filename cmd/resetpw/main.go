package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"media-source/internal/database"

	"golang.org/x/term"
)

const (
	// Default timeout for database operations
	defaultTimeout = 30 * time.Second
	// Default database directory path
	defaultDatabaseDir = "/database"
	// bcrypt ignores input past 72 bytes
	maxPasswordLength = 72
)

var (
	errPasswordMismatch = errors.New("passwords do not match")
	errPasswordTooShort = fmt.Errorf("password must be at least %d characters", database.MinPasswordLength)
	errPasswordTooLong  = fmt.Errorf("password must not exceed %d characters", maxPasswordLength)
)

// passwordReader reads one password without echo.
type passwordReader func(prompt string) ([]byte, error)

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stdout)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupted, shutting down...")
		cancel()
	}()

	os.Exit(run(ctx, os.Args[1], databasePath(os.Getenv("DATABASE_DIR")), terminalPassword, os.Stdout, os.Stderr))
}

// run executes command against the database at dbPath and returns the exit code.
func run(ctx context.Context, command, dbPath string, readPassword passwordReader, stdout, stderr io.Writer) int {
	if command != "reset" && command != "status" {
		fmt.Fprintf(stderr, "Unknown command: %s\n", sanitizeCommand(command))
		printUsage(stdout)
		return 1
	}

	db, err := database.New(ctx, dbPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: Failed to connect to database: %v\n", err)
		fmt.Fprintf(stderr, "Make sure DATABASE_DIR is set correctly (database: %s)\n", dbPath)
		return 1
	}
	defer func() {
		if err := db.Close(); err != nil {
			fmt.Fprintf(stderr, "Warning: failed to close database: %v\n", err)
		}
	}()

	if command == "status" {
		showStatus(ctx, db, stdout)
		return 0
	}

	if err := resetPassword(ctx, db, readPassword, stdout); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func databasePath(dir string) string {
	if dir == "" {
		dir = defaultDatabaseDir
	}
	return filepath.Join(dir, "media.db")
}

// sanitizeCommand replaces anything outside [a-zA-Z0-9_-] with '_' before
// the command is echoed back.
func sanitizeCommand(cmd string) string {
	var b strings.Builder
	b.Grow(len(cmd))
	for _, r := range cmd {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Media Source Password Management")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage: resetpw <command>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  reset   - Reset the password")
	fmt.Fprintln(w, "  status  - Check if password is configured")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintf(w, "  DATABASE_DIR - Path to database directory (default: %s)\n", defaultDatabaseDir)
}

func terminalPassword(prompt string) ([]byte, error) {
	fmt.Print(prompt)
	defer fmt.Println()
	return term.ReadPassword(int(os.Stdin.Fd()))
}

func validatePassword(password, confirm []byte) error {
	if !bytes.Equal(password, confirm) {
		return errPasswordMismatch
	}
	if len(password) < database.MinPasswordLength {
		return errPasswordTooShort
	}
	if len(password) > maxPasswordLength {
		return errPasswordTooLong
	}
	return nil
}

func resetPassword(ctx context.Context, db *database.Database, readPassword passwordReader, stdout io.Writer) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if !db.HasUsers(ctx) {
		return errors.New("no password configured yet, use the web interface to set up")
	}

	password, err := readPassword("New Password: ")
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}
	confirm, err := readPassword("Confirm Password: ")
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}

	if err := validatePassword(password, confirm); err != nil {
		return err
	}

	if err := db.UpdatePassword(ctx, string(password)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	fmt.Fprintln(stdout, "Password updated successfully.")
	fmt.Fprintln(stdout, "All existing sessions have been invalidated.")
	return nil
}

func showStatus(ctx context.Context, db *database.Database, stdout io.Writer) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if db.HasUsers(ctx) {
		fmt.Fprintln(stdout, "Status: Password is configured")
	} else {
		fmt.Fprintln(stdout, "Status: No password configured (setup required)")
	}
}
