// Command adduser creates a user account directly in the configured storage
// backend, prompting for the password without echoing it. Intended for
// bootstrapping an admin account before the HTTP endpoint is reachable.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/swappo/authsvc/internal/logging"
	"github.com/swappo/authsvc/internal/server/auth"
	"github.com/swappo/authsvc/internal/server/config"
	"github.com/swappo/authsvc/internal/server/services"
	"github.com/swappo/authsvc/internal/server/storage"
)

func prompt(r *bufio.Reader, label string) (string, error) {
	fmt.Printf("%s: ", label)
	line, err := r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(label string) (string, error) {
	fmt.Printf("%s: ", label)
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

func run(ctx context.Context) error {
	cfg := config.LoadConfig()

	if cfg.StorageMode != storage.ModeDurable {
		return fmt.Errorf("adduser requires durable storage, got mode %q", cfg.StorageMode)
	}

	store, err := storage.NewPostgresRepositoryManager(ctx, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer store.Close()

	r := bufio.NewReader(os.Stdin)

	email, err := prompt(r, "Email")
	if err != nil {
		return err
	}
	username, err := prompt(r, "Username")
	if err != nil {
		return err
	}
	fullName, err := prompt(r, "Full name (optional)")
	if err != nil {
		return err
	}

	password, err := promptPassword("Password")
	if err != nil {
		return err
	}
	confirm, err := promptPassword("Confirm password")
	if err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	codec := auth.NewCodec(cfg.AccessSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	svc := services.NewAuthService(store.Users(), store.Sessions(), codec, logger)

	user, err := svc.Register(ctx, email, username, fullName, password)
	if err != nil {
		return err
	}

	fmt.Printf("Created user %s (%s)\n", user.Username, user.ID)
	return nil
}

func main() {
	if err := run(context.Background()); err != nil {
		log.Fatalf("%v", err)
	}
}
