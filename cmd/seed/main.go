package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"threadchat/internal/auth"
	"threadchat/internal/config"
	"threadchat/internal/db"
	apperrors "threadchat/internal/errors"
	"threadchat/internal/handler"
	"threadchat/internal/logger"
	"threadchat/internal/repository"
	"threadchat/internal/router"
	"threadchat/internal/service"
)

// env is the store and token issuer shared by the subcommands.
type env struct {
	conn   *db.Conn
	users  repository.UserRepository
	tokens *auth.TokenService
}

func openEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.LogLevel)

	conn, err := db.Open(ctx, cfg.DatabaseURL, cfg.MongoDatabase)
	if err != nil {
		return nil, fmt.Errorf("database init: %w", err)
	}
	users, _ := repository.New(conn)
	return &env{conn: conn, users: users, tokens: auth.NewTokenService(cfg.JWTSecret)}, nil
}

func (e *env) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.conn.Close(ctx); err != nil {
		log.Printf("close store: %v", err)
	}
}

func newUserCmd() *cobra.Command {
	var req handler.SignupRequest

	cmd := &cobra.Command{
		Use:   "user",
		Short: "Create a user account and print its token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := router.NewValidator().Validate(&req); err != nil {
				var verr *apperrors.ValidationError
				if errors.As(err, &verr) {
					return fmt.Errorf("invalid input: %v", verr.Fields)
				}
				return err
			}

			ctx := cmd.Context()
			e, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.close()

			result, err := service.NewAuthService(e.users, e.tokens).Signup(ctx, req.Email, req.Password, req.Name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n%s\n", result.User.ID, result.User.Email, result.Token)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "account password")
	cmd.Flags().StringVar(&req.Name, "name", "", "display name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var (
		email string
		ttl   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for an existing account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.close()

			user, err := e.users.FindByEmail(ctx, email)
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("no account for %s", email)
			}
			if err != nil {
				return err
			}
			token, err := e.tokens.Issue(user.ID, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().DurationVar(&ttl, "ttl", auth.LoginTokenTTL, "token lifetime")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func main() {
	root := &cobra.Command{
		Use:           "seed",
		Short:         "Development helpers for the threadchat store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newUserCmd(), newTokenCmd())

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "seed:", err)
		os.Exit(1)
	}
}
