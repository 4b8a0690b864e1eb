package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vidtube/backend/internal/config"
	"github.com/vidtube/backend/internal/db"
	"github.com/vidtube/backend/internal/ids"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/repositories"
	"github.com/vidtube/backend/internal/validation"
)

type newUserInput struct {
	FullName string `json:"fullName" validate:"notblank,max=120"`
	Username string `json:"username" validate:"notblank,max=40"`
	Email    string `json:"email" validate:"required,email"`
	Avatar   string `json:"avatar" validate:"omitempty,url"`
}

// userStore is the account persistence used by the user commands.
type userStore interface {
	Create(ctx context.Context, user models.User) error
	FindByID(ctx context.Context, id string) (models.User, error)
}

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage channel accounts",
	}

	var in newUserInput
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a user and print it as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withUserStore(cmd.Context(), func(store userStore) error {
				return createUser(cmd.Context(), cmd.OutOrStdout(), store, in, time.Now().UTC())
			})
		},
	}
	create.Flags().StringVar(&in.FullName, "full-name", "", "display name")
	create.Flags().StringVar(&in.Username, "username", "", "unique handle")
	create.Flags().StringVar(&in.Email, "email", "", "unique email address")
	create.Flags().StringVar(&in.Avatar, "avatar", "", "avatar URL")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Print a user as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUserStore(cmd.Context(), func(store userStore) error {
				return getUser(cmd.Context(), cmd.OutOrStdout(), store, args[0])
			})
		},
	}

	cmd.AddCommand(create, get)
	return cmd
}

func withUserStore(ctx context.Context, fn func(userStore) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	return fn(repositories.NewPostgresUserRepository(pool))
}

func createUser(ctx context.Context, out io.Writer, store userStore, in newUserInput, now time.Time) error {
	in.Username = strings.ToLower(strings.TrimSpace(in.Username))
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validation.New().Validate(in); err != nil {
		return err
	}

	user := models.User{
		ID:        ids.New(),
		FullName:  strings.TrimSpace(in.FullName),
		Username:  in.Username,
		Email:     in.Email,
		Avatar:    in.Avatar,
		CreatedAt: now,
	}
	if err := store.Create(ctx, user); err != nil {
		return fmt.Errorf("create user %s: %w", user.Username, err)
	}

	return printJSON(out, user)
}

func getUser(ctx context.Context, out io.Writer, store userStore, rawID string) error {
	id, err := ids.Parse("user", rawID)
	if err != nil {
		return err
	}

	user, err := store.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find user %s: %w", id, err)
	}

	return printJSON(out, user)
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
