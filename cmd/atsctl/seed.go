package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/proconsultancy/backend/pkg/config"
	"github.com/proconsultancy/backend/pkg/iam/auth/authinfra"
	"github.com/proconsultancy/backend/pkg/iam/scopes"
	"github.com/proconsultancy/backend/pkg/iam/user"
	"github.com/proconsultancy/backend/pkg/iam/user/userinfra"
	"github.com/proconsultancy/backend/pkg/kernel"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the initial admin user",
	Long:  "Create an admin user with full scopes. Fails if a user with the given email already exists.",
	RunE:  runSeed,
}

var (
	seedEmail    string
	seedName     string
	seedPassword string
)

func init() {
	seedCmd.Flags().StringVar(&seedEmail, "email", "", "Admin email (required)")
	seedCmd.Flags().StringVar(&seedName, "name", "Admin", "Admin display name")
	seedCmd.Flags().StringVar(&seedPassword, "password", "", "Admin password (required, min 8 characters)")

	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	if seedEmail == "" || seedPassword == "" {
		return fmt.Errorf("--email and --password are required")
	}
	if len(seedPassword) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	db, err := connectDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	userRepo := userinfra.NewPostgresUserRepository(db)
	passwordSvc := authinfra.NewBcryptPasswordService(cfg.Auth.Password.BcryptCost)

	exists, err := userRepo.ExistsByEmail(ctx, seedEmail)
	if err != nil {
		return fmt.Errorf("check existing user: %w", err)
	}
	if exists {
		return fmt.Errorf("user %s already exists", seedEmail)
	}

	hash, err := passwordSvc.HashPassword(seedPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	admin := user.User{
		ID:           kernel.NewUserID(uuid.NewString()),
		Email:        seedEmail,
		Name:         seedName,
		PasswordHash: hash,
		Status:       user.UserStatusActive,
		Scopes:       []string{scopes.ScopeAll},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := userRepo.Save(ctx, admin); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}

	fmt.Printf("Admin user %s created (id: %s)\n", admin.Email, admin.ID)
	return nil
}
