package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"shopfront/internal/model/auth"
	"shopfront/internal/pkg/jwt"
	"shopfront/internal/pkg/mongodb"
	"shopfront/internal/pkg/password"
	authRepo "shopfront/internal/repository/auth"
	"shopfront/internal/service"
)

var initAdminCmd = &cobra.Command{
	Use:   "init-admin",
	Short: "Create or promote the administrator account",
	Long: `Create a local administrator account in MongoDB, or grant ROLE_ADMIN to
an existing local account with the same username and re-activate it.

Credentials default to INIT_ADMIN_USERNAME / INIT_ADMIN_PASSWORD / INIT_ADMIN_EMAIL.`,
	RunE: runInitAdmin,
}

func init() {
	rootCmd.AddCommand(initAdminCmd)

	flags := initAdminCmd.Flags()
	flags.String("username", envOr("INIT_ADMIN_USERNAME", "admin"), "admin username")
	flags.String("password", os.Getenv("INIT_ADMIN_PASSWORD"), "admin password (required)")
	flags.String("email", envOr("INIT_ADMIN_EMAIL", "admin@example.com"), "admin email")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func runInitAdmin(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	username, _ := cmd.Flags().GetString("username")
	pwd, _ := cmd.Flags().GetString("password")
	email, _ := cmd.Flags().GetString("email")
	if pwd == "" {
		return errors.New("admin password is required (--password or INIT_ADMIN_PASSWORD)")
	}
	if cfg.Mongo.URI == "" {
		return errors.New("mongo.uri is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// 连接 MongoDB
	client, err := mongodb.New(ctx, &cfg.Mongo)
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	defer func() {
		_ = client.Close(context.Background())
	}()

	db := client.Database()
	if err := mongodb.EnsureIndexes(ctx, db, &auth.User{}, &auth.Role{}); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	roles := authRepo.NewRoleRepo(db)
	if err := roles.EnsureDefaults(ctx); err != nil {
		return fmt.Errorf("ensure roles: %w", err)
	}
	users := authRepo.NewUserRepo(db)

	// 检查是否已存在
	user, err := users.FindByUsernameAndProvider(ctx, username, auth.ProviderLocal)
	switch {
	case errors.Is(err, authRepo.ErrUserNotFound):
		log.Info().Str("username", username).Msg("admin user not found, will create")
		// token 不会被签发，密钥只为满足构造参数
		authService := service.NewAuthService(users, roles, jwt.NewJWT("init-admin", time.Minute), cfg.Auth.BcryptCost)
		user, err = authService.Register(ctx, service.RegisterInput{
			Username: username,
			Password: pwd,
			Email:    email,
			Roles:    []string{"admin"},
		})
		if err != nil {
			return fmt.Errorf("create admin user: %w", err)
		}
	case err != nil:
		return fmt.Errorf("query user: %w", err)
	default:
		// 已存在，授予 admin 并启用，同时重置密码
		log.Info().Str("username", username).Msg("admin user exists, will update roles/status")
		hashed, err := password.Hash(pwd, cfg.Auth.BcryptCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		if !user.HasRole(auth.RoleAdmin) {
			user.Roles = append(user.Roles, auth.RoleAdmin)
		}
		user.Active = true
		user.Password = hashed
		if err := users.Update(ctx, user); err != nil {
			return fmt.Errorf("update admin user: %w", err)
		}
	}

	fmt.Printf("Admin initialized: id=%d username=%s roles=%v active=%t\n",
		user.ID, user.Username, user.Roles, user.Active)
	return nil
}
