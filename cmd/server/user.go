package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/artfolio/internal/auth"
	"github.com/artfolio/internal/config"
	"github.com/artfolio/internal/db"
	"github.com/artfolio/internal/logging"
	"github.com/artfolio/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	userEmail    string
	userPassword string
	userRole     string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an account or reset its password",
	Long: `Create an email/password account. When the email already exists its
password is replaced. The account's role is written to the users collection.`,
	RunE: runUserCreate,
}

var userRoleCmd = &cobra.Command{
	Use:   "role",
	Short: "Change the role of an existing account",
	RunE:  runUserRole,
}

func init() {
	userCreateCmd.Flags().StringVar(&userEmail, "email", "", "account email")
	userCreateCmd.Flags().StringVar(&userPassword, "password", "", "account password")
	userCreateCmd.Flags().StringVar(&userRole, "role", auth.RoleAdmin, "account role (admin or member)")
	_ = userCreateCmd.MarkFlagRequired("email")
	_ = userCreateCmd.MarkFlagRequired("password")

	userRoleCmd.Flags().StringVar(&userEmail, "email", "", "account email")
	userRoleCmd.Flags().StringVar(&userRole, "role", "", "new role (admin or member)")
	_ = userRoleCmd.MarkFlagRequired("email")
	_ = userRoleCmd.MarkFlagRequired("role")

	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userRoleCmd)
}

// userEnv 打开命令行工具需要的数据库与用户服务
func userEnv(ctx context.Context) (*service.UserService, *dbHandle, error) {
	cfg, err := config.LoadStorage()
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, nil, err
	}
	st, handle, err := openResources(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return service.NewUserService(st, cfg.DefaultUserRole), handle, nil
}

func runUserCreate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	role := strings.ToLower(strings.TrimSpace(userRole))
	if !auth.ValidRole(role) {
		return fmt.Errorf("unknown role %q", userRole)
	}

	users, handle, err := userEnv(ctx)
	if err != nil {
		return err
	}
	defer handle.Close(ctx)

	cred, err := db.EnsureCredential(handle.gdb, userEmail, userPassword)
	if err != nil {
		return fmt.Errorf("create credential: %w", err)
	}
	if err := users.EnsureUser(ctx, cred.UID, cred.Email); err != nil {
		return err
	}
	if err := users.SetRole(ctx, cred.UID, role); err != nil {
		return err
	}
	handle.logger.Info("account ready", zap.String("uid", cred.UID), zap.String("email", cred.Email), zap.String("role", role))
	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", cred.UID, cred.Email, role)
	return nil
}

func runUserRole(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	users, handle, err := userEnv(ctx)
	if err != nil {
		return err
	}
	defer handle.Close(ctx)

	cred, err := db.FindCredentialByEmail(handle.gdb, userEmail)
	if err != nil {
		return fmt.Errorf("find account %s: %w", userEmail, err)
	}
	if err := users.SetRole(ctx, cred.UID, userRole); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", cred.UID, cred.Email, strings.ToLower(strings.TrimSpace(userRole)))
	return nil
}
