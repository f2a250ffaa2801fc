package command

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"authgate/internal/auth"
	"authgate/internal/config"
)

func userCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "User commands",
	}
	cmd.AddCommand(
		userSetRoleCommand(),
		userPasswdCommand(),
	)
	return cmd
}

var errMemoryStore = errors.New("user commands need the sqlite or postgres store driver")

func persistentConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := configFrom(cmd.Context())
	if err != nil {
		return cfg, err
	}
	if cfg.StoreDriver == config.StoreMemory {
		return cfg, errMemoryStore
	}
	return cfg, nil
}

func userSetRoleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-role NAME ROLE",
		Short: "Assign a role to a user",
		Long: "Assigns ROLE (admin or default) to NAME. Unknown names are reserved with the\n" +
			"role; the first login for that name sets its password.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (runErr error) {
			role, err := auth.ParseRole(args[1])
			if err != nil {
				return fmt.Errorf("%w: %q", err, args[1])
			}
			cfg, err := persistentConfig(cmd)
			if err != nil {
				return err
			}
			logger := slog.Default()
			a, err := newApp(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := a.Close(); err != nil {
					runErr = errors.Join(runErr, err)
				}
			}()

			user, err := a.svc.Store().SetRole(cmd.Context(), args[0], role)
			if err != nil {
				return err
			}
			logger.InfoContext(cmd.Context(), "role assigned", slog.String("name", user.Username), slog.String("role", string(user.Role)))
			return nil
		},
	}
}

func userPasswdCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "passwd NAME",
		Short: "Set a user's password",
		Long: "Sets the password for NAME, creating the user if needed. Passwords may be\n" +
			"provided via stdin or through the interactive prompt.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (runErr error) {
			cfg, err := persistentConfig(cmd)
			if err != nil {
				return err
			}
			logger := slog.Default()
			a, err := newApp(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := a.Close(); err != nil {
					runErr = errors.Join(runErr, err)
				}
			}()

			passwd, err := prompt(cmd.InOrStdin(), cmd.ErrOrStderr(), "password: ")
			if err != nil {
				return err
			}
			user, err := a.svc.SetPassword(cmd.Context(), args[0], string(passwd))
			if err != nil {
				return err
			}
			logger.InfoContext(cmd.Context(), "password set", slog.String("name", user.Username))
			return nil
		},
	}
}
