package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tajious/shagun/internal/auth"
	"github.com/tajious/shagun/internal/config"
	"github.com/tajious/shagun/internal/models"
	"github.com/tajious/shagun/internal/storage"
)

var (
	promoteMobile string
	promoteRole   string
)

var promoteCmd = &cobra.Command{
	Use:   "promote",
	Short: "Set the role of a registered marriage",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		store, err := storage.Open(cfg.Database)
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		defer store.Close()

		tenant, err := promote(cmd.Context(), store, promoteMobile, models.Role(promoteRole))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) is now %s\n", tenant.MarriageName, tenant.ID, tenant.Role)
		return nil
	},
}

func promote(ctx context.Context, store storage.TenantStore, mobile string, role models.Role) (*models.Tenant, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	tenant, err := store.GetTenantByMobile(ctx, strings.TrimSpace(mobile))
	if err != nil {
		if errors.Is(err, storage.ErrTenantNotFound) {
			return nil, fmt.Errorf("no marriage registered with mobile %s", mobile)
		}
		return nil, err
	}
	return store.UpdateTenant(ctx, tenant.ID, models.TenantPatch{Role: &role})
}

var hashAlgorithm string

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "Print a password hash; reads stdin when no argument is given",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var password string
		if len(args) == 1 {
			password = args[0]
		} else {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read password: %w", err)
			}
			password = strings.TrimRight(line, "\r\n")
		}

		hasher, err := auth.NewHasher(hashAlgorithm)
		if err != nil {
			return err
		}
		hash, err := hasher.Hash(password)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

func init() {
	promoteCmd.Flags().StringVar(&promoteMobile, "mobile", "", "admin mobile number of the marriage")
	promoteCmd.Flags().StringVar(&promoteRole, "role", string(models.RoleAdmin), "role to assign (user, admin, superadmin)")
	_ = promoteCmd.MarkFlagRequired("mobile")

	hashPasswordCmd.Flags().StringVar(&hashAlgorithm, "algorithm", auth.AlgorithmBcrypt, "hash algorithm (bcrypt, argon2id)")
}
