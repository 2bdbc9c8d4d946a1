package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/apps/coach"
	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/tenant"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

type (
	openFunc   func(*config.Config) (*gorm.DB, error)
	loadConfig func() (*config.Config, error)
)

// cli carries what every subcommand needs to reach the store.
type cli struct {
	open openFunc
	load loadConfig
	cfg  *config.Config
	db   *gorm.DB
}

func newRootCmd(open openFunc, load loadConfig) *cobra.Command {
	c := &cli{open: open, load: load}

	root := &cobra.Command{
		Use:          "coachctl",
		Short:        "Operate the drill coach backend store",
		Long:         "coachctl runs migrations and manages per-tenant presets and members outside the HTTP API.",
		SilenceUsage: true,
	}
	root.AddCommand(c.migrateCmd(), c.presetsCmd(), c.membersCmd())
	return root
}

func (c *cli) connect() error {
	if c.db != nil {
		return nil
	}
	cfg, err := c.load()
	if err != nil {
		return err
	}
	db, err := c.open(cfg)
	if err != nil {
		return err
	}
	c.cfg, c.db = cfg, db
	return nil
}

func (c *cli) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update every table",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.connect(); err != nil {
				return err
			}
			if err := database.MigrateShared(c.db); err != nil {
				return fmt.Errorf("migrate shared: %w", err)
			}
			models := (&coach.Plugin{}).Models()
			if err := database.MigrateModels(c.db, models); err != nil {
				return fmt.Errorf("migrate coach: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrated %d coach tables\n", len(models))
			return nil
		},
	}
}

func (c *cli) presetsCmd() *cobra.Command {
	var tenantID string
	var all bool

	presets := &cobra.Command{
		Use:   "presets",
		Short: "Inspect or restore a tenant's niche presets",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !tenant.ValidID(tenantID) {
				return fmt.Errorf("--tenant must match [A-Za-z0-9_-]{1,64}")
			}
			return c.connect()
		},
	}
	presets.PersistentFlags().StringVar(&tenantID, "tenant", "", "tenant ID (required)")
	_ = presets.MarkPersistentFlagRequired("tenant")

	service := func() *coach.PresetService {
		return coach.NewPresetService(c.db, coach.NewSettingsService(c.db))
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored presets in display order",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := service().ListAdmin(cmd.Context(), tenantID, all)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ORDER\tKEY\tLABEL\tENABLED")
			for _, row := range rows {
				fmt.Fprintf(w, "%d\t%s\t%s\t%t\n", row.SortOrder, row.Key, row.Label, row.Enabled)
			}
			return w.Flush()
		},
	}
	list.Flags().BoolVar(&all, "all", false, "include disabled presets")

	restore := &cobra.Command{
		Use:   "restore",
		Short: "Replace the tenant's presets with the default catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := service().RestoreDefaults(cmd.Context(), tenantID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "restored %d presets for %s\n", len(rows), tenantID)
			return nil
		},
	}

	presets.AddCommand(list, restore)
	return presets
}

func (c *cli) membersCmd() *cobra.Command {
	var tenantID, userID, role string

	members := &cobra.Command{
		Use:   "members",
		Short: "Manage tenant roles",
	}

	set := &cobra.Command{
		Use:   "set",
		Short: "Grant a role to a user inside a tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !tenant.ValidID(tenantID) {
				return fmt.Errorf("--tenant must match [A-Za-z0-9_-]{1,64}")
			}
			uid, err := uuid.Parse(userID)
			if err != nil {
				return fmt.Errorf("--user: %w", err)
			}
			if err := c.connect(); err != nil {
				return err
			}
			member, err := services.NewRoleService(c.db, c.cfg).SetRole(cmd.Context(), tenantID, uid, role)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s in %s\n", member.UserID, member.Role, member.TenantID)
			return nil
		},
	}
	set.Flags().StringVar(&tenantID, "tenant", "", "tenant ID")
	set.Flags().StringVar(&userID, "user", "", "user UUID")
	set.Flags().StringVar(&role, "role", "creator", "owner, admin, creator or member")
	_ = set.MarkFlagRequired("tenant")
	_ = set.MarkFlagRequired("user")

	members.AddCommand(set)
	return members
}
