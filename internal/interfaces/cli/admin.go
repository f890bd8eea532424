package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/milo0914/ChemPatent-Pro/internal/infrastructure/database/postgres"
	"github.com/milo0914/ChemPatent-Pro/internal/infrastructure/database/postgres/repositories"
	"github.com/milo0914/ChemPatent-Pro/internal/infrastructure/database/redis"
	"github.com/milo0914/ChemPatent-Pro/internal/infrastructure/stack"
	"github.com/milo0914/ChemPatent-Pro/pkg/errors"
)

// NewDBCmd groups the analysis history maintenance commands.
func NewDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Maintain the analysis history database",
	}
	cmd.AddCommand(newDBMigrateCmd(), newDBRollbackCmd(), newDBStatusCmd(), newDBPruneCmd())
	return cmd
}

func newDBMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			pg := cliCtx.Config.Postgres
			if err := postgres.RunMigrations(pg.DSN(), pg.MigrationPath); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("OK:"), "migrations applied")
			return nil
		},
	}
}

func newDBRollbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rollback [steps]",
		Short: "Revert the last migrations (default 1)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, err := parseSteps(args)
			if err != nil {
				return err
			}
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			pg := cliCtx.Config.Postgres
			if err := postgres.RollbackMigration(pg.DSN(), pg.MigrationPath, steps); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s rolled back %d migration(s)\n", color.GreenString("OK:"), steps)
			return nil
		},
	}
}

func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	steps, err := strconv.Atoi(args[0])
	if err != nil || steps < 1 {
		return 0, errors.Newf(errors.ErrCodeBadRequest, "steps must be a positive integer, got %q", args[0])
	}
	return steps, nil
}

func newDBStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			pg := cliCtx.Config.Postgres
			version, dirty, err := postgres.MigrationStatus(pg.DSN(), pg.MigrationPath)
			if err != nil {
				return err
			}
			status := struct {
				Version uint `json:"version"`
				Dirty   bool `json:"dirty"`
			}{version, dirty}
			if cliCtx.OutputFormat == OutputJSON {
				return printJSON(cmd.OutOrStdout(), status)
			}
			state := color.GreenString("clean")
			if dirty {
				state = color.RedString("dirty")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (%s)\n", version, state)
			return nil
		},
	}
}

func newDBPruneCmd() *cobra.Command {
	var olderThan time.Duration
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete stored analyses older than a cutoff",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if olderThan <= 0 {
				olderThan = cliCtx.Config.Postgres.Retention
			}
			if olderThan <= 0 {
				return errors.New(errors.ErrCodeBadRequest, "--older-than is required when postgres.retention is not set")
			}

			conn, err := postgres.NewConnection(cmd.Context(), cliCtx.Config.Postgres, cliCtx.Logger)
			if err != nil {
				return err
			}
			defer conn.Close()

			repo := repositories.NewAnalysisRepository(conn.Pool(), cliCtx.Logger, nil)
			n, err := repo.DeleteOlderThan(cmd.Context(), time.Now().Add(-olderThan))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s deleted %d analysis record(s)\n", color.GreenString("OK:"), n)
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "age cutoff, e.g. 720h (default: postgres.retention)")
	return cmd
}

// NewCacheCmd groups the report cache commands.
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the shared report cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "purge [prefix]",
		Short: "Delete cached reports, all of them or those under prefix",
		Long: "Delete cached reports from the redis cache backend.  Reports are keyed\n" +
			"\"analysis:<hash>\", so purging without a prefix drops every cached report.",
		Args: cobra.MaximumNArgs(1),
		RunE: runCachePurge,
	})
	return cmd
}

func runCachePurge(cmd *cobra.Command, args []string) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	cc := cliCtx.Config.Cache
	if cc.Backend != stack.CacheRedis {
		return errors.Newf(errors.ErrCodeBadRequest, "cache backend %q is process-local; only redis can be purged", cc.Backend)
	}
	prefix := "analysis:"
	if len(args) == 1 {
		prefix = args[0]
	}

	client, err := redis.NewClient(cmd.Context(), stack.RedisConfig(cc.Redis), cliCtx.Logger)
	if err != nil {
		return err
	}
	defer client.Close()

	var opts []redis.CacheOption
	if cc.KeyPrefix != "" {
		opts = append(opts, redis.WithPrefix(cc.KeyPrefix))
	}
	n, err := redis.NewRedisCache(client, cliCtx.Logger, opts...).DeleteByPrefix(cmd.Context(), prefix)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "cache purge failed")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s purged %d cached report(s)\n", color.GreenString("OK:"), n)
	return nil
}

//Personal.AI order the ending
