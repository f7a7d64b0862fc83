// Command mealadmin runs administrative tasks against the meal database:
// schema migration, period totals, record removal and bootstrap users.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/Abhigulve/mid-day-meal/internal/auth"
	"github.com/Abhigulve/mid-day-meal/internal/config"
	"github.com/Abhigulve/mid-day-meal/internal/db"
	"github.com/Abhigulve/mid-day-meal/internal/logging"
	"github.com/Abhigulve/mid-day-meal/internal/mealrecord"
	"github.com/Abhigulve/mid-day-meal/internal/menu"
	"github.com/Abhigulve/mid-day-meal/internal/period"
	"github.com/Abhigulve/mid-day-meal/internal/report"
	"github.com/Abhigulve/mid-day-meal/internal/school"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "mealadmin",
		Short:         "Administrative tasks for the mid-day meal backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		migrateCmd(),
		totalsCmd(),
		removeRecordCmd(),
		createAdminCmd(),
	)
	return cmd
}

// connect loads config, sets up logging and opens the pool. Schema
// creation belongs to the migrate command alone.
func connect(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.LogLevel, cfg.IsProduction())

	return db.ConnectPostgres(ctx, poolOptions(cfg))
}

func poolOptions(cfg *config.Config) db.Options {
	return db.Options{
		DSN:        cfg.DatabaseURL,
		MaxConns:   cfg.DBMaxConns,
		MinConns:   cfg.DBMinConns,
		SkipSchema: true,
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create missing tables, constraints and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := db.InitSchema(ctx, pool); err != nil {
				return err
			}
			log.Info().Msg("schema up to date")
			return nil
		},
	}
}

func totalsCmd() *cobra.Command {
	var from, to string
	var schoolID int64

	cmd := &cobra.Command{
		Use:   "totals",
		Short: "Print meals served, attendance and estimated cost for a period",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := period.Parse(from)
			if err != nil {
				return fmt.Errorf("--from: %w", err)
			}
			end, err := period.Parse(to)
			if err != nil {
				return fmt.Errorf("--to: %w", err)
			}

			ctx := cmd.Context()
			pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			reports := report.NewService(report.NewPostgresRepository(pool), nil)
			summary, err := reports.Summary(ctx, period.NewRange(start, end), schoolID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, s := range summary.Schools {
				fmt.Fprintf(out, "%-10s %-30s records=%d served=%d present=%d cost=%s\n",
					s.SchoolCode, s.SchoolName,
					s.Totals.Records, s.Totals.MealsServed, s.Totals.StudentsPresent,
					s.EstimatedCost.StringFixed(2))
			}
			fmt.Fprintf(out, "TOTAL records=%d served=%d present=%d cost=%s\n",
				summary.Totals.Records, summary.Totals.MealsServed, summary.Totals.StudentsPresent,
				summary.EstimatedCost.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First day, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "Last day, YYYY-MM-DD")
	cmd.Flags().Int64Var(&schoolID, "school", 0, "Restrict to one school id")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func removeRecordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-record <id>",
		Short: "Permanently delete a meal record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}

			ctx := cmd.Context()
			pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			schools := school.NewService(school.NewPostgresRepository(pool))
			menus := menu.NewService(menu.NewPostgresRepository(pool), nil, nil)
			ledger := mealrecord.NewService(
				mealrecord.NewPostgresRepository(pool),
				schools,
				menus,
				nil,
				nil,
				nil,
			)

			if err := ledger.RemoveRecord(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed meal record %d\n", id)
			return nil
		},
	}
}

func createAdminCmd() *cobra.Command {
	var in auth.NewUser

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an ADMIN user",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			// CreateUser never issues tokens, so no issuer is needed here.
			users := auth.NewService(auth.NewPostgresUserRepository(pool), nil)

			in.Role = string(auth.Admin)
			user, err := users.CreateUser(ctx, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Username, "username", "", "Login name")
	cmd.Flags().StringVar(&in.Password, "password", "", "Password, at least 8 characters")
	cmd.Flags().StringVar(&in.FullName, "full-name", "", "Display name")
	cmd.Flags().StringVar(&in.Email, "email", "", "Email address")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("full-name")
	return cmd
}
