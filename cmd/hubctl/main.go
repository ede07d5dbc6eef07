package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"workflowhub/internal/bootstrap"
	"workflowhub/internal/seed"
	"workflowhub/pkg/config"
	"workflowhub/pkg/logger"
	"workflowhub/pkg/util"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:          "hubctl",
		Short:        "Operate a workflowhub store",
		Version:      Version,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(resetCmd())
	rootCmd.AddCommand(tokenCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func seedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the demo fixture (or --file) into the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, app *bootstrap.App, cfg *config.Config, log *zap.Logger) error {
				if file == "" {
					file = cfg.SeedFile
				}
				return applyFixture(ctx, app, file, seed.Options{}, log)
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML fixture (defaults to SEED_FILE, then the built-in demo data)")
	return cmd
}

func resetCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Drop every table, then seed users and history only",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("reset deletes every row; pass --yes to confirm")
			}
			return withApp(cmd.Context(), func(ctx context.Context, app *bootstrap.App, cfg *config.Config, log *zap.Logger) error {
				if err := app.Store.Reset(ctx); err != nil {
					return fmt.Errorf("reset store: %w", err)
				}
				log.Info("Store reset", zap.String("engine", app.Store.Engine()))
				return applyFixture(ctx, app, cfg.SeedFile, seed.Options{PeopleOnly: true}, log)
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the reset")
	return cmd
}

func tokenCmd() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token signed with NORTH_SERVER_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if cfg.Auth.Secret == "" {
				return errors.New("NORTH_SERVER_SECRET is not set")
			}
			token, err := util.GenerateJWT(subject, cfg.Auth.Secret, ttl)
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVarP(&subject, "subject", "s", "", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}

func withApp(ctx context.Context, fn func(context.Context, *bootstrap.App, *config.Config, *zap.Logger) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := config.Load()

	log := logger.NewLogger(cfg.Log)
	defer log.Sync()

	app, err := bootstrap.Open(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer app.Close()

	return fn(ctx, app, cfg, log)
}

func applyFixture(ctx context.Context, app *bootstrap.App, file string, opts seed.Options, log *zap.Logger) error {
	fx, err := seed.Load(file)
	if err != nil {
		return err
	}
	report, err := seed.Apply(ctx, app.Service, fx, opts, log)
	if err != nil {
		return err
	}
	log.Info("Seed applied",
		zap.Int("created", report.Created),
		zap.Int("skipped", report.Skipped),
		zap.Bool("people_only", opts.PeopleOnly),
	)
	return nil
}
