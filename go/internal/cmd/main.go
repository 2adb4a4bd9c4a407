package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mcdev12/teamgraph/go/internal/dbconfig"
	"github.com/mcdev12/teamgraph/go/internal/graph"
	"github.com/mcdev12/teamgraph/go/internal/metrics"
	"github.com/mcdev12/teamgraph/go/internal/migrations"
	"github.com/mcdev12/teamgraph/go/internal/teams"
	"github.com/mcdev12/teamgraph/go/internal/telemetry"
)

const serviceName = "teamgraph"

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("teamgraph failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	var config *Config

	root := &cobra.Command{
		Use:           serviceName,
		Short:         "GraphQL API over the player and team tables",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			config, err = loadConfig(configPath)
			if err != nil {
				return err
			}
			return setupLogging(config, os.Stderr)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	serve := newServeCmd(func() *Config { return config })
	root.RunE = serve.RunE
	root.AddCommand(serve, newMigrateCmd(), newSeedCmd())
	return root
}

func newServeCmd(config func() *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the GraphQL API on " + listenAddr,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, config())
		},
	}
}

func serve(ctx context.Context, config *Config) error {
	shutdownTracing, err := telemetry.Setup(ctx, telemetry.ConfigFromEnv(serviceName))
	if err != nil {
		return err
	}

	dbConfig := dbconfig.NewConfigFromEnv()
	pool, err := setupDatabase(ctx, dbConfig)
	if err != nil {
		return err
	}
	defer pool.Close()

	publisher, closePublisher, err := setupPublisher(config)
	if err != nil {
		return err
	}
	defer closePublisher()

	clock := clockwork.NewRealClock()
	recorder := metrics.NewRecorder()
	services := setupServices(pool, dbConfig.QueryTimeout, publisher, recorder, clock)

	schema, err := graph.NewSchema(services.Resolver, graph.Options{
		MaxDepth:       config.GraphQL.MaxDepth,
		MaxParallelism: config.GraphQL.MaxParallelism,
		Tracing:        telemetry.ConfigFromEnv(serviceName).Enabled(),
	})
	if err != nil {
		return err
	}

	server := setupServer(config, schema, pool, recorder, clock)

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Bool("graphiql", config.GraphQL.GraphiQL).
			Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		log.Info().Msg("received shutdown signal")
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("tracer shutdown failed")
	}

	log.Info().Msg("Server stopped")
	return nil
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or revert the embedded schema migrations",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return migrations.Up(dbconfig.NewConfigFromEnv().DSN())
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Revert all migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return migrations.Down(dbconfig.NewConfigFromEnv().DSN())
			},
		},
	)
	return cmd
}

func newSeedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert teams from a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			seedTeams, err := teams.LoadSeedFile(file)
			if err != nil {
				return err
			}

			ctx := log.Logger.WithContext(cmd.Context())
			dbConfig := dbconfig.NewConfigFromEnv()
			pool, err := setupDatabase(ctx, dbConfig)
			if err != nil {
				return err
			}
			defer pool.Close()

			app := teams.NewApp(teams.NewRepository(pool, dbConfig.QueryTimeout))
			result, err := app.Seed(ctx, seedTeams)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(),
				"Teams seed complete: %d total, %d inserted, %d skipped, %d errors\n",
				result.Total, result.Inserted, result.Skipped, len(result.Errors),
			)
			if len(result.Errors) > 0 {
				return fmt.Errorf("%d teams failed to seed: %w", len(result.Errors), errors.Join(result.Errors...))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "teams.yaml", "YAML file listing teams")
	return cmd
}
