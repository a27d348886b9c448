package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/inkwell-press/inkwell/src/articles"
	"github.com/inkwell-press/inkwell/src/config"
	"github.com/inkwell-press/inkwell/src/copyright"
	"github.com/inkwell-press/inkwell/src/db"
	"github.com/inkwell-press/inkwell/src/drive"
	"github.com/inkwell-press/inkwell/src/email"
	"github.com/inkwell-press/inkwell/src/events"
	"github.com/inkwell-press/inkwell/src/inkdata"
	"github.com/inkwell-press/inkwell/src/logging"
	"github.com/inkwell-press/inkwell/src/wordpress"
	"github.com/spf13/cobra"
)

var configPath string

var ServerCommand = &cobra.Command{
	Short: "Run the Inkwell article server",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := config.Init(configPath); err != nil {
			logging.Fatal().Err(err).Str("path", configPath).Msg("failed to load config")
		}
		logging.UpdateLevels()
	},
	Run: func(cmd *cobra.Command, args []string) {
		defer logging.LogPanics(nil)
		logging.Info().Msg("Hello, Inkwell!")

		var wg sync.WaitGroup

		conn := db.NewConnPool()

		registry := events.NewRegistry()
		articleService := articles.NewService(
			inkdata.NewStore(conn),
			drive.NewClient(),
			wordpress.NewClient(),
			email.Sender{},
			registry,
		)
		checker := copyright.NewChecker(articleService)
		checker.Subscribe(registry)

		// Create HTTP server
		wg.Add(1)
		server := http.Server{
			Addr:    config.Config.Addr,
			Handler: NewApiRoutes(conn, articleService),
		}
		go func() {
			logging.Info().Str("addr", config.Config.Addr).Msg("Serving the article API")
			serverErr := server.ListenAndServe()
			if !errors.Is(serverErr, http.ErrServerClosed) {
				logging.Error().Err(serverErr).Msg("Server shut down unexpectedly")
			}
			// The wg.Done() happens in the shutdown logic below.
		}()

		// Wait for SIGINT in the background and trigger graceful shutdown
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, os.Interrupt)
		go func() {
			<-signals // First SIGINT (start shutdown)
			logging.Info().Msg("Shutting down the server")

			const timeout = 10 * time.Second

			wg.Add(1)
			go func() {
				logging.Info().Msg("Waiting for background work...")
				unfinished := articleService.ShutdownShares(timeout)
				unfinished = append(unfinished, checker.Shutdown(timeout)...)
				if len(unfinished) == 0 {
					logging.Info().Msg("Background work closed gracefully")
				} else {
					logging.Warn().Strs("Unfinished", unfinished).Msg("Background work did not finish by the deadline")
				}
				wg.Done()
			}()

			// Gracefully shut down the HTTP server
			go func() {
				timeoutCtx, cancel := context.WithTimeout(context.Background(), timeout)
				defer cancel()
				err := server.Shutdown(timeoutCtx)
				if err != nil {
					logging.Warn().Err(err).Msg("Server did not shut down gracefully")
				}
				wg.Done()
			}()

			<-signals // Second SIGINT (force quit)
			logging.Warn().Msg("Forcibly killed the server")
			os.Exit(1)
		}()

		// Wait for all of the above to finish, then exit
		wg.Wait()
	},
}

func init() {
	ServerCommand.PersistentFlags().StringVar(&configPath, "config", "config.toml", "Path to the config file")
}
