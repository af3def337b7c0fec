package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/harf/internal/api"
	"github.com/abhisek/harf/internal/jobs"
	"github.com/abhisek/harf/internal/spacedrep"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve review sessions over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		d, err := buildDeps(ctx, cfg, true)
		if err != nil {
			return err
		}
		defer d.Close()

		srv, err := api.New(api.Options{
			Catalog:    d.catalog,
			NewSession: d.newSession,
			Progress:   d.store.ProgressRepo(),
			Rewards:    d.rewards,
			Tracker:    d.tracker,
			Logger:     d.logger,
			RateLimit:  cfg.RateLimit,
		})
		if err != nil {
			return err
		}

		sched := jobs.New(time.Local, d.logger)
		if err := sched.DailyReset(d.rewards); err != nil {
			return err
		}
		if err := sched.Sweep(srv, time.Minute); err != nil {
			return err
		}
		progress := d.store.ProgressRepo()
		err = sched.DueDigest(func(ctx context.Context) (int, error) {
			s, err := spacedrep.LoadScheduler(ctx, progress)
			if err != nil {
				return 0, err
			}
			return len(s.DueItems(time.Now(), "")), nil
		}, time.Hour)
		if err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()

		errCh := make(chan error, 1)
		go func() {
			d.logger.Info("http server listening", "addr", cfg.Listen)
			errCh <- srv.Start(cfg.Listen)
		}()
		fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", cfg.Listen)

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		d.logger.Info("shutting down http server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("listen", "", "Address to listen on (default 127.0.0.1:8080)")
	serveCmd.Flags().Float64("rate-limit", 0, "Requests per second per client")
}
