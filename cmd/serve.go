package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/api"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/contract"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/logger"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/scheduler"
	"github.com/spf13/cobra"
)

// serveCmd runs the HTTP API and the scheduled forecast refresh.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve forecasts over HTTP",
	Long: `Run the HTTP API until interrupted.

Endpoints:
  GET /healthz
  GET /users/{userID}/forecast?days=7
  GET /users/{userID}/plan?start=YYYY-MM-DD&end=YYYY-MM-DD&target_hours=20
  GET /users/{userID}/explain?top=8
  GET /users/{userID}/budget?period=week&target_hours=12

With --schedule-users, the listed users are forecast on the --schedule cron
so budgets read a fresh forecast every morning.

Examples:
  # Serve on :8080
  busybee serve --model models/focus.json

  # Refresh two users every night at 02:00
  busybee serve --model models/focus.json --schedule-users ana,ben`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runServe(); err != nil {
			contract.LogFatal("Cannot serve", err)
		}
	},
}

// runServe blocks until SIGINT or SIGTERM, then stops the scheduler and the server.
func runServe() error {
	svc, err := newService()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(cfg.ScheduleUsers) > 0 {
		sched, err := scheduler.New(cfg.Schedule, svc, cfg.ScheduleUsers, cfg.HorizonDays, cfg.FetchTimeout+cfg.ModelTimeout*time.Duration(cfg.HorizonDays))
		if err != nil {
			return err
		}
		sched.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := sched.Stop(stopCtx); err != nil {
				logger.Warn("scheduler did not stop cleanly", "error", err)
			}
		}()
	}

	return api.NewServer(cfg.HTTPAddr, cfg, svc).Run(ctx)
}
