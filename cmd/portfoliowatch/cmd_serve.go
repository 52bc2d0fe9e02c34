package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/ibeckermayer/portfoliowatch/internal/api"
	"github.com/ibeckermayer/portfoliowatch/internal/app"
	"github.com/ibeckermayer/portfoliowatch/internal/scheduler"
)

const dailyRunJob = "daily-run"

var serveAddr string

// serveCmd runs the API and the daily schedule
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API and run the daily collection",
	Long: `Starts the HTTP API and schedules a full run every day at
digest.run_time in digest.timezone. SIGHUP reloads the config file and
reschedules the run. SIGINT or SIGTERM shuts down gracefully.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: server.addr)")
}

// scheduleDailyRun (re)registers the daily job on the app's current config
func scheduleDailyRun(sched *scheduler.Scheduler, a *app.App) error {
	return sched.AddDailyJob(dailyRunJob, a.Config().Digest.RunTime, func(ctx context.Context) error {
		result, err := a.Run(ctx, nil)
		if errors.Is(err, app.ErrRunInProgress) {
			logger.Info("skipping scheduled run, another run is active")
			return nil
		}
		if err != nil {
			return err
		}
		logger.Infow("scheduled run finished", "run", result.ID, "failed", len(result.Failed))
		return nil
	})
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := buildApp(cfg)
	if err != nil {
		return err
	}

	sched, err := scheduler.New(cfg.Digest.Timezone)
	if err != nil {
		return err
	}
	if err := scheduleDailyRun(sched, a); err != nil {
		return fmt.Errorf("failed to schedule daily run: %w", err)
	}
	sched.Start()
	defer func() {
		<-sched.Stop().Done()
		logger.Info("scheduler stopped")
	}()

	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}
	httpServer := api.HTTPServer(api.DefaultServerConfig(addr), api.NewServer(api.NewHandler(a)))

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Infow("starting HTTP server", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	for _, job := range sched.ListJobs() {
		logger.Infow("scheduled", "job", job.Name, "next", job.NextRun)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	var serveErr error
wait:
	for {
		select {
		case sig := <-sigChan:
			if sig == syscall.SIGHUP {
				reload(sched, a)
				continue
			}
			logger.Infow("received signal", "signal", sig)
			break wait
		case serveErr = <-serverErrChan:
			logger.Errorw("server error", "error", serveErr)
			break wait
		}
	}

	logger.Info("shutting down server gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warnw("HTTP server shutdown error", "error", err)
	} else {
		logger.Info("HTTP server stopped")
	}

	return serveErr
}

// reload re-reads the config file and applies it to the running app. A bad
// file keeps the old config. The scheduler keeps its original timezone.
func reload(sched *scheduler.Scheduler, a *app.App) {
	next, err := loadConfig(configPath)
	if err != nil {
		logger.Errorw("config reload failed", "error", err)
		return
	}
	if err := a.ReloadConfig(next); err != nil {
		logger.Errorw("config reload failed", "error", err)
		return
	}
	if err := scheduleDailyRun(sched, a); err != nil {
		logger.Errorw("failed to reschedule daily run", "error", err)
	}
}
