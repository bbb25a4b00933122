// Copyright 2025 QuickDeck Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/shenyubao/quickdeck/internal/engine/config"
	"github.com/shenyubao/quickdeck/internal/engine/repo"
	"github.com/shenyubao/quickdeck/internal/engine/router"
	"github.com/shenyubao/quickdeck/internal/engine/service"
	"github.com/shenyubao/quickdeck/internal/pkg/executor"
	"github.com/shenyubao/quickdeck/internal/pkg/notify"
	"github.com/shenyubao/quickdeck/internal/pkg/schedule"
	"github.com/shenyubao/quickdeck/internal/pkg/storage"
	"github.com/shenyubao/quickdeck/pkg/database"
	"github.com/shenyubao/quickdeck/pkg/http/middleware"
	"github.com/shenyubao/quickdeck/pkg/log"
	"github.com/shenyubao/quickdeck/pkg/metrics"
	"github.com/shenyubao/quickdeck/pkg/safe"
)

type App struct {
	HttpApp       *fiber.App
	MetricsServer *metrics.Server
	Scheduler     *schedule.Scheduler
	Logger        *log.Logger
	AppConf       *config.AppConfig
	Repos         *repo.Repositories
	DBManager     database.Manager
}

// InitApp assembles the application from the configuration file.
func InitApp(configFile string) (*App, func(), error) {
	appConf := config.NewConf(configFile)

	logger, err := log.ProvideLogger(&appConf.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger failed: %w", err)
	}

	dbManager, err := database.NewManager(appConf.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("init database failed: %w", err)
	}
	db := database.ProvideIDatabase(dbManager)

	repos := repo.ProvideRepositories(db)

	var store storage.IStorage
	if appConf.Storage.Provider != "" {
		store, err = storage.NewStorage(&appConf.Storage)
		if err != nil {
			dbManager.Close()
			return nil, nil, fmt.Errorf("init object storage failed: %w", err)
		}
	}

	metricsServer := metrics.NewServer(appConf.Metrics)
	registry := executor.NewRegistry()
	resolver := service.NewCredentialResolver(repos.Credential)
	notifier := notify.NewNotifier()
	jobExecute := service.NewJobExecuteService(repos, registry, resolver, notifier, metricsServer)

	var scheduler *schedule.Scheduler
	if appConf.Schedule.Enabled {
		scheduler = schedule.NewScheduler(repos.Workflow, jobExecute)
	}

	rt := router.NewRouter(&appConf.Http, jobExecute, repos, store, appConf.Upload)
	httpApp := newFiberApp(appConf)
	rt.Register(httpApp)

	app := &App{
		HttpApp:       httpApp,
		MetricsServer: metricsServer,
		Scheduler:     scheduler,
		Logger:        logger,
		AppConf:       appConf,
		Repos:         repos,
		DBManager:     dbManager,
	}

	cleanup := func() {
		if metricsServer != nil {
			log.Info("Shutting down metrics server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := metricsServer.Stop(shutdownCtx); err != nil {
				log.Errorw("Failed to stop metrics server", zap.Error(err))
			}
		}
		if scheduler != nil {
			scheduler.Stop()
		}
		dbManager.Close()
	}

	return app, cleanup, nil
}

func newFiberApp(appConf *config.AppConfig) *fiber.App {
	httpApp := fiber.New(fiber.Config{
		ReadTimeout:           time.Duration(appConf.Http.ReadTimeout) * time.Second,
		WriteTimeout:          time.Duration(appConf.Http.WriteTimeout) * time.Second,
		IdleTimeout:           time.Duration(appConf.Http.IdleTimeout) * time.Second,
		BodyLimit:             appConf.Http.BodyLimit,
		DisableStartupMessage: true,
	})
	httpApp.Use(middleware.CorsMiddleware())
	if appConf.Http.AccessLog {
		httpApp.Use(middleware.AccessLogMiddleware())
	}
	httpApp.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return httpApp
}

// Run start app and wait for exit signal, then gracefully shutdown
func Run(app *App, cleanup func()) {
	appConf := app.AppConf

	if app.MetricsServer != nil {
		if err := app.MetricsServer.Start(); err != nil {
			log.Errorw("Metrics server failed", zap.Error(err))
		}
	}

	if app.Scheduler != nil {
		if err := app.Scheduler.Start(context.Background()); err != nil {
			log.Errorw("Scheduler failed to start", zap.Error(err))
		}
	}

	// set signal listener (graceful shutdown)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// start HTTP server (async)
	safe.Go(func() {
		addr := appConf.Http.Host + ":" + fmt.Sprintf("%d", appConf.Http.Port)
		log.Infow("HTTP listener started",
			"address", addr,
		)
		if err := app.HttpApp.Listen(addr); err != nil {
			log.Errorw("HTTP listener failed",
				"address", addr,
				zap.Error(err),
			)
		}
	})

	sig := <-quit
	log.Infow("Received OS signal, shutting down gracefully...", "signal", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(appConf.Http.ShutdownTimeout)*time.Second)
	defer shutdownCancel()
	if err := app.HttpApp.ShutdownWithContext(shutdownCtx); err != nil {
		log.Errorw("HTTP server shutdown error", zap.Error(err))
	} else {
		log.Info("HTTP server shut down gracefully")
	}

	cleanup()

	log.Info("Server shutdown complete")
}
