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

	"taxifleet/config"
	"taxifleet/pkg/api"
	"taxifleet/pkg/bot"
	"taxifleet/pkg/forms"
	"taxifleet/pkg/logger"
	"taxifleet/service"
	"taxifleet/storage"
	"taxifleet/storage/memory"
	"taxifleet/storage/postgres"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "taxifleet",
		Short: "Taxi fleet management service",
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newCreateDriverCmd())
	return root
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and, when configured, the Telegram bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if port, _ := cmd.Flags().GetInt("port"); port != 0 {
				cfg.HTTPPort = port
			}
			return serve(cfg)
		},
	}
	cmd.Flags().IntP("port", "p", 0, "HTTP port (overrides HTTP_PORT)")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending Postgres migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			log := logger.New(cfg.ServiceName, cfg.LoggerLevel)
			defer log.Sync()

			return postgres.Migrate(postgres.URL(cfg), cfg.MigrationsPath, log)
		},
	}
}

func newCreateDriverCmd() *cobra.Command {
	var form forms.DriverCreationForm

	cmd := &cobra.Command{
		Use:   "create-driver",
		Short: "Create a driver account, e.g. the first one able to log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			log := logger.New(cfg.ServiceName, cfg.LoggerLevel)
			defer log.Sync()

			ctx := context.Background()
			stg, err := newStorage(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer stg.Close()

			form.Password2 = form.Password1
			d, err := service.New(stg, log, cfg.PageSize).Driver().Create(ctx, form)
			if err != nil {
				return err
			}
			fmt.Printf("created %s at %s\n", d, d.AbsoluteURL())
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&form.Username, "username", "", "username")
	flags.StringVar(&form.LicenseNumber, "license", "", "license number, e.g. ABC12345")
	flags.StringVar(&form.FirstName, "first-name", "", "first name")
	flags.StringVar(&form.LastName, "last-name", "", "last name")
	flags.StringVar(&form.Password1, "password", "", "password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("license")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newStorage(ctx context.Context, cfg config.Config, log logger.ILogger) (storage.IStorage, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		log.Warning("using in-memory storage, data is lost on exit")
		return memory.New(), nil
	case config.StorageDriverPostgres:
		pg, err := postgres.New(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return pg, nil
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
}

func serve(cfg config.Config) error {
	log := logger.New(cfg.ServiceName, cfg.LoggerLevel)
	defer log.Sync()

	stg, err := newStorage(context.Background(), cfg, log)
	if err != nil {
		log.Error("Failed to initialize storage", logger.Error(err))
		return err
	}
	defer stg.Close()

	services := service.New(stg, log, cfg.PageSize)

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTPHost, cfg.HTTPPort),
		Handler:           api.NewRouter(services, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server is starting", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var fleetBot *bot.Bot
	if cfg.TelegramBotToken != "" {
		fleetBot, err = bot.New(&cfg, services, log)
		if err != nil {
			log.Error("Failed to initialize bot", logger.Error(err))
			return err
		}
		go fleetBot.Start()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-errCh:
		log.Error("HTTP server failed", logger.Error(err))
		return err
	}

	log.Info("Shutting down...")
	if fleetBot != nil {
		fleetBot.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
