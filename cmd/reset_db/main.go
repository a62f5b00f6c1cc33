package main

import (
	"context"

	"taxifleet/config"
	"taxifleet/pkg/logger"
	"taxifleet/storage/postgres"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.ServiceName, cfg.LoggerLevel)
	pg, err := postgres.New(context.Background(), cfg, log)

	if err != nil {
		panic(err)
	}
	defer pg.Close()

	// Wipes every fleet table; manufacturers go too since cars depend on them.
	if err := pg.Truncate(context.Background()); err != nil {
		log.Error("Failed to truncate tables", logger.Error(err))
	} else {
		log.Info("Successfully truncated car_drivers, cars, drivers and manufacturers tables.")
	}
}
