package main

import (
	"path/filepath"

	"github.com/apex/log"

	"github.com/wildsighthq/wildsight/config"
	"github.com/wildsighthq/wildsight/db"
	"github.com/wildsighthq/wildsight/server"
	"github.com/wildsighthq/wildsight/services"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if conf.Debug {
		log.SetLevel(log.DebugLevel)
	}

	reportStore := db.NewReportStore(filepath.Join(conf.DataDir, "reports.json"))
	redemptionStore := db.NewRedemptionStore(filepath.Join(conf.DataDir, "redemptions.json"))
	pointsStore := db.NewPointsStore(filepath.Join(conf.DataDir, "points.json"))

	assetStore, err := services.NewAssetStore(conf)
	if err != nil {
		log.Fatalf("asset store: %v", err)
	}
	authGate, err := services.NewAuthGate(conf)
	if err != nil {
		log.Fatalf("auth gate: %v", err)
	}

	reportService := services.NewReportService(reportStore, pointsStore, conf)
	rewardService := services.NewRewardService(redemptionStore, pointsStore, conf)

	s := &server.Server{
		Config:        conf,
		AuthGate:      authGate,
		ReportService: reportService,
		RewardService: rewardService,
		AssetStore:    assetStore,
	}

	s.Start()
}
