package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"telephony-gateway/internal/collector"
	"telephony-gateway/internal/config"
	"telephony-gateway/internal/repository"
	"telephony-gateway/internal/router"
	"telephony-gateway/internal/source"
	"telephony-gateway/internal/util"
)

func LoggerInitialize() (util.GatewayLogger, error) {

	var gatewayLogger util.GatewayLogger

	ConstructAndCreateLogFolder()

	if err := gatewayLogger.Init("gateway.log", false); err != nil {
		fmt.Println("Failed to initialize logger:", err)
		return util.GatewayLogger{}, err
	}

	gatewayLogger.LogEvent(util.LOG_LEVEL_INFO, "Service started")

	currentTime := time.Now().Format(time.RFC3339)

	fmt.Fprintf(os.Stderr, "\n%s: Telephony Gateway started \n", currentTime)

	return gatewayLogger, nil

}

func main() {

	logger, err := LoggerInitialize()
	if err != nil {
		fmt.Println("Error while initializing the logger..", err)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	metricStore := repository.NewSQLiteStore(cfg.DatabasePath)

	if err := metricStore.Init(); err != nil {
		log.Fatalf("Failed to initialize metric store: %v", err)
	}
	defer metricStore.Close()

	sources := []source.Client{
		source.NewHTTPClient("uccx", cfg.UCCXStatsURL(), cfg.Timeout()),
		source.NewHTTPClient("cucm", cfg.CUCMStatsURL(), cfg.Timeout()),
	}

	orchestrator := collector.NewOrchestrator(sources, metricStore, &logger)

	scheduler := collector.NewScheduler(orchestrator, cfg.Interval(), cfg.EnablePolling, &logger)
	scheduler.Start(context.Background())

	router.Run(cfg.ListenAddr, orchestrator, scheduler, &logger)
}

func ConstructAndCreateLogFolder() {
	logPath := ".." + string(os.PathSeparator) + "log"
	util.SetLoggerPath(logPath)
	util.CheckAndCreateLogFolder(logPath)
	util.SetCommonLoggerAttributes(3)
}
