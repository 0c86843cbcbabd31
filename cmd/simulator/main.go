// Command simulator publishes synthetic energy usage events so the
// pipeline can be exercised without real meters. Each tick every
// simulated device emits one reading to the usage topic.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/enerlytics/enerlytics/internal/adapter/queue"
	"github.com/enerlytics/enerlytics/internal/domain"
)

var (
	natsURL     = flag.String("nats", "nats://localhost:4222", "NATS server URL")
	topic       = flag.String("topic", "energy-usage", "Topic to publish readings to")
	deviceCount = flag.Int("devices", 5, "Number of simulated devices")
	interval    = flag.Duration("interval", 10*time.Second, "Delay between readings per device")
	maxEnergy   = flag.Float64("max-energy", 2.5, "Upper bound for a single reading (kWh)")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")
)

func main() {
	flag.Parse()

	var logger *zap.Logger
	var err error
	if *verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	mq, err := queue.NewNATSQueue(*natsURL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to NATS", zap.Error(err))
	}
	defer mq.Close()

	devices := make([]uuid.UUID, *deviceCount)
	for i := range devices {
		devices[i] = uuid.New()
	}
	logger.Info("Simulating devices",
		zap.Int("count", len(devices)),
		zap.String("topic", *topic),
		zap.Duration("interval", *interval),
	)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			logger.Info("Simulator stopped")
			return
		case <-ticker.C:
			for _, id := range devices {
				event := domain.EnergyUsageEvent{
					DeviceID:       id,
					EnergyConsumed: rand.Float64() * *maxEnergy,
					Timestamp:      time.Now(),
				}
				data, err := json.Marshal(event)
				if err != nil {
					logger.Error("Failed to encode event", zap.Error(err))
					continue
				}
				if err := mq.Publish(*topic, data); err != nil {
					logger.Error("Failed to publish event",
						zap.String("device_id", id.String()),
						zap.Error(err),
					)
					continue
				}
				logger.Debug("Published reading",
					zap.String("device_id", id.String()),
					zap.Float64("energy_consumed", event.EnergyConsumed),
				)
			}
		}
	}
}
