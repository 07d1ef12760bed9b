package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/energy-scenario-simulator/internal/config"
	"github.com/ANIKETSHETTY47/energy-scenario-simulator/internal/replay"
	"github.com/ANIKETSHETTY47/energy-scenario-simulator/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	zerolog.SetGlobalLevel(config.LogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []service.Option
	if seed := config.Seed(); seed != 0 {
		opts = append(opts, service.WithSeed(seed))
	}
	svcs := service.New(opts...)

	name, systemID, duration := config.ReplayScenario()
	rec, err := svcs.Scenarios.Simulate(ctx, service.SimulateInput{
		ScenarioName: name,
		SystemID:     systemID,
		Duration:     duration,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("simulate failed")
	}

	mqttOpts := mqtt.NewClientOptions().AddBroker(config.MQTTBroker())
	client := mqtt.NewClient(mqttOpts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("mqtt connect")
	}
	defer client.Disconnect(250)

	pub := replay.NewPublisher(client, config.MQTTTopic(), config.ReplayInterval())
	n, err := pub.Replay(ctx, rec, time.Now().Truncate(time.Hour))
	if err != nil {
		log.Error().Err(err).Int("published", n).Msg("replay interrupted")
		return
	}
	log.Info().Str("scenario", rec.Name).Int("steps", n).Msg("simulation done")
}
