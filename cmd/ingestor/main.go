package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/energy-scenario-simulator/internal/config"
	"github.com/ANIKETSHETTY47/energy-scenario-simulator/internal/database"
	"github.com/ANIKETSHETTY47/energy-scenario-simulator/internal/repository"
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

	db, err := database.Connect(config.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}

	archive := service.NewArchive(repository.New(db))

	opts := mqtt.NewClientOptions().AddBroker(config.MQTTBroker())
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("mqtt connect")
	}
	defer client.Disconnect(250)

	handler := func(_ mqtt.Client, msg mqtt.Message) {
		if err := archive.FromMQTT(ctx, msg.Topic(), msg.Payload()); err != nil {
			log.Error().Err(err).Msg("archive failed")
		}
	}

	topic := config.MQTTTopic()
	if token := client.Subscribe(topic, 0, handler); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("subscribe failed")
	}

	log.Info().Str("topic", topic).Msg("ingestor running; Ctrl+C to stop")
	<-ctx.Done()
	log.Info().Msg("ingestor stopped")
}
