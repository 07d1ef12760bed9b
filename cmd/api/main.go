package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/energy-scenario-simulator/internal/cloud"
	"github.com/ANIKETSHETTY47/energy-scenario-simulator/internal/config"
	httpHandlers "github.com/ANIKETSHETTY47/energy-scenario-simulator/internal/http"
	"github.com/ANIKETSHETTY47/energy-scenario-simulator/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	zerolog.SetGlobalLevel(config.LogLevel())

	ctx := context.Background()
	opts := []service.Option{}
	if seed := config.Seed(); seed != 0 {
		opts = append(opts, service.WithSeed(seed))
	}
	if config.UseCloudServices() {
		opts = append(opts, cloudOptions(ctx)...)
	}

	svcs := service.New(opts...)
	app := httpHandlers.NewApp(svcs, config.CORSOrigins())

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Info().Msg("shutting down")
		if err := app.Shutdown(); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	addr := config.APIAddr()
	log.Info().Str("addr", addr).Bool("cloud", config.UseCloudServices()).Msg("api listening")
	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("server exit")
	}
}

// cloudOptions wires whichever AWS collaborators are configured. A client
// that fails to initialise is skipped so the core keeps serving.
func cloudOptions(ctx context.Context) []service.Option {
	var opts []service.Option
	region := config.AWSRegion()

	if exp, err := cloud.NewS3Exporter(ctx, region, config.S3Bucket()); err != nil {
		log.Error().Err(err).Msg("s3 exporter disabled")
	} else {
		opts = append(opts, service.WithExporter(exp))
	}

	if arn := config.SNSTopicArn(); arn != "" {
		if n, err := cloud.NewSNSNotifier(ctx, region, arn); err != nil {
			log.Error().Err(err).Msg("sns notifier disabled")
		} else {
			opts = append(opts, service.WithNotifier(n))
		}
	}

	if cat, err := cloud.NewDynamoDBCatalog(ctx, region, config.DynamoDBTable()); err != nil {
		log.Error().Err(err).Msg("dynamodb catalog disabled")
	} else {
		opts = append(opts, service.WithCatalog(cat))
	}
	return opts
}
