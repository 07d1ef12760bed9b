package cloud

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/energy-scenario-simulator/internal/domain"
)

type snsAPI interface {
	Publish(ctx context.Context, in *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSNotifier announces newly simulated scenarios on a topic.
type SNSNotifier struct {
	svc      snsAPI
	topicArn string
}

func NewSNSNotifier(ctx context.Context, region, topicArn string) (*SNSNotifier, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return &SNSNotifier{
		svc:      sns.NewFromConfig(cfg),
		topicArn: topicArn,
	}, nil
}

func scenarioMessage(rec domain.Record) (subject, message string) {
	subject = fmt.Sprintf("Scenario simulated: %s", rec.Name)
	message = fmt.Sprintf(
		"Scenario Simulation Complete\n\n"+
			"Scenario: %s\n"+
			"ID: %s\n"+
			"System: %s\n"+
			"Pattern: %s\n"+
			"Duration: %dd %dh %dm (%d hourly steps)\n"+
			"Time: %s\n",
		rec.Name,
		rec.ID,
		rec.SystemID,
		rec.Pattern.Label,
		rec.Duration.Days, rec.Duration.Hours, rec.Duration.Minutes, rec.Steps(),
		rec.CreatedAt.Format(time.RFC3339),
	)
	return subject, message
}

func (c *SNSNotifier) ScenarioCreated(ctx context.Context, rec domain.Record) error {
	subject, message := scenarioMessage(rec)
	out, err := c.svc.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(c.topicArn),
		Subject:  aws.String(subject),
		Message:  aws.String(message),
	})
	if err != nil {
		return fmt.Errorf("failed to publish to SNS: %w", err)
	}
	log.Debug().Str("scenario", rec.Name).Str("message_id", aws.ToString(out.MessageId)).Msg("scenario notification sent")
	return nil
}
