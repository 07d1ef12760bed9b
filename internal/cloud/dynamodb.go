package cloud

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/uuid"

	"github.com/ANIKETSHETTY47/energy-scenario-simulator/internal/domain"
)

type dynamoAPI interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// DynamoDBCatalog keeps a durable index of scenario summaries. The in-memory
// registry stays authoritative; the catalog only records what was simulated.
type DynamoDBCatalog struct {
	svc   dynamoAPI
	table string
}

func NewDynamoDBCatalog(ctx context.Context, region, table string) (*DynamoDBCatalog, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return &DynamoDBCatalog{
		svc:   dynamodb.NewFromConfig(cfg),
		table: table,
	}, nil
}

// ScenarioItem is the DynamoDB shape of a scenario summary.
type ScenarioItem struct {
	ScenarioID   string  `dynamodbav:"scenarioId"`
	ScenarioName string  `dynamodbav:"scenarioName"`
	SystemID     string  `dynamodbav:"systemId"`
	Pattern      string  `dynamodbav:"pattern"`
	Days         int     `dynamodbav:"days"`
	Hours        int     `dynamodbav:"hours"`
	Minutes      int     `dynamodbav:"minutes"`
	Steps        int     `dynamodbav:"steps"`
	TotalKWh     float64 `dynamodbav:"totalKwh"`
	CreatedAt    int64   `dynamodbav:"createdAt"`
}

func itemFromRecord(rec domain.Record) ScenarioItem {
	var total float64
	for _, v := range rec.Total {
		total += v
	}
	return ScenarioItem{
		ScenarioID:   rec.ID.String(),
		ScenarioName: rec.Name,
		SystemID:     rec.SystemID,
		Pattern:      string(rec.Pattern.Label),
		Days:         rec.Duration.Days,
		Hours:        rec.Duration.Hours,
		Minutes:      rec.Duration.Minutes,
		Steps:        rec.Steps(),
		TotalKWh:     total,
		CreatedAt:    rec.CreatedAt.Unix(),
	}
}

// Summary converts the item back to a domain summary. Items written without a
// valid scenarioId come back with uuid.Nil.
func (i ScenarioItem) Summary() domain.Summary {
	id, err := uuid.Parse(i.ScenarioID)
	if err != nil {
		id = uuid.Nil
	}
	return domain.Summary{
		ID:        id,
		Name:      i.ScenarioName,
		SystemID:  i.SystemID,
		Duration:  domain.Duration{Days: i.Days, Hours: i.Hours, Minutes: i.Minutes},
		Pattern:   domain.PatternLabel(i.Pattern),
		Steps:     i.Steps,
		CreatedAt: time.Unix(i.CreatedAt, 0).UTC(),
	}
}

func (c *DynamoDBCatalog) PutScenario(ctx context.Context, rec domain.Record) error {
	item, err := attributevalue.MarshalMap(itemFromRecord(rec))
	if err != nil {
		return fmt.Errorf("failed to marshal scenario: %w", err)
	}

	_, err = c.svc.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(c.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(scenarioName)"),
	})
	if err != nil {
		return fmt.Errorf("failed to put item in DynamoDB: %w", err)
	}
	return nil
}

// ListScenarios scans the catalog, following pagination.
func (c *DynamoDBCatalog) ListScenarios(ctx context.Context) ([]domain.Summary, error) {
	var out []domain.Summary
	paginator := dynamodb.NewScanPaginator(c.svc, &dynamodb.ScanInput{TableName: aws.String(c.table)})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scenarios: %w", err)
		}
		var items []ScenarioItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal scenarios: %w", err)
		}
		for _, it := range items {
			out = append(out, it.Summary())
		}
	}
	return out, nil
}
