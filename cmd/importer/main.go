package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

const batchSize = 25

func main() {
	var (
		tableName   = flag.String("table", "bookings", "DynamoDB table name")
		csvPath     = flag.String("file", "bookings.csv", "path to the CSV file to import")
		createTable = flag.Bool("create", false, "create the table and its index before importing")
		region      = flag.String("region", "us-east-1", "AWS region")
	)
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(*region))
	if err != nil {
		logger.Fatal("Failed to load AWS configuration", zap.Error(err))
	}
	client := dynamodb.NewFromConfig(awsCfg)

	if *createTable {
		if err := ensureTable(ctx, client, *tableName); err != nil {
			logger.Fatal("Failed to create table", zap.Error(err))
		}
		logger.Info("Table ready", zap.String("table", *tableName))
	}

	count, err := importCSV(ctx, client, *tableName, *csvPath, logger)
	if err != nil {
		logger.Fatal("Import failed", zap.Error(err))
	}
	logger.Info("Import complete",
		zap.String("table", *tableName),
		zap.Int("records", count))
}

// ensureTable creates the bookings table keyed on frequentFlyerNumber and
// bookingReference, with a global secondary index keyed on bookingReference
// alone, then waits for it to become active. An existing table is left alone.
func ensureTable(ctx context.Context, client *dynamodb.Client, tableName string) error {
	_, err := client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(tableName),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("frequentFlyerNumber"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("bookingReference"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("frequentFlyerNumber"), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String("bookingReference"), KeyType: types.KeyTypeRange},
		},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			{
				IndexName: aws.String(tableName + "-index"),
				KeySchema: []types.KeySchemaElement{
					{AttributeName: aws.String("bookingReference"), KeyType: types.KeyTypeHash},
				},
				Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
			},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		var inUse *types.ResourceInUseException
		if errors.As(err, &inUse) {
			return nil
		}
		return fmt.Errorf("create table %s: %w", tableName, err)
	}

	waiter := dynamodb.NewTableExistsWaiter(client)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(tableName)}, 2*time.Minute); err != nil {
		return fmt.Errorf("wait for table %s: %w", tableName, err)
	}
	return nil
}

// importCSV loads the CSV and batch-writes one item per row. Empty cells are
// skipped so the items carry only the attributes the row actually has.
func importCSV(ctx context.Context, client *dynamodb.Client, tableName, csvPath string, logger *zap.Logger) (int, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", csvPath, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", csvPath, err)
	}
	if len(rows) < 2 {
		return 0, fmt.Errorf("%s has no data rows", csvPath)
	}

	header := rows[0]
	var batch []types.WriteRequest
	count := 0
	for _, row := range rows[1:] {
		item := make(map[string]interface{}, len(header))
		for i, col := range header {
			if i < len(row) && row[i] != "" {
				item[col] = row[i]
			}
		}
		av, err := attributevalue.MarshalMap(item)
		if err != nil {
			return count, fmt.Errorf("marshal row %d: %w", count+2, err)
		}
		batch = append(batch, types.WriteRequest{
			PutRequest: &types.PutRequest{Item: av},
		})
		count++

		if len(batch) == batchSize {
			if err := flushBatch(ctx, client, tableName, batch); err != nil {
				return count, err
			}
			logger.Debug("Batch written", zap.Int("total", count))
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err := flushBatch(ctx, client, tableName, batch); err != nil {
			return count, err
		}
	}
	return count, nil
}

func flushBatch(ctx context.Context, client *dynamodb.Client, tableName string, batch []types.WriteRequest) error {
	pending := map[string][]types.WriteRequest{tableName: batch}
	for len(pending[tableName]) > 0 {
		out, err := client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: pending,
		})
		if err != nil {
			return fmt.Errorf("batch write: %w", err)
		}
		pending = out.UnprocessedItems
		if len(pending[tableName]) > 0 {
			time.Sleep(500 * time.Millisecond)
		}
	}
	return nil
}
