package thumbnail

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
)

// RecordStore is the thumbnails table, keyed by "id".
type RecordStore struct {
	client dynamodbiface.DynamoDBAPI
	table  string
}

func NewRecordStore(client dynamodbiface.DynamoDBAPI, table string) *RecordStore {
	return &RecordStore{client: client, table: table}
}

func (s *RecordStore) Table() string {
	return s.table
}

func (s *RecordStore) Put(ctx context.Context, rec Record) error {
	item, err := dynamodbattribute.MarshalMap(rec)
	if err != nil {
		return newError(KindRecordStore, "marshal record", err)
	}

	_, err = s.client.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		Item:      item,
		TableName: aws.String(s.table),
	})
	if err != nil {
		return newError(KindRecordStore, fmt.Sprintf("put record %s", rec.ID), err)
	}
	return nil
}

// List scans the whole table, following LastEvaluatedKey until the scan is
// exhausted. Order is whatever the scan yields.
func (s *RecordStore) List(ctx context.Context) ([]Record, error) {
	records := make([]Record, 0)
	input := &dynamodb.ScanInput{
		TableName: aws.String(s.table),
	}

	for {
		result, err := s.client.ScanWithContext(ctx, input)
		if err != nil {
			return nil, newError(KindRecordStore, "scan records", err)
		}

		var page []Record
		if err := dynamodbattribute.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return nil, newError(KindRecordStore, "unmarshal records", err)
		}
		records = append(records, page...)

		if len(result.LastEvaluatedKey) == 0 {
			return records, nil
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
}

func (s *RecordStore) Get(ctx context.Context, id string) (*Record, error) {
	result, err := s.client.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key:       idKey(id),
	})
	if err != nil {
		return nil, newError(KindRecordStore, fmt.Sprintf("get record %s", id), err)
	}
	if len(result.Item) == 0 {
		return nil, newError(KindNotFound, fmt.Sprintf("record %s not found", id), nil)
	}

	var rec Record
	if err := dynamodbattribute.UnmarshalMap(result.Item, &rec); err != nil {
		return nil, newError(KindRecordStore, fmt.Sprintf("unmarshal record %s", id), err)
	}
	return &rec, nil
}

// Delete removes a record. Deleting an id that does not exist succeeds.
func (s *RecordStore) Delete(ctx context.Context, id string) error {
	_, err := s.client.DeleteItemWithContext(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key:       idKey(id),
	})
	if err != nil {
		return newError(KindRecordStore, fmt.Sprintf("delete record %s", id), err)
	}
	return nil
}

func idKey(id string) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{
		"id": {
			S: aws.String(id),
		},
	}
}
