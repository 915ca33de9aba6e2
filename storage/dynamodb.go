package storage

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DDBClient is the subset of *dynamodb.Client the DynamoDBAdapter depends
// on. Narrowing the dependency to an interface keeps the adapter testable
// against a fake without pulling in the full SDK client surface.
type DDBClient interface {
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// DynamoDBAdapter implements Adapter against a single DynamoDB table keyed
// by a partition key named "key". Hash fields live in a map attribute
// "hash"; set members live in a string-set attribute "members"; both are
// mutated with UpdateItem's ADD action so concurrent writers never clobber
// each other.
type DynamoDBAdapter struct {
	client   DDBClient
	table    string
	hashAttr string
	setAttr  string
	ttlAttr  string
}

// NewDynamoDBAdapter constructs a DynamoDBAdapter over table. The table must
// have a single string partition key named "key" and a native TTL attribute
// (commonly "expires_at" or "ttl", configured in DynamoDB itself, not by
// this adapter).
func NewDynamoDBAdapter(client DDBClient, table, ttlAttr string) *DynamoDBAdapter {
	if ttlAttr == "" {
		ttlAttr = "expires_at"
	}
	return &DynamoDBAdapter{
		client:   client,
		table:    table,
		hashAttr: "hash",
		setAttr:  "members",
		ttlAttr:  ttlAttr,
	}
}

func (a *DynamoDBAdapter) HIncrBy(ctx context.Context, key, field string, delta int64) (int64, error) {
	upd := expression.Add(
		expression.Name(fmt.Sprintf("%s.%s", a.hashAttr, field)),
		expression.Value(delta),
	)
	expr, err := expression.NewBuilder().WithUpdate(upd).Build()
	if err != nil {
		return 0, err
	}

	out, err := a.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(a.table),
		Key:                       map[string]types.AttributeValue{"key": &types.AttributeValueMemberS{Value: key}},
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, err
	}

	hashAttr, ok := out.Attributes[a.hashAttr]
	if !ok {
		return delta, nil
	}
	m, ok := hashAttr.(*types.AttributeValueMemberM)
	if !ok {
		return delta, nil
	}
	fieldAttr, ok := m.Value[field]
	if !ok {
		return delta, nil
	}
	n, ok := fieldAttr.(*types.AttributeValueMemberN)
	if !ok {
		return delta, nil
	}
	v, err := strconv.ParseInt(n.Value, 10, 64)
	if err != nil {
		return 0, err
	}
	return v, nil
}

func (a *DynamoDBAdapter) HGetAll(ctx context.Context, key string) ([]HashField, error) {
	out, err := a.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(a.table),
		Key:       map[string]types.AttributeValue{"key": &types.AttributeValueMemberS{Value: key}},
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return []HashField{}, nil
	}
	hashAttr, ok := out.Item[a.hashAttr]
	if !ok {
		return []HashField{}, nil
	}
	m, ok := hashAttr.(*types.AttributeValueMemberM)
	if !ok {
		return []HashField{}, nil
	}
	result := make([]HashField, 0, len(m.Value))
	for field, attr := range m.Value {
		n, ok := attr.(*types.AttributeValueMemberN)
		if !ok {
			continue
		}
		v, err := strconv.ParseInt(n.Value, 10, 64)
		if err != nil {
			return nil, err
		}
		result = append(result, HashField{Field: field, Value: v})
	}
	return result, nil
}

// SAdd's returned count is read-then-write, not atomic with the UpdateItem
// below: under concurrent writers to the same key, two calls can both read
// the same "before" snapshot and both report a member as newly added, or
// one can report 0-added for a member the other is concurrently inserting.
// This only affects the reported count, not the stored set (ADD is
// idempotent per member), and timewindow.Set.Insert's TTL refresh on a
// miscounted "0 added" is harmless: a later Insert for the same key will
// refresh the TTL anyway as long as further activity occurs before expiry.
func (a *DynamoDBAdapter) SAdd(ctx context.Context, key string, members ...string) (int, error) {
	if len(members) == 0 {
		return 0, nil
	}

	before, err := a.currentMembers(ctx, key)
	if err != nil {
		return 0, err
	}

	upd := expression.Add(expression.Name(a.setAttr), expression.Value(&types.AttributeValueMemberSS{Value: members}))
	expr, err := expression.NewBuilder().WithUpdate(upd).Build()
	if err != nil {
		return 0, err
	}

	_, err = a.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(a.table),
		Key:                       map[string]types.AttributeValue{"key": &types.AttributeValueMemberS{Value: key}},
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return 0, err
	}

	added := 0
	for _, member := range members {
		if _, exists := before[member]; !exists {
			added++
		}
	}
	return added, nil
}

func (a *DynamoDBAdapter) currentMembers(ctx context.Context, key string) (map[string]struct{}, error) {
	members, err := a.SMembers(ctx, key)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(members))
	for _, m := range members {
		set[m] = struct{}{}
	}
	return set, nil
}

func (a *DynamoDBAdapter) SMembers(ctx context.Context, key string) ([]string, error) {
	out, err := a.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(a.table),
		Key:       map[string]types.AttributeValue{"key": &types.AttributeValueMemberS{Value: key}},
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return []string{}, nil
	}
	setAttr, ok := out.Item[a.setAttr]
	if !ok {
		return []string{}, nil
	}
	ss, ok := setAttr.(*types.AttributeValueMemberSS)
	if !ok {
		return []string{}, nil
	}
	return ss.Value, nil
}

func (a *DynamoDBAdapter) ExpireAt(ctx context.Context, key string, epochSeconds int64) error {
	upd := expression.Set(expression.Name(a.ttlAttr), expression.Value(epochSeconds))
	expr, err := expression.NewBuilder().WithUpdate(upd).Build()
	if err != nil {
		return err
	}

	_, err = a.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(a.table),
		Key:                       map[string]types.AttributeValue{"key": &types.AttributeValueMemberS{Value: key}},
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	return err
}
