package storage

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"quoteme/config"
	"quoteme/types"
)

// Config holds the settings needed to reach the DynamoDB tables.
type Config struct {
	Region             string
	Profile            string
	QuotesTable        string
	TagsTable          string
	SubscriptionsTable string
}

// Store wraps the three DynamoDB tables behind typed operations.
type Store struct {
	client    *dynamodb.Client
	quotesTbl string
	tagsTbl   string
	subsTbl   string
}

// New builds a Store using the default AWS credential chain.
func New(ctx context.Context, cfg Config) (*Store, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewWithClient(dynamodb.NewFromConfig(awsCfg), cfg), nil
}

// NewWithClient builds a Store around an existing DynamoDB client.
func NewWithClient(client *dynamodb.Client, cfg Config) *Store {
	return &Store{
		client:    client,
		quotesTbl: cfg.QuotesTable,
		tagsTbl:   cfg.TagsTable,
		subsTbl:   cfg.SubscriptionsTable,
	}
}

// ---- quotes ----

// GetQuote fetches a quote by id. Returns (nil, nil) when the id is absent or
// names a non-quote row.
func (s *Store) GetQuote(ctx context.Context, id string) (*types.Quote, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.quotesTbl),
		Key:       quoteKey(id),
	})
	if err != nil {
		return nil, fmt.Errorf("get quote %s: %w", id, err)
	}
	if out.Item == nil {
		return nil, nil
	}

	var q types.Quote
	if err := attributevalue.UnmarshalMap(out.Item, &q); err != nil {
		return nil, fmt.Errorf("decode quote %s: %w", id, err)
	}
	if !IsQuoteRecord(q) {
		return nil, nil
	}
	return &q, nil
}

// PutQuote writes a quote row, replacing any existing row with the same id.
func (s *Store) PutQuote(ctx context.Context, q *types.Quote) error {
	item, err := attributevalue.MarshalMap(q)
	if err != nil {
		return fmt.Errorf("encode quote %s: %w", q.ID, err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.quotesTbl),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put quote %s: %w", q.ID, err)
	}
	return nil
}

// DeleteQuote removes a quote row by id.
func (s *Store) DeleteQuote(ctx context.Context, id string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.quotesTbl),
		Key:       quoteKey(id),
	})
	if err != nil {
		return fmt.Errorf("delete quote %s: %w", id, err)
	}
	return nil
}

// SetQuoteImage updates only the image URL and updated_at stamp of a quote.
func (s *Store) SetQuoteImage(ctx context.Context, id, imageURL string) error {
	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(s.quotesTbl),
		Key:              quoteKey(id),
		UpdateExpression: aws.String("SET image_url = :url, updated_at = :now"),
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":url": &ddbtypes.AttributeValueMemberS{Value: imageURL},
			":now": &ddbtypes.AttributeValueMemberS{Value: nowStamp()},
		},
	})
	if err != nil {
		return fmt.Errorf("set image for quote %s: %w", id, err)
	}
	return nil
}

// QuoteScan walks the quotes table one DynamoDB page at a time. It returns
// raw rows including metadata records; callers filter with IsQuoteRecord when
// they want quotes only.
type QuoteScan struct {
	client   *dynamodb.Client
	table    string
	startKey map[string]ddbtypes.AttributeValue
	done     bool
}

// ScanQuotes opens a fresh paginated scan over the quotes table.
func (s *Store) ScanQuotes() *QuoteScan {
	return &QuoteScan{client: s.client, table: s.quotesTbl}
}

// Next fetches the next page. more is false once the table is exhausted; the
// scan cannot be restarted.
func (sc *QuoteScan) Next(ctx context.Context) ([]types.Quote, bool, error) {
	if sc.done {
		return nil, false, nil
	}

	out, err := sc.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:         aws.String(sc.table),
		ExclusiveStartKey: sc.startKey,
	})
	if err != nil {
		return nil, false, fmt.Errorf("scan %s: %w", sc.table, err)
	}

	var page []types.Quote
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
		return nil, false, fmt.Errorf("decode %s page: %w", sc.table, err)
	}

	sc.startKey = out.LastEvaluatedKey
	if len(sc.startKey) == 0 {
		sc.done = true
	}
	return page, !sc.done, nil
}

// AllQuotes drains a full table scan and returns only real quote rows.
func (s *Store) AllQuotes(ctx context.Context) ([]types.Quote, error) {
	scan := s.ScanQuotes()
	var quotes []types.Quote
	for {
		page, more, err := scan.Next(ctx)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, FilterQuotes(page)...)
		if !more {
			return quotes, nil
		}
	}
}

// ---- tags metadata ----

type tagsMetadataRecord struct {
	ID        string   `dynamodbav:"id"`
	Tags      []string `dynamodbav:"tags"`
	UpdatedAt string   `dynamodbav:"updated_at"`
}

// TagsMetadata returns the aggregated tag list from the metadata sentinel
// row. A missing row yields an empty list, not an error.
func (s *Store) TagsMetadata(ctx context.Context) ([]string, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.quotesTbl),
		Key:       quoteKey(config.TagsMetadataID),
	})
	if err != nil {
		return nil, fmt.Errorf("get tags metadata: %w", err)
	}
	if out.Item == nil {
		return nil, nil
	}

	var rec tagsMetadataRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("decode tags metadata: %w", err)
	}
	return rec.Tags, nil
}

// PutTagsMetadata replaces the aggregated tag list, stored sorted for stable
// reads.
func (s *Store) PutTagsMetadata(ctx context.Context, tags []string) error {
	sorted := append([]string(nil), tags...)
	sort.Strings(sorted)

	item, err := attributevalue.MarshalMap(tagsMetadataRecord{
		ID:        config.TagsMetadataID,
		Tags:      sorted,
		UpdatedAt: nowStamp(),
	})
	if err != nil {
		return fmt.Errorf("encode tags metadata: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.quotesTbl),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put tags metadata: %w", err)
	}
	return nil
}

// MergeTagsMetadata unions new tag names into the metadata row.
func (s *Store) MergeTagsMetadata(ctx context.Context, newTags []string) error {
	if len(newTags) == 0 {
		return nil
	}
	existing, err := s.TagsMetadata(ctx)
	if err != nil {
		return err
	}

	seen := make(map[string]bool, len(existing))
	merged := append([]string(nil), existing...)
	for _, t := range existing {
		seen[t] = true
	}
	for _, t := range newTags {
		if t != "" && !seen[t] {
			seen[t] = true
			merged = append(merged, t)
		}
	}
	return s.PutTagsMetadata(ctx, merged)
}

// ---- tags table ----

type tagRecord struct {
	Tag       string `dynamodbav:"tag"`
	CreatedAt string `dynamodbav:"created_at,omitempty"`
}

// ListTagNames scans the tags table and returns every tag name, sorted.
func (s *Store) ListTagNames(ctx context.Context) ([]string, error) {
	var names []string
	var startKey map[string]ddbtypes.AttributeValue
	for {
		out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(s.tagsTbl),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.tagsTbl, err)
		}

		var page []tagRecord
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("decode %s page: %w", s.tagsTbl, err)
		}
		for _, rec := range page {
			if rec.Tag != "" {
				names = append(names, rec.Tag)
			}
		}

		startKey = out.LastEvaluatedKey
		if len(startKey) == 0 {
			sort.Strings(names)
			return names, nil
		}
	}
}

// TagExists reports whether a tag row exists.
func (s *Store) TagExists(ctx context.Context, tag string) (bool, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tagsTbl),
		Key:       tagKey(tag),
	})
	if err != nil {
		return false, fmt.Errorf("get tag %s: %w", tag, err)
	}
	return out.Item != nil, nil
}

// PutTagRecord creates or refreshes a tag row.
func (s *Store) PutTagRecord(ctx context.Context, tag string) error {
	item, err := attributevalue.MarshalMap(tagRecord{Tag: tag, CreatedAt: nowStamp()})
	if err != nil {
		return fmt.Errorf("encode tag %s: %w", tag, err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tagsTbl),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put tag %s: %w", tag, err)
	}
	return nil
}

// DeleteTagRecord removes a tag row.
func (s *Store) DeleteTagRecord(ctx context.Context, tag string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tagsTbl),
		Key:       tagKey(tag),
	})
	if err != nil {
		return fmt.Errorf("delete tag %s: %w", tag, err)
	}
	return nil
}

// ---- subscriptions ----

// GetSubscription fetches a subscription by email. Returns (nil, nil) when
// absent.
func (s *Store) GetSubscription(ctx context.Context, email string) (*types.Subscription, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.subsTbl),
		Key:       subscriptionKey(email),
	})
	if err != nil {
		return nil, fmt.Errorf("get subscription %s: %w", email, err)
	}
	if out.Item == nil {
		return nil, nil
	}

	var sub types.Subscription
	if err := attributevalue.UnmarshalMap(out.Item, &sub); err != nil {
		return nil, fmt.Errorf("decode subscription %s: %w", email, err)
	}
	return &sub, nil
}

// PutSubscription writes a subscription row keyed by email.
func (s *Store) PutSubscription(ctx context.Context, sub *types.Subscription) error {
	item, err := attributevalue.MarshalMap(sub)
	if err != nil {
		return fmt.Errorf("encode subscription %s: %w", sub.Email, err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.subsTbl),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put subscription %s: %w", sub.Email, err)
	}
	return nil
}

// DeleteSubscription removes a subscription row by email.
func (s *Store) DeleteSubscription(ctx context.Context, email string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.subsTbl),
		Key:       subscriptionKey(email),
	})
	if err != nil {
		return fmt.Errorf("delete subscription %s: %w", email, err)
	}
	return nil
}

// AllSubscriptions drains a full scan of the subscriptions table.
func (s *Store) AllSubscriptions(ctx context.Context) ([]types.Subscription, error) {
	var subs []types.Subscription
	var startKey map[string]ddbtypes.AttributeValue
	for {
		out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(s.subsTbl),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.subsTbl, err)
		}

		var page []types.Subscription
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("decode %s page: %w", s.subsTbl, err)
		}
		subs = append(subs, page...)

		startKey = out.LastEvaluatedKey
		if len(startKey) == 0 {
			return subs, nil
		}
	}
}

// ---- helpers ----

func quoteKey(id string) map[string]ddbtypes.AttributeValue {
	return map[string]ddbtypes.AttributeValue{
		"id": &ddbtypes.AttributeValueMemberS{Value: id},
	}
}

func tagKey(tag string) map[string]ddbtypes.AttributeValue {
	return map[string]ddbtypes.AttributeValue{
		"tag": &ddbtypes.AttributeValueMemberS{Value: tag},
	}
}

func subscriptionKey(email string) map[string]ddbtypes.AttributeValue {
	return map[string]ddbtypes.AttributeValue{
		"email": &ddbtypes.AttributeValueMemberS{Value: email},
	}
}

func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
