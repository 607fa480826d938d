package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"canvas-agent/internal/domain"
)

const (
	pkPrefixTemplate = "TEMPLATE#"
	maxScanPages     = 50
)

// dynamodbAPI is the minimal DynamoDB interface required by Client.
// Defined here for testability.
type dynamodbAPI interface {
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// TemplateLoader loads operator-managed templates.
type TemplateLoader interface {
	LoadTemplates(ctx context.Context) ([]domain.Template, error)
}

// Client reads templates from a DynamoDB table. Each template is one item:
//
//	PK          S  TEMPLATE#<name>
//	name        S
//	description S  (optional)
//	width       N
//	height      N
//	shapes      S  JSON array of shape descriptors
type Client struct {
	api       dynamodbAPI
	tableName string
}

// New creates a new repository Client.
func New(api dynamodbAPI, tableName string) (*Client, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("repository: table name must not be empty")
	}
	return &Client{api: api, tableName: tableName}, nil
}

// LoadTemplates scans every TEMPLATE# item in the table. It is meant to run
// once at cold start.
func (c *Client) LoadTemplates(ctx context.Context) ([]domain.Template, error) {
	var (
		out       []domain.Template
		startKey  map[string]types.AttributeValue
		pageCount int
	)
	for {
		page, err := c.api.Scan(ctx, &dynamodb.ScanInput{
			TableName:        aws.String(c.tableName),
			FilterExpression: aws.String("begins_with(PK, :prefix)"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":prefix": &types.AttributeValueMemberS{Value: pkPrefixTemplate},
			},
			ExclusiveStartKey: startKey,
			ConsistentRead:    aws.Bool(true),
		})
		if err != nil {
			return nil, fmt.Errorf("repository: LoadTemplates scan: %w", err)
		}
		for _, item := range page.Items {
			tpl, err := itemToTemplate(item)
			if err != nil {
				return nil, fmt.Errorf("repository: LoadTemplates unmarshal: %w", err)
			}
			out = append(out, tpl)
		}

		pageCount++
		if len(page.LastEvaluatedKey) == 0 {
			return out, nil
		}
		if pageCount >= maxScanPages {
			return nil, fmt.Errorf("repository: LoadTemplates: more than %d pages", maxScanPages)
		}
		startKey = page.LastEvaluatedKey
	}
}

// itemToTemplate converts a DynamoDB attribute map to a Template.
func itemToTemplate(item map[string]types.AttributeValue) (domain.Template, error) {
	name, err := strAttr(item, "name")
	if err != nil {
		return domain.Template{}, err
	}
	description, _ := strAttr(item, "description") // allow empty
	width, err := floatAttr(item, "width")
	if err != nil {
		return domain.Template{}, err
	}
	height, err := floatAttr(item, "height")
	if err != nil {
		return domain.Template{}, err
	}
	rawShapes, err := strAttr(item, "shapes")
	if err != nil {
		return domain.Template{}, err
	}
	var shapes []domain.Shape
	if err := json.Unmarshal([]byte(rawShapes), &shapes); err != nil {
		return domain.Template{}, fmt.Errorf("repository: template %q shapes: %w", name, err)
	}

	return domain.Template{
		Name:        name,
		Description: description,
		Width:       width,
		Height:      height,
		Shapes:      shapes,
	}, nil
}

func strAttr(item map[string]types.AttributeValue, key string) (string, error) {
	v, ok := item[key]
	if !ok {
		return "", fmt.Errorf("repository: missing attribute %q", key)
	}
	s, ok := v.(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("repository: attribute %q is not a string", key)
	}
	return s.Value, nil
}

func floatAttr(item map[string]types.AttributeValue, key string) (float64, error) {
	v, ok := item[key]
	if !ok {
		return 0, fmt.Errorf("repository: missing attribute %q", key)
	}
	n, ok := v.(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("repository: attribute %q is not a number", key)
	}
	parsed, err := strconv.ParseFloat(n.Value, 64)
	if err != nil {
		return 0, fmt.Errorf("repository: parse attribute %q: %w", key, err)
	}
	return parsed, nil
}
