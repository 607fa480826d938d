package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/require"

	"canvas-agent/internal/domain"
)

type fakeDynamo struct {
	pages   []*dynamodb.ScanOutput
	scanErr error
	inputs  []*dynamodb.ScanInput
}

func (f *fakeDynamo) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.inputs = append(f.inputs, in)
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	idx := len(f.inputs) - 1
	if idx >= len(f.pages) {
		return &dynamodb.ScanOutput{}, nil
	}
	return f.pages[idx], nil
}

func makeTemplateItem(name, width, height, shapes string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK":     &types.AttributeValueMemberS{Value: pkPrefixTemplate + name},
		"name":   &types.AttributeValueMemberS{Value: name},
		"width":  &types.AttributeValueMemberN{Value: width},
		"height": &types.AttributeValueMemberN{Value: height},
		"shapes": &types.AttributeValueMemberS{Value: shapes},
	}
}

func mustNewClient(t *testing.T, db *fakeDynamo) *Client {
	t.Helper()
	c, err := New(db, "test-table")
	require.NoError(t, err)
	return c
}

func TestNew_Validates(t *testing.T) {
	_, err := New(nil, "table")
	require.Error(t, err)
	require.Contains(t, err.Error(), "must not be nil")

	_, err = New(&fakeDynamo{}, " ")
	require.Error(t, err)
	require.Contains(t, err.Error(), "table name")
}

func TestLoadTemplates_HappyPath(t *testing.T) {
	item := makeTemplateItem("divider", "200", "2.5", `[{"shapeType":"line","x":0,"y":0,"width":200,"fill":"#999999","stroke":"#999999"}]`)
	item["description"] = &types.AttributeValueMemberS{Value: "Horizontal rule"}
	db := &fakeDynamo{pages: []*dynamodb.ScanOutput{{Items: []map[string]types.AttributeValue{item}}}}
	c := mustNewClient(t, db)

	got, err := c.LoadTemplates(context.Background())
	require.NoError(t, err)
	require.Equal(t, []domain.Template{{
		Name:        "divider",
		Description: "Horizontal rule",
		Width:       200,
		Height:      2.5,
		Shapes:      []domain.Shape{{ShapeType: "line", Width: 200, Fill: "#999999", Stroke: "#999999"}},
	}}, got)

	require.Len(t, db.inputs, 1)
	require.Equal(t, "test-table", *db.inputs[0].TableName)
	require.Equal(t, "begins_with(PK, :prefix)", *db.inputs[0].FilterExpression)
}

func TestLoadTemplates_FollowsPagination(t *testing.T) {
	lastKey := map[string]types.AttributeValue{"PK": &types.AttributeValueMemberS{Value: "TEMPLATE#a"}}
	db := &fakeDynamo{pages: []*dynamodb.ScanOutput{
		{Items: []map[string]types.AttributeValue{makeTemplateItem("a", "1", "1", `[]`)}, LastEvaluatedKey: lastKey},
		{Items: []map[string]types.AttributeValue{makeTemplateItem("b", "1", "1", `[]`)}},
	}}
	c := mustNewClient(t, db)

	got, err := c.LoadTemplates(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "b", got[1].Name)
	require.Len(t, db.inputs, 2)
	require.Nil(t, db.inputs[0].ExclusiveStartKey)
	require.Equal(t, lastKey, db.inputs[1].ExclusiveStartKey)
}

func TestLoadTemplates_StopsRunawayPagination(t *testing.T) {
	lastKey := map[string]types.AttributeValue{"PK": &types.AttributeValueMemberS{Value: "x"}}
	pages := make([]*dynamodb.ScanOutput, maxScanPages+5)
	for i := range pages {
		pages[i] = &dynamodb.ScanOutput{LastEvaluatedKey: lastKey}
	}
	c := mustNewClient(t, &fakeDynamo{pages: pages})

	_, err := c.LoadTemplates(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "more than")
}

func TestLoadTemplates_Errors(t *testing.T) {
	c := mustNewClient(t, &fakeDynamo{scanErr: errors.New("throttled")})
	_, err := c.LoadTemplates(context.Background())
	require.ErrorContains(t, err, "throttled")

	cases := []map[string]types.AttributeValue{
		makeTemplateItem("bad-shapes", "1", "1", `{not json`),
		makeTemplateItem("bad-width", "wide", "1", `[]`),
		{"name": &types.AttributeValueMemberN{Value: "1"}},
		{"name": &types.AttributeValueMemberS{Value: "no-size"}},
		{"name": &types.AttributeValueMemberS{Value: "s"}, "width": &types.AttributeValueMemberS{Value: "1"}},
	}
	for _, item := range cases {
		db := &fakeDynamo{pages: []*dynamodb.ScanOutput{{Items: []map[string]types.AttributeValue{item}}}}
		_, err := mustNewClient(t, db).LoadTemplates(context.Background())
		require.Error(t, err)
	}
}
