package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopsight/shopsight/apimodels"
)

func TestValidateQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{
			name:  "valid query",
			query: "FROM sales\nSHOW product_title, SUM(net_sales) AS revenue\nGROUP BY product_title",
			want:  nil,
		},
		{
			name:  "empty query short-circuits",
			query: "   ",
			want:  []string{"Query is empty"},
		},
		{
			name:  "missing SHOW",
			query: "FROM sales\nGROUP BY product_title",
			want:  []string{"Missing SHOW clause"},
		},
		{
			name:  "unknown table",
			query: "FROM warehouse\nSHOW sku",
			want:  []string{"Invalid or missing table name"},
		},
		{
			name:  "unbalanced parentheses",
			query: "FROM sales\nSHOW SUM(net_sales",
			want:  []string{"Unmatched parentheses"},
		},
		{
			name:  "all violations reported together",
			query: "SELECT * WHERE x(",
			want: []string{
				"Missing FROM clause",
				"Invalid or missing table name",
				"Missing SHOW clause",
				"Unmatched parentheses",
			},
		},
		{
			name:  "case insensitive keywords",
			query: "from orders\nshow order_id",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateQuery(tt.query))
		})
	}
}

func TestTemplateLibraryAllValid(t *testing.T) {
	templates := TemplateLibrary()
	require.NotEmpty(t, templates)

	for _, query := range templates {
		assert.Empty(t, ValidateQuery(query), "template failed validation:\n%s", query)
	}
}

func TestGenerateRoutesDetailGoalsToGraphQL(t *testing.T) {
	provider := &scriptedProvider{}
	g := NewQueryGenerator(provider)

	for _, goal := range []string{"customer_details", "order_details", "product_details"} {
		query, err := g.Generate(context.Background(), apimodels.Intent{PrimaryGoal: goal})
		require.NoError(t, err)

		assert.Equal(t, QueryTypeGraphQL, query.Type)
		assert.True(t, query.Valid)
		assert.Empty(t, query.Query)
	}
	// no completions requested for detail goals
	assert.Empty(t, provider.prompts)
}

func TestGenerateValidFirstTry(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		"FROM sales\nSHOW product_title, SUM(net_sales) AS revenue\nGROUP BY product_title",
	}}
	g := NewQueryGenerator(provider)

	query, err := g.Generate(context.Background(), apimodels.Intent{PrimaryGoal: "sales_analysis"})
	require.NoError(t, err)

	assert.Equal(t, QueryTypeShopifyQL, query.Type)
	assert.True(t, query.Valid)
	assert.Empty(t, query.ValidationErrors)
	assert.Len(t, provider.prompts, 1)
}

func TestGenerateRepairsInvalidQueryOnce(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		"FROM sales\nGROUP BY product_title",
		"FROM sales\nSHOW product_title\nGROUP BY product_title",
	}}
	g := NewQueryGenerator(provider)

	query, err := g.Generate(context.Background(), apimodels.Intent{PrimaryGoal: "sales_analysis"})
	require.NoError(t, err)

	assert.True(t, query.Valid)
	assert.Contains(t, query.Query, "SHOW product_title")
	require.Len(t, provider.prompts, 2)
	assert.Contains(t, provider.prompts[1], "Fix this ShopifyQL query")
	assert.Contains(t, provider.prompts[1], "Missing SHOW clause")
}

func TestGenerateReturnsQueryEvenWhenRepairFails(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		"FROM sales",
		"FROM warehouse",
	}}
	g := NewQueryGenerator(provider)

	query, err := g.Generate(context.Background(), apimodels.Intent{PrimaryGoal: "sales_analysis"})
	require.NoError(t, err)

	assert.False(t, query.Valid)
	assert.NotEmpty(t, query.ValidationErrors)
	assert.Equal(t, "FROM warehouse", query.Query)
	// exactly one repair attempt
	assert.Len(t, provider.prompts, 2)
}

func TestGenerateStripsCodeFences(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		"```sql\nFROM sales\nSHOW product_title\n```",
	}}
	g := NewQueryGenerator(provider)

	query, err := g.Generate(context.Background(), apimodels.Intent{PrimaryGoal: "sales_analysis"})
	require.NoError(t, err)

	assert.True(t, query.Valid)
	assert.Equal(t, "FROM sales\nSHOW product_title", query.Query)
}

func TestGenerateDescriptions(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		"FROM sales\nSHOW product_title",
		"FROM sales\nSHOW product_title",
	}}
	g := NewQueryGenerator(provider)

	query, err := g.Generate(context.Background(), apimodels.Intent{PrimaryGoal: "inventory_forecast"})
	require.NoError(t, err)
	assert.Equal(t, queryDescriptions["inventory_forecast"], query.Description)

	query, err = g.Generate(context.Background(), apimodels.Intent{PrimaryGoal: "something_new"})
	require.NoError(t, err)
	assert.Equal(t, "Analyzing store data", query.Description)
}
