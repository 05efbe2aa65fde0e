package searchreq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prospector/internal/common/logger"
	"prospector/internal/pipeline/filters"
)

func newTestBuilder(t *testing.T) *Builder {
	return NewBuilder(10000, logger.NewTestLogger(t))
}

func TestBuildDSL_Envelope(t *testing.T) {
	b := newTestBuilder(t)

	dsl := b.BuildDSL(filters.FilterSet{Country: "United States"})

	assert.Equal(t, 0, dsl.Offset)
	assert.Equal(t, 10000, dsl.Limit)
	assert.Equal(t, []map[string]string{{"totalFunding": "desc"}}, dsl.Sort)
}

func TestBuildDSL_EmptyFilterSetOmitsFilters(t *testing.T) {
	b := newTestBuilder(t)

	dsl := b.BuildDSL(filters.FilterSet{})

	assert.Nil(t, dsl.Filters)
	assert.Empty(t, dsl.NameQuery)
}

func TestBuildDSL_NameQueryOnly(t *testing.T) {
	b := newTestBuilder(t)

	dsl := b.BuildDSL(filters.FilterSet{NameQuery: "orchard"})

	assert.Equal(t, "orchard", dsl.NameQuery)
	assert.Nil(t, dsl.Filters)
}

func andConditions(t *testing.T, dslFilters []map[string]interface{}) []map[string]interface{} {
	t.Helper()
	require.Len(t, dslFilters, 1)
	group, ok := dslFilters[0]["AND"].([]map[string]interface{})
	require.True(t, ok, "expected top-level AND group")
	return group
}

func findPredicate(conds []map[string]interface{}, field string) (map[string]interface{}, bool) {
	for _, cond := range conds {
		if inner, ok := cond[field]; ok {
			return inner.(map[string]interface{}), true
		}
	}
	return nil, false
}

func TestBuildDSL_Predicates(t *testing.T) {
	b := newTestBuilder(t)

	dsl := b.BuildDSL(filters.FilterSet{
		Country:      "Germany",
		Region:       []string{"Bavaria"},
		Locality:     []string{"Munich", "Berlin"},
		IndustryList: []string{"AI", "Software"},
		Website:      "https://example.com",
		TotalFunding: &filters.FundingFilter{Value: int64(5000000), Operation: "gte"},
	})

	conds := andConditions(t, dsl.Filters)
	assert.Len(t, conds, 6)

	country, ok := findPredicate(conds, "country")
	require.True(t, ok)
	assert.Equal(t, "eq", country["operation"])
	assert.Equal(t, "Germany", country["value"])

	// Single-element slice compares with eq.
	region, ok := findPredicate(conds, "region")
	require.True(t, ok)
	assert.Equal(t, "eq", region["operation"])
	assert.Equal(t, "Bavaria", region["value"])

	// Multi-element slice compares with in.
	locality, ok := findPredicate(conds, "locality")
	require.True(t, ok)
	assert.Equal(t, "in", locality["operation"])
	assert.Equal(t, []string{"Munich", "Berlin"}, locality["value"])

	industry, ok := findPredicate(conds, "industryList")
	require.True(t, ok)
	assert.Equal(t, "in", industry["operation"])

	funding, ok := findPredicate(conds, "totalFunding")
	require.True(t, ok)
	assert.Equal(t, "gte", funding["operation"])
	assert.Equal(t, int64(5000000), funding["value"])
}

func TestBuildDSL_FundingDefaultsToLTE(t *testing.T) {
	b := newTestBuilder(t)

	dsl := b.BuildDSL(filters.FilterSet{
		TotalFunding: &filters.FundingFilter{Value: int64(1000000)},
	})

	conds := andConditions(t, dsl.Filters)
	funding, ok := findPredicate(conds, "totalFunding")
	require.True(t, ok)
	assert.Equal(t, "lte", funding["operation"])
}

func TestBuildDSL_FoundedBoundary(t *testing.T) {
	tests := []struct {
		name    string
		founded interface{}
		want    interface{}
	}{
		{"int64 year", int64(2020), "2020-12-31T23:59:59Z"},
		{"int year", 2015, "2015-12-31T23:59:59Z"},
		{"four digit string", "1999", "1999-12-31T23:59:59Z"},
		{"non-year string passes through", "N/A", "N/A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsl := newTestBuilder(t).BuildDSL(filters.FilterSet{Founded: tt.founded})

			conds := andConditions(t, dsl.Filters)
			founded, ok := findPredicate(conds, "founded")
			require.True(t, ok)
			assert.Equal(t, "gte", founded["operation"])
			assert.Equal(t, tt.want, founded["value"])
		})
	}
}

func TestNewBuilder_LimitFallback(t *testing.T) {
	b := NewBuilder(0, logger.NewTestLogger(t))

	dsl := b.BuildDSL(filters.FilterSet{})
	assert.Equal(t, 10000, dsl.Limit)
}
