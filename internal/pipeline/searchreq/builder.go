// Package searchreq converts a normalized filter set into the search DSL
// payload for the company search endpoint.
package searchreq

import (
	"fmt"
	"regexp"

	"prospector/internal/aviato"
	"prospector/internal/common/logger"
	"prospector/internal/pipeline/filters"
)

var yearRe = regexp.MustCompile(`^\d{4}$`)

type Builder struct {
	limit int
	log   logger.Logger
}

func NewBuilder(searchLimit int, log logger.Logger) *Builder {
	if searchLimit <= 0 {
		searchLimit = 10000
	}
	return &Builder{
		limit: searchLimit,
		log:   log.WithFields(map[string]interface{}{"component": "search-builder"}),
	}
}

// BuildDSL assembles the search payload: offset 0, a large fixed page limit,
// sort by total funding descending, and an AND-combined predicate list. When
// no predicate applies the filters clause is omitted entirely; the server
// reads absence as unfiltered, not reject-all.
func (b *Builder) BuildDSL(f filters.FilterSet) aviato.SearchDSL {
	dsl := aviato.SearchDSL{
		Offset: 0,
		Limit:  b.limit,
		Sort:   []map[string]string{{"totalFunding": "desc"}},
	}

	if f.NameQuery != "" {
		dsl.NameQuery = f.NameQuery
	}

	var conditions []map[string]interface{}
	add := func(field, operation string, value interface{}) {
		conditions = append(conditions, aviato.Predicate(field, operation, value))
		b.log.Debug("added search predicate", map[string]interface{}{
			"field":     field,
			"operation": operation,
			"value":     value,
		})
	}

	if f.Country != "" {
		add("country", "eq", f.Country)
	}
	if len(f.Region) > 1 {
		add("region", "in", f.Region)
	} else if len(f.Region) == 1 {
		add("region", "eq", f.Region[0])
	}
	if len(f.Locality) > 1 {
		add("locality", "in", f.Locality)
	} else if len(f.Locality) == 1 {
		add("locality", "eq", f.Locality[0])
	}
	if len(f.IndustryList) > 0 {
		add("industryList", "in", f.IndustryList)
	}
	if f.Website != "" {
		add("website", "eq", f.Website)
	}
	if f.Linkedin != "" {
		add("linkedin", "eq", f.Linkedin)
	}
	if f.Twitter != "" {
		add("twitter", "eq", f.Twitter)
	}
	if f.TotalFunding != nil {
		op := f.TotalFunding.Operation
		if op == "" {
			op = "lte"
		}
		add("totalFunding", op, f.TotalFunding.Value)
	}
	if f.Founded != nil {
		add("founded", "gte", foundedBoundary(f.Founded))
	}

	if len(conditions) > 0 {
		dsl.Filters = aviato.And(conditions)
	} else {
		b.log.Warn("no filter conditions built from filter set", nil)
	}

	return dsl
}

// foundedBoundary converts a year into the last instant of that year for the
// gte comparison, so "founded: 2020" matches companies founded in 2020 or later.
func foundedBoundary(founded interface{}) interface{} {
	switch v := founded.(type) {
	case int64:
		return fmt.Sprintf("%d-12-31T23:59:59Z", v)
	case int:
		return fmt.Sprintf("%d-12-31T23:59:59Z", v)
	case string:
		if yearRe.MatchString(v) {
			return v + "-12-31T23:59:59Z"
		}
		return v
	default:
		return v
	}
}
