package aviato

import (
	"context"
	"encoding/json"

	stderrors "prospector/internal/common/errors"
	"prospector/internal/common/metrics"
)

// SearchCompanies runs a filtered full-text company search. A non-200 response
// is logged with a body snippet and surfaces as a nil result; callers treat
// nil and an empty item list as equivalent empty outcomes.
func (c *Client) SearchCompanies(ctx context.Context, dsl SearchDSL) (*SearchResult, error) {
	payload := map[string]interface{}{"dsl": dsl}

	body, err := c.post(ctx, "/company/search", payload)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues("error").Inc()
		c.log.Error("company search failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	var result SearchResult
	if err := json.Unmarshal(body, &result); err != nil {
		metrics.SearchesTotal.WithLabelValues("error").Inc()
		c.log.Error("company search returned undecodable body", map[string]interface{}{
			"error":   err.Error(),
			"snippet": snippet(body),
		})
		return nil, stderrors.NewMalformedResponseError(err.Error())
	}

	metrics.SearchesTotal.WithLabelValues("ok").Inc()
	c.log.Info("company search completed", map[string]interface{}{
		"items": len(result.Items),
		"count": result.Count,
	})
	if len(result.Items) == 0 {
		c.log.Warn("company search matched no companies", nil)
	}
	return &result, nil
}

// SearchProfiles runs a person search by id, full name, or profile link fields.
func (c *Client) SearchProfiles(ctx context.Context, dsl SearchDSL) (*ProfileSearchResult, error) {
	payload := map[string]interface{}{"dsl": dsl}

	body, err := c.post(ctx, "/person/search", payload)
	if err != nil {
		c.log.Error("profile search failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	var result ProfileSearchResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, stderrors.NewMalformedResponseError(err.Error())
	}
	return &result, nil
}
