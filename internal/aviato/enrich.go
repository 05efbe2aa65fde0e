package aviato

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	stderrors "prospector/internal/common/errors"
	"prospector/internal/pacing"
)

// LinkedinIDFromURL reduces a LinkedIn company URL to its trailing
// /company/<id> segment.
func LinkedinIDFromURL(linkedinURL string) string {
	id := linkedinURL
	if idx := strings.LastIndex(linkedinURL, "/company/"); idx >= 0 {
		id = linkedinURL[idx+len("/company/"):]
	}
	return strings.TrimRight(id, "/")
}

// enrichWire mirrors the raw enrich response, whose location fields are
// nested under locationDetails.
type enrichWire struct {
	CompanyProfile
	LocationDetails struct {
		Country struct {
			Name string `json:"name"`
		} `json:"country"`
		Region struct {
			Name string `json:"name"`
		} `json:"region"`
		Locality struct {
			Name string `json:"name"`
		} `json:"locality"`
	} `json:"locationDetails"`
}

// EnrichCompany looks a company up by website or LinkedIn company URL and
// returns the parsed descriptive attribute set. Exactly one of the two
// arguments should be non-empty; website wins when both are given.
func (c *Client) EnrichCompany(ctx context.Context, website, linkedinURL string) (*CompanyProfile, error) {
	var path string
	switch {
	case website != "":
		path = "/company/enrich?website=" + url.QueryEscape(website)
	case linkedinURL != "":
		path = "/company/enrich?linkedinID=" + url.QueryEscape(LinkedinIDFromURL(linkedinURL))
	default:
		return nil, stderrors.NewMalformedResponseError("no website or linkedin URL given")
	}

	body, err := c.get(ctx, path)
	if err != nil {
		c.log.Error("company enrich failed", map[string]interface{}{
			"website": website,
			"error":   err.Error(),
		})
		return nil, err
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		c.log.Warn("empty company enrich response", map[string]interface{}{"website": website})
		return nil, stderrors.NewMalformedResponseError("empty body")
	}

	var wire enrichWire
	if err := json.Unmarshal(body, &wire); err != nil {
		c.log.Error("company enrich returned undecodable body", map[string]interface{}{
			"error":   err.Error(),
			"snippet": snippet(body),
		})
		return nil, stderrors.NewMalformedResponseError(err.Error())
	}

	profile := wire.CompanyProfile
	profile.Country = wire.LocationDetails.Country.Name
	profile.Region = wire.LocationDetails.Region.Name
	profile.Locality = wire.LocationDetails.Locality.Name
	return &profile, nil
}

// Acquisitions fetches a company's acquisitions. Single-shot: the complete
// enrichment path does not apply backoff.
func (c *Client) Acquisitions(ctx context.Context, companyID string) ([]Acquisition, error) {
	body, err := c.get(ctx, "/company/"+companyID+"/acquisitions?perPage=100&page=1")
	if err != nil {
		return nil, err
	}
	var result struct {
		Acquisitions []Acquisition `json:"acquisitions"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, stderrors.NewMalformedResponseError(err.Error())
	}
	return result.Acquisitions, nil
}

// Investors fetches a company's investors, single-shot like Acquisitions.
func (c *Client) Investors(ctx context.Context, companyID string) ([]Investor, error) {
	body, err := c.get(ctx, "/company/"+companyID+"/investments?perPage=100&page=1")
	if err != nil {
		return nil, err
	}
	var result struct {
		Investments []Investor `json:"investments"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, stderrors.NewMalformedResponseError(err.Error())
	}
	return result.Investments, nil
}

// CompleteEnrichment is the single-shot enrichment command path: enrich plus
// acquisitions, founders and investors. Sub-resource failures leave the
// corresponding list empty rather than failing the whole lookup.
func (c *Client) CompleteEnrichment(ctx context.Context, website, linkedinURL string) (*CompanyProfile, error) {
	profile, err := c.EnrichCompany(ctx, website, linkedinURL)
	if err != nil {
		return nil, err
	}

	if acqs, err := c.Acquisitions(ctx, profile.ID); err == nil {
		profile.Acquisitions = acqs
	} else {
		c.log.Warn("acquisitions fetch failed", map[string]interface{}{
			"companyID": profile.ID,
			"error":     err.Error(),
		})
	}

	profile.Founders = c.Founders(ctx, profile.ID)

	if investors, err := c.Investors(ctx, profile.ID); err == nil {
		profile.Investors = investors
	} else {
		c.log.Warn("investors fetch failed", map[string]interface{}{
			"companyID": profile.ID,
			"error":     err.Error(),
		})
	}

	return profile, nil
}

// fetchPeople is the shared paced + retried company sub-resource fetch.
func (c *Client) fetchPeople(ctx context.Context, companyID, resource string) []Person {
	people, _ := pacing.Fetch(ctx, c.log, c.retryPolicy, resource, func(ctx context.Context) ([]Person, error) {
		if err := c.companyPacer.Wait(ctx); err != nil {
			return nil, err
		}
		body, err := c.get(ctx, "/company/"+companyID+"/"+resource+"?perPage=100&page=1")
		if err != nil {
			return nil, err
		}
		var result map[string]json.RawMessage
		if err := json.Unmarshal(body, &result); err != nil {
			return nil, stderrors.NewMalformedResponseError(err.Error())
		}
		var people []Person
		if raw, ok := result[resource]; ok {
			if err := json.Unmarshal(raw, &people); err != nil {
				return nil, stderrors.NewMalformedResponseError(err.Error())
			}
		}
		return people, nil
	})
	return people
}

// Founders fetches a company's founders. Paced and retried; exhausted retries
// degrade to an empty list so enrichment can proceed with partial data.
func (c *Client) Founders(ctx context.Context, companyID string) []Person {
	return c.fetchPeople(ctx, companyID, "founders")
}

// Employees fetches a company's employees with the same discipline as Founders.
func (c *Client) Employees(ctx context.Context, companyID string) []Person {
	return c.fetchPeople(ctx, companyID, "employees")
}
