package aviato

import (
	"context"
	"encoding/json"
	"strings"

	stderrors "prospector/internal/common/errors"
	"prospector/internal/pacing"
)

// ContactInfo fetches contact info for a person by ID. Paced (contact surface)
// and retried; returns nil on any terminal failure so callers can proceed
// without the email.
func (c *Client) ContactInfo(ctx context.Context, personID string) *ContactInfo {
	if personID == "" {
		return nil
	}

	info, ok := pacing.Fetch(ctx, c.log, c.retryPolicy, "contact-info", func(ctx context.Context) (*ContactInfo, error) {
		if err := c.contactPacer.Wait(ctx); err != nil {
			return nil, err
		}
		body, err := c.get(ctx, "/person/"+personID+"/contact-info")
		if err != nil {
			return nil, err
		}
		if len(strings.TrimSpace(string(body))) == 0 {
			return nil, stderrors.NewMalformedResponseError("empty body")
		}
		var info ContactInfo
		if err := json.Unmarshal(body, &info); err != nil {
			return nil, stderrors.NewMalformedResponseError(err.Error())
		}
		return &info, nil
	})
	if !ok {
		return nil
	}
	return info
}
