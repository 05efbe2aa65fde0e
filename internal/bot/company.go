package bot

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

var urlLinkRe = regexp.MustCompile(`^<(https?://[^|>]+)(?:\|[^>]*)?>$`)

// normalizeURL unwraps chat autolinks (<https://x.com|x.com>) and prefixes a
// scheme when the user typed a bare domain.
func normalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if m := urlLinkRe.FindStringSubmatch(raw); m != nil {
		raw = m[1]
	}
	raw = strings.Trim(raw, "<>")
	if raw == "" {
		return ""
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	return raw
}

func (b *Bot) handleCompany(ctx context.Context, arg, channel, thread string) {
	target := normalizeURL(arg)
	if target == "" {
		b.post(ctx, channel, thread, "Please provide a URL: `company <URL>`")
		return
	}

	b.post(ctx, channel, thread, fmt.Sprintf("Looking up %s…", target))

	var website, linkedinURL string
	if strings.Contains(target, "linkedin.com/company") {
		linkedinURL = target
	} else {
		website = target
	}

	profile, err := b.enricher.CompleteEnrichment(ctx, website, linkedinURL)
	if err != nil {
		b.log.Error("company enrichment failed", map[string]interface{}{
			"target": target,
			"error":  err.Error(),
		})
		b.post(ctx, channel, thread, fmt.Sprintf("Could not enrich %s, the data provider returned an error.", target))
		return
	}
	if profile == nil {
		b.post(ctx, channel, thread, fmt.Sprintf("No company data found for %s.", target))
		return
	}

	fallback := fmt.Sprintf("Company details for %s", target)
	if err := b.transport.PostBlocks(ctx, channel, thread, CompanyBlocks(profile), fallback); err != nil {
		b.log.Error("company blocks post failed", map[string]interface{}{"error": err.Error()})
	}
}
