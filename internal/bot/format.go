package bot

import (
	"fmt"
	"strings"

	"prospector/internal/aviato"
)

const descriptionLimit = 500

func sectionBlock(text string) Block {
	return Block{
		"type": "section",
		"text": map[string]interface{}{"type": "mrkdwn", "text": text},
	}
}

func dividerBlock() Block {
	return Block{"type": "divider"}
}

// fundingShorthand renders an amount as $1.2B / $45.0M / $750K, dropping to
// plain dollars below a thousand.
func fundingShorthand(amount float64) string {
	switch {
	case amount >= 1e9:
		return fmt.Sprintf("$%.1fB", amount/1e9)
	case amount >= 1e6:
		return fmt.Sprintf("$%.1fM", amount/1e6)
	case amount >= 1e3:
		return fmt.Sprintf("$%.0fK", amount/1e3)
	default:
		return fmt.Sprintf("$%.0f", amount)
	}
}

func joinLocation(locality, region, country string) string {
	var parts []string
	for _, p := range []string{locality, region, country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// CompanyBlocks renders a full enrichment profile as rich message blocks.
func CompanyBlocks(p *aviato.CompanyProfile) []Block {
	name := p.Name
	if name == "" {
		name = p.LegalName
	}
	if name == "" {
		name = "Unknown company"
	}

	blocks := []Block{{
		"type": "header",
		"text": map[string]interface{}{"type": "plain_text", "text": name},
	}}

	var lines []string
	if loc := joinLocation(p.Locality, p.Region, p.Country); loc != "" {
		lines = append(lines, "*Location:* "+loc)
	}
	if p.Founded != "" {
		lines = append(lines, "*Founded:* "+p.Founded)
	}
	if len(p.IndustryList) > 0 {
		lines = append(lines, "*Industries:* "+strings.Join(p.IndustryList, ", "))
	}
	if p.TotalFunding > 0 {
		funding := "*Total Funding:* " + fundingShorthand(p.TotalFunding)
		if p.FundingRoundCount > 0 {
			funding += fmt.Sprintf(" across %d rounds", p.FundingRoundCount)
		}
		lines = append(lines, funding)
	}
	if p.Website != "" {
		lines = append(lines, "*Website:* "+p.Website)
	}
	if flags := statusFlags(p); flags != "" {
		lines = append(lines, "*Status:* "+flags)
	}
	if len(lines) > 0 {
		blocks = append(blocks, sectionBlock(strings.Join(lines, "\n")))
	}

	if len(p.Founders) > 0 {
		var names []string
		for _, f := range p.Founders {
			if n := f.ResolveFullName(); n != "" {
				names = append(names, n)
			}
		}
		if len(names) > 0 {
			blocks = append(blocks, sectionBlock("*Founders:* "+strings.Join(names, ", ")))
		}
	}

	if len(p.ProductList) > 0 {
		var products []string
		for _, prod := range p.ProductList {
			entry := prod.ProductName
			if prod.Tagline != "" {
				entry += " — " + prod.Tagline
			}
			if entry != "" {
				products = append(products, "• "+entry)
			}
		}
		if len(products) > 0 {
			blocks = append(blocks, sectionBlock("*Products:*\n"+strings.Join(products, "\n")))
		}
	}

	if len(p.Investors) > 0 {
		var names []string
		for _, inv := range p.Investors {
			if inv.Name != "" {
				names = append(names, inv.Name)
			}
		}
		if len(names) > 0 {
			blocks = append(blocks, sectionBlock("*Investors:* "+strings.Join(names, ", ")))
		}
	}

	if p.Description != "" {
		blocks = append(blocks, dividerBlock(), sectionBlock(truncateDescription(p.Description, descriptionLimit)))
	}

	return blocks
}

// truncateDescription cuts at the last word boundary within limit runes, so a
// multi-byte character is never split mid-sequence.
func truncateDescription(desc string, limit int) string {
	runes := []rune(desc)
	if len(runes) <= limit {
		return desc
	}
	cut := string(runes[:limit])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + "…"
}

func statusFlags(p *aviato.CompanyProfile) string {
	var flags []string
	if p.IsAcquired {
		flags = append(flags, "Acquired")
	}
	if p.IsExited {
		flags = append(flags, "Exited")
	}
	if p.IsShutDown {
		flags = append(flags, "Shut down")
	}
	return strings.Join(flags, ", ")
}

// companySummaryBlock renders one search hit as a compact section.
func companySummaryBlock(c aviato.Company) Block {
	lines := []string{"*" + c.Name + "*"}
	if loc := joinLocation(c.Locality, c.Region, c.Country); loc != "" {
		lines = append(lines, loc)
	}
	if len(c.IndustryList) > 0 {
		lines = append(lines, strings.Join(c.IndustryList, ", "))
	}
	if c.TotalFunding > 0 {
		lines = append(lines, "Funding: "+fundingShorthand(c.TotalFunding))
	}
	if c.Website != "" {
		lines = append(lines, c.Website)
	}
	return sectionBlock(strings.Join(lines, "\n"))
}
