package bot

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"prospector/internal/pipeline/filters"
	"prospector/internal/report"
)

var searchParamRe = regexp.MustCompile(`(\w+):\s*(?:"([^"]*)"|([^\s]+))`)

var quoteReplacer = strings.NewReplacer("“", `"`, "”", `"`, "‘", "'", "’", "'")

// parseSearchParams turns inline `key:value` pairs into a filter set.
// Multi-word values must be quoted: `search country:"United States" founded:2020`.
func parseSearchParams(params string) filters.FilterSet {
	var fs filters.FilterSet
	for _, m := range searchParamRe.FindAllStringSubmatch(quoteReplacer.Replace(params), -1) {
		key := strings.ToLower(m[1])
		value := m[2]
		if value == "" {
			value = m[3]
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		switch key {
		case "name", "namequery":
			fs.NameQuery = value
		case "country":
			fs.Country = value
		case "region":
			fs.Region = []string{value}
		case "locality":
			fs.Locality = []string{value}
		case "industry", "industries", "industrylist":
			for _, item := range strings.Split(value, ",") {
				if item = strings.TrimSpace(item); item != "" {
					fs.IndustryList = append(fs.IndustryList, item)
				}
			}
		case "website":
			fs.Website = value
		case "linkedin":
			fs.Linkedin = value
		case "founded":
			if n, err := strconv.ParseInt(value, 10, 64); err == nil {
				fs.Founded = n
			} else {
				fs.Founded = value
			}
		case "funding", "totalfunding":
			if n, err := strconv.ParseInt(value, 10, 64); err == nil {
				fs.TotalFunding = &filters.FundingFilter{Value: n, Operation: "lte"}
			}
		}
	}
	return fs
}

func (b *Bot) handleSearch(ctx context.Context, params, channel, thread string) {
	fs := parseSearchParams(params)
	if fs.IsEmpty() {
		b.post(ctx, channel, thread,
			"I couldn't read any filters from that. Example: `search country:\"United States\" industry:AI founded:2020`")
		return
	}

	companies := b.service.Search(ctx, fs)
	if len(companies) == 0 {
		b.post(ctx, channel, thread, "No companies matched those filters.")
		return
	}

	const maxShown = 5
	shown := companies
	if len(shown) > maxShown {
		shown = shown[:maxShown]
	}

	fallback := fmt.Sprintf("Found %d companies", len(companies))
	blocks := []Block{sectionBlock(fmt.Sprintf("*Found %d companies*, showing the top %d:", len(companies), len(shown)))}
	for _, c := range shown {
		blocks = append(blocks, dividerBlock(), companySummaryBlock(c))
	}
	if err := b.transport.PostBlocks(ctx, channel, thread, blocks, fallback); err != nil {
		b.log.Error("search blocks post failed", map[string]interface{}{"error": err.Error()})
	}

	exported := companies
	note := fmt.Sprintf("Full list of %d companies attached.", len(companies))
	if len(exported) > b.cfg.MaxCSVRows {
		exported = exported[:b.cfg.MaxCSVRows]
		note = fmt.Sprintf("Showing the top %d of %d companies in the attached file.", len(exported), len(companies))
	}
	filename := fmt.Sprintf("company_search_results_%d_companies.csv", len(exported))
	csvContent := report.CompaniesCSV(exported)
	if err := b.transport.UploadFile(ctx, channel, thread, filename, "Company Search Results", []byte(csvContent)); err != nil {
		b.log.Error("search CSV upload failed", map[string]interface{}{"error": err.Error()})
		return
	}
	b.post(ctx, channel, thread, note)
}
