// Package report renders prospecting and search results as CSV files.
package report

import (
	"encoding/csv"
	"strconv"
	"strings"

	"prospector/internal/aviato"
	"prospector/internal/pipeline/contacts"
	"prospector/internal/pipeline/prospect"
)

// ProspectingCSV renders one row per contact when contacts are present,
// falling back to one row per company otherwise.
func ProspectingCSV(result *prospect.Result) string {
	if result == nil {
		return ""
	}
	if len(result.Contacts) > 0 {
		return contactsCSV(result.Contacts, result.Items)
	}
	return CompaniesCSV(result.Items)
}

func contactsCSV(contactList []contacts.Contact, companies []aviato.Company) string {
	// companyId -> resolved website, for rows missing one.
	websites := make(map[string]string, len(companies))
	for _, c := range companies {
		if w := resolveWebsite(c.Website, c.URLs); w != "" {
			websites[c.ID] = w
		}
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)

	_ = w.Write([]string{
		"company", "website", "industryList",
		"companyLocality", "companyRegion", "companyCountry",
		"totalFunding", "name", "title", "linkedin",
		"email", "workEmail", "personalEmail",
	})
	for _, c := range contactList {
		_ = w.Write([]string{
			c.Company,
			websites[c.CompanyID],
			strings.Join(c.IndustryList, ", "),
			c.CompanyLocality,
			c.CompanyRegion,
			c.CompanyCountry,
			fundingString(c.TotalFunding),
			c.Name,
			c.Title,
			c.Linkedin,
			c.Email,
			c.WorkEmail,
			c.PersonalEmail,
		})
	}
	w.Flush()
	return sb.String()
}

// CompaniesCSV renders the company-only export. Columns with no data across
// every row are omitted from the header.
func CompaniesCSV(companies []aviato.Company) string {
	if len(companies) == 0 {
		return ""
	}

	candidateColumns := []string{"name", "website", "industryList", "locality", "region", "country", "totalFunding"}

	rows := make([]map[string]string, 0, len(companies))
	nonEmpty := make(map[string]bool)
	for _, c := range companies {
		row := map[string]string{
			"name":         c.Name,
			"website":      resolveWebsite(c.Website, c.URLs),
			"industryList": strings.Join(c.IndustryList, ", "),
			"locality":     c.Locality,
			"region":       c.Region,
			"country":      c.Country,
			"totalFunding": fundingString(c.TotalFunding),
		}
		for k, v := range row {
			if v != "" {
				nonEmpty[k] = true
			}
		}
		rows = append(rows, row)
	}

	columns := make([]string, 0, len(candidateColumns))
	for _, col := range candidateColumns {
		if nonEmpty[col] {
			columns = append(columns, col)
		}
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	_ = w.Write(columns)
	for _, row := range rows {
		record := make([]string, len(columns))
		for i, col := range columns {
			record[i] = row[col]
		}
		_ = w.Write(record)
	}
	w.Flush()
	return sb.String()
}

// resolveWebsite backfills a missing website from the company URL collection:
// the first string entry, or the first URL-shaped value under the known
// sub-keys (website, url, homepage).
func resolveWebsite(website string, urls interface{}) string {
	if website != "" {
		return website
	}

	switch v := urls.(type) {
	case string:
		return v
	case []interface{}:
		if len(v) == 0 {
			return ""
		}
		switch first := v[0].(type) {
		case string:
			return first
		case map[string]interface{}:
			return firstURLValue(first)
		}
	case map[string]interface{}:
		return firstURLValue(v)
	}
	return ""
}

func firstURLValue(m map[string]interface{}) string {
	for _, key := range []string{"website", "url", "homepage"} {
		if s, ok := m[key].(string); ok && s != "" {
			return s
		}
	}
	for _, v := range m {
		if s, ok := v.(string); ok && (strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")) {
			return s
		}
	}
	return ""
}

func fundingString(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
