// Package filters compiles lightweight "key:value" query text into a
// normalized filter set for the company search stage.
package filters

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"prospector/internal/common/logger"
)

// Canonical filter keys, keyed by the lowercase aliases users may type.
var supportedKeys = map[string]string{
	"namequery":        "nameQuery",
	"country":          "country",
	"region":           "region",
	"locality":         "locality",
	"industry":         "industryList",
	"industrylist":     "industryList",
	"website":          "website",
	"linkedin":         "linkedin",
	"twitter":          "twitter",
	"totalfunding":     "totalFunding",
	"totalfunding_gte": "totalFunding_gte",
	"totalfunding_lte": "totalFunding_lte",
	"founded":          "founded",
}

var (
	// Chat clients autolink bare numbers as <tel:N|N>.
	telLinkRe = regexp.MustCompile(`^<tel:(\d+)\|[^>]+>$`)
	// Generic pasted autolink like <123|123> or <$1.2b|$1.2b>.
	genericLinkRe = regexp.MustCompile(`^<([0-9,.$kmbKMB]+)\|[^>]+>$`)
)

type Compiler struct {
	log logger.Logger
}

func NewCompiler(log logger.Logger) *Compiler {
	return &Compiler{
		log: log.WithFields(map[string]interface{}{"component": "filter-compiler"}),
	}
}

// Compile parses query text into a FilterSet. Pair delimiter preference is
// semicolon, then newline, then comma; semicolons let values carry commas
// (multiple industries). Unknown keys are logged and dropped; pairs without a
// colon become the nameQuery (last such token wins). Compile never fails.
func (c *Compiler) Compile(queryText string) FilterSet {
	var fs FilterSet
	if strings.TrimSpace(queryText) == "" {
		return fs
	}

	delimiter := ","
	if strings.Contains(queryText, ";") {
		delimiter = ";"
	} else if strings.Contains(queryText, "\n") {
		delimiter = "\n"
	}

	for _, pair := range strings.Split(queryText, delimiter) {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		key, rawVal, found := strings.Cut(pair, ":")
		if !found {
			// Single token queries are treated as a name search.
			fs.NameQuery = pair
			continue
		}

		keyNorm := strings.ToLower(strings.TrimSpace(key))
		mapped, ok := supportedKeys[keyNorm]
		if !ok {
			c.log.Info("ignoring unsupported filter key", map[string]interface{}{
				"key": strings.TrimSpace(key),
			})
			continue
		}

		c.apply(&fs, mapped, strings.TrimSpace(rawVal))
	}

	fs.IndustryList = dedupe(fs.IndustryList)
	return fs
}

func (c *Compiler) apply(fs *FilterSet, mapped, value string) {
	switch mapped {
	case "nameQuery":
		fs.NameQuery = value
	case "country":
		fs.Country = value
	case "region":
		fs.Region = []string{value}
	case "locality":
		fs.Locality = []string{value}
	case "website":
		fs.Website = value
	case "linkedin":
		fs.Linkedin = value
	case "twitter":
		fs.Twitter = value
	case "industryList":
		// Industry values may themselves be comma-separated; repeated keys
		// accumulate.
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				fs.IndustryList = append(fs.IndustryList, part)
			}
		}
	case "founded":
		fs.Founded = c.coerceNumber(mapped, value)
	case "totalFunding":
		fs.TotalFunding = &FundingFilter{Value: c.coerceNumber(mapped, value), Operation: "lte"}
	case "totalFunding_gte":
		fs.TotalFunding = &FundingFilter{Value: c.coerceNumber(mapped, value), Operation: "gte"}
	case "totalFunding_lte":
		fs.TotalFunding = &FundingFilter{Value: c.coerceNumber(mapped, value), Operation: "lte"}
	}
}

// coerceNumber attempts a tolerant numeric parse; on failure the trimmed raw
// string is kept so a bad value never halts the pipeline.
func (c *Compiler) coerceNumber(key, value string) interface{} {
	n, err := parseNumberLike(value)
	if err != nil {
		c.log.Info("keeping unparseable numeric filter value as string", map[string]interface{}{
			"key":   key,
			"value": value,
		})
		return value
	}
	return n
}

// parseNumberLike handles numeric inputs as chat clients mangle them:
// <tel:10000000|10000000> autolinks, pasted <123|123> wrappers, currency
// symbols, thousands separators, and k/m/b shorthand with decimals.
func parseNumberLike(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}

	if m := telLinkRe.FindStringSubmatch(s); m != nil {
		s = m[1]
	} else if m := genericLinkRe.FindStringSubmatch(s); m != nil {
		s = m[1]
	}

	norm := strings.ReplaceAll(s, ",", "")
	norm = strings.ReplaceAll(norm, " ", "")
	norm = strings.TrimPrefix(norm, "$")

	lower := strings.ToLower(norm)
	var multiplier int64
	switch {
	case strings.HasSuffix(lower, "k"):
		multiplier = 1_000
	case strings.HasSuffix(lower, "m"):
		multiplier = 1_000_000
	case strings.HasSuffix(lower, "b"):
		multiplier = 1_000_000_000
	}

	if multiplier != 0 {
		val, err := strconv.ParseFloat(lower[:len(lower)-1], 64)
		if err != nil {
			return 0, err
		}
		return int64(val * float64(multiplier)), nil
	}

	return strconv.ParseInt(norm, 10, 64)
}

// dedupe drops empty entries and repeats, preserving first-seen order.
func dedupe(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(items))
	out := items[:0]
	for _, item := range items {
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
