package roles

import (
	"strings"
	"time"

	"prospector/internal/aviato"
	"prospector/internal/common/logger"
	"prospector/internal/common/metrics"
)

type Matcher struct {
	taxonomy *Taxonomy
	log      logger.Logger
}

func NewMatcher(taxonomy *Taxonomy, log logger.Logger) *Matcher {
	return &Matcher{
		taxonomy: taxonomy,
		log:      log.WithFields(map[string]interface{}{"component": "role-matcher"}),
	}
}

// Match filters companies to those with at least one employee whose current
// title matches the requested role functions. Matched companies retain only
// the matching employees; founders are never role-matched and are not kept.
// Unrecognized role names are logged and ignored; when no role yields any
// target the input is returned unchanged.
func (m *Matcher) Match(companies []aviato.Company, rolesOfInterest []string) []aviato.Company {
	start := time.Now()
	defer func() {
		metrics.StageDuration.WithLabelValues("role-match").Observe(time.Since(start).Seconds())
	}()

	targetTitles := make(map[string]bool)
	var targetKeywords []string
	keywordSeen := make(map[string]bool)

	for _, role := range rolesOfInterest {
		titles, keywords, ok := m.taxonomy.Lookup(role)
		if !ok {
			m.log.Warn("role function not found in taxonomy", map[string]interface{}{
				"role": role,
			})
			continue
		}
		for _, t := range titles {
			targetTitles[t] = true
		}
		for _, kw := range keywords {
			if !keywordSeen[kw] {
				keywordSeen[kw] = true
				targetKeywords = append(targetKeywords, kw)
			}
		}
	}

	if len(targetTitles) == 0 && len(targetKeywords) == 0 {
		m.log.Warn("no matching role functions found, skipping role filter", map[string]interface{}{
			"roles": rolesOfInterest,
		})
		return companies
	}

	m.log.Info("filtering for roles", map[string]interface{}{
		"roles":       rolesOfInterest,
		"exactTitles": len(targetTitles),
		"keywords":    len(targetKeywords),
	})

	var filtered []aviato.Company
	for _, company := range companies {
		var matched []aviato.Person

		for _, person := range company.People {
			// Only employees are role-matched; founders have no position list.
			if person.Role != "employee" {
				continue
			}
			pos := person.CurrentPosition()
			if pos == nil || pos.Title == "" {
				continue
			}
			if !m.titleMatches(strings.ToLower(pos.Title), targetTitles, targetKeywords) {
				continue
			}

			// Store personId and currentTitle for contact lookup and export.
			if id := person.ResolvePersonID(); id != "" {
				person.PersonID = id
			}
			person.CurrentTitle = pos.Title
			matched = append(matched, person)
		}

		if len(matched) == 0 {
			metrics.CompaniesDropped.WithLabelValues("no_role_match").Inc()
			continue
		}

		company.People = matched
		company.FoundersCount = 0 // only relevant employees are retained
		company.EmployeesCount = len(matched)
		company.TotalPeople = len(matched)
		filtered = append(filtered, company)
	}

	m.log.Info("role filter applied", map[string]interface{}{
		"kept":  len(filtered),
		"total": len(companies),
		"roles": rolesOfInterest,
	})
	return filtered
}

// titleMatches applies the three matching rules to a lowercased title:
// exact-title equality, keyword substring, and seniority-compound substring
// ("{seniority} {keyword}" or "{keyword} {seniority}"). Substring matching
// accepts partial-word containment as a recall/precision tradeoff.
func (m *Matcher) titleMatches(title string, targetTitles map[string]bool, targetKeywords []string) bool {
	if title == "" {
		return false
	}
	if targetTitles[title] {
		return true
	}
	for _, kw := range targetKeywords {
		if strings.Contains(title, kw) {
			return true
		}
	}
	for _, kw := range targetKeywords {
		for _, s := range m.taxonomy.Seniority() {
			if strings.Contains(title, s+" "+kw) || strings.Contains(title, kw+" "+s) {
				return true
			}
		}
	}
	return false
}
