// Package enrich augments search-result companies with founders and
// employees and drops companies with nobody attached.
package enrich

import (
	"context"
	"time"

	"prospector/internal/aviato"
	"prospector/internal/common/logger"
	"prospector/internal/common/metrics"
)

const DefaultLimit = 50

// PeopleFetcher is the slice of the Aviato client the orchestrator needs.
// The client degrades failures to empty lists, so enrichment always proceeds
// with whatever partial data it gets.
type PeopleFetcher interface {
	Founders(ctx context.Context, companyID string) []aviato.Person
	Employees(ctx context.Context, companyID string) []aviato.Person
}

type Orchestrator struct {
	fetcher PeopleFetcher
	log     logger.Logger
}

func NewOrchestrator(fetcher PeopleFetcher, log logger.Logger) *Orchestrator {
	return &Orchestrator{
		fetcher: fetcher,
		log:     log.WithFields(map[string]interface{}{"component": "enrich"}),
	}
}

// Enrich processes at most limit companies in input order; companies past the
// limit pass through unenriched. Founders and employees are fetched
// sequentially per company so the shared pacing slot stays meaningful. A
// company with zero total people is dropped entirely; one without an id
// passes through unmodified.
func (o *Orchestrator) Enrich(ctx context.Context, companies []aviato.Company, limit int) []aviato.Company {
	if limit <= 0 {
		limit = DefaultLimit
	}

	start := time.Now()
	defer func() {
		metrics.StageDuration.WithLabelValues("enrich").Observe(time.Since(start).Seconds())
	}()

	toEnrich := companies
	var passthrough []aviato.Company
	if len(companies) > limit {
		toEnrich = companies[:limit]
		passthrough = companies[limit:]
	}

	o.log.Info("enriching companies with founders and employees", map[string]interface{}{
		"enriching": len(toEnrich),
		"total":     len(companies),
	})

	result := make([]aviato.Company, 0, len(companies))
	for idx, company := range toEnrich {
		if ctx.Err() != nil {
			o.log.Warn("enrichment canceled", map[string]interface{}{"processed": idx})
			break
		}

		if company.ID == "" {
			o.log.Warn("company has no ID, skipping enrichment", map[string]interface{}{
				"index": idx,
				"name":  company.Name,
			})
			result = append(result, company)
			continue
		}

		founders := o.fetcher.Founders(ctx, company.ID)
		employees := o.fetcher.Employees(ctx, company.ID)

		people := make([]aviato.Person, 0, len(founders)+len(employees))
		for _, f := range founders {
			f.Role = "founder"
			people = append(people, f)
		}
		for _, e := range employees {
			e.Role = "employee"
			people = append(people, e)
		}

		company.People = people
		company.FoundersCount = len(founders)
		company.EmployeesCount = len(employees)
		company.TotalPeople = len(people)

		if company.TotalPeople == 0 {
			metrics.CompaniesDropped.WithLabelValues("no_people").Inc()
			o.log.Debug("no people data for company", map[string]interface{}{
				"name": company.Name,
			})
			continue
		}

		metrics.CompaniesEnriched.Inc()
		o.log.Info("enriched company", map[string]interface{}{
			"name":      company.Name,
			"people":    company.TotalPeople,
			"founders":  company.FoundersCount,
			"employees": company.EmployeesCount,
		})
		result = append(result, company)
	}

	result = append(result, passthrough...)

	o.log.Info("enrichment filtered results", map[string]interface{}{
		"kept":  len(result),
		"total": len(companies),
	})
	return result
}
