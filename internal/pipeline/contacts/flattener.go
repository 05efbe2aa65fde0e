// Package contacts flattens role-matched employees into a contact list with
// resolved emails and aggregate coverage metrics.
package contacts

import (
	"context"
	"math"
	"strings"
	"time"

	"prospector/internal/aviato"
	"prospector/internal/common/logger"
	"prospector/internal/common/metrics"
)

// ContactFetcher is the slice of the Aviato client the flattener needs.
type ContactFetcher interface {
	ContactInfo(ctx context.Context, personID string) *aviato.ContactInfo
}

// Contact is the flattened projection joining one employee to their parent
// company and resolved email.
type Contact struct {
	PersonID        string              `json:"personId,omitempty"`
	Name            string              `json:"name,omitempty"`
	Title           string              `json:"title,omitempty"`
	Linkedin        string              `json:"linkedin,omitempty"`
	Email           string              `json:"email,omitempty"`
	CompanyID       string              `json:"companyId,omitempty"`
	Company         string              `json:"company,omitempty"`
	CompanyCountry  string              `json:"companyCountry,omitempty"`
	CompanyRegion   string              `json:"companyRegion,omitempty"`
	CompanyLocality string              `json:"companyLocality,omitempty"`
	IndustryList    []string            `json:"industryList,omitempty"`
	TotalFunding    float64             `json:"totalFunding,omitempty"`
	ContactInfo     *aviato.ContactInfo `json:"contactInfo,omitempty"`
	EmailsCount     int                 `json:"emails_count"`
	WorkEmail       string              `json:"workEmail,omitempty"`
	PersonalEmail   string              `json:"personalEmail,omitempty"`
}

// Metrics are the aggregate email-coverage numbers over one contact list.
type Metrics struct {
	TotalContacts       int     `json:"total_contacts"`
	WithAnyEmail        int     `json:"with_any_email"`
	WithWorkEmail       int     `json:"with_work_email"`
	WithPersonalEmail   int     `json:"with_personal_email"`
	CoverageAnyPct      float64 `json:"coverage_any_pct"`
	CoverageWorkPct     float64 `json:"coverage_work_pct"`
	CoveragePersonalPct float64 `json:"coverage_personal_pct"`
}

type Flattener struct {
	fetcher ContactFetcher
	log     logger.Logger
}

func NewFlattener(fetcher ContactFetcher, log logger.Logger) *Flattener {
	return &Flattener{
		fetcher: fetcher,
		log:     log.WithFields(map[string]interface{}{"component": "contacts"}),
	}
}

// Flatten iterates role-matched companies' retained employees, fetches each
// one's contact info, and selects the preferred email (work > personal > any
// non-empty address).
func (f *Flattener) Flatten(ctx context.Context, companies []aviato.Company) ([]Contact, Metrics) {
	start := time.Now()
	defer func() {
		metrics.StageDuration.WithLabelValues("flatten").Observe(time.Since(start).Seconds())
	}()

	var result []Contact
	for _, company := range companies {
		for _, person := range company.People {
			if person.Role != "employee" {
				continue
			}

			personID := person.ResolvePersonID()
			var info *aviato.ContactInfo
			if personID != "" {
				info = f.fetcher.ContactInfo(ctx, personID)
			}

			contact := Contact{
				PersonID:        personID,
				Name:            person.ResolveFullName(),
				Title:           person.CurrentTitle,
				Linkedin:        person.ResolveLinkedin(),
				CompanyID:       company.ID,
				Company:         company.Name,
				CompanyCountry:  company.Country,
				CompanyRegion:   company.Region,
				CompanyLocality: company.Locality,
				IndustryList:    company.IndustryList,
				TotalFunding:    company.TotalFunding,
				ContactInfo:     info,
			}
			resolveEmails(&contact, info)

			metrics.ContactsFlattened.Inc()
			result = append(result, contact)
		}
	}

	m := computeMetrics(result)
	metrics.EmailCoveragePercent.WithLabelValues("any").Set(m.CoverageAnyPct)
	metrics.EmailCoveragePercent.WithLabelValues("work").Set(m.CoverageWorkPct)
	metrics.EmailCoveragePercent.WithLabelValues("personal").Set(m.CoveragePersonalPct)

	f.log.Info("contact metrics", map[string]interface{}{
		"total":       m.TotalContacts,
		"anyPct":      m.CoverageAnyPct,
		"workPct":     m.CoverageWorkPct,
		"personalPct": m.CoveragePersonalPct,
	})
	return result, m
}

// resolveEmails picks the preferred email by priority work > personal > any
// entry with a non-empty address, recording work and personal addresses
// separately regardless of which was preferred.
func resolveEmails(contact *Contact, info *aviato.ContactInfo) {
	if info == nil {
		return
	}

	var anyEmail string
	for _, e := range info.Emails {
		if e.Email == "" {
			continue
		}
		contact.EmailsCount++
		if anyEmail == "" {
			anyEmail = e.Email
		}
		switch strings.ToLower(e.Type) {
		case "work":
			if contact.WorkEmail == "" {
				contact.WorkEmail = e.Email
			}
		case "personal":
			if contact.PersonalEmail == "" {
				contact.PersonalEmail = e.Email
			}
		}
	}

	switch {
	case contact.WorkEmail != "":
		contact.Email = contact.WorkEmail
	case contact.PersonalEmail != "":
		contact.Email = contact.PersonalEmail
	default:
		contact.Email = anyEmail
	}
}

func computeMetrics(contactList []Contact) Metrics {
	m := Metrics{TotalContacts: len(contactList)}
	for _, c := range contactList {
		if c.Email != "" {
			m.WithAnyEmail++
		}
		if c.WorkEmail != "" {
			m.WithWorkEmail++
		}
		if c.PersonalEmail != "" {
			m.WithPersonalEmail++
		}
	}
	if m.TotalContacts > 0 {
		total := float64(m.TotalContacts)
		m.CoverageAnyPct = round2(float64(m.WithAnyEmail) / total * 100.0)
		m.CoverageWorkPct = round2(float64(m.WithWorkEmail) / total * 100.0)
		m.CoveragePersonalPct = round2(float64(m.WithPersonalEmail) / total * 100.0)
	}
	return m
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
