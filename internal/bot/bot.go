// Package bot implements the conversational command surface: single-shot
// company enrichment, inline search, and the two-turn guided prospecting
// flow.
package bot

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"

	"prospector/internal/aviato"
	"prospector/internal/bot/session"
	"prospector/internal/common/logger"
	"prospector/internal/common/metrics"
	"prospector/internal/pipeline/prospect"
	"prospector/internal/report"
)

// Enricher is the slice of the Aviato client the company command needs.
type Enricher interface {
	CompleteEnrichment(ctx context.Context, website, linkedinURL string) (*aviato.CompanyProfile, error)
}

type Config struct {
	EnrichLimit int
	MaxCSVRows  int
}

type Bot struct {
	transport Transport
	sessions  session.Store
	service   *prospect.Service
	enricher  Enricher
	cfg       Config
	log       logger.Logger

	// Tracks in-flight background prospecting runs for a clean shutdown.
	wg sync.WaitGroup
}

func New(transport Transport, sessions session.Store, service *prospect.Service, enricher Enricher, cfg Config, log logger.Logger) *Bot {
	if cfg.EnrichLimit <= 0 {
		cfg.EnrichLimit = 50
	}
	if cfg.MaxCSVRows <= 0 {
		cfg.MaxCSVRows = 500
	}
	return &Bot{
		transport: transport,
		sessions:  sessions,
		service:   service,
		enricher:  enricher,
		cfg:       cfg,
		log:       log.WithFields(map[string]interface{}{"component": "bot"}),
	}
}

var mentionRe = regexp.MustCompile(`<@[A-Z0-9]+>`)

// HandleEvent dispatches one inbound chat event. Errors are reported to the
// user as short summaries; full detail goes to the log.
func (b *Bot) HandleEvent(ctx context.Context, ev Event) {
	if ev.BotID != "" || strings.TrimSpace(ev.Text) == "" {
		return
	}

	text := strings.TrimSpace(mentionRe.ReplaceAllString(ev.Text, ""))
	thread := ev.Thread
	if thread == "" {
		thread = ev.Channel
	}
	lower := strings.ToLower(text)

	switch {
	case lower == "prospecting":
		b.startProspecting(ctx, ev.Channel, ev.UserID, thread)
		return
	}

	// An active session claims every message in its thread.
	sess, err := b.sessions.Get(ctx, ev.Channel, thread)
	if err != nil {
		b.log.Error("session lookup failed", map[string]interface{}{"error": err.Error()})
	}
	if sess != nil {
		b.continueProspecting(ctx, ev.Channel, ev.UserID, thread, text, sess)
		return
	}

	switch {
	case strings.HasPrefix(lower, "company "):
		b.handleCompany(ctx, strings.TrimSpace(text[len("company "):]), ev.Channel, thread)
	case strings.HasPrefix(lower, "search "):
		b.handleSearch(ctx, strings.TrimSpace(text[len("search "):]), ev.Channel, thread)
	default:
		b.post(ctx, ev.Channel, thread,
			"Use `company <URL>` to enrich company data.\n"+
				"Example: `company https://example.com`\n"+
				"Or type `prospecting` to start a prospecting flow.")
	}
}

func (b *Bot) startProspecting(ctx context.Context, channel, userID, thread string) {
	err := b.sessions.Put(ctx, channel, thread, &session.Session{
		Stage:  session.StageAwaitingFilters,
		UserID: userID,
	})
	if err != nil {
		b.log.Error("could not create prospecting session", map[string]interface{}{"error": err.Error()})
		b.post(ctx, channel, thread, "Something went wrong starting the prospecting flow, please try again.")
		return
	}
	metrics.SessionsActive.Inc()

	b.post(ctx, channel, thread,
		"Let's find some contacts for you. Please provide filters on the companies or types of companies you're interested in (key:value pairs).\n"+
			"The available filters are:\n"+
			" - Name: nameQuery\n"+
			" - Country: country\n"+
			" - Region: region\n"+
			" - Locality: locality\n"+
			" - Industry: industryList\n"+
			" - Website: website\n"+
			" - LinkedIn: linkedin\n"+
			" - Twitter: twitter\n"+
			" - Founded: founded\n"+
			" - Total Funding: totalFunding\n"+
			" - Total Funding (Greater Than or Equal To): totalFunding_gte\n"+
			" - Total Funding (Less Than or Equal To): totalFunding_lte\n"+
			"Example usage:\n"+
			"- country:United States; industryList:AI, Software; founded:2020\n"+
			"- nameQuery:orchard;\n"+
			"- industryList:Consumer, E-Commerce; founded:2010; totalFunding_gte:5000000;\n")
}

func (b *Bot) continueProspecting(ctx context.Context, channel, userID, thread, text string, sess *session.Session) {
	switch sess.Stage {
	case session.StageAwaitingFilters:
		sess.FiltersText = text
		sess.Stage = session.StageAwaitingRoles
		if err := b.sessions.Put(ctx, channel, thread, sess); err != nil {
			b.log.Error("could not advance prospecting session", map[string]interface{}{"error": err.Error()})
		}
		b.post(ctx, channel, thread,
			"Got it. What role functions are you targeting? Provide a comma-separated list, here are the options:\n"+
				"Business Development, Sales, Marketing, Engineering, Product Management, Arts and Design, Operations, Finance, Legal, Human Resources, Accounting, Consulting.\n"+
				"If you want me to try all roles, reply `skip`.")

	case session.StageAwaitingRoles:
		if !strings.EqualFold(strings.TrimSpace(text), "skip") {
			for _, r := range strings.Split(text, ",") {
				if r = strings.TrimSpace(r); r != "" {
					sess.Roles = append(sess.Roles, r)
				}
			}
		}
		sess.Stage = session.StageRunning
		if err := b.sessions.Put(ctx, channel, thread, sess); err != nil {
			b.log.Error("could not advance prospecting session", map[string]interface{}{"error": err.Error()})
		}
		b.runProspecting(channel, userID, thread, sess)
	}
}

// runProspecting executes the pipeline on a background goroutine so message
// delivery is not blocked; an enrichment pass can take minutes at upstream
// pacing.
func (b *Bot) runProspecting(channel, userID, thread string, sess *session.Session) {
	runID := uuid.New().String()
	log := b.log.WithFields(map[string]interface{}{
		"runID":  runID,
		"userID": userID,
	})

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		// Detached from the inbound request context: the run outlives the
		// webhook delivery and has no mid-flight abort in this design.
		ctx := context.Background()

		defer func() {
			if err := b.sessions.Delete(ctx, channel, thread); err != nil {
				log.Warn("session cleanup failed", map[string]interface{}{"error": err.Error()})
			}
			metrics.SessionsActive.Dec()
		}()

		b.post(ctx, channel, thread,
			"Running prospecting… this can take a couple minutes, I'll send the results in a csv file once I have them!")

		result := b.service.Prospect(ctx, sess.FiltersText, prospect.Options{
			EnrichPeople: true,
			EnrichLimit:  b.cfg.EnrichLimit,
			Roles:        sess.Roles,
		})

		if len(result.Items) == 0 {
			b.post(ctx, channel, thread,
				"No companies found for those filters. Try adjusting and run `prospecting` again.")
			return
		}

		csvContent := report.ProspectingCSV(result)
		filename := fmt.Sprintf("prospecting_results_%d_companies_%d_contacts.csv",
			len(result.Items), result.ContactsCount)

		if err := b.transport.UploadFile(ctx, channel, thread, filename, "Prospecting Results", []byte(csvContent)); err != nil {
			log.Error("prospecting CSV upload failed", map[string]interface{}{"error": err.Error()})
			b.post(ctx, channel, thread, "Error during prospecting: could not upload the results file.")
			return
		}

		summary := fmt.Sprintf("Found %d contacts at %d companies. See CSV for details.",
			result.ContactsCount, len(result.Items))
		if result.ContactsCount == 0 {
			summary = fmt.Sprintf("Found %d companies, no contacts. See CSV for details.", len(result.Items))
		}
		b.post(ctx, channel, thread, summary)

		log.Info("prospecting run finished", map[string]interface{}{
			"companies": len(result.Items),
			"contacts":  result.ContactsCount,
		})
	}()
}

// Wait blocks until background prospecting runs finish, for shutdown.
func (b *Bot) Wait() {
	b.wg.Wait()
}

func (b *Bot) post(ctx context.Context, channel, thread, text string) {
	if err := b.transport.PostMessage(ctx, channel, thread, text); err != nil {
		b.log.Error("message post failed", map[string]interface{}{"error": err.Error()})
	}
}
