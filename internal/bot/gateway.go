package bot

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xeipuuv/gojsonschema"

	"prospector/internal/common/logger"
)

// eventSchema validates inbound webhook payloads before they reach the
// dispatcher. Unknown extra fields are allowed; the required trio is not
// negotiable.
const eventSchema = `{
	"type": "object",
	"required": ["type", "channel", "text"],
	"properties": {
		"type":         {"type": "string", "minLength": 1},
		"channel":      {"type": "string", "minLength": 1},
		"thread":       {"type": "string"},
		"user":         {"type": "string"},
		"text":         {"type": "string"},
		"channel_type": {"type": "string"},
		"bot_id":       {"type": "string"}
	}
}`

// Gateway is the inbound HTTP surface: chat events, health, and metrics.
type Gateway struct {
	bot          *Bot
	sharedSecret string
	schema       *gojsonschema.Schema
	log          logger.Logger
}

func NewGateway(b *Bot, sharedSecret string, log logger.Logger) (*Gateway, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(eventSchema))
	if err != nil {
		return nil, err
	}
	return &Gateway{
		bot:          b,
		sharedSecret: sharedSecret,
		schema:       schema,
		log:          log.WithFields(map[string]interface{}{"component": "gateway"}),
	}, nil
}

func (g *Gateway) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", g.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/events", g.handleEvent)

	return r
}

func (g *Gateway) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (g *Gateway) handleEvent(w http.ResponseWriter, r *http.Request) {
	if g.sharedSecret != "" && r.Header.Get("X-Gateway-Token") != g.sharedSecret {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "could not read body", http.StatusBadRequest)
		return
	}

	result, err := g.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		g.log.Warn("rejected malformed event payload", map[string]interface{}{
			"problems": strings.Join(problems, "; "),
		})
		http.Error(w, "invalid event payload", http.StatusBadRequest)
		return
	}

	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	// Ack immediately; the front end retries deliveries that take too long.
	go g.bot.HandleEvent(context.Background(), ev)

	w.WriteHeader(http.StatusOK)
}
