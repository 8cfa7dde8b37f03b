package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"hirehub/internal/events"
	"hirehub/internal/middleware"
	"hirehub/internal/models"
	"hirehub/internal/repositories"
	"hirehub/internal/response"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxBodyBytes bounds every JSON request body
const maxBodyBytes = 1 << 20

// Handler serves the JSON API on top of the repository collection
type Handler struct {
	repos   *repositories.Collection
	builder *response.Builder
	limiter *middleware.RateLimiter
	bus     events.EventBus
	logger  *zap.Logger
}

// NewHandler creates the API handler. limiter guards the public submission
// endpoints and bus receives their domain events; both may be nil.
func NewHandler(repos *repositories.Collection, builder *response.Builder, limiter *middleware.RateLimiter, bus events.EventBus, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if builder == nil {
		builder = response.NewBuilder(nil, logger)
	}
	return &Handler{
		repos:   repos,
		builder: builder,
		limiter: limiter,
		bus:     bus,
		logger:  logger,
	}
}

// Routes builds the router with the shared middleware stack
func (h *Handler) Routes(loggingConfig *middleware.LoggingConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID(h.logger))
	r.Use(middleware.StructuredLogging(loggingConfig))
	r.Use(middleware.Recovery(h.builder))
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.CORS(""))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.builder.WriteError(w, r, response.NewNotFoundError("route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		h.builder.WriteError(w, r, &response.APIError{
			Type:       "METHOD_NOT_ALLOWED",
			Message:    "Method not allowed",
			StatusCode: http.StatusMethodNotAllowed,
		})
	})

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", h.ListJobs)
			r.Post("/", h.CreateJob)
			r.Get("/facets", h.JobFacets)
			r.Get("/featured", h.FeaturedJobs)
			r.Get("/recent", h.RecentJobs)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetJob)
				r.Patch("/", h.UpdateJob)
				r.Delete("/", h.DeleteJob)
				r.Post("/deactivate", h.DeactivateJob)
				r.Post("/reactivate", h.ReactivateJob)
				r.Get("/applications", h.ListJobApplications)
			})
		})

		r.Route("/applications", func(r chi.Router) {
			r.With(h.rateLimited).Post("/", h.SubmitApplication)
			r.Get("/", h.ListApplications)
			r.Get("/{id}", h.GetApplication)
			r.Patch("/{id}", h.UpdateApplication)
			r.Delete("/{id}", h.DeleteApplication)
		})

		r.Route("/applicants", func(r chi.Router) {
			r.Get("/", h.ListApplicants)
			r.Get("/{id}", h.GetApplicant)
			r.Patch("/{id}", h.UpdateApplicant)
			r.Delete("/{id}", h.DeleteApplicant)
			r.Get("/{id}/applications", h.ListApplicantApplications)
		})

		r.Route("/contact", func(r chi.Router) {
			r.With(h.rateLimited).Post("/", h.CreateContactMessage)
			r.Get("/", h.ListContactMessages)
			r.Get("/recent", h.RecentContactMessages)
			r.Get("/{id}", h.GetContactMessage)
			r.Patch("/{id}", h.UpdateContactMessage)
			r.Delete("/{id}", h.DeleteContactMessage)
			r.Post("/{id}/read", h.MarkContactMessageRead)
		})

		r.Route("/subscribers", func(r chi.Router) {
			r.With(h.rateLimited).Post("/", h.Subscribe)
			r.Get("/", h.ListSubscribers)
			r.Get("/emails", h.ActiveSubscriberEmails)
			r.With(h.rateLimited).Post("/unsubscribe", h.Unsubscribe)
			r.Delete("/{id}", h.DeleteSubscriber)
		})

		r.Route("/content", func(r chi.Router) {
			r.Get("/", h.ListContent)
			r.Get("/{id}", h.GetContent)
			r.Put("/{id}", h.PutContent)
			r.Delete("/{id}", h.DeleteContent)
		})

		r.Get("/dashboard/stats", h.DashboardStats)
	})

	return r
}

func (h *Handler) rateLimited(next http.Handler) http.Handler {
	if h.limiter == nil {
		return next
	}
	return h.limiter.Handler(next)
}

// publish hands an event to the bus after the write has committed. Delivery
// failures never fail the request.
func (h *Handler) publish(r *http.Request, event events.Event) {
	if h.bus == nil {
		return
	}
	if err := h.bus.PublishAsync(r.Context(), event); err != nil {
		h.logger.Warn("Failed to publish event",
			zap.String("event_type", event.GetEventType()),
			zap.Error(err),
		)
	}
}

// ===============================
// REQUEST HELPERS
// ===============================

// decodeJSON reads a single JSON document from the request body into dst
func decodeJSON(r *http.Request, dst interface{}) error {
	body, err := readBody(r)
	if err != nil {
		return err
	}
	return unmarshalBody(body, dst)
}

func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return nil, response.NewValidationError("failed to read request body", err)
	}
	if len(body) > maxBodyBytes {
		return nil, response.NewValidationError("request body too large", nil)
	}
	return body, nil
}

func unmarshalBody(body []byte, dst interface{}) error {
	if len(strings.TrimSpace(string(body))) == 0 {
		return response.NewValidationError("request body is required", nil)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return response.NewValidationError(fmt.Sprintf("invalid value for field %s", typeErr.Field), err)
		}
		return response.NewValidationError("invalid JSON body", err)
	}
	return nil
}

// notFound is the error for a missing entity
func notFound(entity string) error {
	return response.NewNotFoundError(entity + " not found")
}

// writeFound writes v, or a 404 when the repository found nothing
func writeFound[T any](h *Handler, w http.ResponseWriter, r *http.Request, entity string, v *T, err error) {
	switch {
	case err != nil:
		h.builder.WriteError(w, r, err)
	case v == nil:
		h.builder.WriteError(w, r, notFound(entity))
	default:
		h.builder.WriteSuccess(w, r, v)
	}
}

// writePage writes one page of results
func writePage[T any](h *Handler, w http.ResponseWriter, r *http.Request, page *models.Page[T], err error) {
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}
	response.WritePage(h.builder, w, r, page)
}

func (h *Handler) writeDeleted(w http.ResponseWriter, r *http.Request, entity string, deleted bool, err error) {
	switch {
	case err != nil:
		h.builder.WriteError(w, r, err)
	case !deleted:
		h.builder.WriteError(w, r, notFound(entity))
	default:
		h.builder.WriteNoContent(w, r)
	}
}

// pagination parses the page request, writing the error when it is malformed
func (h *Handler) pagination(w http.ResponseWriter, r *http.Request) (models.Pagination, bool) {
	page, err := response.ParsePagination(r.URL.Query())
	if err != nil {
		h.builder.WriteError(w, r, err)
		return page, false
	}
	return page, true
}

// ===============================
// QUERY PARSING
// ===============================
// Absent or blank parameters stay nil so they add no filter predicate.
// Malformed values are rejected instead of being silently ignored.

type queryParser struct {
	values url.Values
	err    error
}

func newQueryParser(r *http.Request) *queryParser {
	return &queryParser{values: r.URL.Query()}
}

func (p *queryParser) raw(key string) string {
	return strings.TrimSpace(p.values.Get(key))
}

func (p *queryParser) String(key string) *string {
	v := p.raw(key)
	if v == "" {
		return nil
	}
	return &v
}

func (p *queryParser) Float(key string) *float64 {
	v := p.raw(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(key, v, err)
		return nil
	}
	return &f
}

func (p *queryParser) Bool(key string) *bool {
	v := p.raw(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.fail(key, v, err)
		return nil
	}
	return &b
}

// Time accepts RFC 3339 timestamps or plain dates
func (p *queryParser) Time(key string) *time.Time {
	v := p.raw(key)
	if v == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			t = t.UTC()
			return &t
		}
	}
	p.fail(key, v, fmt.Errorf("expected RFC 3339 or YYYY-MM-DD"))
	return nil
}

// Int returns def when the parameter is absent
func (p *queryParser) Int(key string, def int) int {
	v := p.raw(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return n
}

func (p *queryParser) fail(key, value string, err error) {
	if p.err == nil {
		p.err = response.NewValidationError(fmt.Sprintf("invalid %s parameter: %s", key, value), err)
	}
}

// Err returns the first parse failure
func (p *queryParser) Err() error {
	return p.err
}
