package goals

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/2beens/stepgoal/internal/middleware"
	"github.com/2beens/stepgoal/internal/projection"
	"github.com/2beens/stepgoal/internal/render"
	"github.com/2beens/stepgoal/internal/telemetry/metrics"
	"github.com/2beens/stepgoal/internal/telemetry/tracing"
	"github.com/2beens/stepgoal/pkg"

	"github.com/coocood/freecache"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=goals_test

type clock interface {
	Now() time.Time
}

// SystemClock is the wall clock used outside of tests.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

type Handler struct {
	calculator     *projection.Calculator
	renderer       *render.Renderer
	clock          clock
	cache          *freecache.Cache // optional
	metricsManager *metrics.Manager
}

func NewHandler(
	calculator *projection.Calculator,
	renderer *render.Renderer,
	clock clock,
	cache *freecache.Cache,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		calculator:     calculator,
		renderer:       renderer,
		clock:          clock,
		cache:          cache,
		metricsManager: metricsManager,
	}
}

// SetupRoutes registers /projection. The rate limiter is optional.
func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	allowedPerMin int,
) {
	goalsRouter := mainRouter.PathPrefix("/projection").Subrouter()
	goalsRouter.HandleFunc("", handler.handleProjection).Methods("GET", "POST").Name("projection")
	goalsRouter.HandleFunc("", handleOptions).Methods("OPTIONS").Name("projection-options")

	if rateLimiter != nil {
		goalsRouter.Use(middleware.RateLimit(rateLimiter, handler.metricsManager, "projection", allowedPerMin))
	}
}

func handleOptions(w http.ResponseWriter, _ *http.Request) {
	w.Header().Add("Allow", "GET, POST, OPTIONS")
	w.WriteHeader(http.StatusOK)
}

func (handler *Handler) handleProjection(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "goalsHandler.projection")
	defer span.End()

	req, err := readProjectionRequest(r)
	if err != nil {
		log.Debugf("projection, read request: %s", err)
		span.SetStatus(codes.Error, "bad-request")
		handler.countOutcome(outcomeError)
		pkg.WriteJSON(w, newErrorResponse(err, "Ugyldig forespørsel."), http.StatusBadRequest)
		return
	}

	now := handler.clock.Now()
	in, err := req.toInput(now)
	if err != nil {
		log.Debugf("projection, invalid input: %s", err)
		span.SetStatus(codes.Error, "invalid-input")
		span.RecordError(err)
		handler.countOutcome(outcomeError)
		pkg.WriteJSON(w, newErrorResponse(err, requestErrorHeadline(err)), http.StatusBadRequest)
		return
	}

	span.SetAttributes(
		attribute.Float64("goal.average", in.GoalAverage),
		attribute.Float64("goal.current_average", in.CurrentAverage),
		attribute.String("goal.start_date", in.StartDate.String()),
		attribute.String("goal.reference_date", in.ReferenceDate.Format(dateLayout)),
	)

	cacheKey := []byte(fmt.Sprintf(
		"projection::%g::%g::%s::%s",
		in.GoalAverage, in.CurrentAverage, in.StartDate, in.ReferenceDate.Format(dateLayout),
	))
	if cached, ok := handler.getCached(cacheKey); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		span.SetStatus(codes.Ok, "cached")
		handler.countOutcome(cached.Outcome)
		pkg.WriteResponseBytes(w, pkg.ContentType.JSON, cached.Body, cached.StatusCode)
		return
	}

	res := handler.calculator.Compute(in)
	resp := newProjectionResponse(res, handler.renderer.Render(res), in.StartDate)
	statusCode := statusCodeFor(res)

	body, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal projection response: %s", err)
		span.SetStatus(codes.Error, "marshal-failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	handler.setCached(cacheKey, cachedProjection{
		Outcome:    resp.Outcome,
		StatusCode: statusCode,
		Body:       body,
	}, now)

	span.SetAttributes(
		attribute.Bool("cache.hit", false),
		attribute.String("goal.outcome", resp.Outcome),
	)
	if resp.Outcome == outcomeError {
		span.SetStatus(codes.Error, resp.Error)
	} else {
		span.SetStatus(codes.Ok, resp.Outcome)
	}

	handler.countOutcome(resp.Outcome)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, body, statusCode)
}

func (handler *Handler) countOutcome(outcome string) {
	handler.metricsManager.CounterProjections.WithLabelValues(outcome).Inc()
}

func statusCodeFor(res projection.Result) int {
	failure, ok := res.(projection.Failure)
	if !ok {
		return http.StatusOK
	}
	if errors.Is(failure.Err, projection.ErrYearEnded) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}

func requestErrorHeadline(err error) string {
	if errors.Is(err, errInvalidDate) {
		return "Ugyldig dato, bruk formatet ÅÅÅÅ-MM-DD."
	}
	return render.ErrorMessage(err)
}
