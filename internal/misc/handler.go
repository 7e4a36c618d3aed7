package misc

import (
	"context"
	"net/http"
	"time"

	"github.com/2beens/stepgoal/internal/telemetry/tracing"
	"github.com/2beens/stepgoal/pkg"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

const healthCheckTimeout = 2 * time.Second

type pinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

type Handler struct {
	versionInfo string
	// redis is nil when the service runs without rate limiting
	redis pinger
}

func NewHandler(versionInfo string, redisClient pinger) *Handler {
	return &Handler{
		versionInfo: versionInfo,
		redis:       redisClient,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/", handler.handleRoot).Methods("GET", "POST", "OPTIONS").Name("root")
	mainRouter.HandleFunc("/version", handler.handleGetVersionInfo).Methods("GET").Name("version")
	mainRouter.HandleFunc("/health", handler.handleHealth).Methods("GET").Name("health")
}

func (handler *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "I'm OK, thanks ;)")
}

func (handler *Handler) handleGetVersionInfo(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, handler.versionInfo)
}

func (handler *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.health")
	defer span.End()

	if handler.redis == nil {
		span.SetStatus(codes.Ok, "no-deps")
		pkg.WriteTextResponseOK(w, "healthy")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	if err := handler.redis.Ping(ctx).Err(); err != nil {
		log.Errorf("health check, redis ping: %s", err)
		span.SetStatus(codes.Error, "redis-ping-failed")
		span.RecordError(err)
		pkg.WriteResponse(w, pkg.ContentType.Text, "redis unavailable", http.StatusServiceUnavailable)
		return
	}

	span.SetStatus(codes.Ok, "ok")
	pkg.WriteTextResponseOK(w, "healthy")
}
