package goals

import (
	"encoding/json"
	"time"

	log "github.com/sirupsen/logrus"
)

type cachedProjection struct {
	Outcome    string          `json:"outcome"`
	StatusCode int             `json:"status_code"`
	Body       json.RawMessage `json:"body"`
}

func (handler *Handler) getCached(key []byte) (cachedProjection, bool) {
	if handler.cache == nil {
		return cachedProjection{}, false
	}

	data, err := handler.cache.Get(key)
	if err != nil {
		handler.metricsManager.CounterProjectionCacheMiss.Inc()
		return cachedProjection{}, false
	}

	var cached cachedProjection
	if err := json.Unmarshal(data, &cached); err != nil {
		log.Errorf("unmarshal cached projection [%s]: %s", key, err)
		handler.cache.Del(key)
		handler.metricsManager.CounterProjectionCacheMiss.Inc()
		return cachedProjection{}, false
	}

	handler.metricsManager.CounterProjectionCacheHits.Inc()
	return cached, true
}

// setCached keeps the entry until the end of the current UTC day.
func (handler *Handler) setCached(key []byte, cached cachedProjection, now time.Time) {
	if handler.cache == nil {
		return
	}

	data, err := json.Marshal(cached)
	if err != nil {
		log.Errorf("marshal projection for cache [%s]: %s", key, err)
		return
	}

	if err := handler.cache.Set(key, data, secondsUntilEndOfDay(now)); err != nil {
		log.Errorf("set projection cache [%s]: %s", key, err)
	}
}

func secondsUntilEndOfDay(now time.Time) int {
	now = now.UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
	secs := int(midnight.Sub(now).Seconds())
	if secs < 1 {
		return 1
	}
	return secs
}
