package services

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// Log is the logging surface the services need.
type Log interface {
	Info(string, ...zap.Field)
	Warn(string, ...zap.Field)
	Error(string, ...zap.Field)
}

// EventPublisher delivers change events. It is optional; a nil publisher
// disables events.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// publishEvent sends a change event. Failures are logged and never returned,
// the mutation has already been committed.
func publishEvent(events EventPublisher, log Log, routingKey string, id int64, data interface{}) {
	if events == nil {
		return
	}
	body, err := json.Marshal(map[string]interface{}{
		"event": routingKey,
		"id":    id,
		"data":  data,
		"at":    time.Now().UTC(),
	})
	if err != nil {
		log.Warn("Failed to marshal event", zap.String("event", routingKey), zap.Error(err))
		return
	}
	if err := events.Publish(routingKey, body); err != nil {
		log.Warn("Failed to publish event", zap.String("event", routingKey), zap.Int64("id", id), zap.Error(err))
		return
	}
	log.Info("Published event", zap.String("event", routingKey), zap.Int64("id", id))
}
