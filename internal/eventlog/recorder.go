// Package eventlog records queue actions. Recording is best effort: nothing here
// returns an error to the caller, and a failing sink never aborts the operation
// that produced the event.
package eventlog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"queuewise/internal/metrics"
	"queuewise/internal/models"
	"queuewise/internal/rules"
	"queuewise/internal/trace"
)

type appender interface {
	AppendEvent(ctx context.Context, event *models.QueueEvent) error
}

// Publisher mirrors recorded events to an external stream.
type Publisher interface {
	Publish(ctx context.Context, event models.QueueEvent) error
}

type Recorder struct {
	store     appender
	publisher Publisher
	logger    *logrus.Logger
	now       func() time.Time
}

// NewRecorder builds a recorder; publisher may be nil.
func NewRecorder(store appender, publisher Publisher, logger *logrus.Logger) *Recorder {
	return &Recorder{
		store:     store,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (r *Recorder) Success(ctx context.Context, queueID uint, action string, detail map[string]interface{}) {
	r.record(ctx, queueID, action, models.ResultSuccess, "", detail)
}

func (r *Recorder) Blocked(ctx context.Context, queueID uint, action string, v *rules.Violation, dryRun bool) {
	detail := map[string]interface{}{
		"reason":    v.Reason,
		"rule_code": string(v.Code),
	}
	if dryRun {
		detail["dry_run"] = true
	}
	r.record(ctx, queueID, action, models.ResultBlocked, string(v.Code), detail)
}

func (r *Recorder) record(ctx context.Context, queueID uint, action, result, code string, detail map[string]interface{}) {
	defer func() {
		if p := recover(); p != nil {
			metrics.EventAppendFailures.Inc()
			r.logger.WithContext(ctx).WithField("panic", p).Error("event recording panicked")
		}
	}()

	requestID := trace.RequestID(ctx)
	metrics.RuleOutcomes.WithLabelValues(action, result, code).Inc()

	fields := logrus.Fields{
		"request_id": requestID,
		"queue_id":   queueID,
		"action":     action,
		"result":     result,
	}
	for k, v := range detail {
		fields[k] = v
	}
	r.logger.WithContext(ctx).WithFields(fields).Info("queue event")

	event := models.QueueEvent{
		QueueID:   queueID,
		Action:    action,
		Result:    result,
		RequestID: requestID,
		CreatedAt: r.now(),
	}
	if len(detail) > 0 {
		if raw, err := json.Marshal(detail); err == nil {
			event.Detail = datatypes.JSON(raw)
		}
	}

	if err := r.store.AppendEvent(ctx, &event); err != nil {
		metrics.EventAppendFailures.Inc()
		r.logger.WithContext(ctx).WithError(err).WithFields(fields).Warn("failed to persist queue event")
	}

	if r.publisher != nil {
		if err := r.publisher.Publish(ctx, event); err != nil {
			metrics.EventAppendFailures.Inc()
			r.logger.WithContext(ctx).WithError(err).WithFields(fields).Warn("failed to publish queue event")
		}
	}
}
