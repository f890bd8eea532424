package claims

import (
	"context"
	"fmt"
	"time"

	"github.com/milo0914/ChemPatent-Pro/internal/infrastructure/messaging/kafka"
	"github.com/milo0914/ChemPatent-Pro/internal/infrastructure/monitoring/logging"
	"github.com/milo0914/ChemPatent-Pro/pkg/errors"
	"github.com/milo0914/ChemPatent-Pro/pkg/types/patent"
)

// DefaultDedupeWindow is how long a processed event ID is remembered.
const DefaultDedupeWindow = 24 * time.Hour

// EventPublisher publishes an envelope-wrapped payload.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, eventType, correlationID string, payload interface{}) error
}

// EventLease is held while one event is processed.
type EventLease interface {
	Release(ctx context.Context) error
	Extend(ctx context.Context, ttl time.Duration) error
}

// EventLocker grants at most one lease per key.  A key that is already held
// must be reported with a Conflict-coded error.
type EventLocker interface {
	Lock(ctx context.Context, key string) (EventLease, error)
}

// EventHandler turns analysis request events into completed events.
type EventHandler struct {
	svc            Service
	publisher      EventPublisher
	locker         EventLocker
	completedTopic string
	dedupeWindow   time.Duration
	logger         logging.Logger
}

// NewEventHandler builds the worker handler.  locker may be nil, in which
// case redelivered events are analysed again.
func NewEventHandler(svc Service, publisher EventPublisher, locker EventLocker, completedTopic string, logger logging.Logger) *EventHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if completedTopic == "" {
		completedTopic = kafka.TopicAnalysisCompleted
	}
	return &EventHandler{
		svc:            svc,
		publisher:      publisher,
		locker:         locker,
		completedTopic: completedTopic,
		dedupeWindow:   DefaultDedupeWindow,
		logger:         logger,
	}
}

// HandleAnalysisRequested processes one claims.analysis.requested message.
// Request errors are answered with a failed completed event; only
// infrastructure failures are returned for retry.
func (h *EventHandler) HandleAnalysisRequested(ctx context.Context, msg *kafka.Message) error {
	env, err := kafka.MessageToEventEnvelope(msg)
	if err != nil {
		return err
	}
	var ev patent.AnalysisRequestedEvent
	if err := env.DecodePayload(&ev); err != nil {
		return err
	}
	correlationID := env.CorrelationID
	if correlationID == "" {
		correlationID = ev.AggregateID()
	}
	log := h.logger.With(
		logging.String("event_id", env.EventID),
		logging.String("correlation_id", correlationID))

	var lease EventLease
	if h.locker != nil {
		lease, err = h.locker.Lock(ctx, leaseKey(env, msg))
		if err != nil {
			if errors.IsCode(err, errors.ErrCodeConflict) {
				log.Info("duplicate analysis request skipped")
				return nil
			}
			return err
		}
	}

	completed, procErr := h.process(ctx, correlationID, ev.Request, log)
	if procErr == nil {
		procErr = h.publisher.PublishEvent(ctx, h.completedTopic, patent.EventAnalysisCompleted, correlationID, completed)
	}

	if lease != nil {
		if procErr != nil {
			if err := lease.Release(ctx); err != nil {
				log.Warn("failed to release event lease", logging.Err(err))
			}
		} else if err := lease.Extend(ctx, h.dedupeWindow); err != nil {
			log.Warn("failed to extend event lease", logging.Err(err))
		}
	}
	return procErr
}

// leaseKey identifies one event for deduplication.  Envelopes without an
// event ID fall back to the record position, so a redelivery still collides
// while distinct records never do.
func leaseKey(env *kafka.EventEnvelope, msg *kafka.Message) string {
	if env.EventID != "" {
		return "event:" + env.EventID
	}
	return fmt.Sprintf("record:%s/%d/%d", msg.Topic, msg.Partition, msg.Offset)
}

func (h *EventHandler) process(ctx context.Context, correlationID string, req patent.AnalyzeRequest, log logging.Logger) (patent.AnalysisCompletedEvent, error) {
	res, err := h.svc.Analyze(ctx, req)
	if err == nil {
		return patent.NewAnalysisCompletedEvent(correlationID, res), nil
	}
	code := errors.GetCode(err)
	if !errors.IsClientError(code) {
		return patent.AnalysisCompletedEvent{}, err
	}
	log.Info("analysis request rejected", logging.String("code", string(code)), logging.Err(err))
	detail := ToErrorDetail(err)
	return patent.NewAnalysisFailedEvent(correlationID, detail.Code, detail.Message), nil
}

//Personal.AI order the ending
