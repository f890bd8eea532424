package main

import (
	"context"

	"github.com/milo0914/ChemPatent-Pro/internal/application/claims"
	"github.com/milo0914/ChemPatent-Pro/internal/config"
	"github.com/milo0914/ChemPatent-Pro/internal/infrastructure/database/redis"
	"github.com/milo0914/ChemPatent-Pro/internal/infrastructure/messaging/kafka"
)

// eventLocker adapts the redis Locker to the event handler's dedupe contract.
type eventLocker struct {
	locker *redis.Locker
}

func (e eventLocker) Lock(ctx context.Context, key string) (claims.EventLease, error) {
	lease, err := e.locker.TryAcquire(ctx, key)
	if err != nil {
		return nil, err
	}
	return lease, nil
}

func producerConfig(c config.KafkaConfig) kafka.ProducerConfig {
	return kafka.ProducerConfig{
		Brokers:      c.Brokers,
		ClientID:     c.ClientID,
		MaxRetries:   c.MaxRetries,
		WriteTimeout: c.WriteTimeout,
	}
}

func consumerConfig(c config.KafkaConfig) kafka.ConsumerConfig {
	return kafka.ConsumerConfig{
		Brokers: c.Brokers,
		GroupID: c.GroupID,
		Topics:  []string{c.RequestTopic},
		RetryConfig: kafka.RetryConfig{
			MaxRetries:      c.MaxRetries,
			RetryBackoff:    c.RetryBackoff,
			DeadLetterTopic: c.DeadLetterTopic,
		},
	}
}

//Personal.AI order the ending
