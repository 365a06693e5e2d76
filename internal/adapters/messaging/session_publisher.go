package messaging

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/AchilleasB/academy-portal/portal-client/internal/core/domain"
	"github.com/AchilleasB/academy-portal/portal-client/internal/core/ports"
)

var _ ports.SessionEventPublisher = (*RabbitMQBroker)(nil)

func (rmq *RabbitMQBroker) PublishSessionEvent(ctx context.Context, evt domain.SessionEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	// Respect context deadline
	if deadline, ok := ctx.Deadline(); ok {
		if time.Until(deadline) <= 0 {
			return ctx.Err()
		}
	}

	_, err = rmq.cb.Execute(func() (interface{}, error) {
		err := rmq.ch.PublishWithContext(
			ctx,
			"",            // exchange (default)
			rmq.queueName, // routing key == queue name
			false,         // mandatory
			false,         // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				Type:         string(evt.Type),
				Timestamp:    evt.OccurredAt,
				Body:         body,
			},
		)
		return nil, err
	})
	return err
}
