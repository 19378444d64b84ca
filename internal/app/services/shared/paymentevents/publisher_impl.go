package paymentevents

import (
	"context"
	"sync"

	"paybridge-service/internal/app/contracts"

	"github.com/goccy/go-json"
	"github.com/rabbitmq/amqp091-go"

	"paybridge-service/internal/pkg/constvars"
	"paybridge-service/internal/pkg/exceptions"
)

type rabbitMQPublisher struct {
	Connection *amqp091.Connection
	QueueName  string
}

var (
	rabbitMQPublisherInstance contracts.PaymentEventPublisher
	onceRabbitMQPublisher     sync.Once
)

func NewRabbitMQPublisher(connection *amqp091.Connection, queueName string) contracts.PaymentEventPublisher {
	onceRabbitMQPublisher.Do(func() {
		rabbitMQPublisherInstance = &rabbitMQPublisher{
			Connection: connection,
			QueueName:  queueName,
		}
	})
	return rabbitMQPublisherInstance
}

func (p *rabbitMQPublisher) Publish(ctx context.Context, event *contracts.PaymentEvent) error {
	channel, err := p.Connection.Channel()
	if err != nil {
		return exceptions.ErrQueuePublish(err)
	}
	defer channel.Close()

	queue, err := channel.QueueDeclare(p.QueueName, true, false, false, false, nil)
	if err != nil {
		return exceptions.ErrQueuePublish(err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return exceptions.ErrQueuePublish(err)
	}

	err = channel.PublishWithContext(ctx, "", queue.Name, false, false, amqp091.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		DeliveryMode: amqp091.Persistent,
		Body:         body,
	})
	if err != nil {
		return exceptions.ErrQueuePublish(err)
	}
	return nil
}
