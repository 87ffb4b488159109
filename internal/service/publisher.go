package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/hotel-bidding/internal/queue"
)

// Publisher sends bid events to RabbitMQ.  It dials per publish, which is
// plenty for one message per bid.
type Publisher struct {
	URL   string
	Queue string
}

// NewPublisher returns a publisher for the given broker URL and queue.
func NewPublisher(url, queueName string) *Publisher {
	if queueName == "" {
		queueName = queue.DefaultQueue
	}
	return &Publisher{URL: url, Queue: queueName}
}

// Publish marshals ev and publishes it to the queue as a persistent message.
func (p *Publisher) Publish(ctx context.Context, ev queue.BidDecidedEvent) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		p.Queue, // name
		true,    // durable
		false,   // autoDelete
		false,   // exclusive
		false,   // noWait
		nil,     // args
	); err != nil {
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return ch.PublishWithContext(ctx,
		"",      // default exchange
		p.Queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			MessageId:    ev.BidID,
			Body:         body,
		},
	)
}
