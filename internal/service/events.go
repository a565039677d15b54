// Package service publishes reservation lifecycle events to RabbitMQ.
// Errors are logged and returned so callers can ignore failures
// without interrupting the main request flow; the booking itself has
// already committed by the time an event is published.
package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/dayeon/concert-seat-reservation/internal/queue"
)

// PublishReservationConfirmed publishes a ReservationConfirmedEvent to
// the reservation.events queue.  Messages are marked as persistent.
func PublishReservationConfirmed(ctx context.Context, event queue.ReservationConfirmedEvent) error {
	return publish(ctx, queue.Envelope{
		Type:      queue.TypeReservationConfirmed,
		Confirmed: &event,
	})
}

// PublishReservationCanceled publishes a ReservationCanceledEvent to
// the reservation.events queue.
func PublishReservationCanceled(ctx context.Context, event queue.ReservationCanceledEvent) error {
	return publish(ctx, queue.Envelope{
		Type:     queue.TypeReservationCanceled,
		Canceled: &event,
	})
}

func publish(ctx context.Context, env queue.Envelope) error {
	conn, err := amqp.Dial(queue.BrokerURL())
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive
	// broker restarts.
	if _, err := ch.QueueDeclare(
		queue.EventsQueueName, // name
		true,                  // durable
		false,                 // autoDelete
		false,                 // exclusive
		false,                 // noWait
		nil,                   // args
	); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(env)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err = ch.PublishWithContext(pubCtx, "", queue.EventsQueueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
	})
	if err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
