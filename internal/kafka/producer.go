package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"rail-ticketing/internal/models"
)

// Producer streams ticket lifecycle events. Publishing is best-effort: the
// booking transaction has already committed by the time an event goes out.
type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.LeastBytes{},
	}
	return &Producer{writer: writer}
}

func (p *Producer) publish(topic, key string, payload interface{}) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(context.Background(), kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
	})
}

func (p *Producer) PublishTicketBooked(ticket models.Ticket) error {
	return p.publish(TopicTicketBooked, ticket.ID, ticket)
}

func (p *Producer) PublishTicketCheckedIn(ticket models.Ticket) error {
	return p.publish(TopicTicketCheckedIn, ticket.ID, ticket)
}

func (p *Producer) PublishTicketCancelled(ticket models.Ticket) error {
	return p.publish(TopicTicketCancelled, ticket.ID, ticket)
}

func (p *Producer) PublishPaymentRecorded(payment models.Payment) error {
	return p.publish(TopicPaymentRecorded, payment.TicketID, payment)
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
