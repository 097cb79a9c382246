package kafka

import "rail-ticketing/internal/models"

// NoopProducer satisfies the booking event publisher when Kafka is disabled.
type NoopProducer struct{}

func (NoopProducer) PublishTicketBooked(models.Ticket) error     { return nil }
func (NoopProducer) PublishTicketCheckedIn(models.Ticket) error  { return nil }
func (NoopProducer) PublishTicketCancelled(models.Ticket) error  { return nil }
func (NoopProducer) PublishPaymentRecorded(models.Payment) error { return nil }
