package kafka

import (
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	TopicTicketBooked    = "rail.ticket.booked"
	TopicTicketCheckedIn = "rail.ticket.checked_in"
	TopicTicketCancelled = "rail.ticket.cancelled"
	TopicPaymentRecorded = "rail.payment.recorded"
)

func AllTopics() []string {
	return []string{
		TopicTicketBooked,
		TopicTicketCheckedIn,
		TopicTicketCancelled,
		TopicPaymentRecorded,
	}
}

// EnsureTopicsExist creates the given topics on the cluster if missing.
func EnsureTopicsExist(brokers []string, topics []string) error {
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return err
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return err
	}
	controllerConn, err := kafka.Dial("tcp", controller.Host)
	if err != nil {
		return err
	}
	defer controllerConn.Close()

	for _, topic := range topics {
		topicConfigs := []kafka.TopicConfig{
			{
				Topic:             topic,
				NumPartitions:     1,
				ReplicationFactor: 1,
			},
		}

		if err := controllerConn.CreateTopics(topicConfigs...); err != nil {
			if err.Error() == "kafka server: topic already exists" {
				continue
			}
			log.Printf("Error creating topic %s: %v", topic, err)
		}
	}

	// Give the cluster a moment to propagate metadata.
	time.Sleep(1 * time.Second)
	return nil
}
