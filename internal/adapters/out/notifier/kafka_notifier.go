// Package notifier delivers issued pass codes to the recipient's channel.
// KafkaPassNotifier publishes PassIssued events for the SMS gateway;
// LogPassNotifier writes them to the log for local runs.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"parcellocker/internal/core/ports"

	"github.com/segmentio/kafka-go"
)

const DefaultPassIssuedTopic = "parcel.pass-issued"

// MessageWriter is the part of *kafka.Writer the notifier uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// PassIssuedMessage is the JSON value of a PassIssued event.
type PassIssuedMessage struct {
	ParcelID         string    `json:"parcelId"`
	TrackingNumber   string    `json:"trackingNumber"`
	RecipientContact string    `json:"recipientContact"`
	LockerNumber     string    `json:"lockerNumber"`
	Code             string    `json:"code"`
	ExpiresAt        time.Time `json:"expiresAt"`
}

// KafkaPassNotifier implements ports.PassNotifier. Messages are keyed by
// parcel id so all events of a parcel land on one partition in order.
type KafkaPassNotifier struct {
	writer MessageWriter
}

// NewKafkaPassNotifier creates a synchronous writer for topic.
func NewKafkaPassNotifier(brokers []string, topic string) *KafkaPassNotifier {
	if topic == "" {
		topic = DefaultPassIssuedTopic
	}

	return NewKafkaPassNotifierWithWriter(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		WriteTimeout:           5 * time.Second,
		AllowAutoTopicCreation: true,
	})
}

func NewKafkaPassNotifierWithWriter(writer MessageWriter) *KafkaPassNotifier {
	return &KafkaPassNotifier{writer: writer}
}

func (n *KafkaPassNotifier) NotifyPassIssued(ctx context.Context, event ports.PassIssuedEvent) error {
	value, err := json.Marshal(PassIssuedMessage{
		ParcelID:         event.ParcelID.String(),
		TrackingNumber:   event.TrackingNumber,
		RecipientContact: event.RecipientContact,
		LockerNumber:     event.LockerNumber,
		Code:             event.Code,
		ExpiresAt:        event.ExpiresAt.UTC(),
	})
	if err != nil {
		return err
	}

	err = n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.ParcelID.String()),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte("PassIssued")},
		},
	})
	if err != nil {
		return fmt.Errorf("publish pass issued for parcel %s: %w", event.ParcelID, err)
	}

	return nil
}

// Close flushes and closes the writer.
func (n *KafkaPassNotifier) Close() error {
	return n.writer.Close()
}
