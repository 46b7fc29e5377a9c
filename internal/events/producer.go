package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/KanujanS/LMS/internal/model"
)

// EnrollmentCompleted is published after a purchase is reconciled and the
// enrollment sets are committed. Downstream consumers (notifications,
// analytics) key on the purchase id.
type EnrollmentCompleted struct {
	PurchaseId  string    `json:"purchase_id"`
	UserId      string    `json:"user_id"`
	CourseId    string    `json:"course_id"`
	Amount      float64   `json:"amount"`
	CompletedAt time.Time `json:"completed_at"`
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	return &Producer{writer: writer}
}

func (p *Producer) SendEnrollmentCompleted(ctx context.Context, purchase *model.Purchase) error {
	event := EnrollmentCompleted{
		PurchaseId:  purchase.Id.String(),
		UserId:      purchase.UserId.String(),
		CourseId:    purchase.CourseId.String(),
		Amount:      purchase.Amount,
		CompletedAt: time.Now().UTC(),
	}
	if purchase.CompletedAt != nil {
		event.CompletedAt = *purchase.CompletedAt
	}

	msgBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.PurchaseId),
		Value: msgBytes,
	})
	if err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
