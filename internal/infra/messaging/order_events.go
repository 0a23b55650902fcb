package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"neighborhub/internal/domain/model"
)

type OrderEventType string

const (
	OrderCreated       OrderEventType = "order.created"
	OrderStatusChanged OrderEventType = "order.status_changed"
)

// 店側の通知などが購読するイベント
type OrderEvent struct {
	Type       OrderEventType    `json:"type"`
	OrderID    int64             `json:"id_pedido"`
	UserID     int64             `json:"id_usuario"`
	StoreID    int64             `json:"id_tienda"`
	Status     model.OrderStatus `json:"estado"`
	PrevStatus model.OrderStatus `json:"estado_anterior,omitempty"`
	Total      string            `json:"total"`
	OccurredAt time.Time         `json:"occurred_at"`
}

func NewOrderEvent(t OrderEventType, o model.Order, prev model.OrderStatus, now time.Time) OrderEvent {
	return OrderEvent{
		Type:       t,
		OrderID:    o.ID,
		UserID:     o.UserID,
		StoreID:    o.StoreID,
		Status:     o.Status,
		PrevStatus: prev,
		Total:      o.Total.StringFixed(2),
		OccurredAt: now,
	}
}

type OrderEventPublisher interface {
	Publish(ctx context.Context, ev OrderEvent) error
}

// messageWriterは*kafka.Writerのうち使う部分だけ
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaOrderPublisher struct {
	w messageWriter
}

func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
	}
}

func NewKafkaOrderPublisher(w messageWriter) *KafkaOrderPublisher {
	return &KafkaOrderPublisher{w: w}
}

// 同じ注文のイベントは同じパーティションに入るよう、キーは店舗IDにする
func (p *KafkaOrderPublisher) Publish(ctx context.Context, ev OrderEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("store-%d", ev.StoreID)),
		Value: body,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(ev.Type)},
		},
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write %s: %w", ev.Type, err)
	}
	return nil
}

func (p *KafkaOrderPublisher) Close() error { return p.w.Close() }

// KAFKA_BROKERS未設定のとき用
type NoopOrderPublisher struct{}

func (NoopOrderPublisher) Publish(context.Context, OrderEvent) error { return nil }
