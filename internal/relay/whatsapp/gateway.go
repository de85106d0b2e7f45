package whatsapp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	order "github.com/dmehra2102/pizzeria-ordering/internal/order/domain"
	"github.com/dmehra2102/pizzeria-ordering/pkg/tracing"
)

const EventRelayLink = "OrderRelayLink"

type Publisher interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// RelayLink is what the merchant-facing notifier receives.
type RelayLink struct {
	OrderID string `json:"order_id"`
	Phone   string `json:"phone"`
	Link    string `json:"link"`
	Text    string `json:"text"`
}

// Gateway hands order summaries to the merchant as WhatsApp links. Links are
// published to topic; without a publisher they are only logged.
type Gateway struct {
	log    *slog.Logger
	pub    Publisher
	topic  string
	tracer trace.Tracer
}

func NewGateway(log *slog.Logger, pub Publisher, topic string) *Gateway {
	return &Gateway{log: log, pub: pub, topic: topic, tracer: otel.Tracer("whatsapp-relay")}
}

func (g *Gateway) Notify(ctx context.Context, o order.Order, m order.Merchant) error {
	ctx, span := g.tracer.Start(ctx, "relay.Notify")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", o.ID))

	text := FormatMessage(o, m.Name)
	link, err := Link(m.Phone, text)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if g.pub == nil {
		g.log.Info("order relay link", "order_id", o.ID, "link", link)
		return nil
	}

	payload, err := json.Marshal(RelayLink{OrderID: o.ID, Phone: m.Phone, Link: link, Text: text})
	if err != nil {
		return fmt.Errorf("encode relay link: %w", err)
	}
	msg := kafka.Message{
		Topic: g.topic,
		Key:   []byte(o.ID),
		Value: payload,
		Headers: tracing.InjectKafkaHeaders(ctx, []kafka.Header{
			{Key: "event_type", Value: []byte(EventRelayLink)},
		}),
	}
	if err := g.pub.WriteMessages(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("publish relay link: %w", err)
	}
	g.log.Debug("order relay link published", "order_id", o.ID, "topic", g.topic)
	return nil
}
