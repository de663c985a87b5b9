package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/rwagency/intent-agent/internal/entity"
)

const ChannelLinkedIn = "LINKEDIN"

// OutreachPayload is the delivery order placed on the durable queue once the
// campaign runner claims a lead.
type OutreachPayload struct {
	LeadID      string `json:"lead_id"`
	FullName    string `json:"full_name"`
	LinkedInURL string `json:"linkedin_url"`
	Company     string `json:"company"`
	Channel     string `json:"channel"`
	Message     string `json:"message"`
}

type RabbitMQProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{
		Conn: conn,
		Ch:   ch,
	}
}

// Dispatch implements the runner's delivery hand-off: publishing to the
// durable queue is the commit point, the worker takes it from there.
func (p *RabbitMQProducer) Dispatch(ctx context.Context, lead *entity.Lead) error {
	message := ""
	if lead.AIMessage != nil {
		message = *lead.AIMessage
	}

	payload := OutreachPayload{
		LeadID:      lead.ID,
		FullName:    lead.FullName,
		LinkedInURL: lead.LinkedInURL,
		Company:     lead.Company,
		Channel:     ChannelLinkedIn,
		Message:     message,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erro ao converter payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent, // Mensagem salva no disco
		},
	)
	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %w", err)
	}

	return nil
}
