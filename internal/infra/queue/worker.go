package queue

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/rwagency/intent-agent/internal/infra/http/middleware"
)

// OperatorNotifier delivers the drafted message to the operator's inbox.
// LinkedIn has no public messaging API, so outreach runs in assist mode:
// the operator gets the ready-to-send copy by email.
type OperatorNotifier interface {
	SendOutreachCopy(leadName, company, linkedinURL, message string) error
}

type Worker struct {
	Channel  *amqp.Channel
	Notifier OperatorNotifier
}

func NewWorker(ch *amqp.Channel, notifier OperatorNotifier) *Worker {
	return &Worker{
		Channel:  ch,
		Notifier: notifier,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName, // fila
		"",        // consumer
		false,     // auto-ack (manual é mais seguro)
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		log.Fatalf("❌ Falha ao registrar consumidor RabbitMQ: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload OutreachPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("❌ [WORKER] JSON Inválido: %s", err)
				// Mensagem podre (malformada). Rejeita sem requeue para não travar a fila.
				d.Nack(false, false)
				continue
			}

			log.Printf("📥 [WORKER] Entrega de outreach para %s (%s)", payload.FullName, payload.Channel)

			if err := w.processMessage(context.Background(), payload); err != nil {
				log.Printf("❌ [WORKER] Erro na entrega: %s", err)
				middleware.RecordIntegrationError("outreach")
				// Nack sem requeue: a mensagem vai para a DLQ em vez de travar a fila.
				d.Nack(false, false)
			} else {
				middleware.RecordOutreachDelivered(payload.Channel)
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] Worker rodando e aguardando na fila '%s'", queueName)
	<-forever
}

func (w *Worker) processMessage(ctx context.Context, payload OutreachPayload) error {
	switch payload.Channel {
	case ChannelLinkedIn:
		return w.Notifier.SendOutreachCopy(
			payload.FullName,
			payload.Company,
			payload.LinkedInURL,
			payload.Message,
		)

	default:
		log.Printf("⚠️ Canal desconhecido: %s. Apenas logando.", payload.Channel)
		// Ack para tirar a mensagem da fila, já que não sabemos tratar.
		return nil
	}
}
