// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"log"

	"mailfloww-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub        *gochannel.GoChannel
	topicName     string
	ingestService IIngestService
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	ingestService IIngestService,
) IConsumerService {
	return &consumerService{
		pubSub:        pubSub,
		topicName:     topicName,
		ingestService: ingestService,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishIngestEmailMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Processing email embedding for EmailId: %s", payload.EmailId)

	_, err := cs.ingestService.StoreEmail(ctx, &dto.StoreEmailRequest{
		EmailContent: payload.EmailContent,
		SenderInfo:   payload.SenderInfo,
		DateTime:     payload.DateTime,
		EmailId:      payload.EmailId,
		Metadata:     payload.Metadata,
	})
	if err != nil {
		log.Printf("[ERROR] Failed to store email %s: %v", payload.EmailId, err)
		msg.Nack() // Nack for retriable errors
		return
	}

	log.Printf("[SUCCESS] Email stored: %s from %s", payload.EmailId, payload.SenderInfo)
	msg.Ack()
}
