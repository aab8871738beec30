package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"mailfloww-be/internal/dto"
	"mailfloww-be/pkg/emailsource"
)

type IFetcherService interface {
	FetchAndQueue(ctx context.Context) (*dto.FetchEmailsResponse, error)
	RunPeriodic(ctx context.Context, interval time.Duration)
}

type fetcherService struct {
	source           emailsource.EmailSource
	publisherService IPublisherService
}

func NewFetcherService(source emailsource.EmailSource, publisherService IPublisherService) IFetcherService {
	return &fetcherService{
		source:           source,
		publisherService: publisherService,
	}
}

// FetchAndQueue pulls the current batch from the backend and hands each
// email to the background embedding consumer.
func (s *fetcherService) FetchAndQueue(ctx context.Context) (*dto.FetchEmailsResponse, error) {
	emails, err := s.source.FetchNew(ctx)
	if err != nil {
		return nil, err
	}

	if len(emails) == 0 {
		return &dto.FetchEmailsResponse{
			Success: true,
			Message: "No new emails to process",
		}, nil
	}

	queued := 0
	for _, email := range emails {
		payload := dto.PublishIngestEmailMessage{
			EmailContent: email.Content,
			SenderInfo:   email.SenderInfo,
			DateTime:     email.DateTime,
			EmailId:      email.EmailID,
			Metadata:     email.Metadata,
		}
		msgJson, err := json.Marshal(payload)
		if err != nil {
			log.Printf("[ERROR] Failed to marshal email %s: %v", email.EmailID, err)
			continue
		}
		if err := s.publisherService.Publish(ctx, msgJson); err != nil {
			log.Printf("[ERROR] Failed to queue email %s: %v", email.EmailID, err)
			continue
		}
		queued++
	}

	return &dto.FetchEmailsResponse{
		Success:       true,
		EmailsFetched: len(emails),
		EmailsQueued:  queued,
		Message:       fmt.Sprintf("Successfully queued %d/%d emails", queued, len(emails)),
	}, nil
}

// RunPeriodic polls the backend on a fixed interval until ctx is cancelled.
func (s *fetcherService) RunPeriodic(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.FetchAndQueue(ctx); err != nil {
					log.Printf("[WARN] Periodic email fetch failed: %v", err)
				}
			}
		}
	}()
}
