package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"mailfloww-be/internal/dto"
	"mailfloww-be/pkg/events"
	pktNats "mailfloww-be/pkg/nats"
	"mailfloww-be/pkg/retrieval"
	"mailfloww-be/pkg/utils"
)

type IIngestService interface {
	StoreEmail(ctx context.Context, req *dto.StoreEmailRequest) (*dto.StoreEmailResponse, error)
	ProcessDocument(ctx context.Context, filename string, content []byte) (*dto.ProcessDocumentResponse, error)
	Stats(ctx context.Context) (*dto.IngestStatsResponse, error)
}

type ingestService struct {
	emailIndex     *retrieval.EmailIndex
	documentIndex  *retrieval.DocumentIndex
	eventPublisher *pktNats.Publisher
}

func NewIngestService(
	emailIndex *retrieval.EmailIndex,
	documentIndex *retrieval.DocumentIndex,
	eventPublisher *pktNats.Publisher,
) IIngestService {
	return &ingestService{
		emailIndex:     emailIndex,
		documentIndex:  documentIndex,
		eventPublisher: eventPublisher,
	}
}

func (s *ingestService) StoreEmail(ctx context.Context, req *dto.StoreEmailRequest) (*dto.StoreEmailResponse, error) {
	if strings.TrimSpace(req.EmailContent) == "" {
		return nil, fmt.Errorf("email %s has empty content", req.EmailId)
	}

	sentAt := parseDateTime(req.DateTime)

	err := s.emailIndex.Add(ctx, retrieval.EmailInput{
		EmailId:  req.EmailId,
		Content:  req.EmailContent,
		Sender:   req.SenderInfo,
		SentAt:   sentAt,
		Metadata: req.Metadata,
	})
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		evt := events.NewEmailIngestedEvent(req.EmailId, req.SenderInfo)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			log.Printf("[WARN] Failed to publish EMAIL_INGESTED event: %v", err)
		}
	}

	return &dto.StoreEmailResponse{
		Status:  "stored",
		EmailId: req.EmailId,
		Sender:  req.SenderInfo,
	}, nil
}

func (s *ingestService) ProcessDocument(ctx context.Context, filename string, content []byte) (*dto.ProcessDocumentResponse, error) {
	paragraphs := utils.SplitParagraphs(string(content))
	if len(paragraphs) == 0 {
		return nil, fmt.Errorf("document %s has no usable content", filename)
	}

	if err := s.documentIndex.AddDocument(ctx, filename, filename, paragraphs); err != nil {
		return nil, err
	}

	total, err := s.documentIndex.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.ProcessDocumentResponse{
		Status:         "processed",
		Filename:       filename,
		TotalDocuments: int(total),
	}, nil
}

func (s *ingestService) Stats(ctx context.Context) (*dto.IngestStatsResponse, error) {
	emailCount, err := s.emailIndex.Count(ctx)
	if err != nil {
		return nil, err
	}

	docCount, err := s.documentIndex.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.IngestStatsResponse{
		EmailCount:    emailCount,
		DocumentCount: docCount,
	}, nil
}

// parseDateTime tolerates the timestamp formats the backend has produced.
// Anything unparseable falls back to the current time.
func parseDateTime(raw string) time.Time {
	if raw == "" {
		return time.Now()
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts
		}
	}
	return time.Now()
}
