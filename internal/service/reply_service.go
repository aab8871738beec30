package service

import (
	"context"
	"log"

	"mailfloww-be/internal/dto"
	"mailfloww-be/internal/pkg/logger"
	"mailfloww-be/internal/pkg/mailer"
	"mailfloww-be/internal/repository/memory"
	"mailfloww-be/pkg/events"
	pktNats "mailfloww-be/pkg/nats"
	"mailfloww-be/pkg/workflow"

	"github.com/google/uuid"
)

type IReplyService interface {
	GenerateReply(ctx context.Context, req *dto.GenerateReplyRequest) (*dto.GenerateReplyResponse, error)
	SendReply(ctx context.Context, req *dto.SendReplyRequest) (*dto.SendReplyResponse, error)
	ShowRun(ctx context.Context, runId string) (*dto.ShowRunResponse, error)
}

type replyService struct {
	controller     *workflow.Controller
	runRepository  *memory.RunRepository
	emailService   mailer.IEmailService
	eventPublisher *pktNats.Publisher
	sysLogger      logger.ILogger
}

func NewReplyService(
	controller *workflow.Controller,
	runRepository *memory.RunRepository,
	emailService mailer.IEmailService,
	eventPublisher *pktNats.Publisher,
	sysLogger logger.ILogger,
) IReplyService {
	return &replyService{
		controller:     controller,
		runRepository:  runRepository,
		emailService:   emailService,
		eventPublisher: eventPublisher,
		sysLogger:      sysLogger,
	}
}

func (s *replyService) GenerateReply(ctx context.Context, req *dto.GenerateReplyRequest) (*dto.GenerateReplyResponse, error) {
	state, err := s.controller.Run(ctx, workflow.Input{
		EmailContent: req.EmailContent,
		SenderInfo:   req.SenderInfo,
		Subject:      req.Subject,
	})
	if err != nil {
		return nil, err
	}

	runId := uuid.New().String()
	s.runRepository.Save(runId, state)

	s.sysLogger.Info("reply", "Reply generated", map[string]interface{}{
		"run_id":     runId,
		"sender":     req.SenderInfo,
		"score":      state.CritiqueScore,
		"iterations": state.IterationCount,
		"accepted":   state.Accepted,
	})

	if s.eventPublisher != nil {
		evt := events.NewReplyGeneratedEvent(runId, state.CritiqueScore, state.IterationCount)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			log.Printf("[WARN] Failed to publish REPLY_GENERATED event: %v", err)
		}
	}

	return &dto.GenerateReplyResponse{
		Success:                true,
		RunId:                  runId,
		ReplyContent:           state.FinalReply,
		ConfidenceScore:        state.CritiqueScore,
		Iterations:             state.IterationCount,
		CritiqueFeedback:       state.CritiqueFeedback,
		ImprovementSuggestions: state.ImprovementSuggestions,
		ContextUsed:            state.ContextUsed(),
		SimilarEmailsFound:     len(state.RetrievedEmails),
		DocumentsFound:         len(state.RetrievedDocuments),
		ProcessingLogs:         state.AuditLog,
	}, nil
}

func (s *replyService) SendReply(ctx context.Context, req *dto.SendReplyRequest) (*dto.SendReplyResponse, error) {
	if err := s.emailService.SendReply(req.To, req.Subject, req.Body); err != nil {
		return nil, err
	}

	return &dto.SendReplyResponse{
		Status: "sent",
		To:     req.To,
	}, nil
}

func (s *replyService) ShowRun(ctx context.Context, runId string) (*dto.ShowRunResponse, error) {
	state, found := s.runRepository.Get(runId)
	if !found {
		return nil, nil
	}

	return &dto.ShowRunResponse{
		RunId:           runId,
		ReplyContent:    state.FinalReply,
		ConfidenceScore: state.CritiqueScore,
		Iterations:      state.IterationCount,
		Accepted:        state.Accepted,
		ProcessingLogs:  state.AuditLog,
	}, nil
}
