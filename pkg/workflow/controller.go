package workflow

import (
	"context"
	"fmt"
	"log"
)

// Stage is one state of the reply workflow. The topology is fixed:
//
//	Start → Retrieving → Drafting → Critiquing → {Drafting | Finalizing} → Done
//
// Retrieval runs exactly once per request; the draft/critique loop is bounded
// by two independent caps.
type Stage int

const (
	StageStart Stage = iota
	StageRetrieving
	StageDrafting
	StageCritiquing
	StageFinalizing
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageStart:
		return "start"
	case StageRetrieving:
		return "retrieving"
	case StageDrafting:
		return "drafting"
	case StageCritiquing:
		return "critiquing"
	case StageFinalizing:
		return "finalizing"
	case StageDone:
		return "done"
	default:
		return "unknown"
	}
}

const (
	// Absolute ceiling on draft/critique rounds, applied regardless of
	// acceptance. Protects against a misbehaving critic.
	hardIterationCap = 3

	// After this many rounds the current draft is accepted even below the
	// score threshold. Intentional policy: round two always ships.
	softIterationCap = 2

	acceptanceThreshold = 0.75
)

// Controller drives one request through the staged workflow. It owns the
// accept/reject decision and both iteration caps; the stage components only
// fill their sections of the state.
type Controller struct {
	assembler *ContextAssembler
	drafter   *Drafter
	critic    *Critic
	logger    *log.Logger
}

func NewController(assembler *ContextAssembler, drafter *Drafter, critic *Critic, logger *log.Logger) *Controller {
	return &Controller{
		assembler: assembler,
		drafter:   drafter,
		critic:    critic,
		logger:    logger,
	}
}

// Run processes one inbound email to completion. Stage failures are absorbed
// into the state (fallback draft, default-accepted critique); the only error
// Run returns is context cancellation. On normal return the state is Done:
// FinalReply is set and IterationCount is in {1,2,3}.
func (c *Controller) Run(ctx context.Context, input Input) (*State, error) {
	s := newState(input)
	stage := StageRetrieving

	c.logger.Printf("[WORKFLOW] Starting run for sender %s", input.SenderInfo)

	for stage != StageDone {
		if err := ctx.Err(); err != nil {
			s.appendLog(fmt.Sprintf("Workflow cancelled at stage %s: %v", stage, err))
			return s, err
		}

		switch stage {
		case StageRetrieving:
			c.assembler.Assemble(ctx, s)
			stage = StageDrafting

		case StageDrafting:
			c.drafter.Draft(ctx, s)
			s.IterationCount++
			c.logger.Printf("[WORKFLOW] Draft completed, iteration %d", s.IterationCount)
			stage = StageCritiquing

		case StageCritiquing:
			if err := c.critic.Critique(ctx, s); err != nil {
				// The workflow never aborts once a draft exists: a failed
				// critique accepts the current draft by default.
				c.logger.Printf("[ERROR] Critique failed, accepting current draft: %v", err)
				s.appendLog(fmt.Sprintf("Critique error: %v", err))
				s.CritiqueFeedback = fmt.Sprintf("Error in critique: %v", err)
				s.CritiqueScore = defaultCritiqueScore
				s.ImprovementSuggestions = nil
				s.Accepted = true
				stage = StageFinalizing
				break
			}

			s.Accepted = s.CritiqueScore > acceptanceThreshold
			stage = c.nextAfterCritique(s)

		case StageFinalizing:
			s.FinalReply = s.DraftReply
			s.appendLog(fmt.Sprintf("Workflow completed after %d iterations (score: %.2f)",
				s.IterationCount, s.CritiqueScore))
			c.logger.Printf("[WORKFLOW] Completed: iterations=%d, score=%.2f, accepted=%t",
				s.IterationCount, s.CritiqueScore, s.Accepted)
			stage = StageDone
		}
	}

	return s, nil
}

// nextAfterCritique decides the conditional edge out of Critiquing.
func (c *Controller) nextAfterCritique(s *State) Stage {
	// Hard cap first: an absolute ceiling independent of acceptance.
	if s.IterationCount >= hardIterationCap {
		s.appendLog(fmt.Sprintf("Iteration cap reached (score: %.2f)", s.CritiqueScore))
		return StageFinalizing
	}

	if s.Accepted || s.IterationCount >= softIterationCap {
		s.Accepted = true
		s.appendLog(fmt.Sprintf("Response approved after %d iterations (score: %.2f)",
			s.IterationCount, s.CritiqueScore))
		return StageFinalizing
	}

	s.appendLog(fmt.Sprintf("Response needs improvement (score: %.2f)", s.CritiqueScore))
	return StageDrafting
}
