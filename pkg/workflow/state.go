package workflow

import (
	"mailfloww-be/pkg/retrieval"
)

// Input is the immutable request that starts one workflow run.
type Input struct {
	EmailContent string
	SenderInfo   string
	Subject      string
}

// State is the single mutable object threaded through one run. It is owned
// exclusively by that run; nothing here is safe for concurrent mutation and
// nothing needs to be.
type State struct {
	// Inputs, fixed for the run
	EmailContent string
	SenderInfo   string
	Subject      string

	// Retrieval results, fixed after the Retrieving stage
	RetrievedEmails    []retrieval.Match
	RetrievedDocuments []retrieval.Match
	PersonalContext    string
	BusinessContext    string
	DocContext         string

	// Generation results of the latest round
	DraftReply         string
	GenerationMetadata map[string]interface{}

	// Critique results of the latest round
	CritiqueFeedback       string
	CritiqueScore          float64
	Accepted               bool
	ImprovementSuggestions []string

	// Loop control
	IterationCount int

	// Set exactly once, at finalization
	FinalReply string

	// Append-only; entries are never removed or reset mid-run
	AuditLog []string
}

func newState(input Input) *State {
	return &State{
		EmailContent: input.EmailContent,
		SenderInfo:   input.SenderInfo,
		Subject:      input.Subject,
		AuditLog:     []string{"Workflow started"},
	}
}

func (s *State) appendLog(entry string) {
	s.AuditLog = append(s.AuditLog, entry)
}

// ContextUsed reports whether any retrieval result reached the generator.
func (s *State) ContextUsed() bool {
	return len(s.RetrievedEmails)+len(s.RetrievedDocuments) > 0
}
