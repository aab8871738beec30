package workflow

import (
	"context"
	"fmt"
	"log"
	"strings"

	"mailfloww-be/pkg/retrieval"
)

const (
	defaultEmailTopK    = 10
	defaultDocumentTopK = 5

	noPersonalContextPlaceholder = "No previous emails from this customer."
	noBusinessContextPlaceholder = "No relevant business context found."
	noDocContextPlaceholder      = "No relevant company policies found."

	personalContextError = "Error retrieving personal context."
	businessContextError = "Error retrieving business context."
	docContextError      = "Error retrieving document context."
)

// ContextAssembler retrieves and partitions the context for one inbound email.
// It is the single enforcement point of the privacy partition: a match from
// the requesting sender goes into the personal block, every other match goes
// into the business block labeled as cross-customer material. No match ever
// appears in both.
type ContextAssembler struct {
	emailIndex retrieval.Index
	docIndex   retrieval.Index
	emailTopK  int
	docTopK    int
	logger     *log.Logger
}

func NewContextAssembler(emailIndex, docIndex retrieval.Index, logger *log.Logger) *ContextAssembler {
	return &ContextAssembler{
		emailIndex: emailIndex,
		docIndex:   docIndex,
		emailTopK:  defaultEmailTopK,
		docTopK:    defaultDocumentTopK,
		logger:     logger,
	}
}

// WithLimits overrides the default retrieval depths. Zero keeps the default.
func (a *ContextAssembler) WithLimits(emailTopK, docTopK int) *ContextAssembler {
	if emailTopK > 0 {
		a.emailTopK = emailTopK
	}
	if docTopK > 0 {
		a.docTopK = docTopK
	}
	return a
}

// Assemble queries both indices once and fills the retrieval section of the
// state. Index failures degrade that block to a placeholder and an audit
// entry; Assemble itself never fails the run.
func (a *ContextAssembler) Assemble(ctx context.Context, s *State) {
	var emailsFailed, docsFailed bool

	emailMatches, err := a.emailIndex.Query(ctx, s.EmailContent, a.emailTopK)
	if err != nil {
		a.logger.Printf("[ERROR] Email retrieval failed: %v", err)
		s.appendLog(fmt.Sprintf("Retrieval error (emails): %v", err))
		emailMatches = nil
		emailsFailed = true
	}

	docMatches, err := a.docIndex.Query(ctx, s.EmailContent, a.docTopK)
	if err != nil {
		a.logger.Printf("[ERROR] Document retrieval failed: %v", err)
		s.appendLog(fmt.Sprintf("Retrieval error (documents): %v", err))
		docMatches = nil
		docsFailed = true
	}

	var personal, business []string
	for _, match := range emailMatches {
		sender, _ := match.Metadata["sender_info"].(string)
		if sender == s.SenderInfo {
			personal = append(personal, "Previous email: "+match.Content)
		} else {
			// Cross-customer material is always labeled so the generator can
			// tell it apart from the requester's own history.
			business = append(business, "Business context: "+match.Content)
		}
	}

	var docs []string
	for _, match := range docMatches {
		docs = append(docs, "Company policy: "+match.Content)
	}

	s.RetrievedEmails = emailMatches
	s.RetrievedDocuments = docMatches

	s.PersonalContext = joinOrPlaceholder(personal, noPersonalContextPlaceholder)
	s.BusinessContext = joinOrPlaceholder(business, noBusinessContextPlaceholder)
	s.DocContext = joinOrPlaceholder(docs, noDocContextPlaceholder)
	if emailsFailed {
		s.PersonalContext = personalContextError
		s.BusinessContext = businessContextError
	}
	if docsFailed {
		s.DocContext = docContextError
	}

	s.appendLog(fmt.Sprintf("Retrieved %d emails and %d documents", len(emailMatches), len(docMatches)))
	a.logger.Printf("[RETRIEVAL] %d emails (%d personal, %d business), %d documents",
		len(emailMatches), len(personal), len(business), len(docMatches))
}

func joinOrPlaceholder(blocks []string, placeholder string) string {
	if len(blocks) == 0 {
		return placeholder
	}
	return strings.Join(blocks, "\n\n")
}
