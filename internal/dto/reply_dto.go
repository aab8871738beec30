package dto

type GenerateReplyRequest struct {
	EmailContent string `json:"email_content" validate:"required"`
	SenderInfo   string `json:"sender_info" validate:"required,email"`
	Subject      string `json:"subject"`
}

type GenerateReplyResponse struct {
	Success                bool     `json:"success"`
	RunId                  string   `json:"run_id"`
	ReplyContent           string   `json:"reply_content"`
	ConfidenceScore        float64  `json:"confidence_score"`
	Iterations             int      `json:"iterations"`
	CritiqueFeedback       string   `json:"critique_feedback"`
	ImprovementSuggestions []string `json:"improvement_suggestions"`
	ContextUsed            bool     `json:"context_used"`
	SimilarEmailsFound     int      `json:"similar_emails_found"`
	DocumentsFound         int      `json:"documents_found"`
	ProcessingLogs         []string `json:"processing_logs"`
}

type SendReplyRequest struct {
	To      string `json:"to" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Body    string `json:"body" validate:"required"`
}

type SendReplyResponse struct {
	Status string `json:"status"`
	To     string `json:"to"`
}

type ShowRunResponse struct {
	RunId           string   `json:"run_id"`
	ReplyContent    string   `json:"reply_content"`
	ConfidenceScore float64  `json:"confidence_score"`
	Iterations      int      `json:"iterations"`
	Accepted        bool     `json:"accepted"`
	ProcessingLogs  []string `json:"processing_logs"`
}
