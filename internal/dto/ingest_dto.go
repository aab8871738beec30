package dto

type StoreEmailRequest struct {
	EmailContent string                 `json:"email_content" validate:"required"`
	SenderInfo   string                 `json:"sender_info" validate:"required"`
	DateTime     string                 `json:"date_time"`
	EmailId      string                 `json:"email_id" validate:"required"`
	Metadata     map[string]interface{} `json:"metadata"`
}

type StoreEmailResponse struct {
	Status  string `json:"status"`
	EmailId string `json:"email_id"`
	Sender  string `json:"sender"`
}

type ProcessDocumentResponse struct {
	Status         string `json:"status"`
	Filename       string `json:"filename"`
	TotalDocuments int    `json:"total_documents"`
}

type FetchEmailsResponse struct {
	Success       bool   `json:"success"`
	EmailsFetched int    `json:"emails_fetched"`
	EmailsQueued  int    `json:"emails_queued"`
	Message       string `json:"message"`
}

type IngestStatsResponse struct {
	EmailCount    int64 `json:"email_count"`
	DocumentCount int64 `json:"document_count"`
}

// PublishIngestEmailMessage is the payload queued for the background
// embedding consumer.
type PublishIngestEmailMessage struct {
	EmailContent string                 `json:"email_content"`
	SenderInfo   string                 `json:"sender_info"`
	DateTime     string                 `json:"date_time"`
	EmailId      string                 `json:"email_id"`
	Metadata     map[string]interface{} `json:"metadata"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Llm      string `json:"llm"`
}
