package model

// ========== Trigger DTOs ==========

// NotifyActivityRequest is the webhook body sent when an activity is created
type NotifyActivityRequest struct {
	ActivityID string `json:"activity_id" binding:"required"`
}

// NotifyResult aggregates one fan-out invocation. Field names match what the
// mobile client and the DB trigger already consume.
type NotifyResult struct {
	SentTo           int `json:"sentTo"`
	Failed           int `json:"failed"`
	TotalTokens      int `json:"totalTokens"`
	AlertsCreatedFor int `json:"alertsCreatedFor"`
}

// ========== Common ==========

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
