package api

// ApprovalAction is the verdict posted to the approval endpoint.
type ApprovalAction string

const (
	ActionApprove ApprovalAction = "APPROVE"
	ActionReject  ApprovalAction = "REJECT"
)

// WorkflowRequest starts (or resumes, backend-side) a mission.
type WorkflowRequest struct {
	Topic       string `json:"topic"`
	Platform    string `json:"platform"`
	Duration    int    `json:"duration"`
	Tone        string `json:"tone"`
	UseCaptions bool   `json:"use_captions"`
}

// WorkflowResponse acknowledges a workflow start.
type WorkflowResponse struct {
	Message   string `json:"message"`
	MissionID string `json:"post_id"`
}

type approvalRequest struct {
	Action ApprovalAction `json:"action"`
}
