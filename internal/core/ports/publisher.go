package ports

import "context"

// Report event types broadcast to connected clients as refresh hints.
const (
	EventReportCreated       = "report-created"
	EventReportStatusChanged = "report-status-changed"
	EventReportAssigned      = "report-assigned"
)

// ReportEvent is a fire-and-forget notification about a report change.
// Delivery is best-effort and never authoritative.
type ReportEvent struct {
	Type     string `json:"type"`
	ReportID string `json:"report_id"`
	Status   string `json:"status,omitempty"`
	Payload  any    `json:"payload,omitempty"`
}

// Publisher pushes a single event to the notification channel.
type Publisher interface {
	Publish(ctx context.Context, event ReportEvent) error
}

// Notifier is the non-blocking interface services use to emit refresh hints.
// Implementations must not let delivery failures affect the caller.
type Notifier interface {
	Notify(event ReportEvent)
}
