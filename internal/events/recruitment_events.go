package events

import (
	"context"

	"go.uber.org/zap"
)

const (
	TypeApplicationSubmitted = "application.submitted"
	TypeContactReceived      = "contact.received"
	TypeSubscriberJoined     = "subscriber.joined"
	TypeSubscriberLeft       = "subscriber.left"
)

// ApplicationSubmittedEvent is emitted once a public application commits
type ApplicationSubmittedEvent struct {
	BaseEvent
	ApplicationID  string `json:"application_id"`
	JobID          string `json:"job_id"`
	JobTitle       string `json:"job_title"`
	ApplicantID    string `json:"applicant_id"`
	ApplicantEmail string `json:"applicant_email"`
	NewApplicant   bool   `json:"new_applicant"`
}

// NewApplicationSubmittedEvent creates an application submitted event
func NewApplicationSubmittedEvent(applicationID, jobID, jobTitle, applicantID, applicantEmail string, newApplicant bool) *ApplicationSubmittedEvent {
	return &ApplicationSubmittedEvent{
		BaseEvent:      newBaseEvent(TypeApplicationSubmitted),
		ApplicationID:  applicationID,
		JobID:          jobID,
		JobTitle:       jobTitle,
		ApplicantID:    applicantID,
		ApplicantEmail: applicantEmail,
		NewApplicant:   newApplicant,
	}
}

// ContactReceivedEvent is emitted for every stored contact message
type ContactReceivedEvent struct {
	BaseEvent
	MessageID string `json:"message_id"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
}

// NewContactReceivedEvent creates a contact received event
func NewContactReceivedEvent(messageID, email, subject string) *ContactReceivedEvent {
	return &ContactReceivedEvent{
		BaseEvent: newBaseEvent(TypeContactReceived),
		MessageID: messageID,
		Email:     email,
		Subject:   subject,
	}
}

// SubscriberEvent covers newsletter sign-ups and opt-outs
type SubscriberEvent struct {
	BaseEvent
	Email  string `json:"email"`
	Source string `json:"source,omitempty"`
}

// NewSubscriberJoinedEvent creates a subscriber joined event
func NewSubscriberJoinedEvent(email, source string) *SubscriberEvent {
	return &SubscriberEvent{BaseEvent: newBaseEvent(TypeSubscriberJoined), Email: email, Source: source}
}

// NewSubscriberLeftEvent creates a subscriber left event
func NewSubscriberLeftEvent(email string) *SubscriberEvent {
	return &SubscriberEvent{BaseEvent: newBaseEvent(TypeSubscriberLeft), Email: email}
}

// NewAuditLogHandler writes one structured log line per event
func NewAuditLogHandler(logger *zap.Logger) EventHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return EventHandlerFunc{
		ID: "audit-log",
		Func: func(ctx context.Context, event Event) error {
			fields := []zap.Field{
				zap.String("event_id", event.GetEventID()),
				zap.String("event_type", event.GetEventType()),
				zap.Time("timestamp", event.GetTimestamp()),
			}
			switch e := event.(type) {
			case *ApplicationSubmittedEvent:
				fields = append(fields,
					zap.String("application_id", e.ApplicationID),
					zap.String("job_id", e.JobID),
					zap.String("job_title", e.JobTitle),
					zap.Bool("new_applicant", e.NewApplicant),
				)
			case *ContactReceivedEvent:
				fields = append(fields, zap.String("message_id", e.MessageID), zap.String("subject", e.Subject))
			case *SubscriberEvent:
				fields = append(fields, zap.String("source", e.Source))
			}
			logger.Info("Domain event", fields...)
			return nil
		},
	}
}
