// Package notify records in-app notifications and delivers their email copies
// through the background job queue.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"log/slog"

	"github.com/garnizeh/placement/internal/jobs"
	"github.com/garnizeh/placement/pkg/models"
	"github.com/garnizeh/placement/pkg/repository"
)

// JobTypeEmail is the background job type carrying an Email payload.
const JobTypeEmail = "notification.email"

const statusTitle = "Application Status Updated"

var statusMessages = map[models.ApplicationStatus]string{
	models.StatusShortlisted:  "Your application has been shortlisted",
	models.StatusInterviewing: "You have been selected for an interview",
	models.StatusSelected:     "Congratulations! You have been selected",
}

// StatusMessage returns the notification text for an application that moved
// to status for the job titled jobTitle.
func StatusMessage(status models.ApplicationStatus, jobTitle string) string {
	msg, ok := statusMessages[status]
	if !ok {
		msg = "Your application status has been updated"
	}
	return msg + " for the position: " + jobTitle
}

// Email is the payload of a notification.email job.
type Email struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html"`
}

// Enqueuer persists background jobs. *jobs.WorkerPool satisfies it.
type Enqueuer interface {
	Enqueue(ctx context.Context, typ string, payload any, maxAttempts int) (string, error)
}

type Notifier struct {
	queue       Enqueuer
	maxAttempts int
	logger      *slog.Logger
}

// New returns a Notifier. A nil queue disables email delivery; in-app
// notifications are still recorded.
func New(queue Enqueuer, maxAttempts int, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Notifier{queue: queue, maxAttempts: maxAttempts, logger: logger}
}

// NotifyApplicationStatus inserts the status notification for userID through
// repo, which is expected to be bound to the caller's transaction.
func (n *Notifier) NotifyApplicationStatus(ctx context.Context, repo repository.NotificationRepo, userID, jobID, jobTitle string, status models.ApplicationStatus) (*models.Notification, error) {
	note := &models.Notification{
		UserID:    userID,
		Type:      models.NotificationApplicationStatus,
		Title:     statusTitle,
		Message:   StatusMessage(status, jobTitle),
		RelatedID: &jobID,
	}
	if err := repo.CreateNotification(ctx, note); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}

	return note, nil
}

// Deliver queues an email copy of note for address to. Failures are logged
// and never returned.
func (n *Notifier) Deliver(ctx context.Context, to string, note *models.Notification) {
	if n.queue == nil || note == nil || to == "" {
		return
	}
	email := Email{
		To:      to,
		Subject: note.Title,
		Text:    note.Message,
		HTML:    "<p>" + html.EscapeString(note.Message) + "</p>",
	}
	if _, err := n.queue.Enqueue(ctx, JobTypeEmail, email, n.maxAttempts); err != nil {
		n.logger.Error("enqueue notification email", slog.String("notification_id", note.ID), slog.Any("err", err))
	}
}

// EmailHandler returns the job handler sending queued emails through m.
func EmailHandler(m Mailer) jobs.Handler {
	return func(ctx context.Context, j *jobs.Job) error {
		var email Email
		if err := json.Unmarshal(j.Payload, &email); err != nil {
			return fmt.Errorf("decode email payload: %w", err)
		}
		return m.Send(ctx, email)
	}
}
