package snapshot

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/Sathishnaik786/Employee-Management-System-sub000/core"
	"github.com/Sathishnaik786/Employee-Management-System-sub000/core/lifecycle"
)

const overdueDigestTemplate = "overdue_digest"

var ErrNoRecipients = errors.New("no recipients")

type (
	OverdueItem struct {
		ID     string `json:"id"`
		Title  string `json:"title"`
		Status string `json:"status"`
		Stage  string `json:"stage"` // label of the current stage
		DueAt  string `json:"due_at"`
	}

	// OverdueDigest is the template data of the overdue digest email.
	OverdueDigest struct {
		ProcessName string        `json:"process_name"`
		Count       int           `json:"count"`
		EvaluatedAt string        `json:"evaluated_at"`
		Items       []OverdueItem `json:"items"`
	}
)

// Reminder emails digests of the entities whose current stage is overdue.
type Reminder struct {
	svc    *Service
	mailer core.EmailService
	log    core.Logger
}

func NewReminder(svc *Service, mailer core.EmailService, logger core.Logger) *Reminder {
	return &Reminder{svc: svc, mailer: mailer, log: logger}
}

// Digest returns the overdue digest of pt at now (zero means the current instant), oldest due date first.
func (r *Reminder) Digest(ctx context.Context, pt lifecycle.ProcessType, now time.Time) (OverdueDigest, error) {
	if now.IsZero() {
		now = nowFunc()
	}
	now = now.UTC()

	overdue := true
	filter := QueryFilter{
		Process:   pt,
		Overdue:   &overdue,
		Orderings: []core.DBOrdering{{Field: "due_at", Ascending: true}},
	}
	views, err := r.svc.List(ctx, filter, lifecycle.NewCapabilities(), now)
	if err != nil {
		return OverdueDigest{}, err
	}

	p, err := r.svc.Registry().Process(lifecycle.ParseProcessType(string(pt)))
	if err != nil {
		return OverdueDigest{}, err
	}
	digest := OverdueDigest{
		ProcessName: p.Name,
		Count:       len(views),
		EvaluatedAt: now.Format(time.RFC3339),
		Items:       make([]OverdueItem, 0, len(views)),
	}
	for _, v := range views {
		item := OverdueItem{ID: v.Snapshot.ID, Title: v.Snapshot.Title, Status: string(v.Snapshot.Status)}
		if stage, ok := v.Projection.CurrentStage(); ok {
			item.Stage = stage.Label
		}
		if v.Snapshot.DueAt != nil {
			item.DueAt = v.Snapshot.DueAt.UTC().Format(time.RFC3339)
		}
		digest.Items = append(digest.Items, item)
	}
	return digest, nil
}

// SendOverdueDigest emails the overdue digest of pt to recipients and returns the number of overdue entities.
// Nothing is sent when no entity is overdue.
func (r *Reminder) SendOverdueDigest(ctx context.Context, pt lifecycle.ProcessType, recipients []mail.Address, now time.Time) (int, error) {
	if len(recipients) == 0 {
		return 0, ErrNoRecipients
	}

	digest, err := r.Digest(ctx, pt, now)
	if err != nil {
		return 0, err
	}
	if digest.Count == 0 {
		r.log.Info("no overdue entities", map[string]interface{}{"process": pt})
		return 0, nil
	}

	msg := &core.EmailMessage{
		To:           recipients,
		Subject:      fmt.Sprintf("%d overdue %s item(s)", digest.Count, digest.ProcessName),
		TemplateName: overdueDigestTemplate,
		TemplateData: digest,
	}
	if err = r.mailer.SendMessages(msg); err != nil {
		return 0, errors.Wrap(err, "sending overdue digest")
	}

	r.log.Info("overdue digest sent", map[string]interface{}{
		"process":    pt,
		"count":      digest.Count,
		"recipients": len(recipients),
	})
	return digest.Count, nil
}
