// Package compose validates a message draft and routes it to the matching
// backend subsystem: email drafts go as multipart form data to the
// email-ingest service, SMS drafts as JSON to the SMS-detection service.
//
// The dispatcher is a strictly sequential state machine over
// {Idle, Validating, Submitting, Succeeded, Failed}; a submit while another
// submission is in flight is ignored.
package compose

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bennieslab/threatwatch/internal/client/api"
	"github.com/bennieslab/threatwatch/internal/common"
	"github.com/bennieslab/threatwatch/internal/logging"
)

// State of the dispatcher's submission machine.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateSubmitting
	StateSucceeded
	StateFailed
)

// MessageType is the user-chosen discriminator selecting the outgoing
// variant and its backend route.
type MessageType string

const (
	TypeEmail MessageType = "email"
	TypeSMS   MessageType = "sms"
)

// ErrSubmitInProgress is returned when a submit arrives while another
// submission is still in flight; the new attempt is ignored.
var ErrSubmitInProgress = errors.New("submission already in progress")

// Draft is the compose form state. On failure the draft is preserved so the
// user may retry; on success it is cleared.
type Draft struct {
	Type      MessageType
	Recipient string
	Subject   string
	Body      string
}

// Test seams for identifier generation and clock access.
var (
	newMessageID = func() string {
		return fmt.Sprintf("composed-%s-%d", uuid.NewString()[:8], time.Now().UnixMilli())
	}
	now = time.Now
)

// smsPayload is the JSON body for the SMS-detection endpoint.
type smsPayload struct {
	SMSID           string     `json:"sms_id"`
	Timestamp       string     `json:"timestamp"`
	SenderNumber    string     `json:"sender_number"`
	RecipientNumber string     `json:"recipient_number"`
	MessageContent  string     `json:"message_content"`
	Details         smsDetails `json:"details"`
}

type smsDetails struct {
	ComposedByUserID int64 `json:"composed_by_user_id"`
	ComposedViaApp   bool  `json:"composed_via_app"`
}

// emailPayload is the JSON document embedded in the multipart field
// email_json_data for the email-ingest endpoint.
type emailPayload struct {
	Sender     string   `json:"sender"`
	Recipients []string `json:"recipients"`
	Subject    string   `json:"subject"`
	Body       string   `json:"body"`
}

// Dispatcher owns one compose form and submits it to the right backend.
type Dispatcher struct {
	client   *api.Client
	emailURL string
	smsURL   string
	identity *api.Identity
	log      logging.Logger

	mu         sync.Mutex
	state      State
	draft      Draft
	attachment *Attachment
}

// New constructs a Dispatcher for the given session identity.
func New(client *api.Client, emailURL, smsURL string, identity *api.Identity, log logging.Logger) *Dispatcher {
	return &Dispatcher{
		client:   client,
		emailURL: emailURL,
		smsURL:   smsURL,
		identity: identity,
		log:      log,
		state:    StateIdle,
		draft:    Draft{Type: TypeEmail},
	}
}

// State reports the current machine state.
func (d *Dispatcher) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Draft returns a copy of the current form state.
func (d *Dispatcher) Draft() Draft {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.draft
}

// SetDraft replaces the form state. Switching the discriminator away from
// email drops the subject and any pending attachment, matching the compose
// form behavior.
func (d *Dispatcher) SetDraft(draft Draft) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if draft.Type != TypeEmail {
		draft.Subject = ""
		d.attachment = nil
	}
	d.draft = draft
}

// SelectAttachment validates and stores one binary file for the next email
// submission. A rejected file clears any pending selection and returns a
// guidance error. Attachments are email-only; selection for an SMS draft is
// rejected with the type guidance.
func (d *Dispatcher) SelectAttachment(name, contentType string, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.draft.Type != TypeEmail {
		d.attachment = nil
		return fmt.Errorf("%w: attachments are only supported for email", common.ErrValidation)
	}
	if err := validateAttachment(contentType, len(data)); err != nil {
		d.attachment = nil
		return err
	}
	d.attachment = &Attachment{Name: name, ContentType: contentType, Data: data}
	return nil
}

// ClearAttachment drops the pending selection.
func (d *Dispatcher) ClearAttachment() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.attachment = nil
}

// AttachmentName returns the pending selection's name, if any.
func (d *Dispatcher) AttachmentName() (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.attachment == nil {
		return "", false
	}
	return d.attachment.Name, true
}

// validate applies the pre-network rules for the active draft variant.
func (d *Dispatcher) validate(draft Draft) error {
	if strings.TrimSpace(draft.Recipient) == "" || strings.TrimSpace(draft.Body) == "" {
		return fmt.Errorf("%w: recipient and message body are required", common.ErrValidation)
	}
	switch draft.Type {
	case TypeEmail:
		if strings.TrimSpace(draft.Subject) == "" {
			return fmt.Errorf("%w: subject is required for email", common.ErrValidation)
		}
		if d.identity.Email == "" {
			return common.ErrNoSessionEmail
		}
	case TypeSMS:
		if d.identity.Phone == "" {
			return common.ErrNoSessionPhone
		}
	default:
		return fmt.Errorf("%w: unknown message type %q", common.ErrValidation, draft.Type)
	}
	return nil
}

// Submit runs the machine once: Validating, then Submitting against the
// route selected by the discriminator. On success the form and attachment
// are cleared and the backend's status is returned; on any failure the form
// is preserved for retry.
func (d *Dispatcher) Submit(ctx context.Context) (string, error) {
	d.mu.Lock()
	if d.state == StateSubmitting {
		d.mu.Unlock()
		return "", ErrSubmitInProgress
	}

	d.state = StateValidating
	draft := d.draft
	attachment := d.attachment

	if err := d.validate(draft); err != nil {
		d.state = StateFailed
		d.mu.Unlock()
		return "", err
	}

	d.state = StateSubmitting
	d.mu.Unlock()

	var (
		status string
		err    error
	)
	switch draft.Type {
	case TypeEmail:
		status, err = d.sendEmail(ctx, draft, attachment)
	case TypeSMS:
		status, err = d.sendSMS(ctx, draft)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err != nil {
		d.state = StateFailed
		d.log.Warn(ctx, "message submission failed", "type", string(draft.Type), "err", err)
		return "", err
	}

	d.state = StateSucceeded
	d.draft = Draft{Type: draft.Type}
	d.attachment = nil
	return status, nil
}

type submitResponse struct {
	Status string `json:"status"`
}

func (d *Dispatcher) sendEmail(ctx context.Context, draft Draft, attachment *Attachment) (string, error) {
	payload, err := json.Marshal(emailPayload{
		Sender:     d.identity.Email,
		Recipients: []string{draft.Recipient},
		Subject:    draft.Subject,
		Body:       draft.Body,
	})
	if err != nil {
		return "", err
	}

	var file *api.FilePart
	if attachment != nil {
		file = &api.FilePart{
			FieldName:   "attachment",
			FileName:    attachment.Name,
			ContentType: attachment.ContentType,
			Data:        attachment.Data,
		}
	}

	body, contentType, err := api.BuildMultipart(map[string]string{
		"email_json_data": string(payload),
	}, file)
	if err != nil {
		return "", err
	}

	var resp submitResponse
	if err := d.client.PostMultipart(ctx, d.emailURL, body, contentType, false, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

func (d *Dispatcher) sendSMS(ctx context.Context, draft Draft) (string, error) {
	payload := smsPayload{
		SMSID:           newMessageID(),
		Timestamp:       now().UTC().Format(time.RFC3339),
		SenderNumber:    d.identity.Phone,
		RecipientNumber: draft.Recipient,
		MessageContent:  draft.Body,
		Details: smsDetails{
			ComposedByUserID: d.identity.ID,
			ComposedViaApp:   true,
		},
	}

	var resp submitResponse
	if err := d.client.PostJSON(ctx, d.smsURL, payload, false, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}
