package cli

import (
	"context"
	"errors"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/bennieslab/threatwatch/internal/client/api"
	"github.com/bennieslab/threatwatch/internal/client/compose"
	"github.com/bennieslab/threatwatch/internal/common"
)

// attachmentContentType resolves a file's declared type from its extension.
// Unknown extensions fall back to application/octet-stream, which the
// dispatcher's pre-validation rejects with guidance.
func attachmentContentType(path string) string {
	ct := mime.TypeByExtension(filepath.Ext(path))
	if ct == "" {
		return "application/octet-stream"
	}
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	return strings.TrimSpace(ct)
}

// promptAttachment asks for an optional file path and loads the selection
// into the dispatcher. Rejections surface their guidance and leave no
// pending selection.
func (a *App) promptAttachment(d *compose.Dispatcher) error {
	path, err := getSimpleText(a.reader, "Attachment path (leave empty for none)", a.out)
	if err != nil {
		return err
	}
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		a.printf("Could not read attachment: %s\n", err)
		return nil
	}

	err = d.SelectAttachment(filepath.Base(path), attachmentContentType(path), data)
	switch {
	case errors.Is(err, compose.ErrAttachmentType):
		a.printf("%s\n", err)
	case errors.Is(err, compose.ErrAttachmentTooLarge):
		a.printf("%s\n", err)
	case err == nil:
		a.printf("Attached %s\n", filepath.Base(path))
	default:
		return err
	}
	return nil
}

// Compose collects a draft interactively and dispatches it to the matching
// backend subsystem.
func (a *App) Compose(ctx context.Context) error {
	identity, err := a.requireIdentity(ctx)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			return nil
		}
		return err
	}

	d := compose.New(a.client, a.config.EmailIngestURL, a.config.SMSDetectURL, identity, a.log)

	kind, err := getSimpleText(a.reader, "Message type (email/sms)", a.out)
	if err != nil {
		return err
	}

	draft := compose.Draft{Type: compose.MessageType(strings.ToLower(kind))}

	switch draft.Type {
	case compose.TypeEmail:
		if draft.Recipient, err = getSimpleText(a.reader, "Recipient email", a.out); err != nil {
			return err
		}
		if draft.Subject, err = getSimpleText(a.reader, "Subject", a.out); err != nil {
			return err
		}
	case compose.TypeSMS:
		if draft.Recipient, err = getSimpleText(a.reader, "Recipient phone number", a.out); err != nil {
			return err
		}
	default:
		a.printf("Unknown message type %q. Use email or sms.\n", kind)
		return nil
	}

	if draft.Body, err = GetMultiline(a.reader, "Message", a.out); err != nil {
		return err
	}

	d.SetDraft(draft)

	if draft.Type == compose.TypeEmail {
		if err := a.promptAttachment(d); err != nil {
			return err
		}
	}

	a.printf("Sending...\n")
	status, err := d.Submit(ctx)
	if err != nil {
		var se *api.StatusError
		switch {
		case errors.As(err, &se):
			a.printf("Failed to send message: %s\n", se.Detail)
		case errors.Is(err, common.ErrUnavailable):
			a.printf("Failed to send message: a network error occurred.\n")
		default:
			a.printf("Failed to send message: %s\n", err)
		}
		return nil
	}

	if draft.Type == compose.TypeEmail {
		a.printf("Email sent for detection and attachment processing! Status: %s\n", status)
	} else {
		a.printf("SMS sent for detection! Status: %s\n", status)
	}
	return nil
}
