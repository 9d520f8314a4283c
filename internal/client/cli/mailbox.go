package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bennieslab/threatwatch/internal/client/dashboard"
	"github.com/bennieslab/threatwatch/internal/client/render"
	"github.com/bennieslab/threatwatch/internal/common"
)

// Mailbox folders and channels. Each mailbox is the same rendering
// contract with a different (endpoint, columns) pair.
const (
	FolderSent = "sent"
	FolderSpam = "spam"

	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

// mailboxPath resolves the bearer-authenticated per-user endpoint for a
// folder/channel pair.
func mailboxPath(folder, channel string) (string, error) {
	switch folder + "/" + channel {
	case "sent/email":
		return "/user/emails/sent", nil
	case "sent/sms":
		return "/user/sms/sent", nil
	case "spam/email":
		return "/user/emails/spam", nil
	case "spam/sms":
		return "/user/sms/spam", nil
	}
	return "", fmt.Errorf("unknown mailbox %s/%s", folder, channel)
}

func mailboxColumns(channel string) []render.ColumnSpec {
	if channel == ChannelSMS {
		return dashboard.MailboxSMSColumns()
	}
	return dashboard.MailboxEmailColumns()
}

// Mailbox renders one per-user folder (sent or spam) for one channel.
func (a *App) Mailbox(ctx context.Context, folder, channel string) error {
	path, err := mailboxPath(folder, channel)
	if err != nil {
		return err
	}

	if _, ok := a.store.Token(); !ok {
		a.printf("You are not logged in. Please log in to access your %s folder.\n", folder)
		return nil
	}

	records, err := a.client.FetchRecords(ctx, path, true)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			// the expiry hook already printed the re-login guidance
			return nil
		}
		if errors.Is(err, common.ErrUnavailable) {
			a.printf("A network error occurred. Please try again.\n")
			return nil
		}
		return err
	}

	a.printf("%s %s messages\n\n", capitalize(folder), channel)
	table := render.NewTable(a.log, mailboxColumns(channel))
	table.RenderContext(ctx, a.out, records)
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
