package api

import (
	"context"
	"errors"
	"net/url"
)

// Identity is the read-only view of the authenticated user, fetched from
// GET /current_user once per command invocation.
type Identity struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// ThreatCounts are the dashboard summary counters.
type ThreatCounts struct {
	SuspiciousIPAttempts int64 `json:"suspicious_ip_attempts"`
	BruteForceAttacks    int64 `json:"brute_force_attacks"`
	MalwareDetections    int64 `json:"malware_detections"`
	PendingThreats       int64 `json:"pending_threats"`
	TotalNetworkThreats  int64 `json:"total_network_threats"`
	TotalEmailsReceived  int64 `json:"total_emails_received"`
	SpamEmailsDetected   int64 `json:"spam_emails_detected"`
	TotalSMSReceived     int64 `json:"total_sms_received"`
	SMSSpamDetected      int64 `json:"sms_spam_detected"`
}

// RegisterRequest is the account-creation payload for POST /register.
// Username mirrors the email address; the backend hashes the password.
type RegisterRequest struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
}

// Login exchanges username+password for a bearer credential at POST /token
// and persists it in the session store.
func (c *Client) Login(ctx context.Context, username, password string) error {
	values := url.Values{}
	values.Set("username", username)
	values.Set("password", password)

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.PostForm(ctx, "/token", values, false, &out); err != nil {
		return err
	}
	if out.AccessToken == "" {
		return errors.New("token endpoint returned no access_token")
	}
	return c.store.SetToken(out.AccessToken)
}

// Register creates a new account at POST /register.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.PostJSON(ctx, "/register", req, false, nil)
}

// CurrentUser fetches the session identity.
func (c *Client) CurrentUser(ctx context.Context) (*Identity, error) {
	var id Identity
	if err := c.GetJSON(ctx, "/current_user", true, &id); err != nil {
		return nil, err
	}
	return &id, nil
}

// FetchCounts retrieves the summary counters for the dashboard.
func (c *Client) FetchCounts(ctx context.Context) (*ThreatCounts, error) {
	var counts ThreatCounts
	if err := c.GetJSON(ctx, "/threat-counts", false, &counts); err != nil {
		return nil, err
	}
	return &counts, nil
}

// FetchRecords retrieves a sequence of untyped backend records. Records stay
// structural all the way to the table renderer; field access is validated
// there, not at intake.
func (c *Client) FetchRecords(ctx context.Context, pathOrURL string, requiresAuth bool) ([]map[string]any, error) {
	var records []map[string]any
	if err := c.GetJSON(ctx, pathOrURL, requiresAuth, &records); err != nil {
		return nil, err
	}
	return records, nil
}
