package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rs/zerolog/log"
)

const defaultResendBaseURL = "https://api.resend.com"

// ResendEmailRequest represents the request payload for Resend API
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

// ResendEmailResponse represents the response from Resend API
type ResendEmailResponse struct {
	ID string `json:"id"`
}

// ResendErrorResponse represents an error response from Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
}

// Mailer sends transactional email through the Resend API.
type Mailer struct {
	client *resty.Client
	from   string
}

// NewMailer builds a Mailer from RESEND_API_KEY and RESEND_FROM_EMAIL.
// RESEND_BASE_URL overrides the API host.
func NewMailer(c map[string]string) (*Mailer, error) {
	apiKey := config.GetString(c, "RESEND_API_KEY", "")
	if apiKey == "" {
		return nil, errs.NewEnvironmentVariableError("RESEND_API_KEY")
	}
	from := config.GetString(c, "RESEND_FROM_EMAIL", "")
	if from == "" {
		return nil, errs.NewEnvironmentVariableError("RESEND_FROM_EMAIL")
	}

	client := resty.New().
		SetBaseURL(config.GetString(c, "RESEND_BASE_URL", defaultResendBaseURL)).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	return &Mailer{client: client, from: from}, nil
}

// SendEmail sends an HTML email and returns the Resend message id.
func (m *Mailer) SendEmail(ctx context.Context, email ResendEmailRequest) (string, error) {
	if len(email.To) == 0 {
		return "", fmt.Errorf("at least one recipient is required")
	}
	if email.From == "" {
		email.From = m.from
	}

	var result ResendEmailResponse
	var apiErr ResendErrorResponse
	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(email).
		SetResult(&result).
		SetError(&apiErr).
		Post("/emails")
	if err != nil {
		return "", fmt.Errorf("failed to send request to Resend API: %w", err)
	}
	if resp.IsError() {
		if apiErr.Message != "" {
			return "", fmt.Errorf("resend API error (status %d): %s", resp.StatusCode(), apiErr.Message)
		}
		return "", fmt.Errorf("resend API error (status %d): %s", resp.StatusCode(), resp.String())
	}

	log.Info().Str("emailId", result.ID).Msg("Successfully sent email via Resend")
	return result.ID, nil
}
