package resend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

type ResendMailer struct {
	apiKey  string
	from    string
	client  *http.Client
	baseURL string
}

func NewResendMailer(apiKey, from string) (*ResendMailer, error) {
	if apiKey == "" {
		return nil, errors.New("resend api key not set")
	}

	return &ResendMailer{
		apiKey: apiKey,
		from:   from,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		baseURL: "https://api.resend.com",
	}, nil
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// SendOTP delivers a one-time code. The purpose string is shown to the
// reader ("verify your email", "reset your password", "sign in").
func (m *ResendMailer) SendOTP(ctx context.Context, toEmail, code, purpose string) error {
	body := sendRequest{
		From:    m.from,
		To:      []string{toEmail},
		Subject: "Your Dazzling Tours verification code",
		HTML: `
			<p>Use this code to ` + purpose + `:</p>
			<p style="font-size:24px;letter-spacing:4px"><b>` + code + `</b></p>
			<p>The code expires in 10 minutes. If you did not request it, ignore this email.</p>
		`,
	}
	return m.send(ctx, body)
}

// SendBookingConfirmation notifies a traveller that payment settled.
func (m *ResendMailer) SendBookingConfirmation(ctx context.Context, toEmail, tourTitle string, bookingID int64) error {
	body := sendRequest{
		From:    m.from,
		To:      []string{toEmail},
		Subject: "Your booking is confirmed",
		HTML: fmt.Sprintf(`
			<p>Great news! Your booking #%d for <b>%s</b> is confirmed.</p>
			<p>We look forward to travelling with you.</p>
		`, bookingID, tourTitle),
	}
	return m.send(ctx, body)
}

func (m *ResendMailer) send(ctx context.Context, body sendRequest) error {
	b, _ := json.Marshal(body)

	req, _ := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		m.baseURL+"/emails",
		bytes.NewBuffer(b),
	)

	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		return errors.New("failed to send email: " + buf.String())
	}

	return nil
}
