package sendgrid

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httputil"
	"time"

	log "github.com/sirupsen/logrus"
)

const defaultEndpoint = "https://api.sendgrid.com/v3"

type Client struct {
	endpoint string
	apiKey   string
	sender   string
	client   *http.Client
}

func New(apiKey, sender string) *Client {
	return &Client{
		endpoint: defaultEndpoint,
		apiKey:   apiKey,
		sender:   sender,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type emailAddress struct {
	Email string `json:"email"`
}

type personalization struct {
	To []emailAddress `json:"to"`
}

type mailContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type mailRequest struct {
	Personalizations []personalization `json:"personalizations"`
	From             emailAddress      `json:"from"`
	Subject          string            `json:"subject"`
	Content          []mailContent     `json:"content"`
}

// Send delivers one HTML mail to the given recipients through the SendGrid
// v3 mail API.
func (c *Client) Send(recipients []string, subject, htmlBody string) error {
	if len(recipients) == 0 {
		return nil
	}

	to := make([]emailAddress, 0, len(recipients))
	for _, r := range recipients {
		to = append(to, emailAddress{Email: r})
	}

	body, err := json.Marshal(mailRequest{
		Personalizations: []personalization{{To: to}},
		From:             emailAddress{Email: c.sender},
		Subject:          subject,
		Content:          []mailContent{{Type: "text/html", Value: htmlBody}},
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, fmt.Sprintf("%s/mail/send", c.endpoint), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		dumpBytes, dumpErr := httputil.DumpResponse(resp, true)
		if dumpErr != nil {
			log.WithField("prefix", "sendgrid").WithError(dumpErr).Error("fail to dump response")
		}
		log.WithField("prefix", "sendgrid").WithField("resp", string(dumpBytes)).Error("error response from sendgrid")
		return fmt.Errorf("fail to send mail")
	}

	return nil
}
