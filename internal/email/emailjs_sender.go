package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultEmailJSURL = "https://api.emailjs.com/api/v1.0/email/send"

// EmailJSSender envia correos via la API REST de EmailJS.
type EmailJSSender struct {
	url        string
	serviceID  string
	templateID string
	publicKey  string
	fromName   string
	client     *http.Client
}

func NewEmailJSSender(url, serviceID, templateID, publicKey, fromName string, timeout time.Duration) (*EmailJSSender, error) {
	if strings.TrimSpace(serviceID) == "" || strings.TrimSpace(templateID) == "" || strings.TrimSpace(publicKey) == "" {
		return nil, fmt.Errorf("emailjs service id, template id and public key are required")
	}
	if url == "" {
		url = defaultEmailJSURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if fromName == "" {
		fromName = brandName
	}
	return &EmailJSSender{
		url:        url,
		serviceID:  serviceID,
		templateID: templateID,
		publicKey:  publicKey,
		fromName:   fromName,
		client:     &http.Client{Timeout: timeout},
	}, nil
}

type emailJSRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
}

func (s *EmailJSSender) Send(ctx context.Context, m Message) error {
	if strings.TrimSpace(m.To) == "" {
		return fmt.Errorf("to email is required")
	}
	subject, err := subjectFor(m.Kind)
	if err != nil {
		return err
	}

	name := m.Name
	if name == "" {
		name = "User"
	}
	params := map[string]string{
		"to_email":  m.To,
		"name":      name,
		"from_name": s.fromName,
		"subject":   subject,
	}
	if m.Kind != KindWelcome {
		params["otp"] = m.Code
	}

	bodyBytes, err := json.Marshal(emailJSRequest{
		ServiceID:      s.serviceID,
		TemplateID:     s.templateID,
		UserID:         s.publicKey,
		TemplateParams: params,
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("emailjs http error: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	return nil
}
