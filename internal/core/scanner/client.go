package scanner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"pdao-carelink/internal/core/domain"
)

// APIClient talks to the office backend from a staff device. It implements
// both Resolver and Submitter for the scan machine.
type APIClient struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewAPIClient creates a client for the given backend base URL
// (e.g. http://office-server:8080) authenticated with a staff access token.
func NewAPIClient(baseURL, token string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func (e apiEnvelope) reason() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}

// ResolveMember looks up a scanned PWD ID number.
func (c *APIClient) ResolveMember(ctx context.Context, idNumber string) (*ResolvedMember, error) {
	endpoint := fmt.Sprintf("%s/api/v1/scan/member?id_number=%s", c.baseURL, url.QueryEscape(idNumber))

	var member ResolvedMember
	if err := c.do(ctx, "GET", endpoint, nil, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

// Submit records a claim or an attendance for the target.
func (c *APIClient) Submit(ctx context.Context, target Target, memberID uint) (*Receipt, error) {
	var endpoint string
	switch target.Kind {
	case TargetEvent:
		endpoint = fmt.Sprintf("%s/api/v1/events/%d/attendances", c.baseURL, target.ID)
	default:
		endpoint = fmt.Sprintf("%s/api/v1/benefits/%d/claims", c.baseURL, target.ID)
	}

	payload := map[string]uint{"member_id": memberID}
	var receipt Receipt
	if err := c.do(ctx, "POST", endpoint, payload, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

// do sends one request and decodes the standard response envelope into out.
// HTTP status codes are translated to domain errors so the machine can
// distinguish conflict from failure.
func (c *APIClient) do(ctx context.Context, method, endpoint string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", domain.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNetworkFailure, err)
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("%w: malformed response", domain.ErrNetworkFailure)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		if out != nil && len(envelope.Data) > 0 {
			if err := json.Unmarshal(envelope.Data, out); err != nil {
				return fmt.Errorf("%w: malformed response", domain.ErrNetworkFailure)
			}
		}
		return nil
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, envelope.reason())
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", domain.ErrConflict, envelope.reason())
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrForbidden, envelope.reason())
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, envelope.reason())
	default:
		return fmt.Errorf("scan API error (%d): %s", resp.StatusCode, envelope.reason())
	}
}
