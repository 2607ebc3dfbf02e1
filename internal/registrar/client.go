// Package registrar creates payment records through the privileged
// create_payment procedure, the only code path allowed to bypass per-row
// authorization on the payment table.
package registrar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/BEAUVILLE/abos/config"
	"github.com/BEAUVILLE/abos/models"
	"go.uber.org/zap"
)

const procedure = "create_payment"

type Client struct {
	BaseURL string
	Key     string
	Client  *http.Client
	Logger  *zap.SugaredLogger
}

func NewClient(cfg *config.Config, logger *zap.SugaredLogger) *Client {
	return &Client{
		BaseURL: strings.TrimRight(cfg.StorageBaseURL, "/"),
		Key:     cfg.StorageKey,
		Client:  &http.Client{Timeout: cfg.RequestTimeout},
		Logger:  logger,
	}
}

// RejectionError is a business-rule rejection: the procedure executed
// fine but answered ok:false. It must be checked separately from
// transport errors or the failure hides inside a 200 response.
type RejectionError struct {
	Reason string
}

func (e *RejectionError) Error() string {
	return e.Reason
}

// All payload keys are required in the call; nullable values go out as
// JSON null, not as absent keys.
type createPaymentRequest struct {
	City        *string        `json:"city"`
	Amount      int64          `json:"amount"`
	ProName     *string        `json:"pro_name"`
	ProPhone    string         `json:"pro_phone"`
	Reference   string         `json:"reference"`
	Module      string         `json:"module"`
	Plan        string         `json:"plan"`
	BoostCode   *string        `json:"boost_code"`
	BoostAmount float64        `json:"boost_amount"`
	Slug        string         `json:"slug"`
	Meta        map[string]any `json:"meta"`
}

type createPaymentResponse struct {
	OK        bool   `json:"ok"`
	ID        string `json:"id"`
	Reference string `json:"reference"`
	Error     string `json:"error"`
}

// CreatePayment registers one payment record for an order whose proof
// already lives at proofPath. On success the returned record carries the
// canonical reference, which supersedes the client-proposed one.
func (c *Client) CreatePayment(ctx context.Context, o *models.Order, proofPath, source string) (*models.PaymentRecord, error) {
	payload := createPaymentRequest{
		City:        nullable(o.City),
		Amount:      o.Amount,
		ProName:     nullable(o.ProName),
		ProPhone:    o.Phone,
		Reference:   o.Reference,
		Module:      o.Module,
		Plan:        o.Plan,
		BoostCode:   nullable(o.BoostCode),
		BoostAmount: o.BoostAmount,
		Slug:        o.Slug,
		Meta: map[string]any{
			"proof_path":   proofPath,
			"source":       source,
			"submitted_at": time.Now().UTC().Format(time.RFC3339),
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payment payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/rest/v1/rpc/%s", c.BaseURL, procedure)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build payment request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Key)
	req.Header.Set("apikey", c.Key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", procedure, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", procedure, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s failed (%d): %s", procedure, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed createPaymentResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", procedure, err)
	}

	if !parsed.OK {
		reason := parsed.Error
		if reason == "" {
			reason = "rpc_failed"
		}
		return nil, &RejectionError{Reason: reason}
	}

	record := &models.PaymentRecord{ID: parsed.ID, Reference: parsed.Reference}
	if record.Reference == "" {
		record.Reference = o.Reference
	}
	c.Logger.Infow("payment registered", "id", record.ID, "reference", record.Reference)
	return record, nil
}

func nullable(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
