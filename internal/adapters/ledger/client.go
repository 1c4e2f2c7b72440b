package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ogurasousui/hr-intake-bot/internal/core/intake"
	"github.com/ogurasousui/hr-intake-bot/internal/platform/obs"
)

const (
	dateLayout     = "02.01.2006"
	dateTimeLayout = "02.01.2006 15:04:05"
)

// record is the flat payload the ledger consumer expects. Field names
// must stay bit-exact for compatibility with the existing consumer.
type record struct {
	Action      string `json:"action"`
	Kod         string `json:"kod"`
	Fio         string `json:"fio"`
	Filial      string `json:"filial"`
	Lavozim     string `json:"lavozim"`
	Sabab       string `json:"sabab"`
	IshdanSana  string `json:"ishdan_sana"`
	MenejerSana string `json:"menejer_sana"`
	Status      string `json:"status"`
	Menejer     string `json:"menejer"`
}

// Client forwards finalized requests to the ledger webhook. Delivery
// is best effort: the intake service calls Notify on a background
// goroutine, logs failures and never retries.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a Client with the given request timeout.
func NewClient(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Notify posts one finalized request to the webhook.
func (c *Client) Notify(ctx context.Context, req *intake.Request) error {
	payload := record{
		Action:      "create",
		Kod:         req.Employee.Code,
		Fio:         req.Employee.Name,
		Filial:      req.Employee.Branch,
		Lavozim:     req.Employee.Position,
		Sabab:       req.Reason,
		IshdanSana:  req.EffectiveDate.Format(dateLayout),
		MenejerSana: req.SubmittedAt.Format(dateTimeLayout),
		Status:      string(intake.StatusPending),
		Menejer:     req.SubmittedBy,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("ledger: marshal payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("ledger: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		obs.LedgerSyncFailures.Inc()
		return fmt.Errorf("ledger: post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		obs.LedgerSyncFailures.Inc()
		return fmt.Errorf("ledger: post: unexpected status %d", resp.StatusCode)
	}
	return nil
}
