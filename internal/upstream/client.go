package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"cravecart/internal/domain"
)

const (
	actionItemList   = "get_item_list"
	actionItemByID   = "get_item_by_id"
	actionItemFilter = "get_item_by_filter"
	actionPayment    = "make_payment"

	defaultBackoff = 500 * time.Millisecond
	defaultRetries = 3
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the provider's emulator API. All endpoints are POSTs
// routed by the X-Forward-Proxy-Action header.
type Client struct {
	baseURL string
	apiKey  string
	httpc   HTTPClient

	mu       sync.Mutex
	language string

	backoff    time.Duration
	maxRetries int
}

func NewClient(baseURL, apiKey string, httpc HTTPClient) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpc:      httpc,
		language:   "en",
		backoff:    defaultBackoff,
		maxRetries: defaultRetries,
	}
}

func (c *Client) SetLanguage(language string) {
	c.mu.Lock()
	c.language = language
	c.mu.Unlock()
	log.Printf("upstream: language set to %s", language)
}

func (c *Client) Language() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.language
}

type listEnvelope struct {
	ResponseCode    int              `json:"response_code"`
	OutcomeCode     int              `json:"outcome_code"`
	ResponseMessage string           `json:"response_message"`
	Page            int              `json:"page"`
	Count           int              `json:"count"`
	TotalPages      int              `json:"total_pages"`
	TotalItems      int              `json:"total_items"`
	Cuisines        []domain.Cuisine `json:"cuisines"`
}

type itemEnvelope struct {
	ResponseCode    int    `json:"response_code"`
	OutcomeCode     int    `json:"outcome_code"`
	ResponseMessage string `json:"response_message"`
	ItemID          string `json:"item_id"`
	ItemName        string `json:"item_name"`
	ItemPrice       string `json:"item_price"`
	ItemRating      string `json:"item_rating"`
	ItemImageURL    string `json:"item_image_url"`
}

type paymentEnvelope struct {
	ResponseCode    int    `json:"response_code"`
	OutcomeCode     int    `json:"outcome_code"`
	ResponseMessage string `json:"response_message"`
	ErrorDetails    string `json:"error_details"`
	TxnRef          string `json:"txn_ref_no"`
}

// GetItemList fetches one catalog page, retrying with exponential backoff
// before surfacing the final error.
func (c *Client) GetItemList(ctx context.Context, page, count int) ([]domain.Cuisine, error) {
	body := map[string]interface{}{
		"page":     page,
		"count":    count,
		"language": c.Language(),
	}

	var cuisines []domain.Cuisine
	err := c.withRetry(ctx, func() error {
		var envelope listEnvelope
		if err := c.post(ctx, "/emulator/interview/get_item_list", actionItemList, body, &envelope); err != nil {
			return err
		}
		if err := envelopeError(envelope.ResponseCode, envelope.OutcomeCode, envelope.ResponseMessage); err != nil {
			return err
		}
		cuisines = envelope.Cuisines
		return nil
	})
	return cuisines, err
}

// GetItemsByFilter fetches the cuisines whose dishes meet a minimum rating.
// No retry: callers treat this slice as a best-effort sample extension.
func (c *Client) GetItemsByFilter(ctx context.Context, minRating float64) ([]domain.Cuisine, error) {
	body := map[string]interface{}{
		"language":   c.Language(),
		"min_rating": minRating,
	}

	var envelope listEnvelope
	if err := c.post(ctx, "/emulator/interview/get_item_by_filter", actionItemFilter, body, &envelope); err != nil {
		return nil, err
	}
	if err := envelopeError(envelope.ResponseCode, envelope.OutcomeCode, envelope.ResponseMessage); err != nil {
		return nil, err
	}
	return envelope.Cuisines, nil
}

func (c *Client) GetItemByID(ctx context.Context, itemID string) (domain.MenuItem, error) {
	body := map[string]interface{}{
		"item_id":  itemID,
		"language": c.Language(),
	}

	var envelope itemEnvelope
	if err := c.post(ctx, "/emulator/interview/get_item_by_id", actionItemByID, body, &envelope); err != nil {
		return domain.MenuItem{}, err
	}
	if err := envelopeError(envelope.ResponseCode, envelope.OutcomeCode, envelope.ResponseMessage); err != nil {
		return domain.MenuItem{}, err
	}

	return domain.MenuItem{
		ID:       envelope.ItemID,
		Name:     envelope.ItemName,
		ImageURL: envelope.ItemImageURL,
		Price:    envelope.ItemPrice,
		Rating:   envelope.ItemRating,
	}, nil
}

// MakePayment submits the payment payload and returns the transaction
// reference on success.
func (c *Client) MakePayment(ctx context.Context, req domain.PaymentRequest) (string, error) {
	var txnRef string
	err := c.withRetry(ctx, func() error {
		var envelope paymentEnvelope
		if err := c.post(ctx, "/emulator/interview/make_payment", actionPayment, req, &envelope); err != nil {
			return err
		}
		if envelope.ResponseCode == http.StatusOK && envelope.OutcomeCode == http.StatusOK && envelope.TxnRef != "" {
			txnRef = envelope.TxnRef
			return nil
		}
		if envelope.ErrorDetails != "" {
			return &ServerError{Message: envelope.ErrorDetails}
		}
		return &ServerError{Message: envelope.ResponseMessage}
	})
	return txnRef, err
}

func (c *Client) post(ctx context.Context, endpoint, action string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Partner-API-Key", c.apiKey)
	req.Header.Set("X-Forward-Proxy-Action", action)
	req.Header.Set("Accept-Language", c.Language())

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", action, err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	// The provider reports an empty catalog in the message body, sometimes
	// with a non-2xx status, so check for it before the status code.
	if strings.Contains(buf.String(), "No Cuisines Found") {
		return ErrNoCuisines
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &ServerError{Message: fmt.Sprintf("status code %d", resp.StatusCode)}
	}

	if err := json.Unmarshal(buf.Bytes(), out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func envelopeError(responseCode, outcomeCode int, message string) error {
	if responseCode == http.StatusOK && outcomeCode == http.StatusOK {
		return nil
	}
	if strings.Contains(message, "No Cuisines Found") {
		return ErrNoCuisines
	}
	return &ServerError{Message: message}
}

// withRetry runs fn up to maxRetries+1 times with a doubling delay,
// returning the last error once the ceiling is reached.
func (c *Client) withRetry(ctx context.Context, fn func() error) error {
	delay := c.backoff

	for attempt := 0; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if attempt >= c.maxRetries {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
}
