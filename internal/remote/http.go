package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/halcyonworks/primevault/internal/domain"
	"github.com/halcyonworks/primevault/internal/metrics"
)

// API paths on the ledger
const (
	pathAccrualStatus  = "/api/v1/accrual/status"
	pathAccrualClaim   = "/api/v1/accrual/claim"
	pathConsumeXP      = "/api/v1/prime/consume-xp"
	pathAbilityQuote   = "/api/v1/ability/quote"
	pathAbilityUpgrade = "/api/v1/ability/upgrade"
	pathNumericConfig  = "/api/v1/config/"
)

// Operation labels for remote call metrics
const (
	opAccrualStatus  = "accrual_status"
	opAccrualClaim   = "accrual_claim"
	opConsumeXP      = "consume_xp"
	opAbilityQuote   = "ability_quote"
	opAbilityUpgrade = "ability_upgrade"
	opNumericConfig  = "numeric_config"
)

const headerAPIKey = "X-API-Key"

// HTTPClient implements Client against the ledger's JSON API
type HTTPClient struct {
	baseURL  string
	apiKey   string
	http     *http.Client
	validate *validator.Validate
}

// NewHTTPClient creates a ledger client. timeout bounds every call; pass
// zero to use the default.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL:  baseURL,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: timeout},
		validate: validator.New(),
	}
}

// claimRequest is the wire body for the claim endpoint
type claimRequest struct {
	OwnerID string `json:"owner_id"`
}

// consumeXPRequest is the wire body for the atomic consume endpoint
type consumeXPRequest struct {
	OwnerID string                 `json:"owner_id"`
	PrimeID string                 `json:"prime_id"`
	Items   []domain.ItemSelection `json:"items"`
}

// quoteRequest is the wire body for the cost-quote endpoint
type quoteRequest struct {
	PrimeID      string `json:"prime_id"`
	SlotIndex    int    `json:"slot_index"`
	CurrentLevel int    `json:"current_level"`
	OwnerRarity  string `json:"owner_rarity"`
}

// quoteResponse is the ledger's quote payload
type quoteResponse struct {
	GemsCost   int  `json:"gems_cost" validate:"gte=0"`
	ScrollCost int  `json:"scroll_cost" validate:"gte=0"`
	Valid      bool `json:"valid"`
}

// upgradeRequest is the wire body for the apply-upgrade endpoint
type upgradeRequest struct {
	PrimeID      string `json:"prime_id"`
	SlotIndex    int    `json:"slot_index"`
	CurrentLevel int    `json:"current_level"`
}

// configResponse is the ledger's numeric config payload
type configResponse struct {
	Key    string             `json:"key"`
	Values map[string]float64 `json:"values" validate:"required"`
}

// errorResponse is the ledger's error payload for non-2xx statuses
type errorResponse struct {
	Error string `json:"error"`
}

func (c *HTTPClient) GetAccrualStatus(ctx context.Context, ownerID string) (*domain.AccrualStatus, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner ID is required", domain.ErrInvalidInput)
	}

	endpoint := c.baseURL + pathAccrualStatus + "?owner_id=" + url.QueryEscape(ownerID)

	var status domain.AccrualStatus
	if err := c.do(ctx, opAccrualStatus, http.MethodGet, endpoint, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *HTTPClient) ClaimAccrual(ctx context.Context, ownerID string) (*domain.ClaimOutcome, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner ID is required", domain.ErrInvalidInput)
	}

	var outcome domain.ClaimOutcome
	if err := c.do(ctx, opAccrualClaim, http.MethodPost, c.baseURL+pathAccrualClaim, claimRequest{OwnerID: ownerID}, &outcome); err != nil {
		return nil, err
	}
	return &outcome, nil
}

func (c *HTTPClient) ConsumeExperienceItems(ctx context.Context, ownerID, primeID string, items []domain.ItemSelection) (*domain.LevelUpResult, error) {
	if ownerID == "" || primeID == "" {
		return nil, fmt.Errorf("%w: owner and prime IDs are required", domain.ErrInvalidInput)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no items selected", domain.ErrInvalidInput)
	}

	req := consumeXPRequest{OwnerID: ownerID, PrimeID: primeID, Items: items}

	var result domain.LevelUpResult
	if err := c.do(ctx, opConsumeXP, http.MethodPost, c.baseURL+pathConsumeXP, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) QuoteAbilityUpgradeCost(ctx context.Context, primeID string, slotIndex, currentLevel int, ownerRarity domain.Rarity) (*domain.UpgradeQuote, error) {
	req := quoteRequest{
		PrimeID:      primeID,
		SlotIndex:    slotIndex,
		CurrentLevel: currentLevel,
		OwnerRarity:  string(ownerRarity),
	}

	var resp quoteResponse
	if err := c.do(ctx, opAbilityQuote, http.MethodPost, c.baseURL+pathAbilityQuote, req, &resp); err != nil {
		return nil, err
	}
	if !resp.Valid {
		return nil, fmt.Errorf("%w: ledger declined to quote this upgrade", domain.ErrRejected)
	}

	return &domain.UpgradeQuote{Gems: resp.GemsCost, Scrolls: resp.ScrollCost}, nil
}

func (c *HTTPClient) ApplyAbilityUpgrade(ctx context.Context, primeID string, slotIndex, currentLevel int) (*domain.UpgradeResult, error) {
	req := upgradeRequest{PrimeID: primeID, SlotIndex: slotIndex, CurrentLevel: currentLevel}

	var result domain.UpgradeResult
	if err := c.do(ctx, opAbilityUpgrade, http.MethodPost, c.baseURL+pathAbilityUpgrade, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) GetNumericConfig(ctx context.Context, key string) (map[string]float64, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: config key is required", domain.ErrInvalidInput)
	}

	var resp configResponse
	if err := c.do(ctx, opNumericConfig, http.MethodGet, c.baseURL+pathNumericConfig+url.PathEscape(key), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Values, nil
}

// do performs one round trip: encode body, send, map status codes to the
// error taxonomy, decode and validate the response into out.
func (c *HTTPClient) do(ctx context.Context, operation, method, endpoint string, body, out interface{}) error {
	start := time.Now()
	err := c.doOnce(ctx, method, endpoint, body, out)
	metrics.RemoteCallDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	metrics.RemoteCallsTotal.WithLabelValues(operation, outcomeLabel(err)).Inc()
	return err
}

func (c *HTTPClient) doOnce(ctx context.Context, method, endpoint string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set(headerAPIKey, c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTransient, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%w: ledger returned status %d", domain.ErrTransient, resp.StatusCode)
	case resp.StatusCode >= http.StatusBadRequest:
		var errResp errorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errResp); decodeErr == nil && errResp.Error != "" {
			return fmt.Errorf("%w: %s", domain.ErrRejected, errResp.Error)
		}
		return fmt.Errorf("%w: ledger returned status %d", domain.ErrRejected, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err)
	}
	if err := c.validate.Struct(out); err != nil {
		// Maps and slices are not structs; only validate struct payloads
		if _, ok := err.(*validator.InvalidValidationError); !ok {
			return fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err)
		}
	}

	return nil
}

func outcomeLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
