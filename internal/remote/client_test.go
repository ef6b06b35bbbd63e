package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyonworks/primevault/internal/domain"
)

func TestGetAccrualStatus(t *testing.T) {
	checkpoint := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/accrual/status", r.URL.Path)
		assert.Equal(t, "owner-1", r.URL.Query().Get("owner_id"))
		assert.Equal(t, "secret", r.Header.Get("X-API-Key"))

		json.NewEncoder(w).Encode(domain.AccrualStatus{
			ProductionRatePerHour: 10,
			Capacity:              300,
			LastCheckpointAt:      checkpoint,
			AccumulatedGems:       50,
		})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "secret", time.Second)
	status, err := client.GetAccrualStatus(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Equal(t, 300, status.Capacity)
	assert.True(t, checkpoint.Equal(status.LastCheckpointAt))
}

func TestGetAccrualStatusValidation(t *testing.T) {
	client := NewHTTPClient("http://unused", "", time.Second)
	_, err := client.GetAccrualStatus(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestClaimAccrual(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			OwnerID string `json:"owner_id"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "owner-1", req.OwnerID)

		json.NewEncoder(w).Encode(domain.ClaimOutcome{
			Success:       true,
			AmountClaimed: 50,
			NewTotal:      150,
		})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "", time.Second)
	outcome, err := client.ClaimAccrual(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, 50, outcome.AmountClaimed)
}

func TestClaimBusinessRejectionIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Business-level rejection rides a 200, not an HTTP error status
		json.NewEncoder(w).Encode(domain.ClaimOutcome{
			Success: false,
			Message: "Nothing to claim yet",
		})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "", time.Second)
	outcome, err := client.ClaimAccrual(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.False(t, outcome.Success)
	assert.Equal(t, "Nothing to claim yet", outcome.Message)
}

func TestServerErrorMapsToTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "", time.Second)
	_, err := client.ClaimAccrual(context.Background(), "owner-1")
	assert.ErrorIs(t, err, domain.ErrTransient)
}

func TestTransportFailureMapsToTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	client := NewHTTPClient(srv.URL, "", time.Second)
	_, err := client.GetAccrualStatus(context.Background(), "owner-1")
	assert.ErrorIs(t, err, domain.ErrTransient)
}

func TestClientErrorMapsToRejectedWithServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "owner not found"})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "", time.Second)
	_, err := client.GetAccrualStatus(context.Background(), "owner-1")
	require.ErrorIs(t, err, domain.ErrRejected)
	assert.Contains(t, err.Error(), "owner not found", "server message carried verbatim")
}

func TestMalformedResponseMapsToInvalidResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "", time.Second)
	_, err := client.GetAccrualStatus(context.Background(), "owner-1")
	assert.ErrorIs(t, err, domain.ErrInvalidResponse)
}

func TestQuoteAbilityUpgradeCost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PrimeID      string `json:"prime_id"`
			SlotIndex    int    `json:"slot_index"`
			CurrentLevel int    `json:"current_level"`
			OwnerRarity  string `json:"owner_rarity"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "prime-1", req.PrimeID)
		assert.Equal(t, 2, req.SlotIndex)
		assert.Equal(t, "epic", req.OwnerRarity)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"gems_cost":   120,
			"scroll_cost": 2,
			"valid":       true,
		})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "", time.Second)
	quote, err := client.QuoteAbilityUpgradeCost(context.Background(), "prime-1", 2, 3, domain.RarityEpic)
	require.NoError(t, err)
	assert.Equal(t, 120, quote.Gems)
	assert.Equal(t, 2, quote.Scrolls)
	assert.False(t, quote.Estimated, "a real quote is never marked estimated")
}

func TestQuoteDeclinedMapsToRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"valid": false})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "", time.Second)
	_, err := client.QuoteAbilityUpgradeCost(context.Background(), "prime-1", 0, 1, domain.RarityCommon)
	assert.ErrorIs(t, err, domain.ErrRejected)
}

func TestGetNumericConfig(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/config/xp_item_values", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"key":    "xp_item_values",
			"values": map[string]float64{"xp_potion_small": 100},
		})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "", time.Second)
	values, err := client.GetNumericConfig(context.Background(), "xp_item_values")
	require.NoError(t, err)
	assert.Equal(t, 100.0, values["xp_potion_small"])
}

func TestGetNumericConfigMissingValues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"key": "xp_item_values"})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "", time.Second)
	_, err := client.GetNumericConfig(context.Background(), "xp_item_values")
	assert.ErrorIs(t, err, domain.ErrInvalidResponse, "payload failing validation is rejected")
}
