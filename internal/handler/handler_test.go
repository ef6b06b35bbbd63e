package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyonworks/primevault/internal/accrual"
	"github.com/halcyonworks/primevault/internal/domain"
	"github.com/halcyonworks/primevault/internal/gameconfig"
	"github.com/halcyonworks/primevault/internal/handler"
	"github.com/halcyonworks/primevault/internal/progression"
	"github.com/halcyonworks/primevault/internal/session"
	"github.com/halcyonworks/primevault/internal/synergy"
)

// stubClient implements remote.Client with overridable behaviors
type stubClient struct {
	status  func(ctx context.Context, ownerID string) (*domain.AccrualStatus, error)
	claim   func(ctx context.Context, ownerID string) (*domain.ClaimOutcome, error)
	consume func(ctx context.Context, ownerID, primeID string, items []domain.ItemSelection) (*domain.LevelUpResult, error)
	quote   func(ctx context.Context, primeID string, slotIndex, currentLevel int, ownerRarity domain.Rarity) (*domain.UpgradeQuote, error)
	upgrade func(ctx context.Context, primeID string, slotIndex, currentLevel int) (*domain.UpgradeResult, error)
	config  func(ctx context.Context, key string) (map[string]float64, error)
}

func (s *stubClient) GetAccrualStatus(ctx context.Context, ownerID string) (*domain.AccrualStatus, error) {
	return s.status(ctx, ownerID)
}

func (s *stubClient) ClaimAccrual(ctx context.Context, ownerID string) (*domain.ClaimOutcome, error) {
	return s.claim(ctx, ownerID)
}

func (s *stubClient) ConsumeExperienceItems(ctx context.Context, ownerID, primeID string, items []domain.ItemSelection) (*domain.LevelUpResult, error) {
	return s.consume(ctx, ownerID, primeID, items)
}

func (s *stubClient) QuoteAbilityUpgradeCost(ctx context.Context, primeID string, slotIndex, currentLevel int, ownerRarity domain.Rarity) (*domain.UpgradeQuote, error) {
	return s.quote(ctx, primeID, slotIndex, currentLevel, ownerRarity)
}

func (s *stubClient) ApplyAbilityUpgrade(ctx context.Context, primeID string, slotIndex, currentLevel int) (*domain.UpgradeResult, error) {
	return s.upgrade(ctx, primeID, slotIndex, currentLevel)
}

func (s *stubClient) GetNumericConfig(ctx context.Context, key string) (map[string]float64, error) {
	return s.config(ctx, key)
}

func postJSON(t *testing.T, handlerFunc http.HandlerFunc, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	encoded, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(encoded))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handlerFunc(rec, req)
	return rec
}

func testSession() *session.Session {
	sess := session.New("owner-1")
	sess.SetWallet(domain.Wallet{Gems: 500, Scrolls: 10})
	sess.SetStacks(map[string]int{"xp_potion_small": 10})
	sess.AddPrime(&domain.Prime{
		ID:        "prime-1",
		OwnerID:   "owner-1",
		Name:      "Ember Warden",
		Rarity:    domain.RarityRare,
		Level:     1,
		Power:     350,
		Abilities: domain.NewAbilitySlots(),
	})
	return sess
}

func TestAccrualHandlerClaim(t *testing.T) {
	handler.InitValidator()
	checkpoint := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	client := &stubClient{
		status: func(ctx context.Context, ownerID string) (*domain.AccrualStatus, error) {
			return &domain.AccrualStatus{
				ProductionRatePerHour: 10,
				Capacity:              300,
				LastCheckpointAt:      checkpoint,
			}, nil
		},
		claim: func(ctx context.Context, ownerID string) (*domain.ClaimOutcome, error) {
			return &domain.ClaimOutcome{Success: true, AmountClaimed: 50, NewTotal: 50}, nil
		},
	}

	coord := accrual.NewCoordinator(client)
	h := handler.NewAccrualHandler(coord)

	rec := postJSON(t, h.Refresh, handler.AccrualRequest{OwnerID: "owner-1"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postJSON(t, h.Claim, handler.AccrualRequest{OwnerID: "owner-1"})
	require.Equal(t, http.StatusOK, rec.Code)

	var outcome domain.ClaimOutcome
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&outcome))
	assert.True(t, outcome.Success)
	assert.Equal(t, 50, outcome.AmountClaimed)
}

func TestAccrualHandlerClaimWithoutRefresh(t *testing.T) {
	handler.InitValidator()

	client := &stubClient{}
	h := handler.NewAccrualHandler(accrual.NewCoordinator(client))

	rec := postJSON(t, h.Claim, handler.AccrualRequest{OwnerID: "owner-1"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAccrualHandlerValidation(t *testing.T) {
	handler.InitValidator()

	client := &stubClient{}
	h := handler.NewAccrualHandler(accrual.NewCoordinator(client))

	rec := postJSON(t, h.Claim, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAccrualHandlerProjectionRequiresOwnerID(t *testing.T) {
	handler.InitValidator()

	h := handler.NewAccrualHandler(accrual.NewCoordinator(&stubClient{}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.Projection(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProgressionHandlerLevelUpMirrorsStacks(t *testing.T) {
	handler.InitValidator()
	sess := testSession()

	client := &stubClient{
		consume: func(ctx context.Context, ownerID, primeID string, items []domain.ItemSelection) (*domain.LevelUpResult, error) {
			return &domain.LevelUpResult{
				Success:       true,
				NewLevel:      2,
				NewExperience: 0,
				NewPower:      402,
				LevelsGained:  1,
			}, nil
		},
	}
	cfg := gameconfig.NewProvider(&stubClient{config: func(ctx context.Context, key string) (map[string]float64, error) {
		return nil, domain.ErrTransient // fall back to built-in XP values
	}}, 8, time.Minute)

	h := handler.NewProgressionHandler(progression.NewCoordinator(client, cfg), sess)

	rec := postJSON(t, h.LevelUp, handler.LevelUpRequest{
		OwnerID: "owner-1",
		PrimeID: "prime-1",
		Items:   []domain.ItemSelection{{Kind: "xp_potion_small", Quantity: 2}},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	prime, err := sess.Prime("prime-1")
	require.NoError(t, err)
	assert.Equal(t, 2, prime.Level)
	assert.Equal(t, 8, sess.Stacks()["xp_potion_small"], "confirmed consumption debits the local mirror")
}

func TestProgressionHandlerUpgradeDebitsWallet(t *testing.T) {
	handler.InitValidator()
	sess := testSession()

	client := &stubClient{
		upgrade: func(ctx context.Context, primeID string, slotIndex, currentLevel int) (*domain.UpgradeResult, error) {
			return &domain.UpgradeResult{
				Success:    true,
				NewLevel:   2,
				GemsCost:   104,
				ScrollCost: 1,
			}, nil
		},
	}
	cfg := gameconfig.NewProvider(&stubClient{config: func(ctx context.Context, key string) (map[string]float64, error) {
		return nil, domain.ErrTransient
	}}, 8, time.Minute)

	h := handler.NewProgressionHandler(progression.NewCoordinator(client, cfg), sess)

	rec := postJSON(t, h.Upgrade, handler.UpgradeRequest{
		PrimeID:   "prime-1",
		SlotIndex: 0,
		Quote:     domain.UpgradeQuote{Gems: 104, Scrolls: 1},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, domain.Wallet{Gems: 396, Scrolls: 9}, sess.Wallet())
	prime, err := sess.Prime("prime-1")
	require.NoError(t, err)
	assert.Equal(t, 2, prime.Abilities[0].Level)
}

func TestProgressionHandlerUpgradeUnaffordable(t *testing.T) {
	handler.InitValidator()
	sess := testSession()
	sess.SetWallet(domain.Wallet{Gems: 5})

	cfg := gameconfig.NewProvider(&stubClient{config: func(ctx context.Context, key string) (map[string]float64, error) {
		return nil, domain.ErrTransient
	}}, 8, time.Minute)

	h := handler.NewProgressionHandler(progression.NewCoordinator(&stubClient{}, cfg), sess)

	rec := postJSON(t, h.Upgrade, handler.UpgradeRequest{
		PrimeID:   "prime-1",
		SlotIndex: 0,
		Quote:     domain.UpgradeQuote{Gems: 104, Scrolls: 1},
	})
	assert.Equal(t, http.StatusConflict, rec.Code, "local affordability gate rejects before any network call")
}

func TestRuneHandlerEquipUnequipSynergy(t *testing.T) {
	handler.InitValidator()
	sess := testSession()
	sess.Runes().Add(
		&domain.Rune{ID: "r1", Stats: domain.StatBonuses{Attack: 12}, SynergyTag: synergy.TagOffense, EquippedSlot: domain.SlotUnequipped},
		&domain.Rune{ID: "r2", Stats: domain.StatBonuses{Attack: 9}, SynergyTag: synergy.TagOffense, EquippedSlot: domain.SlotUnequipped},
	)

	h := handler.NewRuneHandler(sess)

	rec := postJSON(t, h.Equip, handler.EquipRuneRequest{PrimeID: "prime-1", RuneID: "r1", Slot: 0})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postJSON(t, h.Equip, handler.EquipRuneRequest{PrimeID: "prime-1", RuneID: "r2", Slot: 1})
	require.Equal(t, http.StatusOK, rec.Code)

	var board handler.BoardResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&board))
	require.Len(t, board.Result.Synergies, 1)
	assert.True(t, board.Result.Synergies[0].Active)
	assert.Equal(t, 12.0+9.0+25.0, board.Result.TotalStats.Attack)

	rec = postJSON(t, h.Unequip, handler.UnequipRuneRequest{PrimeID: "prime-1", Slot: 1})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&board))
	assert.False(t, board.Result.Synergies[0].Active, "dropping below the pair deactivates the synergy")
}

func TestRuneHandlerEquipMovesBetweenPrimes(t *testing.T) {
	handler.InitValidator()
	sess := testSession()
	sess.AddPrime(&domain.Prime{
		ID:        "prime-2",
		OwnerID:   "owner-1",
		Name:      "Gale Striker",
		Rarity:    domain.RarityEpic,
		Level:     1,
		Abilities: domain.NewAbilitySlots(),
	})
	sess.Runes().Add(
		&domain.Rune{ID: "r1", Stats: domain.StatBonuses{Attack: 10}, SynergyTag: synergy.TagOffense, EquippedSlot: domain.SlotUnequipped},
	)

	h := handler.NewRuneHandler(sess)

	rec := postJSON(t, h.Equip, handler.EquipRuneRequest{PrimeID: "prime-1", RuneID: "r1", Slot: 0})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postJSON(t, h.Equip, handler.EquipRuneRequest{PrimeID: "prime-2", RuneID: "r1", Slot: 1})
	require.Equal(t, http.StatusOK, rec.Code)

	// The first prime's board must not keep a ghost copy of the moved rune
	req := httptest.NewRequest(http.MethodGet, "/?prime_id=prime-1", nil)
	recA := httptest.NewRecorder()
	h.Synergy(recA, req)
	require.Equal(t, http.StatusOK, recA.Code)

	var boardA handler.BoardResponse
	require.NoError(t, json.NewDecoder(recA.Body).Decode(&boardA))
	assert.Nil(t, boardA.Slots[0])
	assert.Equal(t, 0.0, boardA.Result.TotalStats.Attack)

	var boardB handler.BoardResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&boardB))
	require.NotNil(t, boardB.Slots[1])
	assert.Equal(t, "r1", boardB.Slots[1].ID)
}

func TestRuneHandlerUnknownRune(t *testing.T) {
	handler.InitValidator()
	h := handler.NewRuneHandler(testSession())

	rec := postJSON(t, h.Equip, handler.EquipRuneRequest{PrimeID: "prime-1", RuneID: "ghost", Slot: 0})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRuneHandlerSynergyQuery(t *testing.T) {
	handler.InitValidator()
	h := handler.NewRuneHandler(testSession())

	req := httptest.NewRequest(http.MethodGet, "/?prime_id=prime-1", nil)
	rec := httptest.NewRecorder()
	h.Synergy(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rec = httptest.NewRecorder()
	h.Synergy(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
