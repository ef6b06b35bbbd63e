package accrual

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/halcyonworks/primevault/internal/domain"
)

// MockClient implements remote.Client for testing
type MockClient struct {
	mock.Mock
}

func (m *MockClient) GetAccrualStatus(ctx context.Context, ownerID string) (*domain.AccrualStatus, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccrualStatus), args.Error(1)
}

func (m *MockClient) ClaimAccrual(ctx context.Context, ownerID string) (*domain.ClaimOutcome, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClaimOutcome), args.Error(1)
}

func (m *MockClient) ConsumeExperienceItems(ctx context.Context, ownerID, primeID string, items []domain.ItemSelection) (*domain.LevelUpResult, error) {
	args := m.Called(ctx, ownerID, primeID, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LevelUpResult), args.Error(1)
}

func (m *MockClient) QuoteAbilityUpgradeCost(ctx context.Context, primeID string, slotIndex, currentLevel int, ownerRarity domain.Rarity) (*domain.UpgradeQuote, error) {
	args := m.Called(ctx, primeID, slotIndex, currentLevel, ownerRarity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UpgradeQuote), args.Error(1)
}

func (m *MockClient) ApplyAbilityUpgrade(ctx context.Context, primeID string, slotIndex, currentLevel int) (*domain.UpgradeResult, error) {
	args := m.Called(ctx, primeID, slotIndex, currentLevel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UpgradeResult), args.Error(1)
}

func (m *MockClient) GetNumericConfig(ctx context.Context, key string) (map[string]float64, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]float64), args.Error(1)
}
