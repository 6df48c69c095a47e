package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"zirako/internal/pkg/apperr"
	"zirako/internal/service/reward/domain"
	"zirako/internal/service/reward/infrastructure"
)

func newService(repo domain.Repository) *RewardService {
	return NewRewardService(repo, &infrastructure.SerialTx{}, noop.NewTracerProvider().Tracer("test"))
}

func TestGrantRecordsActionAndPoints(t *testing.T) {
	repo := infrastructure.NewMemoryRepository()
	repo.Seed(1, 0, domain.TierBronze)
	svc := newService(repo)

	listingID := int64(9)
	grant, err := svc.Grant(context.Background(), 1, domain.ActionDonation, domain.Ref{ListingID: &listingID})
	require.NoError(t, err)

	assert.Equal(t, int64(50), grant.TotalPoints)
	assert.Equal(t, domain.TierBronze, grant.Tier)
	actions := repo.Actions(1)
	require.Len(t, actions, 1)
	assert.True(t, decimal.NewFromInt(3).Equal(actions[0].Co2Kg))
	assert.Equal(t, &listingID, actions[0].ListingID)
}

func TestGrantPromotesTierAtThreshold(t *testing.T) {
	repo := infrastructure.NewMemoryRepository()
	repo.Seed(1, 480, domain.TierBronze)
	svc := newService(repo)

	grant, err := svc.Grant(context.Background(), 1, domain.ActionPickup, domain.Ref{})
	require.NoError(t, err)

	assert.Equal(t, int64(500), grant.TotalPoints)
	assert.Equal(t, domain.TierSilver, grant.Tier)
	assert.Equal(t, domain.TierSilver, repo.Tier(1))
}

func TestGrantRejectsUnknownKindWithoutSideEffects(t *testing.T) {
	repo := infrastructure.NewMemoryRepository()
	repo.Seed(1, 0, domain.TierBronze)
	svc := newService(repo)

	_, err := svc.Grant(context.Background(), 1, domain.ActionKind("recycling"), domain.Ref{})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	points, _ := repo.GetPoints(context.Background(), 1)
	assert.Zero(t, points)
	assert.Empty(t, repo.Actions(1))
}

func TestGrantUnknownAccount(t *testing.T) {
	svc := newService(infrastructure.NewMemoryRepository())

	_, err := svc.Grant(context.Background(), 404, domain.ActionSale, domain.Ref{})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestConcurrentGrantsAreNotLost(t *testing.T) {
	repo := infrastructure.NewMemoryRepository()
	repo.Seed(1, 0, domain.TierBronze)
	svc := newService(repo)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Grant(context.Background(), 1, domain.ActionSale, domain.Ref{})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	points, err := repo.GetPoints(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(n*10), points)
	assert.Len(t, repo.Actions(1), n)
	assert.Equal(t, domain.TierSilver, repo.Tier(1))
}

func TestSummary(t *testing.T) {
	repo := infrastructure.NewMemoryRepository()
	repo.Seed(1, 0, domain.TierBronze)
	repo.Seed(2, 0, domain.TierBronze)
	svc := newService(repo)
	svc.now = func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) }

	ctx := context.Background()
	for i := 0; i < 7; i++ {
		_, err := svc.Grant(ctx, 1, domain.ActionDonation, domain.Ref{})
		require.NoError(t, err)
	}
	_, err := svc.Grant(ctx, 1, domain.ActionExchange, domain.Ref{})
	require.NoError(t, err)
	_, err = svc.Grant(ctx, 2, domain.ActionSale, domain.Ref{})
	require.NoError(t, err)

	sum, err := svc.Summary(ctx, 1)
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(23).Equal(sum.TotalCo2Kg), "total = %s", sum.TotalCo2Kg)
	assert.Equal(t, int64(8), sum.ActionCount)
	assert.Equal(t, int64(380), sum.Points)
	assert.Equal(t, "Bronze", sum.TierName)
	require.Len(t, sum.ByKind, 2)
	assert.Equal(t, domain.ActionDonation, sum.ByKind[0].Kind)
	assert.Equal(t, int64(7), sum.ByKind[0].Count)
	require.Len(t, sum.Monthly, 1)
	assert.Equal(t, "2025-06", sum.Monthly[0].Month)
	assert.Len(t, sum.Recent, 8)
	assert.Equal(t, domain.ActionExchange, sum.Recent[0].Kind)
	assert.Equal(t, domain.Equivalences{Trees: 1, KmDriven: 192, LitersWater: 2300, PlasticBags: 230}, sum.Equivalences)
}

func TestRecalculateTiers(t *testing.T) {
	repo := infrastructure.NewMemoryRepository()
	repo.Seed(1, 1200, domain.TierBronze)
	repo.Seed(2, 100, domain.TierBronze)
	repo.Seed(3, 5000, domain.TierGold)
	svc := newService(repo)

	fixed, err := svc.RecalculateTiers(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, fixed)
	assert.Equal(t, domain.TierGold, repo.Tier(1))
	assert.Equal(t, domain.TierBronze, repo.Tier(2))
	assert.Equal(t, domain.TierDiamond, repo.Tier(3))
}

func TestMonthsAgo(t *testing.T) {
	now := time.Date(2025, 3, 31, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC), monthsAgo(now, 5))
}

func TestSummaryRecentCarriesListingTitleAndMonthsNewestFirst(t *testing.T) {
	repo := infrastructure.NewMemoryRepository()
	repo.Seed(1, 0, domain.TierBronze)
	repo.SetListingTitle(42, "Bicicleta de montaña")
	svc := newService(repo)
	ctx := context.Background()

	svc.now = func() time.Time { return time.Date(2025, 4, 10, 9, 0, 0, 0, time.UTC) }
	_, err := svc.Grant(ctx, 1, domain.ActionSale, domain.Ref{})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) }
	listingID := int64(42)
	_, err = svc.Grant(ctx, 1, domain.ActionDonation, domain.Ref{ListingID: &listingID})
	require.NoError(t, err)

	sum, err := svc.Summary(ctx, 1)
	require.NoError(t, err)
	require.Len(t, sum.Recent, 2)
	assert.Equal(t, "Bicicleta de montaña", sum.Recent[0].ListingTitle)
	assert.Empty(t, sum.Recent[1].ListingTitle)
	require.Len(t, sum.Monthly, 2)
	assert.Equal(t, "2025-06", sum.Monthly[0].Month)
	assert.Equal(t, "2025-04", sum.Monthly[1].Month)
}
