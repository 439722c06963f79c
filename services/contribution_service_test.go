package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContributionServiceForTest() (ContributionService, *fakeContributionRepo) {
	repo := newFakeContributionRepo()
	svc := NewContributionService(repo, newFakePlayerRepo(1, 2))
	return svc, repo
}

func TestCreateContribution(t *testing.T) {
	svc, _ := newContributionServiceForTest()

	when := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	contribution, err := svc.CreateContribution(context.Background(), CreateContributionInput{
		PlayerID: 1,
		Amount:   dec("250"),
		Date:     when,
	})
	require.NoError(t, err)

	assert.NotZero(t, contribution.ID)
	assert.Equal(t, when, contribution.Date)
	assert.True(t, dec("250").Equal(contribution.Amount))
}

func TestCreateContribution_DefaultsDate(t *testing.T) {
	svc, _ := newContributionServiceForTest()

	contribution, err := svc.CreateContribution(context.Background(), CreateContributionInput{
		PlayerID: 1,
		Amount:   dec("10"),
	})
	require.NoError(t, err)
	assert.False(t, contribution.Date.IsZero())
}

func TestCreateContribution_RejectsNonPositiveAmounts(t *testing.T) {
	svc, repo := newContributionServiceForTest()

	for _, amount := range []string{"0", "-25"} {
		_, err := svc.CreateContribution(context.Background(), CreateContributionInput{
			PlayerID: 1,
			Amount:   dec(amount),
		})
		assert.ErrorIs(t, err, ErrInvalidAmount, "amount %s", amount)
	}
	assert.Empty(t, repo.rows)
}

func TestCreateContribution_UnknownPlayer(t *testing.T) {
	svc, _ := newContributionServiceForTest()

	_, err := svc.CreateContribution(context.Background(), CreateContributionInput{
		PlayerID: 99,
		Amount:   dec("10"),
	})
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestDeleteContribution_NotFound(t *testing.T) {
	svc, _ := newContributionServiceForTest()

	err := svc.DeleteContribution(context.Background(), 123)
	assert.ErrorIs(t, err, ErrContributionNotFound)
}
