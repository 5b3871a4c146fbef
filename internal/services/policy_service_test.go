package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wikid82/argus/internal/cache"
	"github.com/Wikid82/argus/internal/models"
)

func newPolicyFixture(t *testing.T) (*PolicyService, *AuditService, *cache.Generations, uint) {
	db := setupTestDB(t)
	site := createTestSite(t, db)
	gens := cache.NewGenerations()
	audit := NewAuditService(db)
	return NewPolicyService(db, audit, gens), audit, gens, site.ID
}

func TestPolicyService_GetCreatesBalancedDefault(t *testing.T) {
	svc, _, _, siteID := newPolicyFixture(t)

	policy, err := svc.Get(siteID)
	require.NoError(t, err)
	assert.Equal(t, models.PolicyModeBalanced, policy.Mode)
	assert.Equal(t, models.DefaultThresholdBalanced, policy.ThresholdScore)

	// Second read returns the same row, not a new default.
	again, err := svc.Get(siteID)
	require.NoError(t, err)
	assert.Equal(t, policy.ID, again.ID)
}

func TestPolicyService_UpdateValidation(t *testing.T) {
	svc, _, _, siteID := newPolicyFixture(t)

	_, err := svc.Update(siteID, "aggressive", 50, "ops")
	assert.ErrorIs(t, err, ErrInvalidPolicyMode)

	_, err = svc.Update(siteID, models.PolicyModeStrict, 101, "ops")
	assert.ErrorIs(t, err, ErrInvalidThreshold)

	_, err = svc.Update(siteID, models.PolicyModeStrict, -1, "ops")
	assert.ErrorIs(t, err, ErrInvalidThreshold)
}

func TestPolicyService_UpdatePersistsAuditsAndBumps(t *testing.T) {
	svc, audit, gens, siteID := newPolicyFixture(t)
	before := gens.Current(siteID)

	policy, err := svc.Update(siteID, models.PolicyModeStrict, 40, "ops")
	require.NoError(t, err)
	assert.Equal(t, models.PolicyModeStrict, policy.Mode)
	assert.Equal(t, 40, policy.ThresholdScore)

	assert.Greater(t, gens.Current(siteID), before)

	records, _, err := audit.List(siteID, 0, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.AuditPolicyUpdate, records[0].Action)
	assert.Equal(t, "ops", records[0].Actor)
	assert.Contains(t, records[0].Payload, "strict")
}
