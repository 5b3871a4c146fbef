package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wikid82/argus/internal/models"
)

func TestAuditService_RecordAndListNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	site := createTestSite(t, db)
	svc := NewAuditService(db)

	for i := 0; i < 3; i++ {
		err := svc.Record(site.ID, "ops", models.AuditPolicyUpdate, map[string]interface{}{"n": i})
		require.NoError(t, err)
	}

	records, next, err := svc.List(site.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Zero(t, next)
	assert.Contains(t, records[0].Payload, `"n":2`)
	assert.Contains(t, records[2].Payload, `"n":0`)
	for _, rec := range records {
		assert.NotEmpty(t, rec.UUID)
		assert.Equal(t, "ops", rec.Actor)
	}
}

func TestAuditService_CursorPagination(t *testing.T) {
	db := setupTestDB(t)
	site := createTestSite(t, db)
	svc := NewAuditService(db)

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.Record(site.ID, "ops", models.AuditAllowAdd, map[string]interface{}{"i": i}))
	}

	page1, cursor, err := svc.List(site.ID, 0, 2)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	require.NotZero(t, cursor)

	page2, cursor2, err := svc.List(site.ID, cursor, 2)
	require.NoError(t, err)
	require.Len(t, page2, 2)
	require.NotZero(t, cursor2)

	page3, cursor3, err := svc.List(site.ID, cursor2, 2)
	require.NoError(t, err)
	require.Len(t, page3, 1)
	assert.Zero(t, cursor3)

	// Pages are disjoint and strictly descending.
	seen := map[uint]bool{}
	var all []models.AuditRecord
	all = append(all, page1...)
	all = append(all, page2...)
	all = append(all, page3...)
	for i, rec := range all {
		assert.False(t, seen[rec.ID], fmt.Sprintf("record %d repeated", rec.ID))
		seen[rec.ID] = true
		if i > 0 {
			assert.Less(t, rec.ID, all[i-1].ID)
		}
	}
}

func TestAuditService_ScopedPerSite(t *testing.T) {
	db := setupTestDB(t)
	siteA := createTestSite(t, db)
	siteB := &models.Site{Name: "other", Domain: "other.example"}
	require.NoError(t, NewSiteService(db).Create(siteB))
	svc := NewAuditService(db)

	require.NoError(t, svc.Record(siteA.ID, "ops", models.AuditBlockAdd, nil))

	records, _, err := svc.List(siteB.ID, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}
