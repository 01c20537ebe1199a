package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apiError "github.com/wildsighthq/wildsight/errors"
	"github.com/wildsighthq/wildsight/models"
)

func TestReportStore_SaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.json")
	store := NewReportStore(path)

	first := models.NewReport("u-1", "river bend", "two otters", "img-1.jpg")
	second := models.NewReport("u-1", "north ridge", "eagle nest", "img-2.jpg")
	require.NoError(t, store.SaveReport(first))
	require.NoError(t, store.SaveReport(second))

	reports, err := store.GetAllReports()
	require.NoError(t, err)
	require.Len(t, reports, 2)
	// Newest first.
	assert.Equal(t, second.ID, reports[0].ID)
	assert.Equal(t, first.ID, reports[1].ID)

	// A fresh store over the same snapshot sees the same set.
	reloaded := NewReportStore(path)
	again, err := reloaded.GetAllReports()
	require.NoError(t, err)
	assert.Equal(t, reports, again)
}

func TestReportStore_GetByIDNotFound(t *testing.T) {
	store := NewReportStore(filepath.Join(t.TempDir(), "reports.json"))

	_, err := store.GetReportByID("s-missing")
	assert.ErrorIs(t, err, apiError.ErrNotFound)
}

func TestReportStore_CorruptSnapshotReadsAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store := NewReportStore(path)
	reports, err := store.GetAllReports()
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestReportStore_TypeMismatchedSnapshotReadsAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.json")
	// Valid JSON, but the trailing element is not a report object. The
	// whole snapshot is discarded; no partially decoded records survive.
	raw := []byte(`[{"id":"s-1","status":"pending"},42]`)
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	store := NewReportStore(path)
	reports, err := store.GetAllReports()
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestReportStore_UpdateMutateErrorLeavesStoreUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.json")
	store := NewReportStore(path)

	report := models.NewReport("u-1", "marsh", "", "img.jpg")
	require.NoError(t, store.SaveReport(report))

	_, err := store.UpdateReport(report.ID, func(r *models.Report) error {
		r.Status = models.ReportStatusVerified
		return assert.AnError
	})
	require.Error(t, err)

	got, err := store.GetReportByID(report.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusPending, got.Status)
}

func TestReportStore_ReplaceSwapsIdentity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.json")
	store := NewReportStore(path)

	local := models.NewLocalReport("u-1", "lake", "", "img.jpg")
	require.NoError(t, store.SaveReport(local))

	canonical := models.NewReport("u-1", "lake", "", "srv-img.jpg")
	require.NoError(t, store.ReplaceReport(local.ID, canonical))

	_, err := store.GetReportByID(local.ID)
	assert.ErrorIs(t, err, apiError.ErrNotFound)
	got, err := store.GetReportByID(canonical.ID)
	require.NoError(t, err)
	assert.Equal(t, "srv-img.jpg", got.ImageRef)
}
