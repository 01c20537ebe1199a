package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apiError "github.com/wildsighthq/wildsight/errors"
	"github.com/wildsighthq/wildsight/models"
)

var testImage = []byte("not-really-a-jpeg")

func newOfflineClient(t *testing.T) *Client {
	t.Helper()
	c, err := New(Options{DataDir: t.TempDir()})
	require.NoError(t, err)
	return c
}

func TestSubmitReport_OfflineLocalRecordStands(t *testing.T) {
	c := newOfflineClient(t)

	for i := 0; i < 2; i++ {
		res, err := c.SubmitReport(context.Background(), "river bend", "two otters", testImage, "evidence.jpg")
		require.NoError(t, err)
		assert.False(t, res.Synced)
		assert.Equal(t, models.BaseAward, res.Award)
		assert.True(t, strings.HasPrefix(res.Report.ID, "r-"))
	}

	// Two submissions with no server present: balance += 100.
	assert.Equal(t, 2*models.BaseAward, c.Balance())

	reports, err := c.Reports()
	require.NoError(t, err)
	assert.Len(t, reports, 2)
}

func TestSubmitReport_FailedAwardLeavesNoReport(t *testing.T) {
	dir := t.TempDir()
	c, err := New(Options{DataDir: dir})
	require.NoError(t, err)

	// A directory squatting on the balance snapshot path makes the award
	// write fail. The submission must fail whole: no credit, no record.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "points.json"), 0o755))

	_, err = c.SubmitReport(context.Background(), "marsh", "", testImage, "evidence.jpg")
	require.ErrorIs(t, err, apiError.ErrStorageFailure)

	reports, err := c.Reports()
	require.NoError(t, err)
	assert.Empty(t, reports)
	assert.Zero(t, c.Balance())
}

func TestSubmitReport_ServerCopyReplacesLocal(t *testing.T) {
	serverAward := 75
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/reports", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(32<<20))
		report := models.NewReport(r.FormValue("user_id"), r.FormValue("location"), r.FormValue("description"), "srv-img.jpg")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": models.SubmitReportResponse{Report: report, Award: serverAward},
		})
	}))
	defer srv.Close()

	c, err := New(Options{BaseURL: srv.URL, DataDir: t.TempDir()})
	require.NoError(t, err)

	res, err := c.SubmitReport(context.Background(), "north ridge", "eagle nest", testImage, "evidence.jpg")
	require.NoError(t, err)
	assert.True(t, res.Synced)
	assert.True(t, strings.HasPrefix(res.Report.ID, "s-"))
	// The server-declared award wins over the local guess; both values are
	// surfaced so the owning layer can report the correction.
	assert.Equal(t, serverAward, res.Award)
	assert.Equal(t, models.BaseAward, res.LocalAward)
	assert.Equal(t, serverAward, c.Balance())

	// The cache holds only the canonical copy.
	reports, err := c.Reports()
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, res.Report.ID, reports[0].ID)
}

func TestSubmitReport_ServerErrorFallsBackToLocal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, err := New(Options{BaseURL: srv.URL, DataDir: t.TempDir()})
	require.NoError(t, err)

	res, err := c.SubmitReport(context.Background(), "marsh", "", testImage, "evidence.jpg")
	require.NoError(t, err)
	assert.False(t, res.Synced)
	assert.True(t, strings.HasPrefix(res.Report.ID, "r-"))
	assert.Equal(t, models.BaseAward, c.Balance())
}

func TestRedeem_LocalChecksAndSyncRoundTrip(t *testing.T) {
	accepting := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/redeem" || !accepting {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	}))
	defer srv.Close()

	catalog := []models.RewardCatalogEntry{{ID: "rw-t", Name: "Test Reward", Cost: 100}}
	c, err := New(Options{BaseURL: srv.URL, DataDir: t.TempDir(), Catalog: catalog})
	require.NoError(t, err)

	_, err = c.Redeem(context.Background(), "rw-404")
	assert.ErrorIs(t, err, apiError.ErrUnknownReward)

	// Balance 0 < cost 100: rejected locally, no record appended.
	_, err = c.Redeem(context.Background(), "rw-t")
	assert.ErrorIs(t, err, apiError.ErrInsufficientFunds)

	// Fund the account; replication is refused, so the redemption stays
	// local and the points stay spent.
	for i := 0; i < 2; i++ {
		_, err = c.SubmitReport(context.Background(), "lake", "", testImage, "evidence.jpg")
		require.NoError(t, err)
	}
	redemption, err := c.Redeem(context.Background(), "rw-t")
	require.NoError(t, err)
	assert.False(t, redemption.Synced)
	assert.Zero(t, c.Balance())

	// An explicit retry flips synced without touching anything else.
	accepting = true
	synced, err := c.RetryPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, synced)

	redemptions, err := c.Redemptions()
	require.NoError(t, err)
	require.Len(t, redemptions, 1)
	assert.True(t, redemptions[0].Synced)
	assert.Equal(t, redemption.ID, redemptions[0].ID)
	assert.Equal(t, redemption.RewardID, redemptions[0].RewardID)
	assert.Equal(t, redemption.Cost, redemptions[0].Cost)
	assert.Zero(t, c.Balance())
}

func TestSimulateVerify_AwardsOnce(t *testing.T) {
	c := newOfflineClient(t)

	res, err := c.SubmitReport(context.Background(), "river bend", "", testImage, "evidence.jpg")
	require.NoError(t, err)
	id := res.Report.ID

	verified, err := c.SimulateVerify(id)
	require.NoError(t, err)
	assert.Equal(t, models.VerifyAward, verified.Award)
	assert.Equal(t, models.BaseAward+models.VerifyAward, c.Balance())

	again, err := c.SimulateVerify(id)
	require.NoError(t, err)
	assert.True(t, again.AlreadyVerified)
	assert.Equal(t, models.BaseAward+models.VerifyAward, c.Balance())
}

func TestUserID_PersistsAcrossClients(t *testing.T) {
	dir := t.TempDir()

	c1, err := New(Options{DataDir: dir})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(c1.UserID(), "u-"))

	c2, err := New(Options{DataDir: dir})
	require.NoError(t, err)
	assert.Equal(t, c1.UserID(), c2.UserID())
}
