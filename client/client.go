// Package client holds the citizen-side half of the system: a local cache
// of reports, redemptions and a points mirror, plus the reconciliation
// protocol that aligns local applies with the authoritative server.
//
// Every mutating operation is applied locally first and never fails due to
// network state; a remote attempt follows, and on success the server
// outcome wins.
package client

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/google/uuid"

	"github.com/wildsighthq/wildsight/config"
	"github.com/wildsighthq/wildsight/db"
	apiError "github.com/wildsighthq/wildsight/errors"
	"github.com/wildsighthq/wildsight/models"
	"github.com/wildsighthq/wildsight/services"
)

// Options configure a client. Zero values fall back to sensible defaults;
// BaseURL empty means no server is known and every operation stays local.
type Options struct {
	BaseURL string
	DataDir string
	Timeout time.Duration
	Catalog []models.RewardCatalogEntry
}

type Client struct {
	baseURL string
	userID  string
	catalog []models.RewardCatalogEntry

	reports     db.ReportStore
	redemptions db.RedemptionStore
	points      db.PointsStore
	images      services.AssetStore

	// lifecycle applies the exactly-once verification rules against the
	// local stores for environments with no server.
	lifecycle services.ReportService

	remote *remoteAPI
}

func New(opts Options) (*Client, error) {
	if opts.DataDir == "" {
		opts.DataDir = "clientdata"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.Catalog == nil {
		opts.Catalog = models.DefaultRewardCatalog()
	}

	userID, err := loadOrCreateUserID(opts.DataDir)
	if err != nil {
		return nil, err
	}
	images, err := services.NewDiskAssetStore(filepath.Join(opts.DataDir, "uploads"))
	if err != nil {
		return nil, err
	}

	reports := db.NewReportStore(filepath.Join(opts.DataDir, "reports.json"))
	redemptions := db.NewRedemptionStore(filepath.Join(opts.DataDir, "redemptions.json"))
	points := db.NewPointsStore(filepath.Join(opts.DataDir, "points.json"))

	return &Client{
		baseURL:     strings.TrimSuffix(opts.BaseURL, "/"),
		userID:      userID,
		catalog:     opts.Catalog,
		reports:     reports,
		redemptions: redemptions,
		points:      points,
		images:      images,
		lifecycle:   services.NewReportService(reports, points, &config.Config{}),
		remote:      newRemoteAPI(opts.BaseURL, opts.Timeout),
	}, nil
}

// loadOrCreateUserID keeps one anonymous identity per client data dir.
func loadOrCreateUserID(dataDir string) (string, error) {
	path := filepath.Join(dataDir, "user_id")
	raw, err := os.ReadFile(path)
	if err == nil && len(raw) > 0 {
		return strings.TrimSpace(string(raw)), nil
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", err
	}
	id := "u-" + uuid.NewString()
	if err := os.WriteFile(path, []byte(id), 0o644); err != nil {
		return "", err
	}
	return id, nil
}

func (c *Client) UserID() string {
	return c.userID
}

func (c *Client) Balance() int {
	balance, _ := c.points.Balance(c.userID)
	return balance
}

func (c *Client) Reports() ([]models.Report, error) {
	return c.reports.GetAllReports()
}

func (c *Client) Redemptions() ([]models.Redemption, error) {
	return c.redemptions.GetAllRedemptions()
}

func (c *Client) Catalog() []models.RewardCatalogEntry {
	out := make([]models.RewardCatalogEntry, len(c.catalog))
	copy(out, c.catalog)
	return out
}

// SubmitResult reports what a submission ended up as after reconciliation.
// Award is the effective award; LocalAward is what was granted before the
// server answered, kept so the owning layer can surface a correction.
type SubmitResult struct {
	Report     models.Report
	Award      int
	LocalAward int
	Synced     bool
}

// SubmitReport applies the submission locally, then attempts the server.
// The local apply cannot fail due to network state; a failed or timed-out
// remote attempt leaves the local report and award as the only record.
func (c *Client) SubmitReport(ctx context.Context, location, description string, image []byte, filename string) (*SubmitResult, error) {
	_, ext := services.CheckSupportedImage(filename)
	ref, err := c.images.Store(ctx, image, ext)
	if err != nil {
		return nil, err
	}

	local := models.NewLocalReport(c.userID, location, description, ref)
	if _, err := c.points.Credit(c.userID, models.BaseAward); err != nil {
		return nil, err
	}
	if err := c.reports.SaveReport(local); err != nil {
		// Undo the award so a failed record write never leaves a credit
		// without a report.
		if _, derr := c.points.Debit(c.userID, models.BaseAward); derr != nil {
			log.Errorf("failed to roll back submission award for %s: %v", c.userID, derr)
		}
		return nil, err
	}

	result := &SubmitResult{Report: *local, Award: models.BaseAward, LocalAward: models.BaseAward}
	if c.baseURL == "" {
		return result, nil
	}

	remote, err := c.remote.submitReport(ctx, c.userID, location, description, image, filename)
	if err != nil {
		log.WithField("report_id", local.ID).Warnf("submission kept local: %v", err)
		return result, nil
	}

	// Server canonical copy replaces the local entity; the server-declared
	// award wins over the local guess.
	if err := c.reports.ReplaceReport(local.ID, remote.Report); err != nil {
		return nil, err
	}
	if delta := remote.Award - models.BaseAward; delta > 0 {
		if _, err := c.points.Credit(c.userID, delta); err != nil {
			return nil, err
		}
	} else if delta < 0 {
		if _, err := c.points.Debit(c.userID, -delta); err != nil {
			return nil, err
		}
	}

	result.Report = *remote.Report
	result.Award = remote.Award
	result.Synced = true
	return result, nil
}

// Redeem spends points eagerly and locally, then replicates best-effort.
// Replication failure leaves the redemption synced=false; the debit is
// never rolled back since the user-visible spend already happened.
func (c *Client) Redeem(ctx context.Context, rewardID string) (*models.Redemption, error) {
	var reward *models.RewardCatalogEntry
	for i := range c.catalog {
		if c.catalog[i].ID == rewardID {
			reward = &c.catalog[i]
			break
		}
	}
	if reward == nil {
		return nil, apiError.ErrUnknownReward
	}

	if _, err := c.points.Debit(c.userID, reward.Cost); err != nil {
		return nil, err
	}
	redemption := models.NewRedemption(c.userID, *reward)
	if err := c.redemptions.SaveRedemption(redemption); err != nil {
		if _, cerr := c.points.Credit(c.userID, reward.Cost); cerr != nil {
			log.Errorf("failed to refund %d points: %v", reward.Cost, cerr)
		}
		return nil, err
	}

	if c.baseURL == "" {
		return redemption, nil
	}
	if err := c.remote.redeem(ctx, c.userID, rewardID); err != nil {
		log.WithField("redemption_id", redemption.ID).Warnf("redemption kept local: %v", err)
		return redemption, nil
	}
	return c.redemptions.MarkSynced(redemption.ID)
}

// RetryPending re-attempts replication of every unsynced redemption once.
// There is no background retry; the owning layer decides when to call this.
func (c *Client) RetryPending(ctx context.Context) (int, error) {
	if c.baseURL == "" {
		return 0, apiError.ErrNetworkFailure
	}
	all, err := c.redemptions.GetAllRedemptions()
	if err != nil {
		return 0, err
	}

	synced := 0
	for _, r := range all {
		if r.Synced {
			continue
		}
		if err := c.remote.redeem(ctx, r.UserID, r.RewardID); err != nil {
			log.WithField("redemption_id", r.ID).Warnf("retry failed: %v", err)
			continue
		}
		if _, err := c.redemptions.MarkSynced(r.ID); err != nil {
			return synced, err
		}
		synced++
	}
	return synced, nil
}

// SimulateVerify verifies a report against the local store only, with the
// same exactly-once bonus guard as the server. It exists for environments
// with no reachable server and must not be offered once one is known:
// server verification is authoritative and the two never mix for a report.
func (c *Client) SimulateVerify(id string) (*models.VerifyReportResponse, error) {
	return c.lifecycle.VerifyReport(id)
}
