package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/pkg/errors"

	apiError "github.com/wildsighthq/wildsight/errors"
	"github.com/wildsighthq/wildsight/models"
)

// remoteAPI wraps the server's HTTP surface behind one client with a
// bounded timeout. A timeout is indistinguishable from a hard network
// failure to callers; both surface as ErrNetworkFailure.
type remoteAPI struct {
	baseURL string
	http    *http.Client
}

func newRemoteAPI(baseURL string, timeout time.Duration) *remoteAPI {
	return &remoteAPI{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type submitEnvelope struct {
	Data models.SubmitReportResponse `json:"data"`
}

func (r *remoteAPI) submitReport(ctx context.Context, userID, location, description string, image []byte, filename string) (*models.SubmitReportResponse, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	_ = w.WriteField("user_id", userID)
	_ = w.WriteField("location", location)
	_ = w.WriteField("description", description)
	part, err := w.CreateFormFile("image", filename)
	if err != nil {
		return nil, errors.Wrap(apiError.ErrNetworkFailure, err.Error())
	}
	if _, err := part.Write(image); err != nil {
		return nil, errors.Wrap(apiError.ErrNetworkFailure, err.Error())
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrap(apiError.ErrNetworkFailure, err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/api/v1/reports", &body)
	if err != nil {
		return nil, errors.Wrap(apiError.ErrNetworkFailure, err.Error())
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(apiError.ErrNetworkFailure, err.Error())
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Wrap(apiError.ErrNetworkFailure, fmt.Sprintf("server responded %d", resp.StatusCode))
	}

	var envelope submitEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, errors.Wrap(apiError.ErrNetworkFailure, err.Error())
	}
	if envelope.Data.Report == nil {
		return nil, errors.Wrap(apiError.ErrNetworkFailure, "malformed server response")
	}
	return &envelope.Data, nil
}

type redeemResponse struct {
	Success    bool               `json:"success"`
	Redemption *models.Redemption `json:"redemption"`
}

func (r *remoteAPI) redeem(ctx context.Context, userID, rewardID string) error {
	payload, err := json.Marshal(models.RedeemRequest{UserID: userID, RewardID: rewardID})
	if err != nil {
		return errors.Wrap(apiError.ErrNetworkFailure, err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/api/v1/redeem", bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(apiError.ErrNetworkFailure, err.Error())
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return errors.Wrap(apiError.ErrNetworkFailure, err.Error())
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.Wrap(apiError.ErrNetworkFailure, fmt.Sprintf("server responded %d", resp.StatusCode))
	}

	var res redeemResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return errors.Wrap(apiError.ErrNetworkFailure, err.Error())
	}
	if !res.Success {
		return errors.Wrap(apiError.ErrNetworkFailure, "server rejected redemption")
	}
	return nil
}
