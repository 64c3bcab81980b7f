package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/plon/illinispots-sub000/internal/models"
	"github.com/plon/illinispots-sub000/pkg/config"
	appErrors "github.com/plon/illinispots-sub000/pkg/errors"
)

// LibCalRepository talks to the library booking service: the spaces catalog
// page and the availability grid endpoint. Transport only; parsing of the
// page payload lives in the service layer.
type LibCalRepository struct {
	cfg    config.LibCalConfig
	client *http.Client
	logger *zap.Logger
}

// NewLibCalRepository constructs the repository with a timeout-bounded client.
func NewLibCalRepository(cfg config.LibCalConfig, client *http.Client, logger *zap.Logger) *LibCalRepository {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LibCalRepository{cfg: cfg, client: client, logger: logger}
}

// FetchSpacesPage retrieves the raw spaces catalog page text.
func (r *LibCalRepository) FetchSpacesPage(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.SpacesURL, nil)
	if err != nil {
		return "", fmt.Errorf("build spaces request: %w", err)
	}
	req.Header.Set("User-Agent", r.cfg.UserAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "spaces page fetch failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", appErrors.Wrap(fmt.Errorf("status %d", resp.StatusCode), appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "spaces page fetch failed")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "spaces page read failed")
	}
	return string(body), nil
}

// FetchAvailabilityGrid posts a grid query for one facility over [start, end)
// calendar dates (YYYY-MM-DD) and decodes the slot array.
func (r *LibCalRepository) FetchAvailabilityGrid(ctx context.Context, facilityID, startDate, endDate string) (*models.ReservationResponse, error) {
	form := url.Values{
		"lid":       {facilityID},
		"gid":       {"0"},
		"eid":       {"-1"},
		"seat":      {"false"},
		"seatId":    {"0"},
		"zone":      {"0"},
		"start":     {startDate},
		"end":       {endDate},
		"pageIndex": {"0"},
		"pageSize":  {"10000"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.GridURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build grid request: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	req.Header.Set("Origin", r.cfg.Origin)
	req.Header.Set("Referer", r.cfg.SpacesURL)
	req.Header.Set("User-Agent", r.cfg.UserAgent)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "availability grid fetch failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, appErrors.Wrap(fmt.Errorf("status %d", resp.StatusCode), appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "availability grid fetch failed")
	}

	var grid models.ReservationResponse
	if err := json.NewDecoder(resp.Body).Decode(&grid); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "availability grid decode failed")
	}
	return &grid, nil
}
