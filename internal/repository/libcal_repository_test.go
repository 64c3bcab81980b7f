package repository

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plon/illinispots-sub000/pkg/config"
	appErrors "github.com/plon/illinispots-sub000/pkg/errors"
)

func libcalTestConfig(spacesURL, gridURL string) config.LibCalConfig {
	return config.LibCalConfig{
		SpacesURL: spacesURL,
		GridURL:   gridURL,
		Origin:    "https://uiuc.libcal.com",
		UserAgent: "test-agent",
		Timeout:   5 * time.Second,
	}
}

func TestFetchSpacesPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Write([]byte("resources.push({});")) //nolint:errcheck
	}))
	defer server.Close()

	repo := NewLibCalRepository(libcalTestConfig(server.URL, server.URL), nil, nil)

	page, err := repo.FetchSpacesPage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "resources.push({});", page)
}

func TestFetchSpacesPageUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	repo := NewLibCalRepository(libcalTestConfig(server.URL, server.URL), nil, nil)

	_, err := repo.FetchSpacesPage(context.Background())
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrUpstream.Code, appErr.Code)
}

func TestFetchAvailabilityGrid(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "3606", r.PostForm.Get("lid"))
		assert.Equal(t, "0", r.PostForm.Get("gid"))
		assert.Equal(t, "-1", r.PostForm.Get("eid"))
		assert.Equal(t, "2026-03-02", r.PostForm.Get("start"))
		assert.Equal(t, "2026-03-03", r.PostForm.Get("end"))
		assert.Equal(t, "XMLHttpRequest", r.Header.Get("X-Requested-With"))
		assert.Equal(t, "https://uiuc.libcal.com", r.Header.Get("Origin"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"slots":[{"itemId":500,"start":"2026-03-02 12:00:00","end":"2026-03-02 13:00:00","className":"s-lc-eq-checkout"}]}`)) //nolint:errcheck
	}))
	defer server.Close()

	repo := NewLibCalRepository(libcalTestConfig(server.URL, server.URL), nil, nil)

	grid, err := repo.FetchAvailabilityGrid(context.Background(), "3606", "2026-03-02", "2026-03-03")
	require.NoError(t, err)
	require.Len(t, grid.Slots, 1)
	assert.Equal(t, 500, grid.Slots[0].ItemID)
	assert.Equal(t, "s-lc-eq-checkout", grid.Slots[0].ClassName)
}

func TestFetchAvailabilityGridDecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>maintenance</html>")) //nolint:errcheck
	}))
	defer server.Close()

	repo := NewLibCalRepository(libcalTestConfig(server.URL, server.URL), nil, nil)

	_, err := repo.FetchAvailabilityGrid(context.Background(), "3606", "2026-03-02", "2026-03-03")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUpstream.Code, appErrors.FromError(err).Code)
}
