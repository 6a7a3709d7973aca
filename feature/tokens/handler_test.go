package tokens

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"token-aggregator/core/aggregator"
	"token-aggregator/core/query"
	"token-aggregator/core/token"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubSnapshots struct {
	snap  *token.Snapshot
	err   error
	calls int
}

func (s *stubSnapshots) GetSnapshot(_ context.Context, force bool) (*token.Snapshot, error) {
	s.calls++
	return s.snap, s.err
}

func snapshotOf(n int) *token.Snapshot {
	tokens := make([]token.Token, 0, n)
	for i := 0; i < n; i++ {
		tokens = append(tokens, token.Token{
			Address:       fmt.Sprintf("T%02d", i),
			Volume24h:     float64(n - i),
			Volume1h:      float64(i),
			PriceChange1h: float64(i),
		})
	}
	return token.NewSnapshot(tokens, time.Now())
}

func setupTestApp(s Snapshotter) *fiber.App {
	app := fiber.New()
	f := NewFeature(s, query.Config{DefaultLimit: 20, MaxLimit: 100}, zap.NewNop())
	_ = f.Load(app)
	return app
}

func decode(t *testing.T, app *fiber.App, url string) (int, ListResponse) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", url, nil))
	require.NoError(t, err)

	var body ListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestFeature(t *testing.T) {
	f := NewFeature(&stubSnapshots{}, query.Config{}, zap.NewNop())
	assert.Equal(t, "tokens", f.Name())
	assert.True(t, f.IsEnabled())
	assert.NoError(t, f.Load(fiber.New()))
}

func TestHandleListTokens_Paginates(t *testing.T) {
	app := setupTestApp(&stubSnapshots{snap: snapshotOf(45)})

	status, first := decode(t, app, "/api/tokens")
	require.Equal(t, 200, status)
	assert.True(t, first.Success)
	assert.Len(t, first.Data, 20)
	assert.Equal(t, 45, first.Pagination.Total)
	assert.Equal(t, 20, first.Pagination.Returned)
	require.NotNil(t, first.Pagination.NextCursor)
	assert.False(t, first.Stale)

	_, second := decode(t, app, "/api/tokens?cursor="+*first.Pagination.NextCursor)
	require.NotNil(t, second.Pagination.NextCursor)

	_, third := decode(t, app, "/api/tokens?cursor="+*second.Pagination.NextCursor)
	assert.Len(t, third.Data, 5)
	assert.Nil(t, third.Pagination.NextCursor)
}

func TestHandleListTokens_SortAndLimit(t *testing.T) {
	app := setupTestApp(&stubSnapshots{snap: snapshotOf(10)})

	_, body := decode(t, app, "/api/tokens?sortBy=volume&timeFrame=1h&limit=3")
	require.Len(t, body.Data, 3)
	assert.Equal(t, "T09", body.Data[0].Address)

	_, body = decode(t, app, "/api/tokens?limit=500")
	assert.Len(t, body.Data, 10)

	_, body = decode(t, app, "/api/tokens?limit=abc")
	assert.Len(t, body.Data, 10)
	assert.Nil(t, body.Pagination.NextCursor)
}

func TestHandleListTokens_Stale(t *testing.T) {
	app := setupTestApp(&stubSnapshots{snap: snapshotOf(2), err: aggregator.ErrAggregationFailed})

	status, body := decode(t, app, "/api/tokens")
	assert.Equal(t, 200, status)
	assert.True(t, body.Stale)
	assert.Len(t, body.Data, 2)
}

func TestHandleListTokens_NoData(t *testing.T) {
	app := setupTestApp(&stubSnapshots{err: aggregator.ErrNoData})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/tokens", nil))
	require.NoError(t, err)
	assert.Equal(t, 503, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Failed to fetch tokens", body["error"])
}

func TestHandleGetToken(t *testing.T) {
	app := setupTestApp(&stubSnapshots{snap: snapshotOf(3)})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/tokens/T01", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body struct {
		Success bool        `json:"success"`
		Data    token.Token `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, "T01", body.Data.Address)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/tokens/NOPE", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestHandleGetToken_NoData(t *testing.T) {
	app := setupTestApp(&stubSnapshots{err: aggregator.ErrNoData})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/tokens/T01", nil))
	require.NoError(t, err)
	assert.Equal(t, 503, resp.StatusCode)
}
