package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/drewfead/lunchmap/internal"
	"github.com/drewfead/lunchmap/internal/httputil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnit_HTTP_Get(t *testing.T) {
	var ua atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua.Store(r.Header.Get("User-Agent"))
		switch r.URL.Path {
		case "/menu":
			_, _ = w.Write([]byte("<p>Måndag</p>"))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	t.Cleanup(server.Close)

	var trips atomic.Int32
	f := HTTP(
		WithTransport(server.Client().Transport),
		WithUserAgent("test-agent"),
		WithRoundTripHook(func(httputil.RequestRecord) { trips.Add(1) }),
	)

	body, err := f.Get(t.Context(), server.URL+"/menu")
	require.NoError(t, err)
	assert.Equal(t, "<p>Måndag</p>", string(body))
	assert.Equal(t, "test-agent", ua.Load())

	_, err = f.Get(t.Context(), server.URL+"/broken")
	require.ErrorIs(t, err, internal.ErrFetch)
	assert.Contains(t, err.Error(), "500")
	assert.Equal(t, int32(2), trips.Load())
}

func TestUnit_HTTP_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})

	f := HTTP(WithTransport(server.Client().Transport), WithTimeout(50*time.Millisecond))
	_, err := f.Get(context.Background(), server.URL)
	require.ErrorIs(t, err, internal.ErrFetch)
}
