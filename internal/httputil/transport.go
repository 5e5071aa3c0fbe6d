package httputil

import (
	"log/slog"
	"net/http"
	"time"
)

// RequestRecord describes one outbound round trip.
type RequestRecord struct {
	Method   string        `json:"method"`
	URL      string        `json:"url"`
	Status   int           `json:"status"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// LoggingTransport is an http.RoundTripper that logs every outbound request at debug level.
// Status is zero when the round trip failed.
type LoggingTransport struct {
	Base http.RoundTripper

	// OnRoundTrip, if set, is called after every round trip. Useful for audit and for
	// counting network calls in tests.
	OnRoundTrip func(RequestRecord)
}

// RoundTrip implements http.RoundTripper.
func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	start := time.Now()
	resp, err := base.RoundTrip(req)
	rec := RequestRecord{
		Method:   req.Method,
		URL:      req.URL.String(),
		Duration: time.Since(start),
		Err:      err,
	}
	if resp != nil {
		rec.Status = resp.StatusCode
	}
	if err != nil {
		slog.DebugContext(req.Context(), "outbound request failed", "method", rec.Method, "url", rec.URL, "duration", rec.Duration, "error", err)
	} else {
		slog.DebugContext(req.Context(), "outbound request", "method", rec.Method, "url", rec.URL, "status", rec.Status, "duration", rec.Duration)
	}
	if t.OnRoundTrip != nil {
		t.OnRoundTrip(rec)
	}
	return resp, err
}
