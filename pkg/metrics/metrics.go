package metrics

import (
	"context"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

// Keys shared by the HTTP layer and the metrics backends.
const (
	HTTPRequestsTotal   = "http_requests_total"
	HTTPRequestDuration = "http_request_duration_seconds"
	HTTPResponseSize    = "http_response_size_bytes"

	// DurationSuffix marks keys recorded as histograms of seconds.
	DurationSuffix = ".duration"
)

type (
	// Client records a value under key. Keys ending in DurationSuffix or
	// "_seconds" are observations, anything else is added to a counter.
	Client interface {
		Inc(ctx context.Context, key string, value any, attributes ...attribute.KeyValue)
		Handler() http.Handler
		Shutdown(ctx context.Context) error
	}

	// Descriptor is the help text and unit published with an instrument.
	Descriptor struct {
		Description string
		Unit        string
	}
)

var descriptors = map[string]Descriptor{
	HTTPRequestsTotal:   {Description: "HTTP requests served, by route and status.", Unit: "{request}"},
	HTTPRequestDuration: {Description: "HTTP request latency, by route and status.", Unit: "s"},
	HTTPResponseSize:    {Description: "Bytes written in HTTP response bodies.", Unit: "By"},
}

// Describe returns the descriptor registered for key. Handler keys such as
// "queries.findemailsquery.success" get one derived from their parts.
func Describe(key string) Descriptor {
	if d, ok := descriptors[key]; ok {
		return d
	}

	if IsDuration(key) {
		return Descriptor{
			Description: "Time spent in " + strings.TrimSuffix(key, DurationSuffix) + ".",
			Unit:        "s",
		}
	}

	parts := strings.Split(key, ".")
	if len(parts) == 3 {
		return Descriptor{Description: strings.Join(parts[:2], " ") + " outcomes: " + parts[2] + "."}
	}

	return Descriptor{Description: "Counter for " + key + "."}
}

func IsDuration(key string) bool {
	return strings.HasSuffix(key, DurationSuffix) || strings.HasSuffix(key, "_seconds")
}
