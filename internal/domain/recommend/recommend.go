package recommend

import (
	"context"
	"errors"
	"fmt"

	"pingboard/internal/domain/ping"
)

// ErrEmptySearchTerm rejects a recommendation request before any external
// call is made.
var ErrEmptySearchTerm = errors.New("searchTerm is required")

// UpstreamFormatError reports that the external matcher answered with
// something other than a JSON array of identifier strings. The raw text is
// kept so the failure can be diagnosed; it is never partially interpreted.
type UpstreamFormatError struct {
	Raw string
	Err error
}

func (e *UpstreamFormatError) Error() string {
	return fmt.Sprintf("matcher returned unparseable output: %v", e.Err)
}

func (e *UpstreamFormatError) Unwrap() error {
	return e.Err
}

// Service turns a free-text query into the subset of stored pings the
// external matcher judges relevant.
type Service interface {
	// Recommend snapshots the corpus, asks the matcher, and returns the
	// validated, deduplicated subset in matcher order. An empty result is
	// a successful "no relevant pings" outcome.
	Recommend(ctx context.Context, searchTerm string) ([]ping.Ping, error)
}

// Matcher is the external semantic matcher. It receives the serialized
// corpus and the query and answers with an opaque string that the caller
// must validate.
type Matcher interface {
	Relevant(ctx context.Context, corpus []byte, searchTerm string) (string, error)
}
