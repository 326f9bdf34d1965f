package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"pingboard/internal/domain/ping"
	domain "pingboard/internal/domain/recommend"
)

// CorpusLister is the slice of the ping store the recommender reads its
// snapshot from.
type CorpusLister interface {
	ListAll(ctx context.Context) ([]ping.Ping, error)
}

// IDCache caches parsed matcher id lists per search term. Implementations
// must treat every failure as a miss; nil disables caching.
type IDCache interface {
	GetIDs(ctx context.Context, searchTerm string) ([]string, bool)
	SetIDs(ctx context.Context, searchTerm string, ids []string)
}

// Config contains configuration for the recommender.
type Config struct {
	// MatchTimeout bounds the external matcher call.
	MatchTimeout time.Duration
}

// Recommender implements the recommendation pipeline: snapshot the corpus,
// delegate relevance judgment to the external matcher, then validate and
// filter its answer.
type Recommender struct {
	store   CorpusLister
	matcher domain.Matcher
	cache   IDCache
	config  Config
}

// NewRecommender creates a new recommender. cache may be nil.
func NewRecommender(store CorpusLister, matcher domain.Matcher, cache IDCache, config Config) *Recommender {
	if config.MatchTimeout <= 0 {
		config.MatchTimeout = 30 * time.Second
	}
	return &Recommender{
		store:   store,
		matcher: matcher,
		cache:   cache,
		config:  config,
	}
}

var _ domain.Service = (*Recommender)(nil)

// Recommend returns the subset of currently stored pings the matcher judges
// relevant to the search term. The result is always a subset of the corpus
// snapshot taken for this call, deduplicated, in matcher order; ids the
// matcher invents or that were deleted in the meantime are dropped, not
// errored. An empty result is a valid "no relevant pings" outcome.
func (r *Recommender) Recommend(ctx context.Context, searchTerm string) ([]ping.Ping, error) {
	term := strings.TrimSpace(searchTerm)
	if term == "" {
		return nil, domain.ErrEmptySearchTerm
	}

	corpus, err := r.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing corpus: %w", err)
	}

	if r.cache != nil {
		if ids, ok := r.cache.GetIDs(ctx, term); ok {
			return filterCorpus(corpus, ids), nil
		}
	}

	serialized, err := json.Marshal(corpus)
	if err != nil {
		return nil, fmt.Errorf("serializing corpus: %w", err)
	}

	// The matcher is the only blocking external call; bound it and let a
	// caller cancellation abandon it rather than await completion.
	matchCtx, cancel := context.WithTimeout(ctx, r.config.MatchTimeout)
	defer cancel()

	raw, err := r.matcher.Relevant(matchCtx, serialized, term)
	if err != nil {
		return nil, fmt.Errorf("querying matcher: %w", err)
	}

	ids, err := parseIDList(raw)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		r.cache.SetIDs(ctx, term, ids)
	}

	return filterCorpus(corpus, ids), nil
}

// parseIDList parses the raw matcher response strictly as a JSON array of
// identifier strings. Anything else is an upstream format failure; nothing
// is partially interpreted.
func parseIDList(raw string) ([]string, error) {
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		log.Printf("Matcher response was not an id list: %v", err)
		return nil, &domain.UpstreamFormatError{Raw: raw, Err: err}
	}
	return ids, nil
}

// filterCorpus keeps the ids present in the snapshot, dropping stale ids
// and duplicates while preserving the matcher's order. It always returns a
// non-nil slice so an empty result serializes as [].
func filterCorpus(corpus []ping.Ping, ids []string) []ping.Ping {
	byID := make(map[string]ping.Ping, len(corpus))
	for _, p := range corpus {
		byID[p.ID] = p
	}

	matched := make([]ping.Ping, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if p, ok := byID[id]; ok {
			matched = append(matched, p)
		}
	}
	return matched
}
