package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "screening-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the MEDLINE fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// BatchSize is the number of PMIDs requested per efetch call (default 200).
	BatchSize int `json:"batch_size" yaml:"batch_size"`

	// BatchDelay is the delay between consecutive efetch calls (default 350ms,
	// which keeps an unauthenticated client under the NCBI 3 req/s limit).
	BatchDelay time.Duration `json:"batch_delay" yaml:"batch_delay"`

	// APIKey is an optional NCBI API key for higher rate limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Email is sent as the Entrez contact address when set.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
}

// MatcherConfig holds the exclusion matcher thresholds. The defaults were
// tuned empirically against real screening lists; they are configuration
// rather than constants so a project can adjust them without a rebuild.
type MatcherConfig struct {
	// MinEntryLength is the minimum entry length considered by the fuzzy
	// scan. Shorter entries are too likely to be common words (default 10).
	MinEntryLength int `json:"min_entry_length" yaml:"min_entry_length"`

	// TitleLikeMinTokens is the minimum space-separated token count for an
	// entry to be matched as a title rather than an identifier (default 3).
	TitleLikeMinTokens int `json:"title_like_min_tokens" yaml:"title_like_min_tokens"`

	// TitleLikeMinLength is the minimum length, exclusive, for a title-like
	// entry (default 20).
	TitleLikeMinLength int `json:"title_like_min_length" yaml:"title_like_min_length"`

	// OverlapThreshold is the minimum length-overlap ratio for a containment
	// match between a title and a title-like entry (default 0.7).
	OverlapThreshold float64 `json:"overlap_threshold" yaml:"overlap_threshold"`

	// JaccardThreshold is the minimum token-set Jaccard index for a
	// title-like entry match (default 0.8).
	JaccardThreshold float64 `json:"jaccard_threshold" yaml:"jaccard_threshold"`

	// MinSharedTokens is the minimum token intersection size required
	// alongside JaccardThreshold (default 3).
	MinSharedTokens int `json:"min_shared_tokens" yaml:"min_shared_tokens"`

	// ContainmentFloor is the minimum relative length (contained string over
	// containing string) for a short-entry containment match (default 0.4).
	// The floor guards against excluding every title that happens to contain
	// a common phrase.
	ContainmentFloor float64 `json:"containment_floor" yaml:"containment_floor"`
}

// DefaultMatcherConfig returns the matcher thresholds used when no
// configuration overrides them.
func DefaultMatcherConfig() MatcherConfig {
	return MatcherConfig{
		MinEntryLength:     10,
		TitleLikeMinTokens: 3,
		TitleLikeMinLength: 20,
		OverlapThreshold:   0.7,
		JaccardThreshold:   0.8,
		MinSharedTokens:    3,
		ContainmentFloor:   0.4,
	}
}

// StoreConfig holds settings for the screening run store.
type StoreConfig struct {
	// DataDir is the base directory for the run store (contains runs.db).
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// ScreeningConfig groups all stage configurations.
type ScreeningConfig struct {
	Fetch   FetchConfig   `json:"fetch" yaml:"fetch"`
	Matcher MatcherConfig `json:"matcher" yaml:"matcher"`
	Store   StoreConfig   `json:"store" yaml:"store"`
}
