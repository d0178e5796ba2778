package causelist

import "time"

// DefaultUserAgent identifies the harvester to cause-list servers.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) causelist/1.0"

// Config holds the settings shared by the transport, renderer and
// downloader. It is passed explicitly to the components that need it.
type Config struct {
	UserAgent string

	// PageTimeout bounds fetching the cause-list page itself.
	PageTimeout time.Duration

	// DownloadTimeout bounds each document download.
	DownloadTimeout time.Duration

	// RenderDelay is how long a browser waits after load for scripts to
	// populate the page.
	RenderDelay time.Duration

	// Concurrency limits simultaneous downloads and text extractions.
	Concurrency int

	// RatePerHost limits requests per second to a single host.
	RatePerHost float64

	// Retries is the number of extra download attempts after a failure.
	Retries int
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		UserAgent:       DefaultUserAgent,
		PageTimeout:     30 * time.Second,
		DownloadTimeout: 60 * time.Second,
		RenderDelay:     4 * time.Second,
		Concurrency:     4,
		RatePerHost:     2,
		Retries:         2,
	}
}

// RetryDelays returns the backoff before each retry: 1s, 2s, 4s, ...
func (c Config) RetryDelays() []time.Duration {
	delays := make([]time.Duration, 0, max(c.Retries, 0))
	d := time.Second
	for range c.Retries {
		delays = append(delays, d)
		d *= 2
	}
	return delays
}
