package harvest

import (
	"context"
	"sync"

	"github.com/fwojciec/causelist"
	"golang.org/x/time/rate"
)

var _ causelist.HostLimiter = (*HostLimiter)(nil)

// HostLimiter spaces out document downloads per court server. Cause-list
// sites are often small government hosts, so each host gets its own token
// bucket while downloads from different hosts proceed independently.
type HostLimiter struct {
	mu    sync.Mutex
	hosts map[string]*rate.Limiter
	limit rate.Limit
}

// NewHostLimiter allows rps downloads per second from each host, one at a
// time. A non-positive rps turns limiting off.
func NewHostLimiter(rps float64) *HostLimiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &HostLimiter{
		hosts: make(map[string]*rate.Limiter),
		limit: limit,
	}
}

// Wait holds a download to host until its bucket has a token, or until ctx
// is done.
func (h *HostLimiter) Wait(ctx context.Context, host string) error {
	return h.bucket(host).Wait(ctx)
}

func (h *HostLimiter) bucket(host string) *rate.Limiter {
	h.mu.Lock()
	defer h.mu.Unlock()

	l, ok := h.hosts[host]
	if !ok {
		l = rate.NewLimiter(h.limit, 1)
		h.hosts[host] = l
	}
	return l
}
