package httppresentation

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/apperr"
	domuser "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/user"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/observability"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/observability/logctx"
)

var (
	errMissingToken = apperr.New(apperr.ErrUnauthorized, "missing authorization")
	errBadAuthz     = apperr.New(apperr.ErrUnauthorized, "invalid authorization header")
)

const (
	limiterIdle  = 30 * time.Minute
	limiterSweep = 5 * time.Minute
)

type clientLimiter struct {
	limiter *rate.Limiter
	mu      sync.Mutex
	last    time.Time
}

// ipLimiters hands out one token bucket per client address. Buckets idle for
// longer than limiterIdle are dropped on the next sweep.
type ipLimiters struct {
	rps   rate.Limit
	burst int
	now   func() time.Time

	clients   sync.Map // map[string]*clientLimiter
	sweepMu   sync.Mutex
	lastSweep time.Time
}

func newIPLimiters(rps float64, burst int) *ipLimiters {
	return &ipLimiters{rps: rate.Limit(rps), burst: burst, now: time.Now}
}

func (l *ipLimiters) allow(ip string) bool {
	now := l.now()
	v, _ := l.clients.LoadOrStore(ip, &clientLimiter{limiter: rate.NewLimiter(l.rps, l.burst)})
	c := v.(*clientLimiter)
	c.mu.Lock()
	c.last = now
	c.mu.Unlock()
	l.sweep(now)
	return c.limiter.AllowN(now, 1)
}

func (l *ipLimiters) sweep(now time.Time) {
	l.sweepMu.Lock()
	if now.Sub(l.lastSweep) < limiterSweep {
		l.sweepMu.Unlock()
		return
	}
	l.lastSweep = now
	l.sweepMu.Unlock()

	l.clients.Range(func(key, val any) bool {
		c := val.(*clientLimiter)
		c.mu.Lock()
		idle := now.Sub(c.last) > limiterIdle
		c.mu.Unlock()
		if idle {
			l.clients.Delete(key)
		}
		return true
	})
}

func (h *Handler) withRateLimit(next http.Handler) http.Handler {
	limited := h.tel.Metrics().Counter(observability.MHTTPRateLimited)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.limiters != nil && !h.limiters.allow(remoteIP(r)) {
			limited.Add(1, observability.L("route", routeFromContext(r.Context())))
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// remoteIP expects chi's RealIP to have folded X-Forwarded-For and
// X-Real-IP into RemoteAddr.
func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// requireAuth verifies the bearer token and stores the caller on the
// context. The request logger gains user_id.
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := bearerToken(r.Header.Get("Authorization"))
		if err != nil {
			h.writeDomainError(w, r, err)
			return
		}
		p, err := h.Tokens.Verify(token)
		if err != nil {
			h.writeDomainError(w, r, err)
			return
		}
		ctx, _ := logctx.Enrich(r.Context(), h.log, observability.F("user_id", p.UserID))
		next.ServeHTTP(w, r.WithContext(withPrincipal(ctx, p)))
	})
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errMissingToken
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", errBadAuthz
	}
	return parts[1], nil
}

type principalKey struct{}

func withPrincipal(ctx context.Context, p domuser.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// principalFrom returns the authenticated caller; the zero Principal holds
// no capabilities.
func principalFrom(ctx context.Context) domuser.Principal {
	p, _ := ctx.Value(principalKey{}).(domuser.Principal)
	return p
}
