package distance

import (
	"context"
	"delivery-scenario-service/internal/domain"
	"delivery-scenario-service/internal/platform/metrics"
	"delivery-scenario-service/internal/platform/obs"
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultORSBaseURL = "https://api.openrouteservice.org"
	defaultORSProfile = "driving-car"
)

// ORSMatrixProvider implements TravelCostProvider using the OpenRouteService
// matrix endpoint. One call returns the full stop-to-stop matrix.
//
// Requests are throttled by a token bucket and transient failures are retried
// with exponential backoff. The provider is safe for concurrent use.
type ORSMatrixProvider struct {
	session *http.Client
	apiKey  string
	baseURL string
	profile string
	limiter *rate.Limiter
}

type ORSOption func(*ORSMatrixProvider)

// WithBaseURL points the client at another ORS deployment.
func WithBaseURL(u string) ORSOption {
	return func(o *ORSMatrixProvider) { o.baseURL = strings.TrimRight(u, "/") }
}

// WithProfile selects the ORS routing profile, e.g. "driving-hgv".
func WithProfile(p string) ORSOption {
	return func(o *ORSMatrixProvider) { o.profile = p }
}

// WithHTTPClient replaces the default 10s-timeout client.
func WithHTTPClient(c *http.Client) ORSOption {
	return func(o *ORSMatrixProvider) { o.session = c }
}

// WithRateLimit allows perSecond requests with the given burst. A
// non-positive rate disables throttling.
func WithRateLimit(perSecond float64, burst int) ORSOption {
	return func(o *ORSMatrixProvider) {
		if perSecond <= 0 {
			o.limiter = nil
			return
		}
		o.limiter = rate.NewLimiter(rate.Limit(perSecond), max(burst, 1))
	}
}

func NewORSMatrixProvider(apiKey string, opts ...ORSOption) (*ORSMatrixProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("ORS api key is empty")
	}

	provider := &ORSMatrixProvider{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: defaultORSBaseURL,
		profile: defaultORSProfile,
		// Free-tier matrix quota is 40 requests per minute.
		limiter: rate.NewLimiter(rate.Every(1500*time.Millisecond), 2),
	}
	for _, opt := range opts {
		opt(provider)
	}
	if provider.profile == "" {
		provider.profile = defaultORSProfile
	}

	return provider, nil
}

// Name identifies the provider in cache keys and metrics.
func (o *ORSMatrixProvider) Name() string { return "ors:" + o.profile }

// GetCostMatrix returns distances (meters) and durations (seconds) between
// every ordered pair of distinct stops.
func (o *ORSMatrixProvider) GetCostMatrix(ctx context.Context, stops []domain.Stop) (_ *domain.CostMatrix, err error) {
	defer obs.Time(ctx, "ors.GetCostMatrix")(&err)
	defer func() {
		result := "ok"
		if err != nil {
			result = "error"
		}
		metrics.ProviderCalls.WithLabelValues("ors", result).Inc()
	}()

	if len(stops) < 2 {
		return domain.NewCostMatrix(nil), nil
	}

	entries, err := o.fetchMatrix(ctx, stops)
	if err != nil {
		return nil, &domain.ProviderError{Provider: "ors", Err: err}
	}

	return domain.NewCostMatrix(entries), nil
}
