package ports

import "context"

//go:generate mockgen -source=health.go -destination=mocks/mock_health.go -package=mocks

// HealthChecker is implemented by each backing store and polled by GET /health.
type HealthChecker interface {
	// Ping returns nil while the store is reachable.
	Ping(ctx context.Context) error
	// Name keys the store in the health report ("postgresql", "memory", "redis").
	Name() string
}
