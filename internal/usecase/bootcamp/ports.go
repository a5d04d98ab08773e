package bootcamp

//go:generate mockgen -source=ports.go -destination=mocks/mock_ports.go -package=mocks

import (
	"context"
	"io"

	domainBootcamp "bootcamp-directory/internal/domain/bootcamp"
)

// Geocoder resolves a free-form address or postal code to a point.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*domainBootcamp.Location, error)
}

// FileStore persists uploaded files under a caller-chosen name.
type FileStore interface {
	Save(ctx context.Context, name, contentType string, body io.Reader, size int64) error
}
