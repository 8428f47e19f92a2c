package importer

import (
	"context"

	"github.com/fdubois/autodeal/app/listing"
)

// Renderer produces a snapshot of a fully rendered listing page
type Renderer interface {
	Render(ctx context.Context, url string) (*listing.Page, error)
}
