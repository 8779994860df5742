// Package seed resets the listings collection to the example catalogue.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"staysync/internal/domain"
)

// OwnerProvider returns the account the example listings belong to,
// creating it when needed.
type OwnerProvider interface {
	EnsureUser(ctx context.Context, username, email, password string) (*domain.User, error)
}

type Seeder struct {
	listings domain.ListingRepository
	owners   OwnerProvider
}

func NewSeeder(listings domain.ListingRepository, owners OwnerProvider) *Seeder {
	return &Seeder{listings: listings, owners: owners}
}

// Run clears every listing and inserts the example catalogue owned by
// username. It returns the number of listings inserted.
func (s *Seeder) Run(ctx context.Context, username, password string) (int, error) {
	owner, err := s.owners.EnsureUser(ctx, username, username+"@staysync.local", password)
	if err != nil {
		return 0, fmt.Errorf("failed to ensure seed owner: %w", err)
	}

	removed, err := s.listings.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	slog.Info("cleared listings", slog.Int64("removed", removed))

	listings := Listings()
	for _, l := range listings {
		l.OwnerID = owner.ID
	}
	if err := s.listings.InsertMany(ctx, listings); err != nil {
		return 0, err
	}

	slog.Info("seeded listings",
		slog.Int("count", len(listings)),
		slog.String("owner", owner.Username))
	return len(listings), nil
}
