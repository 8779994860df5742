package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staysync/internal/domain"
	"staysync/internal/testutil"
)

type fakeOwners struct {
	user *domain.User
	err  error
	got  string
}

func (f *fakeOwners) EnsureUser(ctx context.Context, username, email, password string) (*domain.User, error) {
	f.got = username
	return f.user, f.err
}

func TestListings_AreValid(t *testing.T) {
	listings := Listings()
	require.NotEmpty(t, listings)

	for _, l := range listings {
		assert.NotEmpty(t, l.Title)
		assert.NotEmpty(t, l.Description)
		assert.NotEmpty(t, l.Location)
		assert.NotEmpty(t, l.Country)
		assert.GreaterOrEqual(t, l.Price, 0.0)
		require.NotNil(t, l.Image, l.Title)
		assert.NotEmpty(t, l.Image.URL)
	}
}

func TestSeeder_Run(t *testing.T) {
	repo := testutil.NewMockListingRepository()
	require.NoError(t, repo.Create(context.Background(), testutil.NewTestListing(testutil.WithTitle("Stale"))))
	owner := testutil.NewTestUser(testutil.WithUsername("demo"))
	owners := &fakeOwners{user: owner}

	n, err := NewSeeder(repo, owners).Run(context.Background(), "demo", "demo-password")

	require.NoError(t, err)
	assert.Equal(t, "demo", owners.got)
	assert.Equal(t, len(Listings()), n)
	assert.Len(t, repo.Order, n)
	for _, id := range repo.Order {
		l := repo.Listings[id]
		assert.NotEqual(t, "Stale", l.Title)
		assert.Equal(t, owner.ID, l.OwnerID)
	}
}

func TestSeeder_Run_OwnerFailure(t *testing.T) {
	repo := testutil.NewMockListingRepository()
	existing := testutil.NewTestListing()
	require.NoError(t, repo.Create(context.Background(), existing))

	_, err := NewSeeder(repo, &fakeOwners{err: testutil.ErrMockStore}).Run(context.Background(), "demo", "pw")

	assert.ErrorIs(t, err, testutil.ErrMockStore)
	assert.Contains(t, repo.Listings, existing.ID, "listings must survive a failed seed")
}
