package customers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestMemoryRepositoryGetReturnsSnapshot(t *testing.T) {
	repo := NewMemoryRepository(SeedCustomers())

	c, err := repo.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Julia", c.FirstName)

	c.FirstName = "changed"
	again, err := repo.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Julia", again.FirstName)
}

func TestMemoryRepositoryNotFound(t *testing.T) {
	repo := NewMemoryRepository(SeedCustomers())

	_, err := repo.Get(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.Update(context.Background(), 99, Patch{Email: strPtr("a@b")}, time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepositoryUpdateAppliesPatch(t *testing.T) {
	repo := NewMemoryRepository(SeedCustomers())
	at := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)

	updated, err := repo.Update(context.Background(), 2, Patch{Address: strPtr("1 Harbor Drive, Cambridge")}, at)
	require.NoError(t, err)
	assert.Equal(t, "1 Harbor Drive, Cambridge", updated.Address)
	assert.Equal(t, "+1-555-0456", updated.PhoneNumber)
	assert.Equal(t, at, updated.UpdatedAt)
	assert.Equal(t, seededAt, updated.CreatedAt)

	stored, err := repo.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, *updated, *stored)
}

func TestPatchApplyKeepsUpdatedAtMonotonic(t *testing.T) {
	c := SeedCustomers()[0]
	earlier := seededAt.Add(-time.Hour)

	got := Patch{Email: strPtr("j@k.example")}.Apply(c, earlier)
	assert.Equal(t, "j@k.example", got.Email)
	assert.Equal(t, seededAt, got.UpdatedAt)
}

func TestMemoryRepositoryConcurrentUpdates(t *testing.T) {
	repo := NewMemoryRepository(SeedCustomers())
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Update(context.Background(), 3, Patch{PhoneNumber: strPtr("+1-555-9999")}, base.Add(time.Duration(i)*time.Second))
			assert.NoError(t, err)
			_, err = repo.Get(context.Background(), 3)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	c, err := repo.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, base.Add(49*time.Second), c.UpdatedAt)
}

func TestMemoryRepositoryListOrdersByID(t *testing.T) {
	seed := SeedCustomers()
	repo := NewMemoryRepository([]Customer{seed[2], seed[0], seed[1]})

	all, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{all[0].ID, all[1].ID, all[2].ID})
}
