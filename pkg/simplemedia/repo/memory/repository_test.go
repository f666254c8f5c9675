package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-media/pkg/simplemedia"
	"github.com/tendant/simple-media/pkg/simplemedia/repo/memory"
)

func newAsset(status simplemedia.AssetStatus) *simplemedia.MediaAsset {
	now := time.Now().UTC()
	return &simplemedia.MediaAsset{
		ID:          uuid.New(),
		OwnerID:     uuid.New(),
		Kind:        simplemedia.KindVideo,
		OriginalKey: "videos/owner/stem",
		Status:      status,
		Variants:    map[string]string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestInsertAndFind(t *testing.T) {
	registry := memory.New()
	ctx := context.Background()

	asset := newAsset(simplemedia.StatusProcessing)
	require.NoError(t, registry.Insert(ctx, asset))

	found, err := registry.FindByID(ctx, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, asset.ID, found.ID)
	assert.Equal(t, simplemedia.StatusProcessing, found.Status)
}

func TestFindUnknownID(t *testing.T) {
	registry := memory.New()

	_, err := registry.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, simplemedia.ErrAssetNotFound)
}

func TestUpdateFieldsPartial(t *testing.T) {
	registry := memory.New()
	ctx := context.Background()

	asset := newAsset(simplemedia.StatusProcessing)
	require.NoError(t, registry.Insert(ctx, asset))

	// A variants-only patch must leave status untouched.
	require.NoError(t, registry.UpdateFields(ctx, asset.ID, simplemedia.AssetPatch{
		Variants: map[string]string{"720p": "videos/owner/variants/720p/stem"},
	}))

	found, err := registry.FindByID(ctx, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, simplemedia.StatusProcessing, found.Status)
	assert.Equal(t, "videos/owner/variants/720p/stem", found.Variants["720p"])
}

func TestStatusTransitionsAreMonotonic(t *testing.T) {
	registry := memory.New()
	ctx := context.Background()

	asset := newAsset(simplemedia.StatusProcessing)
	require.NoError(t, registry.Insert(ctx, asset))

	ready := simplemedia.StatusReady
	require.NoError(t, registry.UpdateFields(ctx, asset.ID, simplemedia.AssetPatch{Status: &ready}))

	// Terminal statuses have no outgoing transitions.
	failed := simplemedia.StatusFailed
	err := registry.UpdateFields(ctx, asset.ID, simplemedia.AssetPatch{Status: &failed})
	assert.ErrorIs(t, err, simplemedia.ErrInvalidStatusTransition)

	processing := simplemedia.StatusProcessing
	err = registry.UpdateFields(ctx, asset.ID, simplemedia.AssetPatch{Status: &processing})
	assert.ErrorIs(t, err, simplemedia.ErrInvalidStatusTransition)

	found, err := registry.FindByID(ctx, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, simplemedia.StatusReady, found.Status)
}

func TestFailedPatchRecordsError(t *testing.T) {
	registry := memory.New()
	ctx := context.Background()

	asset := newAsset(simplemedia.StatusProcessing)
	require.NoError(t, registry.Insert(ctx, asset))

	failed := simplemedia.StatusFailed
	require.NoError(t, registry.UpdateFields(ctx, asset.ID, simplemedia.AssetPatch{
		Status: &failed,
		Error: &simplemedia.AssetError{
			Message:  "encoder exploded",
			FailedAt: time.Now().UTC(),
			Elapsed:  3 * time.Second,
		},
	}))

	found, err := registry.FindByID(ctx, asset.ID)
	require.NoError(t, err)
	require.NotNil(t, found.Error)
	assert.Equal(t, "encoder exploded", found.Error.Message)
}

func TestDeleteByID(t *testing.T) {
	registry := memory.New()
	ctx := context.Background()

	asset := newAsset(simplemedia.StatusActive)
	require.NoError(t, registry.Insert(ctx, asset))
	require.NoError(t, registry.DeleteByID(ctx, asset.ID))

	_, err := registry.FindByID(ctx, asset.ID)
	assert.ErrorIs(t, err, simplemedia.ErrAssetNotFound)

	assert.ErrorIs(t, registry.DeleteByID(ctx, asset.ID), simplemedia.ErrAssetNotFound)
}

func TestCopiesAreIsolated(t *testing.T) {
	registry := memory.New()
	ctx := context.Background()

	asset := newAsset(simplemedia.StatusProcessing)
	require.NoError(t, registry.Insert(ctx, asset))

	found, err := registry.FindByID(ctx, asset.ID)
	require.NoError(t, err)
	found.Variants["rogue"] = "mutated"
	found.Status = simplemedia.StatusFailed

	again, err := registry.FindByID(ctx, asset.ID)
	require.NoError(t, err)
	assert.NotContains(t, again.Variants, "rogue")
	assert.Equal(t, simplemedia.StatusProcessing, again.Status)
}
