package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tendant/simple-media/pkg/simplemedia"
)

// Registry implements simplemedia.Registry using in-memory storage
type Registry struct {
	mu     sync.RWMutex
	assets map[uuid.UUID]*simplemedia.MediaAsset
}

// New creates a new in-memory registry
func New() *Registry {
	return &Registry{
		assets: make(map[uuid.UUID]*simplemedia.MediaAsset),
	}
}

func (r *Registry) Insert(ctx context.Context, asset *simplemedia.MediaAsset) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Store a copy to avoid external modifications
	r.assets[asset.ID] = copyAsset(asset)
	return nil
}

func (r *Registry) FindByID(ctx context.Context, id uuid.UUID) (*simplemedia.MediaAsset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	asset, exists := r.assets[id]
	if !exists {
		return nil, simplemedia.ErrAssetNotFound
	}
	return copyAsset(asset), nil
}

// UpdateFields applies a partial update. Status changes are validated
// against the transition rules under the registry lock, so a terminal
// status can never be overwritten by a late writer.
func (r *Registry) UpdateFields(ctx context.Context, id uuid.UUID, patch simplemedia.AssetPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	asset, exists := r.assets[id]
	if !exists {
		return simplemedia.ErrAssetNotFound
	}

	if patch.Status != nil {
		if err := simplemedia.CheckTransition(asset.Status, *patch.Status); err != nil {
			return err
		}
		asset.Status = *patch.Status
	}
	if patch.Variants != nil {
		asset.Variants = make(map[string]string, len(patch.Variants))
		for k, v := range patch.Variants {
			asset.Variants[k] = v
		}
	}
	if patch.Error != nil {
		errCopy := *patch.Error
		asset.Error = &errCopy
	}
	asset.UpdatedAt = time.Now().UTC()

	return nil
}

func (r *Registry) DeleteByID(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.assets[id]; !exists {
		return simplemedia.ErrAssetNotFound
	}
	delete(r.assets, id)
	return nil
}

func copyAsset(asset *simplemedia.MediaAsset) *simplemedia.MediaAsset {
	c := *asset
	if asset.Variants != nil {
		c.Variants = make(map[string]string, len(asset.Variants))
		for k, v := range asset.Variants {
			c.Variants[k] = v
		}
	}
	if asset.Error != nil {
		errCopy := *asset.Error
		c.Error = &errCopy
	}
	if asset.Metadata.Tags != nil {
		c.Metadata.Tags = append([]string(nil), asset.Metadata.Tags...)
	}
	return &c
}
