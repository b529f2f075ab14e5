package core

import (
	"context"
	"errors"

	lru "github.com/hashicorp/golang-lru/v2"
)

// idResolver answers "does this equipment ID exist" and "what would the next
// ID for this type be". Both consult persisted state only; soft-deleted
// records count as existing.
//
// A resolver built with a positive cache size memoizes answers for its own
// lifetime. Preview and row validation use one resolver per request; the
// commit path uses an uncached one so each row sees the rows created before it.
type idResolver struct {
	repo   Repository
	exists *lru.Cache[string, bool]
	maxSeq *lru.Cache[EquipmentType, int32]
}

func newIDResolver(repo Repository, cacheSize int) *idResolver {
	r := &idResolver{repo: repo}
	if cacheSize <= 0 {
		return r
	}
	// lru.New only fails on a non-positive size.
	r.exists, _ = lru.New[string, bool](cacheSize)
	r.maxSeq, _ = lru.New[EquipmentType, int32](len(EquipmentTypes))
	return r
}

// Exists reports whether an equipment record, deleted or not, has id.
func (r *idResolver) Exists(ctx context.Context, id string) (bool, error) {
	if r.exists != nil {
		if v, ok := r.exists.Get(id); ok {
			return v, nil
		}
	}
	_, err := r.repo.FindByEquipmentID(ctx, id, true)
	var found bool
	switch {
	case err == nil:
		found = true
	case errors.Is(err, ErrNotFound):
	default:
		return false, err
	}
	if r.exists != nil {
		r.exists.Add(id, found)
	}
	return found, nil
}

// NextID returns the identifier one past the highest persisted sequence for t.
func (r *idResolver) NextID(ctx context.Context, t EquipmentType) (string, int32, error) {
	n, ok := int32(0), false
	if r.maxSeq != nil {
		n, ok = r.maxSeq.Get(t)
	}
	if !ok {
		var err error
		n, err = r.repo.MaxSequence(ctx, t)
		if err != nil {
			return "", 0, err
		}
		if r.maxSeq != nil {
			r.maxSeq.Add(t, n)
		}
	}
	return FormatEquipmentID(t, n+1), n + 1, nil
}
