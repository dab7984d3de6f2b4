package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_catalog/internal/models"
)

// ErrDuplicateVariation marks corrupt upstream data: two variations of one
// product share the same option-id set.
var ErrDuplicateVariation = errors.New("DUPLICATE_VARIATION")

// DuplicateKeyError describes a variation dropped while building an Index
// because an earlier variation already claimed its option-id set.
type DuplicateKeyError struct {
	Key       string
	KeptID    int
	DroppedID int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("variation %d duplicates option set [%s] of variation %d", e.DroppedID, e.Key, e.KeptID)
}

func (e *DuplicateKeyError) Unwrap() error { return ErrDuplicateVariation }

// CanonicalKey renders a set of option ids as a sorted, deduplicated key.
// The input slice is not modified.
func CanonicalKey(ids []int) string {
	sorted := make([]int, len(ids))
	copy(sorted, ids)
	sort.Ints(sorted)

	var b strings.Builder
	for i, id := range sorted {
		if i > 0 && id == sorted[i-1] {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(id))
	}
	return b.String()
}

// Index maps canonical option-id sets to variations.
type Index struct {
	byKey      map[string]models.Variation
	duplicates []*DuplicateKeyError
}

// NewIndex builds an Index from a product's variations. When two variations
// share an option set the first one wins; the rest are logged and reported by
// Duplicates.
func NewIndex(variations []models.Variation) *Index {
	idx := &Index{byKey: make(map[string]models.Variation, len(variations))}
	for _, v := range variations {
		key := CanonicalKey(v.OptionIDs)
		if kept, ok := idx.byKey[key]; ok {
			dup := &DuplicateKeyError{Key: key, KeptID: kept.ID, DroppedID: v.ID}
			idx.duplicates = append(idx.duplicates, dup)
			log.Warn().
				Str("option_set", key).
				Int("kept_variation_id", kept.ID).
				Int("dropped_variation_id", v.ID).
				Msg("Duplicate variation option set, keeping first")
			continue
		}
		idx.byKey[key] = v
	}
	return idx
}

// Lookup returns the variation whose option set equals ids exactly.
// Subsets and supersets do not match.
func (idx *Index) Lookup(ids []int) (models.Variation, bool) {
	if idx == nil || len(ids) == 0 {
		return models.Variation{}, false
	}
	v, ok := idx.byKey[CanonicalKey(ids)]
	return v, ok
}

// Len returns the number of distinct option sets in the index.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.byKey)
}

// Duplicates returns the data-integrity problems found while building.
func (idx *Index) Duplicates() []*DuplicateKeyError {
	return idx.duplicates
}
