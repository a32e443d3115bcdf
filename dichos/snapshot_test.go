package dichos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTaxonomy() *Taxonomy {
	cats := []Category{
		{ID: 0, Name: "wisdom", Keywords: []string{"wisdom"}, MemberCount: 1},
		{ID: 1, Name: "humor", Keywords: []string{"humor"}, MemberCount: 1},
	}
	assignments := []Assignment{
		{EntryID: 1, CategoryID: 0, Rank: 1, Tier: TierPrimary, Score: 0.9},
		{EntryID: 1, CategoryID: 1, Rank: 2, Tier: TierSecondary, Score: 0.85},
		{EntryID: 2, CategoryID: 1, Rank: 1, Tier: TierPrimary, Score: 0.7},
	}
	return NewTaxonomy(2, cats, assignments, nil)
}

func TestTaxonomyValidateAcceptsWellFormed(t *testing.T) {
	assert.NoError(t, validTaxonomy().Validate())
}

func TestTaxonomyValidateRejectsUnknownCategory(t *testing.T) {
	tax := validTaxonomy()
	tax.Assignments = append(tax.Assignments, Assignment{EntryID: 3, CategoryID: 9, Rank: 1})
	assert.Error(t, tax.Validate())
}

func TestTaxonomyValidateRejectsDuplicatePair(t *testing.T) {
	tax := validTaxonomy()
	tax.Assignments = append(tax.Assignments, Assignment{EntryID: 2, CategoryID: 1, Rank: 2})
	assert.Error(t, tax.Validate())
}

func TestTaxonomyValidateRejectsRankGap(t *testing.T) {
	tax := validTaxonomy()
	// Entry 3 jumps straight to rank 2.
	tax.Assignments = append(tax.Assignments, Assignment{EntryID: 3, CategoryID: 0, Rank: 2})
	assert.Error(t, tax.Validate())
}

func TestRegistrySwapAndCurrent(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Current())

	tax := validTaxonomy()
	require.NoError(t, r.Swap(tax))
	assert.Same(t, tax, r.Current())

	next := validTaxonomy()
	require.NoError(t, r.Swap(next))
	assert.Same(t, next, r.Current())
	assert.NotEqual(t, tax.RunID, next.RunID)
}

func TestRegistrySwapRejectsInvalidAndKeepsCurrent(t *testing.T) {
	r := NewRegistry()
	good := validTaxonomy()
	require.NoError(t, r.Swap(good))

	bad := validTaxonomy()
	bad.Assignments[0].CategoryID = 42
	assert.Error(t, r.Swap(bad))
	assert.Same(t, good, r.Current())

	assert.Error(t, r.Swap(nil))
	assert.Same(t, good, r.Current())
}
