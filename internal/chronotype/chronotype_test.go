package chronotype

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name    string
		answers []Category
		want    Category
	}{
		{"empty defaults to bear", nil, Bear},
		{"clear majority", []Category{Lion, Bear, Lion}, Lion},
		{"tie goes to earliest canonical", []Category{Lion, Bear, Wolf}, Lion},
		{"tie between later categories", []Category{Wolf, Dolphin}, Wolf},
		{"single answer", []Category{Dolphin}, Dolphin},
		{"unknown answers ignored", []Category{"owl", "owl"}, Bear},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.answers))
		})
	}
}

func TestScore_OrderIndependent(t *testing.T) {
	multiset := []Category{Lion, Bear, Lion, Wolf, Dolphin, Lion}
	want := Score(multiset)

	perms := [][]Category{
		{Bear, Lion, Wolf, Lion, Lion, Dolphin},
		{Dolphin, Wolf, Bear, Lion, Lion, Lion},
		{Lion, Lion, Lion, Bear, Wolf, Dolphin},
	}
	for _, p := range perms {
		assert.Equal(t, want, Score(p))
	}
}

func TestResultFor(t *testing.T) {
	base := ResultFor(Lion, ModeBase)
	assert.Equal(t, Lion, base.Category)
	assert.Equal(t, "Lion", base.Name)

	status := ResultFor(Lion, ModeStatus)
	assert.NotEqual(t, base.Title, status.Title)

	// Unknown input falls back to the default category.
	assert.Equal(t, Bear, ResultFor("owl", ModeBase).Category)
}

func TestQuestions_CoverAllCategories(t *testing.T) {
	for _, q := range Questions {
		require.Len(t, q.Options, 4)
		seen := map[Category]bool{}
		for _, o := range q.Options {
			require.True(t, o.Type.Valid())
			seen[o.Type] = true
		}
		assert.Len(t, seen, 4, "each question offers every category once")
	}
	assert.Len(t, StatusOptions, 4)
}

type fakeProfiles struct {
	id       string
	category string
	err      error
}

func (f *fakeProfiles) SetBaseChronotype(_ context.Context, id, category string) error {
	if f.err != nil {
		return f.err
	}
	f.id = id
	f.category = category
	return nil
}

type fakeIdent string

func (f fakeIdent) UserID() string { return string(f) }

func TestQuiz_BaseCompletePersists(t *testing.T) {
	profiles := &fakeProfiles{}
	q := NewQuiz(ModeBase, profiles, fakeIdent("user-1"))
	q.Answer(Lion)
	q.Answer(Lion)
	q.Answer(Bear)

	res := q.Complete(context.Background())
	assert.Equal(t, Lion, res.Category)
	assert.Equal(t, "user-1", profiles.id)
	assert.Equal(t, "lion", profiles.category)
}

func TestQuiz_StatusNeverPersists(t *testing.T) {
	profiles := &fakeProfiles{}
	q := NewQuiz(ModeStatus, profiles, fakeIdent("user-1"))
	q.Answer(Wolf)

	res := q.Complete(context.Background())
	assert.Equal(t, Wolf, res.Category)
	assert.Empty(t, profiles.category)
}

func TestQuiz_NoIdentitySkipsPersist(t *testing.T) {
	profiles := &fakeProfiles{}
	q := NewQuiz(ModeBase, profiles, fakeIdent(""))
	q.Answer(Lion)

	res := q.Complete(context.Background())
	assert.Equal(t, Lion, res.Category)
	assert.Empty(t, profiles.category)
}

func TestQuiz_PersistFailureStillReturnsResult(t *testing.T) {
	profiles := &fakeProfiles{err: assert.AnError}
	q := NewQuiz(ModeBase, profiles, fakeIdent("user-1"))
	q.Answer(Dolphin)

	res := q.Complete(context.Background())
	assert.Equal(t, Dolphin, res.Category)
}
