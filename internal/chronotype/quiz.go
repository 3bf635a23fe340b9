package chronotype

import (
	"context"
	"log"
)

// ProfileWriter is the slice of the data store the quiz persists to.
type ProfileWriter interface {
	SetBaseChronotype(ctx context.Context, id, category string) error
}

// Identity is the slice of the session the quiz reads.
type Identity interface {
	UserID() string
}

// Quiz collects answers for one run of the base quiz or the status check.
type Quiz struct {
	mode     Mode
	profiles ProfileWriter
	ident    Identity
	answers  []Category
}

func NewQuiz(mode Mode, profiles ProfileWriter, ident Identity) *Quiz {
	return &Quiz{mode: mode, profiles: profiles, ident: ident}
}

// Answer records one chosen category.
func (q *Quiz) Answer(c Category) {
	q.answers = append(q.answers, c)
}

// Complete scores the collected answers and returns the result. A base-quiz
// result is additionally written to the user's profile; persistence failure
// never withholds the result, it is logged and the profile keeps its old
// value.
func (q *Quiz) Complete(ctx context.Context) Result {
	winner := Score(q.answers)
	res := ResultFor(winner, q.mode)

	if q.mode == ModeBase {
		if owner := q.ident.UserID(); owner != "" {
			if err := q.profiles.SetBaseChronotype(ctx, owner, string(winner)); err != nil {
				log.Printf("chronotype: saving base chronotype: %v", err)
			}
		}
	}
	return res
}
