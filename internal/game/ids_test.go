package game

import (
	"slices"
	"testing"

	"github.com/robalobadob/lingoplay/internal/content"
	"github.com/robalobadob/lingoplay/internal/shuffle"
)

// quizIDs walks every question, answering the first option to move on.
func quizIDs(h *harness) []string {
	var ids []string
	for {
		q := h.engine.Snapshot().(QuizView).Question
		if q == nil {
			return ids
		}
		ids = append(ids, q.ID)
		for _, o := range q.Options {
			ids = append(ids, o.ID)
		}
		h.mustApply(Action{Kind: KindAnswer, ID: q.Options[0].ID})
		h.mustApply(Action{Kind: KindNext})
	}
}

func TestSnapshotIDsMatchSource(t *testing.T) {
	testCases := []struct {
		name string
		typ  content.Type
		body string
		ids  func(h *harness) []string
		want []string
	}{
		{
			name: "matching", typ: content.Matching, body: matchingBody,
			ids: func(h *harness) (ids []string) {
				for _, c := range h.engine.Snapshot().(MatchingView).Cards {
					ids = append(ids, c.ID)
				}
				return ids
			},
			want: []string{"p1-a", "p1-b", "p2-a", "p2-b"},
		},
		{
			name: "triple", typ: content.TripleBlast, body: tripleBody,
			ids: func(h *harness) (ids []string) {
				for _, tl := range h.engine.Snapshot().(TripleView).Tiles {
					ids = append(ids, tl.ID)
				}
				return ids
			},
			want: []string{"t1", "t2", "t3", "t4", "t5", "t6", "t7", "t8", "t9"},
		},
		{
			name: "bubble", typ: content.BubbleBlast, body: bubbleBody,
			ids: func(h *harness) (ids []string) {
				v := h.engine.Snapshot().(BubbleView)
				for _, b := range v.Targets {
					ids = append(ids, b.ID)
				}
				for _, b := range v.Shooters {
					ids = append(ids, b.ID)
				}
				return ids
			},
			want: []string{"f1", "f2", "s1", "s2", "s3", "s4"},
		},
		{
			name: "sorter", typ: content.GroupSorter, body: sorterBody,
			ids: func(h *harness) (ids []string) {
				v := h.engine.Snapshot().(SorterView)
				for _, it := range v.Pool {
					ids = append(ids, it.ID)
				}
				for _, b := range v.Buckets {
					for _, it := range b.Items {
						ids = append(ids, it.ID)
					}
				}
				return ids
			},
			want: []string{"apple", "cat", "cow", "mango"},
		},
		{
			name: "blanks", typ: content.FillBlanks, body: blanksBody,
			ids: func(h *harness) (ids []string) {
				v := h.engine.Snapshot().(BlanksView)
				for _, s := range v.Segments {
					ids = append(ids, s.ID)
				}
				for _, o := range v.Options {
					ids = append(ids, o.ID)
				}
				return ids
			},
			want: []string{"b1", "b2", "o1", "o2", "o3", "s0", "s2"},
		},
		{
			name: "mcq", typ: content.MCQ, body: mcqBody, ids: quizIDs,
			want: []string{"a", "b", "c", "d", "e", "f", "q1", "q2", "q3"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for seed := uint64(0); seed < 10; seed++ {
				h := newHarnessWith(t, tc.typ, tc.body, Options{Rand: shuffle.NewSeeded(seed)})
				got := tc.ids(h)
				slices.Sort(got)
				if !slices.Equal(got, tc.want) {
					t.Fatalf("seed %d: ids = %v, want %v", seed, got, tc.want)
				}
			}
		})
	}
}
