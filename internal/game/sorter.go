// internal/game/sorter.go
//
// Group-sorter engine: items move between the pool and named buckets until
// the pool is empty, then a check grades every placement.

package game

import (
	"context"
	"slices"

	"github.com/robalobadob/lingoplay/internal/content"
	"github.com/robalobadob/lingoplay/internal/shuffle"
)

// PoolID names the unassigned pool in move actions. An empty target works too.
const PoolID = "pool"

// SorterView is the group-sorter snapshot.
type SorterView struct {
	HeaderView
	Pool    []SorterItemView   `json:"pool"`
	Buckets []SorterBucketView `json:"buckets"`
	Checked bool               `json:"checked"`
}

type SorterBucketView struct {
	ID    string           `json:"id"`
	Name  string           `json:"name"`
	Items []SorterItemView `json:"items"`
}

type SorterItemView struct {
	ID      string     `json:"id"`
	Content string     `json:"content"`
	Status  CardStatus `json:"status"`
}

// sorterEngine holds one ordered id list per bucket plus the pool.
// Checking sets machine.locked; nothing unlocks it short of a reset.
type sorterEngine struct {
	machine
	doc     *content.GroupSorterDoc
	items   map[string]content.SortItem
	pool    []string
	buckets map[string][]string
	status  map[string]CardStatus
}

func newGroupSorter(doc *content.GroupSorterDoc, opts Options) *sorterEngine {
	e := &sorterEngine{doc: doc}
	e.init(content.GroupSorter, opts)
	e.items = make(map[string]content.SortItem, len(doc.Items))
	for _, it := range doc.Items {
		e.items[it.ID] = it
	}
	e.build()
	return e
}

func (e *sorterEngine) build() {
	e.restart()
	e.pool = make([]string, 0, len(e.doc.Items))
	for _, it := range e.doc.Items {
		e.pool = append(e.pool, it.ID)
	}
	shuffle.Slice(e.rng, e.pool)
	e.buckets = make(map[string][]string, len(e.doc.Groups))
	for _, g := range e.doc.Groups {
		e.buckets[g.ID] = []string{}
	}
	e.status = map[string]CardStatus{}
	e.max = len(e.doc.Items)
}

func (e *sorterEngine) Apply(_ context.Context, a Action) error {
	return e.run(func() error {
		switch a.Kind {
		case KindMove:
			return e.move(a.ID, a.Target, a.Index)
		case KindCheck:
			return e.check()
		case KindReset:
			e.build()
			return nil
		case KindLang:
			_, err := e.switchLang(a.Lang)
			return err
		}
		return unknownAction(a)
	})
}

// move transfers item id into bucket to (or the pool) at index, or appends
// when index is nil. Moving within the same list reorders it.
func (e *sorterEngine) move(id, to string, index *int) error {
	if e.locked {
		return ErrLocked
	}
	if _, ok := e.items[id]; !ok {
		return ErrUnknownID
	}
	_, isBucket := e.buckets[to]
	toPool := !isBucket && (to == "" || to == PoolID)
	if !isBucket && !toPool {
		return ErrUnknownID
	}

	if i := slices.Index(e.pool, id); i >= 0 {
		e.pool = slices.Delete(e.pool, i, i+1)
	} else {
		for k, list := range e.buckets {
			if i := slices.Index(list, id); i >= 0 {
				e.buckets[k] = slices.Delete(list, i, i+1)
				break
			}
		}
	}

	if toPool {
		e.pool = insertAt(e.pool, id, index)
	} else {
		e.buckets[to] = insertAt(e.buckets[to], id, index)
	}
	clear(e.status)
	e.message = ""
	return nil
}

func insertAt(list []string, id string, index *int) []string {
	if index == nil || *index >= len(list) {
		return append(list, id)
	}
	return slices.Insert(list, max(*index, 0), id)
}

func (e *sorterEngine) check() error {
	if e.locked {
		return ErrLocked
	}
	if len(e.pool) > 0 || len(e.items) == 0 {
		e.message = "Place every item in a group first"
		return ErrIncomplete
	}
	correct := 0
	for bucket, list := range e.buckets {
		for _, id := range list {
			if e.items[id].GroupID == bucket {
				e.status[id] = StatusCorrect
				correct++
			} else {
				e.status[id] = StatusIncorrect
			}
		}
	}
	e.locked = true
	e.score = correct
	if correct == len(e.items) {
		e.message = "Everything is in the right group!"
		e.finish(true)
	} else {
		e.message = "Some items are in the wrong group"
		e.finish(false)
	}
	return nil
}

func (e *sorterEngine) itemView(id string) SorterItemView {
	st, ok := e.status[id]
	if !ok {
		st = StatusDefault
	}
	return SorterItemView{ID: id, Content: e.text(e.items[id].Content), Status: st}
}

func (e *sorterEngine) Snapshot() any {
	e.mu.Lock()
	defer e.mu.Unlock()
	v := SorterView{
		HeaderView: e.header(e.doc.Header),
		Pool:       make([]SorterItemView, 0, len(e.pool)),
		Buckets:    make([]SorterBucketView, 0, len(e.doc.Groups)),
		Checked:    e.locked,
	}
	for _, id := range e.pool {
		v.Pool = append(v.Pool, e.itemView(id))
	}
	for _, g := range e.doc.Groups {
		b := SorterBucketView{ID: g.ID, Name: e.text(g.Name), Items: []SorterItemView{}}
		for _, id := range e.buckets[g.ID] {
			b.Items = append(b.Items, e.itemView(id))
		}
		v.Buckets = append(v.Buckets, b)
	}
	return v
}
