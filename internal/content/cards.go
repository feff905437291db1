// internal/content/cards.go
//
// Card-based documents: flashcard, matching, memory pair, triple blast,
// bubble blast and group sorter.

package content

import (
	"strings"

	"github.com/robalobadob/lingoplay/internal/i18n"
)

// ---------------------------------------------------------------- Flashcard

// FlashcardDoc is a single word card with its meaning on the back.
type FlashcardDoc struct {
	Header
	Word    i18n.Text `json:"word"`
	Meaning i18n.Text `json:"meaning"`
	Image   i18n.Text `json:"image"`
	Audio   i18n.Text `json:"audio"`
}

func (*FlashcardDoc) Kind() Type { return Flashcard }
func (d *FlashcardDoc) normalize() {}

func (d *FlashcardDoc) Validate() error {
	if err := d.validate(); err != nil {
		return err
	}
	if d.Word.Empty() {
		return invalid("word", "at least one language is required")
	}
	return nil
}

// ----------------------------------------------------------------- Matching

// Side of a matching card.
type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

// MatchPair is the authoring shape: one row of the pair builder.
type MatchPair struct {
	ID    string    `json:"id"`
	Left  i18n.Text `json:"left"`
	Right i18n.Text `json:"right"`
}

// MatchCard is the runtime shape: one card on one side, grouped by MatchID.
type MatchCard struct {
	ID      string    `json:"id"`
	Side    Side      `json:"side"`
	MatchID string    `json:"matchId"`
	Content i18n.Text `json:"content"`
}

// MatchingDoc accepts either builder pairs or an explicit card list.
type MatchingDoc struct {
	Header
	Pairs []MatchPair `json:"pairs"`
	Cards []MatchCard `json:"cards"`
}

func (*MatchingDoc) Kind() Type { return Matching }

func (d *MatchingDoc) normalize() {
	d.Pairs = dedupe(d.Pairs, func(p MatchPair) string { return p.ID })
	if len(d.Cards) == 0 {
		d.Cards = expandPairs(d.Pairs)
	}
	cards := make([]MatchCard, 0, len(d.Cards))
	for _, c := range d.Cards {
		c.Side = Side(strings.ToUpper(string(c.Side)))
		if (c.Side != SideA && c.Side != SideB) || c.MatchID == "" {
			continue
		}
		cards = append(cards, c)
	}
	d.Cards = dedupe(cards, func(c MatchCard) string { return c.ID })
}

func expandPairs(pairs []MatchPair) []MatchCard {
	cards := make([]MatchCard, 0, 2*len(pairs))
	for _, p := range pairs {
		cards = append(cards,
			MatchCard{ID: p.ID + "-a", Side: SideA, MatchID: p.ID, Content: p.Left},
			MatchCard{ID: p.ID + "-b", Side: SideB, MatchID: p.ID, Content: p.Right},
		)
	}
	return cards
}

func (d *MatchingDoc) Validate() error {
	if err := d.validate(); err != nil {
		return err
	}
	if len(d.Cards) == 0 {
		if len(d.Pairs) == 0 {
			return invalid("pairs", "at least one pair is required")
		}
		if err := checkIDs("pairs", d.Pairs, func(p MatchPair) string { return p.ID }); err != nil {
			return err
		}
		for i, p := range d.Pairs {
			if p.Left.Empty() {
				return invalid(indexed("pairs", i)+".left", "at least one language is required")
			}
			if p.Right.Empty() {
				return invalid(indexed("pairs", i)+".right", "at least one language is required")
			}
		}
		return nil
	}
	if err := checkIDs("cards", d.Cards, func(c MatchCard) string { return c.ID }); err != nil {
		return err
	}
	sides := map[string]map[Side]bool{}
	for i, c := range d.Cards {
		side := Side(strings.ToUpper(string(c.Side)))
		if side != SideA && side != SideB {
			return invalid(indexed("cards", i)+".side", "must be A or B")
		}
		if c.MatchID == "" {
			return invalid(indexed("cards", i)+".matchId", "is required")
		}
		if c.Content.Empty() {
			return invalid(indexed("cards", i)+".content", "at least one language is required")
		}
		if sides[c.MatchID] == nil {
			sides[c.MatchID] = map[Side]bool{}
		}
		sides[c.MatchID][side] = true
	}
	for id, s := range sides {
		if !s[SideA] || !s[SideB] {
			return invalid("cards", "matchId %q needs a card on each side", id)
		}
	}
	return nil
}

// --------------------------------------------------------------- MemoryPair

// MemoryPairDoc is a grid of face-down cards plus the explicit pair list.
type MemoryPairDoc struct {
	Header
	Cards       []Item     `json:"cards"`
	AnswerPairs []CardPair `json:"answerPairs"`
}

func (*MemoryPairDoc) Kind() Type { return MemoryPair }

func (d *MemoryPairDoc) normalize() {
	d.Cards = dedupe(d.Cards, itemID)
	if d.AnswerPairs == nil {
		d.AnswerPairs = []CardPair{}
	}
}

func (d *MemoryPairDoc) Validate() error {
	if err := d.validate(); err != nil {
		return err
	}
	if len(d.Cards) < 2 {
		return invalid("cards", "at least two cards are required")
	}
	if err := checkIDs("cards", d.Cards, itemID); err != nil {
		return err
	}
	if len(d.AnswerPairs) == 0 {
		return invalid("answerPairs", "at least one pair is required")
	}
	ids := idSet(d.Cards, itemID)
	for i, p := range d.AnswerPairs {
		if _, ok := ids[p.A]; !ok {
			return invalid(indexed("answerPairs", i)+".aId", "unknown card %q", p.A)
		}
		if _, ok := ids[p.B]; !ok {
			return invalid(indexed("answerPairs", i)+".bId", "unknown card %q", p.B)
		}
		if p.A == p.B {
			return invalid(indexed("answerPairs", i), "a card cannot pair with itself")
		}
	}
	return nil
}

// -------------------------------------------------------------- TripleBlast

// TripleGroup lists the tile ids that blast together.
type TripleGroup struct {
	GroupID string   `json:"groupId"`
	TileIDs []string `json:"tileIds"`
}

// TripleBlastDoc is a tile board whose tiles clear in groups of three.
type TripleBlastDoc struct {
	Header
	Tiles  []Item        `json:"tiles"`
	Groups []TripleGroup `json:"groups"`
}

func (*TripleBlastDoc) Kind() Type { return TripleBlast }

func (d *TripleBlastDoc) normalize() {
	d.Tiles = dedupe(d.Tiles, itemID)
	if d.Groups == nil {
		d.Groups = []TripleGroup{}
	}
}

func (d *TripleBlastDoc) Validate() error {
	if err := d.validate(); err != nil {
		return err
	}
	if len(d.Tiles) == 0 || len(d.Tiles)%3 != 0 {
		return invalid("tiles", "tile count must be a positive multiple of 3")
	}
	if err := checkIDs("tiles", d.Tiles, itemID); err != nil {
		return err
	}
	if err := checkIDs("groups", d.Groups, func(g TripleGroup) string { return g.GroupID }); err != nil {
		return err
	}
	ids := idSet(d.Tiles, itemID)
	for i, g := range d.Groups {
		if len(g.TileIDs) != 3 {
			return invalid(indexed("groups", i)+".tileIds", "exactly 3 tiles are required")
		}
		for _, id := range g.TileIDs {
			if _, ok := ids[id]; !ok {
				return invalid(indexed("groups", i)+".tileIds", "unknown tile %q", id)
			}
		}
	}
	return nil
}

// -------------------------------------------------------------- BubbleBlast

// BubbleBlastDoc pairs shootable bubbles with fixed target bubbles.
type BubbleBlastDoc struct {
	Header
	FixedBubbles     []Item     `json:"fixedBubbles"`
	ShootableBubbles []Item     `json:"shootableBubbles"`
	AnswerPairs      []ShotPair `json:"answerPairs"`
}

func (*BubbleBlastDoc) Kind() Type { return BubbleBlast }

func (d *BubbleBlastDoc) normalize() {
	d.FixedBubbles = dedupe(d.FixedBubbles, itemID)
	d.ShootableBubbles = dedupe(d.ShootableBubbles, itemID)
	if d.AnswerPairs == nil {
		d.AnswerPairs = []ShotPair{}
	}
}

func (d *BubbleBlastDoc) Validate() error {
	if err := d.validate(); err != nil {
		return err
	}
	if len(d.FixedBubbles) == 0 {
		return invalid("fixedBubbles", "at least one bubble is required")
	}
	if len(d.ShootableBubbles) == 0 {
		return invalid("shootableBubbles", "at least one bubble is required")
	}
	if err := checkIDs("fixedBubbles", d.FixedBubbles, itemID); err != nil {
		return err
	}
	if err := checkIDs("shootableBubbles", d.ShootableBubbles, itemID); err != nil {
		return err
	}
	fixed := idSet(d.FixedBubbles, itemID)
	shoot := idSet(d.ShootableBubbles, itemID)
	for i, p := range d.AnswerPairs {
		if _, ok := shoot[p.ShooterID]; !ok {
			return invalid(indexed("answerPairs", i)+".shooterId", "unknown bubble %q", p.ShooterID)
		}
		if _, ok := fixed[p.TargetID]; !ok {
			return invalid(indexed("answerPairs", i)+".targetId", "unknown bubble %q", p.TargetID)
		}
	}
	return nil
}

// -------------------------------------------------------------- GroupSorter

// SortGroup is one named bucket.
type SortGroup struct {
	ID   string    `json:"id"`
	Name i18n.Text `json:"name"`
}

// SortItem belongs to exactly one group.
type SortItem struct {
	ID      string    `json:"id"`
	Content i18n.Text `json:"content"`
	GroupID string    `json:"groupId"`
}

// GroupSorterDoc asks the player to place every item in its group.
type GroupSorterDoc struct {
	Header
	Groups []SortGroup `json:"groups"`
	Items  []SortItem  `json:"items"`
}

func (*GroupSorterDoc) Kind() Type { return GroupSorter }

func (d *GroupSorterDoc) normalize() {
	d.Groups = dedupe(d.Groups, func(g SortGroup) string { return g.ID })
	d.Items = dedupe(d.Items, func(it SortItem) string { return it.ID })
}

func (d *GroupSorterDoc) Validate() error {
	if err := d.validate(); err != nil {
		return err
	}
	if len(d.Groups) == 0 {
		return invalid("groups", "at least one group is required")
	}
	if len(d.Items) == 0 {
		return invalid("items", "at least one item is required")
	}
	if err := checkIDs("groups", d.Groups, func(g SortGroup) string { return g.ID }); err != nil {
		return err
	}
	if err := checkIDs("items", d.Items, func(it SortItem) string { return it.ID }); err != nil {
		return err
	}
	groups := idSet(d.Groups, func(g SortGroup) string { return g.ID })
	for i, it := range d.Items {
		if _, ok := groups[it.GroupID]; !ok {
			return invalid(indexed("items", i)+".groupId", "unknown group %q", it.GroupID)
		}
	}
	return nil
}
