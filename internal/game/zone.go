package game

const (
	FieldSize     = 9
	FieldColumns  = 3
	SummonSlots   = 6 // positions 0-5 accept summons; 6-8 are reachable by movement only
	NoPosition    = -1
	backRow       = 1
	adjacentSteps = 1
)

// Row returns the field row of a position.
func Row(pos int) int { return pos / FieldColumns }

// Col returns the field column of a position.
func Col(pos int) int { return pos % FieldColumns }

// Distance returns the Manhattan distance between two field positions.
func Distance(a, b int) int {
	return abs(Row(a)-Row(b)) + abs(Col(a)-Col(b))
}

// IsBackRow reports whether pos lies in the back combat row.
func IsBackRow(pos int) bool {
	return Row(pos) == backRow
}

func validFieldPosition(pos int) bool {
	return pos >= 0 && pos < FieldSize
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// zone is anything a card can be removed from.
type zone interface {
	Type() ZoneType
	remove(card *CardInstance) bool
}

// Pile is an ordered zone indexed by card id. The last card is the top.
type Pile struct {
	kind  ZoneType
	cards []*CardInstance
	byID  map[string]*CardInstance
}

func NewPile(kind ZoneType) *Pile {
	return &Pile{kind: kind, byID: make(map[string]*CardInstance)}
}

func (p *Pile) Type() ZoneType { return p.kind }

func (p *Pile) Len() int { return len(p.cards) }

// Cards returns the cards in order, bottom first. The slice must not be modified.
func (p *Pile) Cards() []*CardInstance { return p.cards }

// At returns the card at index i, or nil when out of range.
func (p *Pile) At(i int) *CardInstance {
	if i < 0 || i >= len(p.cards) {
		return nil
	}
	return p.cards[i]
}

// Get looks a card up by id.
func (p *Pile) Get(id string) *CardInstance {
	return p.byID[id]
}

func (p *Pile) Contains(card *CardInstance) bool {
	_, ok := p.byID[card.ID]
	return ok
}

// Top returns the last card without removing it.
func (p *Pile) Top() *CardInstance {
	if len(p.cards) == 0 {
		return nil
	}
	return p.cards[len(p.cards)-1]
}

func (p *Pile) push(card *CardInstance) {
	p.cards = append(p.cards, card)
	p.byID[card.ID] = card
	card.Zone = p.kind
	card.Position = NoPosition
}

func (p *Pile) pushBottom(card *CardInstance) {
	p.cards = append([]*CardInstance{card}, p.cards...)
	p.byID[card.ID] = card
	card.Zone = p.kind
	card.Position = NoPosition
}

func (p *Pile) remove(card *CardInstance) bool {
	if _, ok := p.byID[card.ID]; !ok {
		return false
	}
	for i, c := range p.cards {
		if c.ID == card.ID {
			p.cards = append(p.cards[:i], p.cards[i+1:]...)
			break
		}
	}
	delete(p.byID, card.ID)
	return true
}

// Grid is a position-indexed zone with at most one card per slot.
type Grid struct {
	kind  ZoneType
	slots []*CardInstance
}

func NewGrid(kind ZoneType, size int) *Grid {
	return &Grid{kind: kind, slots: make([]*CardInstance, size)}
}

func (g *Grid) Type() ZoneType { return g.kind }

func (g *Grid) Size() int { return len(g.slots) }

// At returns the card at pos, or nil for an empty or invalid slot.
func (g *Grid) At(pos int) *CardInstance {
	if pos < 0 || pos >= len(g.slots) {
		return nil
	}
	return g.slots[pos]
}

// Count returns the number of occupied slots.
func (g *Grid) Count() int {
	n := 0
	for _, c := range g.slots {
		if c != nil {
			n++
		}
	}
	return n
}

// Cards returns occupied slots in position order.
func (g *Grid) Cards() []*CardInstance {
	var out []*CardInstance
	for _, c := range g.slots {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

// FirstFree returns the lowest empty position, or -1.
func (g *Grid) FirstFree() int {
	for i, c := range g.slots {
		if c == nil {
			return i
		}
	}
	return NoPosition
}

// FreePositions returns all empty positions below limit.
func (g *Grid) FreePositions(limit int) []int {
	var out []int
	for i := 0; i < limit && i < len(g.slots); i++ {
		if g.slots[i] == nil {
			out = append(out, i)
		}
	}
	return out
}

func (g *Grid) place(card *CardInstance, pos int) {
	g.slots[pos] = card
	card.Zone = g.kind
	card.Position = pos
}

func (g *Grid) remove(card *CardInstance) bool {
	for i, c := range g.slots {
		if c != nil && c.ID == card.ID {
			g.slots[i] = nil
			return true
		}
	}
	return false
}

// shift moves an occupant between two slots of the same grid.
func (g *Grid) shift(from, to int) {
	card := g.slots[from]
	g.slots[from] = nil
	g.slots[to] = card
	card.Position = to
}

// transfer moves card from one zone to the top of a pile. It changes nothing and
// reports false when the card is not in from.
func transfer(card *CardInstance, from zone, to *Pile) bool {
	if !from.remove(card) {
		return false
	}
	to.push(card)
	return true
}

// transferToGrid moves card from a zone into a grid slot.
func transferToGrid(card *CardInstance, from zone, to *Grid, pos int) bool {
	if !from.remove(card) {
		return false
	}
	to.place(card, pos)
	return true
}

// transferToBottom moves card from a zone to the bottom of a pile.
func transferToBottom(card *CardInstance, from zone, to *Pile) bool {
	if !from.remove(card) {
		return false
	}
	to.pushBottom(card)
	return true
}
