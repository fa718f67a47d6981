package game

import (
	"fmt"
	"io"
	"sort"

	"github.com/google/uuid"
)

// Registry holds the card templates of one game and creates instances from them.
type Registry struct {
	templates map[string]*Template
	ids       io.Reader // entropy for instance ids; nil uses crypto/rand
}

// NewRegistry validates and indexes templates. Capabilities are resolved here once:
// a creature's attack range defaults to 1 and evolution targets must exist.
func NewRegistry(templates ...*Template) (*Registry, error) {
	r := &Registry{templates: make(map[string]*Template, len(templates))}
	for _, t := range templates {
		if t.ID == "" {
			return nil, fmt.Errorf("template %q has no id", t.Name)
		}
		if _, dup := r.templates[t.ID]; dup {
			return nil, fmt.Errorf("duplicate template id %q", t.ID)
		}
		if t.Type == CardTypeCreature && t.Caps.AttackRange < 1 {
			t.Caps.AttackRange = 1
		}
		if t.Caps.Backstab && t.Caps.BackstabBonus == 0 {
			t.Caps.BackstabBonus = DefaultBackstabBonus
		}
		r.templates[t.ID] = t
	}
	for _, t := range r.templates {
		for _, target := range t.Evolutions {
			et, ok := r.templates[target]
			if !ok {
				return nil, fmt.Errorf("template %q evolves into unknown %q", t.ID, target)
			}
			if et.Class != ClassAdvanced {
				return nil, fmt.Errorf("template %q evolves into non-advanced %q", t.ID, target)
			}
		}
	}
	return r, nil
}

// DefaultRegistry returns a registry loaded with the built-in catalog.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(Catalog()...)
	if err != nil {
		panic(fmt.Sprintf("built-in catalog: %v", err))
	}
	return r
}

// SetIDSource makes instance ids draw from src, e.g. a seeded *rand.Rand.
func (r *Registry) SetIDSource(src io.Reader) {
	r.ids = src
}

// Template looks a template up by id.
func (r *Registry) Template(id string) (*Template, bool) {
	t, ok := r.templates[id]
	return t, ok
}

// Templates returns all templates sorted by id.
func (r *Registry) Templates() []*Template {
	out := make([]*Template, 0, len(r.templates))
	for _, t := range r.templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// NewCard creates a fresh instance of a template with a unique id, template stats,
// and zeroed combat flags. The instance starts in the apprentice deck when apprentice
// is set, otherwise in the main deck.
func (r *Registry) NewCard(templateID string, apprentice bool) (*CardInstance, error) {
	t, ok := r.templates[templateID]
	if !ok {
		return nil, ruleErr(ReasonTemplateNotFound, "unknown card template %q", templateID)
	}
	ci := &CardInstance{
		ID:          r.newID(),
		Template:    t,
		stats:       t.Stats,
		Position:    NoPosition,
		Zone:        ZoneDeck,
		Class:       t.Class,
		AttackRange: t.Caps.AttackRange,
	}
	if apprentice {
		ci.Zone = ZoneApprenticeDeck
	}
	return ci, nil
}

func (r *Registry) newID() string {
	if r.ids == nil {
		return uuid.NewString()
	}
	id, err := uuid.NewRandomFromReader(r.ids)
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
