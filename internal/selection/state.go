// Package selection holds the multi-select state shared by the dashboard
// panels. A state selects either pizzas or categories, never both.
package selection

import "slices"

type Mode string

const (
	ModeNone     Mode = "none"
	ModePizza    Mode = "pizza"
	ModeCategory Mode = "category"
)

// Kind tags a Click.
type Kind string

const (
	KindPizza    Kind = "pizza"
	KindCategory Kind = "category"
)

// Click is a single selection gesture on a pizza or a category.
type Click struct {
	Kind Kind
	Name string
}

func PizzaClick(name string) Click {
	return Click{Kind: KindPizza, Name: name}
}

func CategoryClick(name string) Click {
	return Click{Kind: KindCategory, Name: name}
}

// ParseKind maps the wire form of a click kind. Unknown kinds return false.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindPizza, KindCategory:
		return Kind(s), true
	}
	return "", false
}

func (k Kind) mode() Mode {
	if k == KindCategory {
		return ModeCategory
	}
	return ModePizza
}

// State is not safe for concurrent use; the owning session serializes
// access.
type State struct {
	mode       Mode
	pizzas     []string
	categories []string
	limit      int
}

type Option func(*State)

// WithLimit caps how many names can be selected at once. Zero or less means
// no cap.
func WithLimit(n int) Option {
	return func(s *State) {
		s.limit = n
	}
}

func New(opts ...Option) *State {
	s := &State{mode: ModeNone}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Toggle adds or removes the clicked name and reports whether the state
// changed. A click of the other kind is ignored while a selection is active,
// as is an addition beyond the limit.
func (s *State) Toggle(c Click) bool {
	if _, ok := ParseKind(string(c.Kind)); !ok || c.Name == "" {
		return false
	}

	target := c.Kind.mode()
	if s.mode != ModeNone && s.mode != target && len(s.active()) > 0 {
		return false
	}

	set := s.set(target)
	if i := slices.Index(*set, c.Name); i >= 0 {
		*set = slices.Delete(*set, i, i+1)
	} else {
		if s.limit > 0 && len(*set) >= s.limit {
			return false
		}
		*set = append(*set, c.Name)
	}

	if len(*set) == 0 {
		s.mode = ModeNone
	} else {
		s.mode = target
	}
	return true
}

func (s *State) Clear() {
	s.mode = ModeNone
	s.pizzas = nil
	s.categories = nil
}

func (s *State) IsAnySelected() bool {
	return len(s.active()) > 0
}

func (s *State) ActiveMode() Mode {
	return s.mode
}

// ActiveNames returns the selected names of the active mode in click order.
func (s *State) ActiveNames() []string {
	return slices.Clone(s.active())
}

// Contains reports whether the click's name is currently selected under its
// kind.
func (s *State) Contains(c Click) bool {
	if s.mode != c.Kind.mode() {
		return false
	}
	return slices.Contains(s.active(), c.Name)
}

func (s *State) Limit() int {
	return s.limit
}

// Snapshot is an immutable copy of a State for rendering.
type Snapshot struct {
	Mode  Mode
	Names []string
}

func (s *State) Snapshot() Snapshot {
	return Snapshot{Mode: s.mode, Names: s.ActiveNames()}
}

func (s Snapshot) IsAnySelected() bool {
	return s.Mode != ModeNone && len(s.Names) > 0
}

func (s Snapshot) Contains(c Click) bool {
	return s.Mode == c.Kind.mode() && slices.Contains(s.Names, c.Name)
}

func (s *State) active() []string {
	switch s.mode {
	case ModePizza:
		return s.pizzas
	case ModeCategory:
		return s.categories
	default:
		return nil
	}
}

func (s *State) set(m Mode) *[]string {
	if m == ModeCategory {
		return &s.categories
	}
	return &s.pizzas
}
