package tracker

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidScope     = errors.New("invalid scope")
	ErrInvalidLinkType  = errors.New("invalid link type")
	ErrInvalidVisitorID = errors.New("invalid visitor id")
)

// Opt is an optional argument. The zero value means the caller omitted it.
type Opt[T any] struct {
	value T
	set   bool
}

// Some returns a provided optional argument.
func Some[T any](v T) Opt[T] {
	return Opt[T]{value: v, set: true}
}

// None returns an omitted optional argument.
func None[T any]() Opt[T] {
	return Opt[T]{}
}

func (o Opt[T]) Get() (T, bool) { return o.value, o.set }

func (o Opt[T]) IsSet() bool { return o.set }

// Or returns the value, or def when omitted.
func (o Opt[T]) Or(def T) T {
	if !o.set {
		return def
	}
	return o.value
}

// Value returns the value, or nil when omitted.
func (o Opt[T]) Value() any {
	if !o.set {
		return nil
	}
	return o.value
}

// Scope restricts custom variables to a page view or a whole visit.
type Scope string

const (
	ScopePage  Scope = "page"
	ScopeVisit Scope = "visit"
)

// DefaultScope is used when a custom variable call omits its scope.
const DefaultScope = ScopeVisit

// ParseScope accepts exactly "page" or "visit".
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopePage, ScopeVisit:
		return Scope(s), nil
	}
	return "", fmt.Errorf("%w %q: must be 'page' or 'visit'", ErrInvalidScope, s)
}

// LinkType classifies a tracked link click.
type LinkType string

const (
	LinkTypeLink     LinkType = "link"
	LinkTypeDownload LinkType = "download"
)

// ParseLinkType accepts exactly "link" or "download".
func ParseLinkType(s string) (LinkType, error) {
	switch LinkType(s) {
	case LinkTypeLink, LinkTypeDownload:
		return LinkType(s), nil
	}
	return "", fmt.Errorf("%w %q: must be 'link' or 'download'", ErrInvalidLinkType, s)
}

// VisitorID is a 16 character hexadecimal visitor identifier.
type VisitorID string

const visitorIDLength = 16

// ParseVisitorID validates s and returns it lower-cased.
func ParseVisitorID(s string) (VisitorID, error) {
	if len(s) != visitorIDLength {
		return "", fmt.Errorf("%w %q: want %d hex characters, got %d", ErrInvalidVisitorID, s, visitorIDLength, len(s))
	}
	if _, err := hex.DecodeString(s); err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrInvalidVisitorID, s, err)
	}
	return VisitorID(strings.ToLower(s)), nil
}

// Valid reports whether id has the visitor id format.
func (id VisitorID) Valid() bool {
	_, err := ParseVisitorID(string(id))
	return err == nil
}

// RandomVisitorID derives a visitor id from the first half of a random UUID.
func RandomVisitorID() VisitorID {
	u := uuid.New()
	return VisitorID(hex.EncodeToString(u[:visitorIDLength/2]))
}

// Category is a product category: either one name or an ordered list.
type Category struct {
	names []string
	list  bool
}

// SingleCategory returns a one-name category.
func SingleCategory(name string) Category {
	return Category{names: []string{name}}
}

// CategoryList returns an ordered category list. Order is preserved.
func CategoryList(names ...string) Category {
	cp := make([]string, len(names))
	copy(cp, names)
	return Category{names: cp, list: true}
}

// IsList reports whether the category was given as a list.
func (c Category) IsList() bool { return c.list }

// Names returns a copy of the category names.
func (c Category) Names() []string {
	cp := make([]string, len(c.names))
	copy(cp, c.names)
	return cp
}

// Value returns a string for a single category and a []string for a list.
func (c Category) Value() any {
	if c.list {
		return c.Names()
	}
	if len(c.names) == 0 {
		return ""
	}
	return c.names[0]
}

func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Value())
}

func (c *Category) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*c = SingleCategory(single)
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("category must be a string or a list of strings: %w", err)
	}
	*c = CategoryList(many...)
	return nil
}

// VisitorInfo is the ordered visitor info sequence. Elements are strings or numbers.
type VisitorInfo []any

// CartItems maps a key (the product SKU for the recorder) to the cart entry.
type CartItems map[string]any

// CartItem is one entry of an e-commerce cart.
type CartItem struct {
	SKU      string   `json:"sku"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Price    float64  `json:"price"`
	Quantity int      `json:"quantity"`
}
