package internal

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// Variant names the shape a Menu carries. A source always produces the same variant
// on success; any source may produce VariantFailure.
type Variant string

const (
	VariantSimple    Variant = "simple"
	VariantTitled    Variant = "titled"
	VariantKeyed     Variant = "keyed"
	VariantSegmented Variant = "segmented"
	VariantLink      Variant = "link"
	VariantFailure   Variant = "failure"
)

type Dish struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

type Segment struct {
	Header   string `json:"header" yaml:"header"`
	Contents []Dish `json:"contents" yaml:"contents"`
}

type Link struct {
	Href    string `json:"href" yaml:"href"`
	Display string `json:"display" yaml:"display"`
}

// Menu is the normalized result for one source on one day. Exactly one payload field
// is populated, selected by Variant. Build values with the constructors below.
type Menu struct {
	Variant  Variant           `json:"variant" yaml:"variant"`
	Lines    []string          `json:"lines,omitempty" yaml:"lines,omitempty"`
	Dishes   []Dish            `json:"dishes,omitempty" yaml:"dishes,omitempty"`
	Fields   map[string]string `json:"fields,omitempty" yaml:"fields,omitempty"`
	Segments []Segment         `json:"segments,omitempty" yaml:"segments,omitempty"`
	Link     *Link             `json:"link,omitempty" yaml:"link,omitempty"`
	Error    string            `json:"error,omitempty" yaml:"error,omitempty"`
}

func SimpleList(lines ...string) Menu {
	return Menu{Variant: VariantSimple, Lines: lines}
}

func TitledList(dishes ...Dish) Menu {
	return Menu{Variant: VariantTitled, Dishes: dishes}
}

func KeyedMap(fields map[string]string) Menu {
	return Menu{Variant: VariantKeyed, Fields: maps.Clone(fields)}
}

func SegmentedList(segments ...Segment) Menu {
	return Menu{Variant: VariantSegmented, Segments: segments}
}

func LinkOnly(display, href string) Menu {
	return Menu{Variant: VariantLink, Link: &Link{Href: href, Display: display}}
}

func Failure(message string) Menu {
	return Menu{Variant: VariantFailure, Error: message}
}

// Failed reports whether m carries an error instead of content.
func (m Menu) Failed() bool {
	return m.Variant == VariantFailure
}

var errInvalidMenu = errors.New("invalid menu")

// Validate checks that exactly the payload selected by Variant is populated, and that it
// carries content: no empty lists, blank lines or half-filled dishes.
func (m Menu) Validate() error {
	populated := map[Variant]bool{
		VariantSimple:    m.Lines != nil,
		VariantTitled:    m.Dishes != nil,
		VariantKeyed:     m.Fields != nil,
		VariantSegmented: m.Segments != nil,
		VariantLink:      m.Link != nil,
		VariantFailure:   m.Error != "",
	}
	if _, ok := populated[m.Variant]; !ok {
		return fmt.Errorf("%w: unknown variant %q", errInvalidMenu, m.Variant)
	}
	for _, v := range slices.Sorted(maps.Keys(populated)) {
		if v != m.Variant && populated[v] {
			return fmt.Errorf("%w: %s menu also carries %s content", errInvalidMenu, m.Variant, v)
		}
	}
	switch m.Variant {
	case VariantSimple:
		if len(m.Lines) == 0 {
			return fmt.Errorf("%w: simple menu without lines", errInvalidMenu)
		}
		if slices.Contains(m.Lines, "") {
			return fmt.Errorf("%w: blank line", errInvalidMenu)
		}
	case VariantTitled:
		if len(m.Dishes) == 0 {
			return fmt.Errorf("%w: titled menu without dishes", errInvalidMenu)
		}
		return validateDishes(m.Dishes)
	case VariantKeyed:
		if len(m.Fields) == 0 {
			return fmt.Errorf("%w: keyed menu without fields", errInvalidMenu)
		}
		for k, v := range m.Fields {
			if k == "" || v == "" {
				return fmt.Errorf("%w: blank field %q", errInvalidMenu, k)
			}
		}
	case VariantSegmented:
		if len(m.Segments) == 0 {
			return fmt.Errorf("%w: segmented menu without segments", errInvalidMenu)
		}
		for _, seg := range m.Segments {
			if seg.Header == "" || len(seg.Contents) == 0 {
				return fmt.Errorf("%w: empty segment %q", errInvalidMenu, seg.Header)
			}
			if err := validateDishes(seg.Contents); err != nil {
				return err
			}
		}
	case VariantFailure:
		if m.Error == "" {
			return fmt.Errorf("%w: failure without message", errInvalidMenu)
		}
	case VariantLink:
		if m.Link == nil || m.Link.Href == "" {
			return fmt.Errorf("%w: link without href", errInvalidMenu)
		}
	}
	return nil
}

func validateDishes(dishes []Dish) error {
	for i, d := range dishes {
		if d.Title == "" || d.Description == "" {
			return fmt.Errorf("%w: dish %d has a blank field", errInvalidMenu, i)
		}
	}
	return nil
}
