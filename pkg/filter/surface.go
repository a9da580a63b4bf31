package filter

import (
	"errors"
	"fmt"
)

// Page markup shared by every surface and the page generator. Changing any of
// these breaks pages generated by older builds.
const (
	AttrFacet   = "data-facet"
	AttrValue   = "data-value"
	AttrYear    = "data-year"
	AttrVenue   = "data-venue"
	AttrAuthors = "data-authors"
	AttrKey     = "data-dblpid"

	ClassButton    = "facet"
	ClassCount     = "count"
	ClassItem      = "bibitem"
	ClassSelected  = "selected"
	ClassHighlight = "highlight"

	IDAuthorPanel = "author-filters"
	IDYearPanel   = "year-filters"
	IDVenuePanel  = "venue-filters"
	IDHeading     = "pub-count"
	IDList        = "publications"
	IDDirectory   = "author-directory"
)

// ErrMissingContainer is returned when a surface lacks a panel container.
var ErrMissingContainer = errors.New("filter container not found")

// PanelID returns the container id of a facet panel.
func PanelID(f Facet) string {
	switch f {
	case Author:
		return IDAuthorPanel
	case Year:
		return IDYearPanel
	default:
		return IDVenuePanel
	}
}

// MissingContainer wraps ErrMissingContainer with the panel id.
func MissingContainer(f Facet) error {
	return fmt.Errorf("%w: #%s", ErrMissingContainer, PanelID(f))
}

// Surface is what the engine renders into. Items are addressed by their index
// in the publication slice, buttons by facet and value.
type Surface interface {
	// ResetPanel empties the panel of f. It returns an error wrapping
	// ErrMissingContainer when the panel does not exist.
	ResetPanel(f Facet) error
	// AddButton appends a button with an empty count label.
	AddButton(b Button) error

	SetItemVisible(i int, visible bool)
	SetButtonVisible(f Facet, value string, visible bool)
	SetButtonCount(f Facet, value string, label string)
	SetButtonSelected(f Facet, value string, selected bool)
	SetButtonHighlighted(f Facet, value string, on bool)
	ClearHighlights()
	SetHeading(text string)
}

// Node is an element seen by a click handler.
type Node interface {
	Attr(name string) (string, bool)
	// Parent returns nil at the root.
	Parent() Node
}

// ResolveTarget walks up from n to the nearest element carrying a facet role
// and returns its facet and value.
func ResolveTarget(n Node) (Facet, string, bool) {
	for ; n != nil; n = n.Parent() {
		role, ok := n.Attr(AttrFacet)
		if !ok {
			continue
		}
		f, ok := ParseFacet(role)
		if !ok {
			return 0, "", false
		}
		v, ok := n.Attr(AttrValue)
		if !ok {
			return 0, "", false
		}
		return f, v, true
	}
	return 0, "", false
}
