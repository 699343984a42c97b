// Package htmlmodel implements the HTML element registry and the
// open-element stack with its auto-balancer. It knows nothing about
// the tokenizer or the handler contract: it is a pure decision engine
// over element names, consulted by the parser core only when the
// configured dialect is HTML.
package htmlmodel

import "golang.org/x/net/html/atom"

// Category loosely classifies an element as block or inline. It is
// recorded on each Element; the optional-close rule lookups go through
// OptionalCloseTriggers and do not consult it.
type Category int

const (
	CategoryNone Category = iota
	CategoryBlock
	CategoryInline
)

// Element describes one entry of the registry.
type Element struct {
	Name                 string
	IsVoid               bool
	IsRawText            bool
	IsEscapableRawText   bool
	Category             Category
	// OptionalCloseTriggers lists element names that, if currently the
	// top of the open-element stack, are implicitly closed when this
	// element is opened. Consulted repeatedly by the Balancer until a
	// fixed point.
	OptionalCloseTriggers []string
	// Atom is the interned golang.org/x/net/html/atom.Atom for Name, or
	// the zero Atom for a name the standard atom table doesn't know
	// about (a custom element or a typo). It lets a consumer of this
	// registry key its own lookups the same way golang.org/x/net/html
	// does, without this package needing to duplicate that table.
	Atom atom.Atom
}

// Registry is a fixed, case-folded dictionary of HTML element metadata.
// Names handed to Lookup are expected to already be lower-cased by the
// caller (the parser core folds names per Config.CaseSensitive before
// the registry ever sees them).
type Registry struct {
	elements map[string]Element
}

var voidElements = []string{
	"area", "base", "br", "col", "embed", "hr", "img", "input",
	"link", "meta", "param", "source", "track", "wbr",
}

var rawTextElements = []string{"script", "style"}

var escapableRawTextElements = []string{"textarea", "title"}

// optionalCloseRules is intentionally not exhaustive relative to the
// HTML5 "optional tags" section: it covers list items, definition
// terms, table rows/cells/sections, and the paragraph-closing rule,
// which is the single most common auto-close in the wild. Divergence
// from the full HTML5 table is a conformance gap in this table, not in
// the Balancer's algorithm.
var optionalCloseRules = map[string][]string{
	"li":       {"li"},
	"dt":       {"dt", "dd"},
	"dd":       {"dt", "dd"},
	"option":   {"option"},
	"optgroup": {"optgroup", "option"},
	"tr":       {"tr"},
	"td":       {"td", "th"},
	"th":       {"td", "th"},
	"thead":    {"thead", "tbody", "tfoot"},
	"tbody":    {"thead", "tbody", "tfoot"},
	"tfoot":    {"thead", "tbody", "tfoot"},
	"p":        {"p"},
}

// blockElements triggers the paragraph-closing rule: opening any of
// these while a <p> is the open top implicitly closes the <p>, matching
// the HTML5 "optional tags" section's list of elements that cannot
// nest inside a <p>.
var blockElements = []string{
	"address", "article", "aside", "blockquote", "details", "div", "dl",
	"fieldset", "figcaption", "figure", "footer", "form", "h1", "h2",
	"h3", "h4", "h5", "h6", "header", "hr", "main", "menu", "nav", "ol",
	"pre", "section", "table", "ul", "p",
}

// NewRegistry builds the fixed HTML element registry.
func NewRegistry() *Registry {
	r := &Registry{elements: make(map[string]Element)}
	for _, name := range voidElements {
		r.elements[name] = Element{Name: name, IsVoid: true, Category: CategoryInline, Atom: atom.Lookup([]byte(name))}
	}
	for _, name := range rawTextElements {
		r.elements[name] = Element{Name: name, IsRawText: true, Category: CategoryBlock, Atom: atom.Lookup([]byte(name))}
	}
	for _, name := range escapableRawTextElements {
		r.elements[name] = Element{Name: name, IsEscapableRawText: true, Category: CategoryBlock, Atom: atom.Lookup([]byte(name))}
	}
	for name, triggers := range optionalCloseRules {
		el := r.elements[name]
		el.Name = name
		el.Atom = atom.Lookup([]byte(name))
		el.OptionalCloseTriggers = append(el.OptionalCloseTriggers, triggers...)
		r.elements[name] = el
	}
	for _, name := range blockElements {
		el := r.elements[name]
		el.Name = name
		el.Atom = atom.Lookup([]byte(name))
		el.Category = CategoryBlock
		el.OptionalCloseTriggers = appendUnique(el.OptionalCloseTriggers, "p")
		r.elements[name] = el
	}
	return r
}

func appendUnique(s []string, v string) []string {
	for _, x := range s {
		if x == v {
			return s
		}
	}
	return append(s, v)
}

// Lookup returns the descriptor for name. Unknown elements are treated
// as ordinary elements with no special behavior.
func (r *Registry) Lookup(name string) Element {
	if el, ok := r.elements[name]; ok {
		return el
	}
	return Element{Name: name, Atom: atom.Lookup([]byte(name))}
}

// ShouldAutoClose reports whether opening element `incoming` should
// implicitly close a currently-open element named `top`, per the
// registry's optional-close rule table.
func (r *Registry) ShouldAutoClose(top, incoming string) bool {
	el := r.Lookup(incoming)
	for _, trigger := range el.OptionalCloseTriggers {
		if trigger == top {
			return true
		}
	}
	return false
}
