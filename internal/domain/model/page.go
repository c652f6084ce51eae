package model

import (
	"sort"
	"strings"

	domainauth "github.com/target/campus-portal/internal/domain/auth"
)

// Field describes one column of a feature page's records.
type Field struct {
	Name     string `json:"name"     yaml:"name"`
	Label    string `json:"label"    yaml:"label"`
	Required bool   `json:"required" yaml:"required"`
}

// Page is a feature page inside a role's subtree. Pages own their own
// records and never reference one another.
type Page struct {
	Key    string          `json:"key"    yaml:"key"`
	Title  string          `json:"title"  yaml:"title"`
	Role   domainauth.Role `json:"role"   yaml:"role"`
	Fields []Field         `json:"fields" yaml:"fields"`
}

// Ref returns the page's catalogue reference.
func (p Page) Ref() PageRef { return PageRef{Role: p.Role, Key: p.Key} }

// Path returns the browser route for the page, e.g. "/staff/leaves".
func (p Page) Path() string { return p.Role.HomePath() + "/" + p.Key }

// RequiredFields lists the names of fields that must be non-blank.
func (p Page) RequiredFields() []string {
	var out []string
	for _, f := range p.Fields {
		if f.Required {
			out = append(out, f.Name)
		}
	}
	return out
}

// HasField reports whether name is one of the page's declared fields.
func (p Page) HasField(name string) bool {
	for _, f := range p.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// PageRef identifies a page within the catalogue.
type PageRef struct {
	Role domainauth.Role
	Key  string
}

func (r PageRef) String() string { return string(r.Role) + "/" + r.Key }

// Catalog is the static navigation registry of feature pages per role.
type Catalog struct {
	pages map[PageRef]Page
	order map[domainauth.Role][]string
}

// NewCatalog builds a catalogue; later duplicates of a (role, key) pair are ignored.
func NewCatalog(pages []Page) *Catalog {
	c := &Catalog{
		pages: make(map[PageRef]Page, len(pages)),
		order: make(map[domainauth.Role][]string),
	}
	for _, p := range pages {
		p.Key = strings.TrimSpace(p.Key)
		if p.Key == "" || !p.Role.Valid() {
			continue
		}
		ref := p.Ref()
		if _, dup := c.pages[ref]; dup {
			continue
		}
		c.pages[ref] = p
		c.order[p.Role] = append(c.order[p.Role], p.Key)
	}
	return c
}

// Lookup returns the page for ref.
func (c *Catalog) Lookup(ref PageRef) (Page, bool) {
	if c == nil {
		return Page{}, false
	}
	p, ok := c.pages[ref]
	return p, ok
}

// ForRole returns the role's pages in registration order.
func (c *Catalog) ForRole(role domainauth.Role) []Page {
	if c == nil {
		return nil
	}
	keys := c.order[role]
	out := make([]Page, 0, len(keys))
	for _, k := range keys {
		out = append(out, c.pages[PageRef{Role: role, Key: k}])
	}
	return out
}

// Refs returns every page reference, sorted for stable iteration.
func (c *Catalog) Refs() []PageRef {
	if c == nil {
		return nil
	}
	out := make([]PageRef, 0, len(c.pages))
	for ref := range c.pages {
		out = append(out, ref)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
