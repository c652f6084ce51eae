package model

import (
	"strings"
	"time"
)

// Record is a page-scoped value object. Fields hold the page's ad hoc shape.
type Record struct {
	ID        string            `json:"id"`
	Page      string            `json:"page"`
	Fields    map[string]string `json:"fields"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Clone returns a deep copy so callers cannot mutate stored records.
func (r Record) Clone() Record {
	out := r
	out.Fields = make(map[string]string, len(r.Fields))
	for k, v := range r.Fields {
		out.Fields[k] = v
	}
	return out
}

// Matches reports whether any field value contains q, case-insensitively.
// An empty query matches everything.
func (r Record) Matches(q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	for _, v := range r.Fields {
		if strings.Contains(strings.ToLower(v), q) {
			return true
		}
	}
	return false
}

// AsMap returns a generic view of the record used by filter expressions.
func (r Record) AsMap() map[string]any {
	fields := make(map[string]any, len(r.Fields))
	for k, v := range r.Fields {
		fields[k] = v
	}
	return map[string]any{
		"id":     r.ID,
		"page":   r.Page,
		"fields": fields,
	}
}

// RecordInput carries field values for create and update.
type RecordInput struct {
	Fields map[string]string `json:"fields"`
}

// ListOptions narrows a page listing.
type ListOptions struct {
	// Query is a case-insensitive substring matched against every field.
	Query string
	// Filter is an optional JMESPath expression evaluated against each record's
	// map form ({id, page, fields}); records are kept when it yields a truthy value.
	Filter string
}
