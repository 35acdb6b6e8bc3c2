package validation

import "sort"

// Errors maps field identifiers to human-readable failure messages. The
// wizard keeps at most one message per field and only for fields in the
// currently active section.
type Errors map[string]string

// Has reports whether the field currently carries an error.
func (e Errors) Has(fieldID string) bool {
	_, ok := e[fieldID]
	return ok
}

// Fields returns the failing field identifiers in sorted order.
func (e Errors) Fields() []string {
	if len(e) == 0 {
		return nil
	}
	ids := make([]string, 0, len(e))
	for id := range e {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clone returns an independent copy.
func (e Errors) Clone() Errors {
	out := make(Errors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}
