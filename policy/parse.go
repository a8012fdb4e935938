package policy

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed is returned when a policy document body fails validation.
// Malformed documents are rejected at load time; they never reach evaluation.
var ErrMalformed = errors.New("cadastre: malformed policy document")

// body is the wire format of a policy document: a JSON object whose
// "clause" key holds the ordered clause list.
type body struct {
	Clauses []Clause `json:"clause"`
}

// Parse decodes and validates a policy document body. The returned Document
// carries no ID or version; the store assigns those on creation.
func Parse(name string, raw []byte) (*Document, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrMalformed)
	}

	var b body
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&b); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrMalformed, name, err)
	}

	if len(b.Clauses) == 0 {
		return nil, fmt.Errorf("%w: %q: no clauses", ErrMalformed, name)
	}

	for i, c := range b.Clauses {
		if err := validateClause(c); err != nil {
			return nil, fmt.Errorf("%w: %q clause %d: %v", ErrMalformed, name, i, err)
		}
	}

	return &Document{Name: name, Clauses: b.Clauses}, nil
}

func validateClause(c Clause) error {
	switch c.Effect {
	case EffectAllow, EffectDeny:
	case "":
		return errors.New("missing effect")
	default:
		return fmt.Errorf("unknown effect %q", c.Effect)
	}

	if len(c.Action) == 0 {
		return errors.New("no action patterns")
	}

	for _, a := range c.Action {
		if a == "" {
			return errors.New("empty action pattern")
		}
	}

	if len(c.Object) == 0 {
		return errors.New("no object patterns")
	}

	for _, o := range c.Object {
		if o == "" {
			return errors.New("empty object pattern")
		}
	}

	return nil
}
