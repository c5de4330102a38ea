// Package changeset builds validated changes to model structs before they
// are written to the database. A changeset casts a set of permitted
// parameters onto a model, runs validations against the result, and
// collects field errors instead of failing on the first problem.
package changeset

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/structs"
	"github.com/mitchellh/mapstructure"
)

// Error holds the field errors of an invalid changeset.
type Error struct {
	Fields map[string][]string
}

func (e *Error) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	var parts []string
	for _, name := range names {
		for _, msg := range e.Fields[name] {
			parts = append(parts, fmt.Sprintf("%s %s", name, msg))
		}
	}
	return strings.Join(parts, "; ")
}

type Changeset struct {
	model  *structs.Struct
	target interface{}
	errors map[string][]string
}

// New wraps a pointer to a model struct.
func New(model interface{}) *Changeset {
	return &Changeset{
		model:  structs.New(model),
		target: model,
		errors: map[string][]string{},
	}
}

// nameMatch compares a param key to a field name, so that "artist_id"
// and "artistId" both cast onto ArtistID.
func nameMatch(key, field string) bool {
	return strings.EqualFold(strings.ReplaceAll(key, "_", ""), field)
}

// Cast copies the permitted params onto the model, ignoring everything
// else. Param keys are matched to field names case insensitively with
// underscores stripped, and values are decoded weakly, so "1959" casts
// onto an int field.
func (c *Changeset) Cast(params map[string]interface{}, fields ...string) *Changeset {
	permitted := map[string]interface{}{}
	for key, value := range params {
		for _, field := range fields {
			if nameMatch(key, field) {
				permitted[field] = value
			}
		}
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           c.target,
		WeaklyTypedInput: true,
		MatchName:        nameMatch,
	})
	if err != nil {
		c.AddError("base", err.Error())
		return c
	}
	if err := dec.Decode(permitted); err != nil {
		c.AddError("base", "is invalid")
	}
	return c
}

// Required adds a field error for each named field left at its zero
// value.
func (c *Changeset) Required(fields ...string) *Changeset {
	for _, name := range fields {
		field, ok := c.model.FieldOk(name)
		if !ok || field.IsZero() {
			c.AddError(name, "can't be blank")
		}
	}
	return c
}

// MinLength adds a field error when the named string field is shorter
// than min.
func (c *Changeset) MinLength(name string, min int) *Changeset {
	field, ok := c.model.FieldOk(name)
	if !ok {
		c.AddError(name, "can't be blank")
		return c
	}
	if value, ok := field.Value().(string); ok && len(value) < min {
		c.AddError(name, fmt.Sprintf("should be at least %d character(s)", min))
	}
	return c
}

func (c *Changeset) AddError(field, message string) {
	c.errors[field] = append(c.errors[field], message)
}

func (c *Changeset) Errors() map[string][]string {
	return c.errors
}

func (c *Changeset) Valid() bool {
	return len(c.errors) == 0
}

// Check returns nil when the changeset is valid, or an *Error carrying
// the collected field errors.
func (c *Changeset) Check() error {
	if len(c.errors) == 0 {
		return nil
	}
	return &Error{Fields: c.errors}
}
