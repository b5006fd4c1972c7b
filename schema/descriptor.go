package schema

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/reoring/osproto"
)

// Descriptor is the type-erased view of one declared field.
type Descriptor struct {
	Wire  string `validate:"required"`
	Typed string `validate:"required"`
	// Required fields fail with missing_field when absent.
	Required bool
	// Optional is set for tri-state (osproto.Opt) fields.
	Optional   bool
	HasDefault bool
	Default    any
	// Aliases are alternative wire keys accepted on decode only.
	Aliases []Alias `validate:"dive"`
	// Since and Until bound the microversions carrying the field: Since is
	// the first one, Until the first one without it. Zero means unbounded.
	Since       osproto.Microversion
	Until       osproto.Microversion
	EmptyAsNull bool
}

// Alias is an alternative wire key, optionally bounded like a field.
type Alias struct {
	Key   string `validate:"required"`
	Since osproto.Microversion
	Until osproto.Microversion
}

// Gated reports whether the field is hidden at microversion mv.
func (d Descriptor) Gated(mv osproto.Microversion) bool {
	return outside(mv, d.Since, d.Until)
}

// Active reports whether the alias is accepted at microversion mv.
func (a Alias) Active(mv osproto.Microversion) bool {
	return !outside(mv, a.Since, a.Until)
}

func (d *Descriptor) addAliases(since, until osproto.Microversion, keys []string) {
	for _, k := range keys {
		d.Aliases = append(d.Aliases, Alias{Key: k, Since: since, Until: until})
	}
}

func outside(mv, since, until osproto.Microversion) bool {
	if !since.IsZero() && !mv.AtLeast(since) {
		return true
	}
	return !until.IsZero() && mv.AtLeast(until)
}

type descriptorTable struct {
	Name   string       `validate:"required"`
	Fields []Descriptor `validate:"unique=Wire,unique=Typed,dive"`
}

var _validate = validator.New()

func validateTable(name string, fields []Descriptor) error {
	var iss osproto.Issues
	err := _validate.Struct(descriptorTable{Name: name, Fields: fields})
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			iss = append(iss, invalid(fe.Namespace(), fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag())))
		}
	} else if err != nil {
		return err
	}

	wire := make(map[string]string, len(fields))
	for _, d := range fields {
		wire[d.Wire] = d.Typed
	}
	aliased := make(map[string]string)
	for i, d := range fields {
		at := fmt.Sprintf("%s.Fields[%d]", name, i)
		if d.Required && d.HasDefault {
			iss = append(iss, invalid(at, "required field "+d.Wire+" declares a default"))
		}
		if !d.Since.IsZero() && !d.Until.IsZero() && !d.Since.Less(d.Until) {
			iss = append(iss, invalid(at, fmt.Sprintf("field %s: since %s is not before until %s", d.Wire, d.Since, d.Until)))
		}
		if d.EmptyAsNull && !d.Optional {
			iss = append(iss, invalid(at, "EmptyAsNull needs a tri-state field: "+d.Wire))
		}
		for _, al := range d.Aliases {
			a := al.Key
			if owner, ok := wire[a]; ok {
				iss = append(iss, invalid(at, fmt.Sprintf("alias %q of %s is the wire key of %s", a, d.Wire, owner)))
			}
			if owner, ok := aliased[a]; ok && owner != d.Wire {
				iss = append(iss, invalid(at, fmt.Sprintf("alias %q claimed by %s and %s", a, owner, d.Wire)))
			}
			aliased[a] = d.Wire
		}
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}

func invalid(path, msg string) osproto.Issue {
	return osproto.Issue{Path: path, Code: osproto.CodeInvalidDescriptor, Message: msg}
}
