package query

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/reoring/osproto"
)

// Operator is a filter comparison.
type Operator string

const (
	OpEq   Operator = "eq"
	OpNe   Operator = "ne"
	OpGt   Operator = "gt"
	OpGte  Operator = "gte"
	OpLt   Operator = "lt"
	OpLte  Operator = "lte"
	OpIn   Operator = "in"
	OpNin  Operator = "nin"
	OpLike Operator = "like"
)

// Filter is one (key, operator, value) triple.
type Filter struct {
	Key   string   `validate:"required"`
	Op    Operator `validate:"omitempty,oneof=eq ne gt gte lt lte in nin like"`
	Value any
	// Since is the minimum microversion at which the service accepts the
	// parameter. Zero means always.
	Since osproto.Microversion
}

// Where builds a filter.
func Where(key string, op Operator, value any) Filter {
	return Filter{Key: key, Op: op, Value: value}
}

func Eq(key string, value any) Filter   { return Where(key, OpEq, value) }
func Ne(key string, value any) Filter   { return Where(key, OpNe, value) }
func Gt(key string, value any) Filter   { return Where(key, OpGt, value) }
func Gte(key string, value any) Filter  { return Where(key, OpGte, value) }
func Lt(key string, value any) Filter   { return Where(key, OpLt, value) }
func Lte(key string, value any) Filter  { return Where(key, OpLte, value) }
func Like(key string, value any) Filter { return Where(key, OpLike, value) }

// In matches any of values; they are joined with the encoder's separator.
func In(key string, values ...any) Filter { return Where(key, OpIn, values) }

// Nin matches none of values.
func Nin(key string, values ...any) Filter { return Where(key, OpNin, values) }

// MinMicroversion returns f gated on mv.
func (f Filter) MinMicroversion(mv osproto.Microversion) Filter {
	f.Since = mv
	return f
}

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortKey is one sort criterion.
type SortKey struct {
	Key   string    `validate:"required"`
	Dir   Direction `validate:"omitempty,oneof=asc desc"`
	Since osproto.Microversion
}

// Spec is a complete list request: filters in declaration order plus
// sorting and pagination controls. Zero Limit and Offset and an empty
// Marker are not sent.
type Spec struct {
	Filters []Filter  `validate:"dive"`
	Sort    []SortKey `validate:"dive"`
	Limit   int       `validate:"gte=0"`
	Marker  string
	Offset  int `validate:"gte=0"`
}

// New returns a spec holding filters.
func New(filters ...Filter) Spec { return Spec{Filters: filters} }

// Where returns a copy of s with more filters appended.
func (s Spec) Where(filters ...Filter) Spec {
	s.Filters = append(append([]Filter(nil), s.Filters...), filters...)
	return s
}

// SortBy returns a copy of s with a sort key appended.
func (s Spec) SortBy(key string, dir Direction) Spec {
	s.Sort = append(append([]SortKey(nil), s.Sort...), SortKey{Key: key, Dir: dir})
	return s
}

// WithLimit returns a copy of s with the page size set.
func (s Spec) WithLimit(n int) Spec { s.Limit = n; return s }

// WithMarker returns a copy of s starting after marker.
func (s Spec) WithMarker(marker string) Spec { s.Marker = marker; return s }

var _validate = validator.New()

// Validate checks a caller-built spec: keys present, operators and
// directions known, pagination controls non-negative.
func (s Spec) Validate() error {
	err := _validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	iss := make(osproto.Issues, 0, len(verrs))
	for _, fe := range verrs {
		iss = append(iss, osproto.Issue{
			Path:    fe.Namespace(),
			Code:    osproto.CodeMalformedValue,
			Message: fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()),
			Params:  map[string]any{"tag": fe.Tag(), "param": fe.Param()},
		})
	}
	return iss
}
