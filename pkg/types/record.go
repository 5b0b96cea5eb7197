package types

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// TimeFormat is the layout of created_at and updated_at in rendered and
// persisted records.
const TimeFormat = "2006-01-02T15:04:05.000000"

// Reserved attribute names. They are owned by the record and cannot be
// replaced through Set.
const (
	AttrClass     = "__class__"
	AttrID        = "id"
	AttrCreatedAt = "created_at"
	AttrUpdatedAt = "updated_at"
)

var reservedAttrs = map[string]bool{
	AttrClass:     true,
	AttrID:        true,
	AttrCreatedAt: true,
	AttrUpdatedAt: true,
}

// IsReserved reports whether name is managed by the record itself.
func IsReserved(name string) bool {
	return reservedAttrs[name]
}

// Record is one live instance of a registered class. Attribute values are
// string, int64, *big.Int (integers outside the int64 range) or float64.
type Record struct {
	Class     string
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time

	attrs *orderedmap.OrderedMap[string, any]
}

// NewRecord returns a record with no user attributes.
func NewRecord(class, id string, createdAt, updatedAt time.Time) *Record {
	return &Record{
		Class:     class,
		ID:        id,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
		attrs:     orderedmap.New[string, any](),
	}
}

// Key returns the store key "<Class>.<id>".
func (r *Record) Key() string {
	return Key(r.Class, r.ID)
}

// Key builds the store key for a class and id.
func Key(class, id string) string {
	return class + "." + id
}

// Set assigns a user attribute. A new name is appended after the existing
// attributes; an existing name keeps its position. Reserved names are left
// untouched and Set reports false.
func (r *Record) Set(name string, value any) bool {
	if IsReserved(name) {
		return false
	}
	r.attrs.Set(name, normalizeValue(value))
	return true
}

// Get returns a user attribute.
func (r *Record) Get(name string) (any, bool) {
	return r.attrs.Get(name)
}

// Len returns the number of user attributes.
func (r *Record) Len() int {
	return r.attrs.Len()
}

// Each calls fn for every user attribute in insertion order.
func (r *Record) Each(fn func(name string, value any)) {
	for pair := r.attrs.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

// Touch sets UpdatedAt.
func (r *Record) Touch(t time.Time) {
	r.UpdatedAt = t
}

// String renders the record as "[<Class>] (<id>) {<attributes>}".
func (r *Record) String() string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(r.Class)
	b.WriteString("] (")
	b.WriteString(r.ID)
	b.WriteString(") {")
	writeAttr(&b, AttrID, r.ID, true)
	writeAttr(&b, AttrCreatedAt, r.CreatedAt.Format(TimeFormat), false)
	writeAttr(&b, AttrUpdatedAt, r.UpdatedAt.Format(TimeFormat), false)
	r.Each(func(name string, value any) {
		writeAttr(&b, name, value, false)
	})
	b.WriteString("}")
	return b.String()
}

func writeAttr(b *strings.Builder, name string, value any, first bool) {
	if !first {
		b.WriteString(", ")
	}
	b.WriteString(quote(name))
	b.WriteString(": ")
	b.WriteString(FormatValue(value))
}

// FormatValue renders an attribute value: strings single-quoted, integers
// plain, floats always with a decimal point or exponent.
func FormatValue(value any) string {
	switch v := value.(type) {
	case string:
		return quote(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case *big.Int:
		return v.String()
	case float64:
		return formatFloat(v)
	default:
		return quote(fmt.Sprint(v))
	}
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}

// formatFloat switches to exponent notation below 1e-4 and from 1e16 up,
// and otherwise prints the shortest decimal with at least one fractional digit.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	e := strconv.FormatFloat(f, 'e', -1, 64)
	if exp, err := strconv.Atoi(e[strings.IndexByte(e, 'e')+1:]); err == nil && (exp < -4 || exp >= 16) && f != 0 {
		return e
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// normalizeValue narrows Go numeric kinds to int64 and float64.
func normalizeValue(value any) any {
	switch v := value.(type) {
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case float32:
		return float64(v)
	default:
		return value
	}
}
