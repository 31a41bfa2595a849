package value

import (
	"fmt"
	"strconv"
)

// Kind tags the variant a Value currently holds.
type Kind uint8

const (
	NullKind Kind = iota
	BoolKind
	IntKind
	FloatKind
	StringKind
	SeqKind
	MapKind
	DocKind
)

func (k Kind) String() string {
	switch k {
	case NullKind:
		return "null"
	case BoolKind:
		return "bool"
	case IntKind:
		return "int"
	case FloatKind:
		return "float"
	case StringKind:
		return "string"
	case SeqKind:
		return "sequence"
	case MapKind:
		return "map"
	case DocKind:
		return "document"
	default:
		return "unknown"
	}
}

// Doc is implemented by the root package's Document type. It lets Value hold
// a typed sub-document without value importing the package that defines
// Document (which in turn must import value for its body).
type Doc interface {
	DocKind() string
	Body() Map
}

// Value is a closed tagged union over the shapes a configcrunch node can
// take: the null/bool/int/float/string scalars, an ordered sequence, an
// insertion-ordered mapping, or a typed sub-document. The zero Value is Null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	seq  []Value
	m    Map
	doc  Doc
}

// Null returns the Null value.
func Null() Value { return Value{kind: NullKind} }

// Bool wraps a boolean scalar.
func Bool(b bool) Value { return Value{kind: BoolKind, b: b} }

// Int wraps an integer scalar.
func Int(i int64) Value { return Value{kind: IntKind, i: i} }

// Float wraps a floating point scalar.
func Float(f float64) Value { return Value{kind: FloatKind, f: f} }

// String wraps a string scalar.
func String(s string) Value { return Value{kind: StringKind, s: s} }

// Seq wraps an ordered sequence of values.
func Seq(items []Value) Value { return Value{kind: SeqKind, seq: items} }

// FromMap wraps an ordered mapping.
func FromMap(m Map) Value { return Value{kind: MapKind, m: m} }

// FromDoc wraps a typed sub-document.
func FromDoc(d Doc) Value { return Value{kind: DocKind, doc: d} }

// Kind reports which variant v currently holds.
func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == NullKind }

// Bool returns the boolean payload; ok is false if v is not a BoolKind.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == BoolKind }

// Int returns the integer payload; ok is false if v is not an IntKind.
func (v Value) Int() (int64, bool) { return v.i, v.kind == IntKind }

// Float returns the float payload; ok is false if v is not a FloatKind.
func (v Value) Float() (float64, bool) { return v.f, v.kind == FloatKind }

// String returns the string payload and whether v is a StringKind.
func (v Value) String() (string, bool) { return v.s, v.kind == StringKind }

// Seq returns the sequence payload; ok is false if v is not a SeqKind.
func (v Value) Seq() ([]Value, bool) { return v.seq, v.kind == SeqKind }

// Map returns the mapping payload; ok is false if v is not a MapKind.
func (v Value) Map() (Map, bool) { return v.m, v.kind == MapKind }

// Doc returns the sub-document payload; ok is false if v is not a DocKind.
func (v Value) Doc() (Doc, bool) { return v.doc, v.kind == DocKind }

// IsStringValue reports whether v is a string scalar equal to s.
func (v Value) IsStringValue(s string) bool {
	return v.kind == StringKind && v.s == s
}

// ScalarString renders a scalar as a plain Go string for templating and
// display purposes. Non-scalars render as their Kind name in brackets.
func (v Value) ScalarString() string {
	switch v.kind {
	case NullKind:
		return ""
	case BoolKind:
		return strconv.FormatBool(v.b)
	case IntKind:
		return strconv.FormatInt(v.i, 10)
	case FloatKind:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case StringKind:
		return v.s
	default:
		return fmt.Sprintf("[%s]", v.kind)
	}
}

// Equal reports structural equality between two values, descending into
// sequences and maps in order. Two DocKind values are equal only if they are
// the identical Doc instance (documents do not define value equality).
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case NullKind:
		return true
	case BoolKind:
		return a.b == b.b
	case IntKind:
		return a.i == b.i
	case FloatKind:
		return a.f == b.f
	case StringKind:
		return a.s == b.s
	case SeqKind:
		if len(a.seq) != len(b.seq) {
			return false
		}
		for i := range a.seq {
			if !Equal(a.seq[i], b.seq[i]) {
				return false
			}
		}
		return true
	case MapKind:
		if a.m.Len() != b.m.Len() {
			return false
		}
		for pair := a.m.Oldest(); pair != nil; pair = pair.Next() {
			bv, ok := b.m.Get(pair.Key)
			if !ok || !Equal(pair.Value, bv) {
				return false
			}
		}
		return true
	case DocKind:
		return a.doc == b.doc
	}
	return false
}
