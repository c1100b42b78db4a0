package ir

import "fmt"

type Type int

const (
	NullType Type = iota
	BoolType
	IntType
	FloatType
	ComplexType
	StringType
	BytesType
	ListType
	TupleType
	SetType
	DictType
)

var typeNames = map[Type]string{
	NullType:    "null",
	BoolType:    "bool",
	IntType:     "int",
	FloatType:   "float",
	ComplexType: "complex",
	StringType:  "string",
	BytesType:   "bytes",
	ListType:    "list",
	TupleType:   "tuple",
	SetType:     "set",
	DictType:    "dict",
}

func (t Type) String() string {
	s, ok := typeNames[t]
	if ok {
		return s
	}
	return "<unknown type>"
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(d []byte) error {
	for tt, name := range typeNames {
		if name == string(d) {
			*t = tt
			return nil
		}
	}
	return fmt.Errorf("unrecognized type %q", d)
}

func Types() []Type {
	return []Type{
		NullType,
		BoolType,
		IntType,
		FloatType,
		ComplexType,
		StringType,
		BytesType,
		ListType,
		TupleType,
		SetType,
		DictType,
	}
}

func (t Type) IsLeaf() bool {
	switch t {
	case ListType, TupleType, SetType, DictType:
		return false
	default:
		return true
	}
}

// IsSequence reports whether nodes of type t keep their elements in Values
// without keys.
func (t Type) IsSequence() bool {
	switch t {
	case ListType, TupleType, SetType:
		return true
	default:
		return false
	}
}

func (t Type) IsNumber() bool {
	switch t {
	case IntType, FloatType, ComplexType:
		return true
	default:
		return false
	}
}
