package runtime

import (
	"fmt"
	"math/big"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindChar
	KindNil
	KindInteger
	KindFloat
	KindArray
	KindStructInstance
	KindRef
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindChar:
		return "char"
	case KindNil:
		return "nil"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindArray:
		return "array"
	case KindStructInstance:
		return "struct_instance"
	case KindRef:
		return "ref"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

type CharValue struct {
	Val rune
}

func (v CharValue) Kind() Kind { return KindChar }

type NilValue struct{}

func (NilValue) Kind() Kind { return KindNil }

// Integer sub-types mirror the language's suffix set.
type IntegerType string

const (
	IntegerI8   IntegerType = "i8"
	IntegerI16  IntegerType = "i16"
	IntegerI32  IntegerType = "i32"
	IntegerI64  IntegerType = "i64"
	IntegerI128 IntegerType = "i128"
	IntegerU8   IntegerType = "u8"
	IntegerU16  IntegerType = "u16"
	IntegerU32  IntegerType = "u32"
	IntegerU64  IntegerType = "u64"
	IntegerU128 IntegerType = "u128"
)

type IntegerValue struct {
	Val        *big.Int
	TypeSuffix IntegerType
}

func (v IntegerValue) Kind() Kind { return KindInteger }

// Float sub-types.
type FloatType string

const (
	FloatF32 FloatType = "f32"
	FloatF64 FloatType = "f64"
)

type FloatValue struct {
	Val        float64
	TypeSuffix FloatType
}

func (v FloatValue) Kind() Kind { return KindFloat }

//-----------------------------------------------------------------------------
// Composites
//-----------------------------------------------------------------------------

type ArrayValue struct {
	Elements []Value
}

func (v *ArrayValue) Kind() Kind { return KindArray }

type StructInstanceValue struct {
	TypeName   string
	Fields     map[string]Value
	Positional []Value
}

func (v *StructInstanceValue) Kind() Kind { return KindStructInstance }

//-----------------------------------------------------------------------------
// Utility helpers
//-----------------------------------------------------------------------------

// CloneBigInt copies the provided big.Int pointer, tolerating nil.
func CloneBigInt(src *big.Int) *big.Int {
	if src == nil {
		return nil
	}
	return new(big.Int).Set(src)
}

// CloneValue deep-copies a value so mutating the result never aliases
// the original. Ref targets are ids, not embedded objects, so a clone
// of a RefValue still denotes the same heap object.
func CloneValue(v Value) Value {
	switch val := v.(type) {
	case IntegerValue:
		return IntegerValue{Val: CloneBigInt(val.Val), TypeSuffix: val.TypeSuffix}
	case *ArrayValue:
		elems := make([]Value, len(val.Elements))
		for i, e := range val.Elements {
			elems[i] = CloneValue(e)
		}
		return &ArrayValue{Elements: elems}
	case *StructInstanceValue:
		clone := &StructInstanceValue{TypeName: val.TypeName}
		if val.Fields != nil {
			clone.Fields = make(map[string]Value, len(val.Fields))
			for name, field := range val.Fields {
				clone.Fields[name] = CloneValue(field)
			}
		}
		if val.Positional != nil {
			clone.Positional = make([]Value, len(val.Positional))
			for i, field := range val.Positional {
				clone.Positional[i] = CloneValue(field)
			}
		}
		return clone
	default:
		// Remaining kinds are immutable value types.
		return v
	}
}
