package runtime

import (
	"math/big"
	"testing"
)

func TestKindStrings(t *testing.T) {
	cases := map[Kind]string{
		KindString:         "string",
		KindNil:            "nil",
		KindArray:          "array",
		KindStructInstance: "struct_instance",
		KindRef:            "ref",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Fatalf("Kind(%d).String() = %q, want %q", int(kind), got, want)
		}
	}
}

func TestCloneValueDeepCopiesComposites(t *testing.T) {
	original := &StructInstanceValue{
		TypeName: "Pair",
		Fields: map[string]Value{
			"items": &ArrayValue{Elements: []Value{StringValue{Val: "a"}}},
		},
	}

	clone := CloneValue(original).(*StructInstanceValue)
	clone.Fields["items"].(*ArrayValue).Elements[0] = StringValue{Val: "changed"}

	kept := original.Fields["items"].(*ArrayValue).Elements[0].(StringValue)
	if kept.Val != "a" {
		t.Fatalf("clone aliased the original: %#v", kept)
	}
}

func TestCloneValueCopiesBigInts(t *testing.T) {
	original := IntegerValue{Val: big.NewInt(41), TypeSuffix: IntegerI64}
	clone := CloneValue(original).(IntegerValue)
	clone.Val.Add(clone.Val, big.NewInt(1))
	if original.Val.Int64() != 41 {
		t.Fatalf("clone shared the big.Int: %v", original.Val)
	}
}

func TestCloneValuePreservesRefTargets(t *testing.T) {
	original := &ArrayValue{Elements: []Value{RefValue{Target: 9}}}
	clone := CloneValue(original).(*ArrayValue)
	ref, ok := clone.Elements[0].(RefValue)
	if !ok || ref.Target != 9 {
		t.Fatalf("clone changed an embedded ref: %#v", clone.Elements[0])
	}
}
