// Package rtype implements the static type system (§4.5): a tagged union
// over Unit, Uninitialized, Base, Array, Tuple, Reference, and Range, with
// structural equality and the compatibility predicates the checker in
// package sema consults. Grounded on the teacher's tunascript/syntax value
// representation (a tagged-union Go struct with an Equal(o any) bool method
// usable on both value and pointer receivers) rather than the types pkg's
// TokenClass enum, since that one models lexical categories, not a type
// lattice.
package rtype

import "fmt"

// Kind discriminates the tagged union.
type Kind int

const (
	Unit Kind = iota
	Uninitialized
	Base
	Array
	Tuple
	Reference
	Range
)

func (k Kind) String() string {
	switch k {
	case Unit:
		return "Unit"
	case Uninitialized:
		return "Uninitialized"
	case Base:
		return "Base"
	case Array:
		return "Array"
	case Tuple:
		return "Tuple"
	case Reference:
		return "Reference"
	case Range:
		return "Range"
	default:
		return "?"
	}
}

// Type is a single value of the language's type lattice. Only the fields
// relevant to Kind are meaningful; the zero Type is Unit.
type Type struct {
	Kind Kind

	// Base: the primitive name, e.g. "i32". Only base type this module
	// implements is i32, but the field stays a string so the checker's
	// error messages don't special-case it.
	BaseName string

	// Array: element type and fixed size.
	Elem *Type
	Size int

	// Tuple: member types in order. A zero-length Members with Kind ==
	// Tuple is the 0-tuple, "()" — used as the function-body-implicit and
	// return-less-function's type.
	Members []Type

	// Reference: referent type and whether it's a unique (&mut) reference
	// as opposed to a shared (&) one.
	Referent *Type
	Unique   bool
}

// I32 is the sole base numeric type this module's language supports.
var I32 = Type{Kind: Base, BaseName: "i32"}

// F32 backs float literals. The language exposes no float arithmetic beyond
// literal scanning (§4.2); a binding typed from a float literal is still
// only binop-compatible with another F32, never with I32.
var F32 = Type{Kind: Base, BaseName: "f32"}

// Bool is the result type of relational and logical operators, and the
// required type of every if/while condition (compiler_semantic_checker.py
// checks cond_type.name == "bool" throughout; this module keeps that as a
// distinct base type rather than collapsing truthiness onto i32).
var Bool = Type{Kind: Base, BaseName: "bool"}

// UnitType is the 0-tuple "()", the implicit type of a function with no
// declared return type and of a block whose last statement ends in ";".
var UnitType = Type{Kind: Tuple, Members: []Type{}}

// UninitType marks a declared-but-not-yet-assigned binding whose type is
// still unknown too (a pending-inference "let x;"): no Elem, so Unwrap has
// nothing to recover (§4.5, "uninitialized use" diagnostic).
var UninitType = Type{Kind: Uninitialized}

// NewUninitialized marks inner as declared but not yet assigned, the way a
// "let x: T;" binding is uninitialized but has a known future type T —
// distinct from UninitType, which has no known type at all.
func NewUninitialized(inner Type) Type {
	in := inner
	return Type{Kind: Uninitialized, Elem: &in}
}

// NewArray builds an Array type of elem repeated size times.
func NewArray(elem Type, size int) Type {
	e := elem
	return Type{Kind: Array, Elem: &e, Size: size}
}

// NewTuple builds a Tuple type over the given member types in order.
func NewTuple(members ...Type) Type {
	return Type{Kind: Tuple, Members: append([]Type(nil), members...)}
}

// NewReference builds a Reference type; unique distinguishes &mut T from &T.
func NewReference(referent Type, unique bool) Type {
	r := referent
	return Type{Kind: Reference, Referent: &r, Unique: unique}
}

// NewRange builds the Range type iterated by a for-loop over bound.
var NewRange = func(elem Type) Type {
	e := elem
	return Type{Kind: Range, Elem: &e}
}

func (t Type) String() string {
	switch t.Kind {
	case Unit:
		return "()"
	case Uninitialized:
		return "<uninitialized>"
	case Base:
		return t.BaseName
	case Array:
		return fmt.Sprintf("[%s; %d]", t.Elem.String(), t.Size)
	case Tuple:
		if len(t.Members) == 0 {
			return "()"
		}
		s := "("
		for i, m := range t.Members {
			if i > 0 {
				s += ", "
			}
			s += m.String()
		}
		return s + ")"
	case Reference:
		if t.Unique {
			return "&mut " + t.Referent.String()
		}
		return "&" + t.Referent.String()
	case Range:
		return fmt.Sprintf("Range<%s>", t.Elem.String())
	default:
		return "?"
	}
}

// Equal reports structural equality, following the Equal(o any) bool
// convention used throughout this module so tests can compare across value
// and pointer forms.
func (t Type) Equal(o any) bool {
	var other Type
	switch v := o.(type) {
	case Type:
		other = v
	case *Type:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}

	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case Base:
		return t.BaseName == other.BaseName
	case Array:
		return t.Size == other.Size && t.Elem.Equal(*other.Elem)
	case Tuple:
		if len(t.Members) != len(other.Members) {
			return false
		}
		for i := range t.Members {
			if !t.Members[i].Equal(other.Members[i]) {
				return false
			}
		}
		return true
	case Reference:
		return t.Unique == other.Unique && t.Referent.Equal(*other.Referent)
	case Range:
		return t.Elem.Equal(*other.Elem)
	default:
		return true // Unit and Uninitialized carry no further data
	}
}

// Unwrap returns the declared-but-not-yet-assigned inner type recorded by
// NewUninitialized, or t itself if t isn't Uninitialized or carries no known
// inner type (the bare UninitType sentinel).
func (t Type) Unwrap() Type {
	if t.Kind == Uninitialized && t.Elem != nil {
		return *t.Elem
	}
	return t
}

// IsCompatible reports whether a value of type src may be used where dst is
// expected. Both sides are unwrapped first, so a "let x: T;" binding (whose
// recorded Type is Uninitialized wrapping T) compares as T; a binding with no
// known type yet (UninitType) is vacuously compatible with anything, since
// there's nothing yet to contradict. Reference compares only the referent —
// mutability does not participate here; a unique/shared mismatch is a borrow
// concern checked separately at the borrow site, not a type mismatch. This
// module performs no implicit numeric widening (§4.5, "no coercions" design
// note), so Base still compares by exact name.
func IsCompatible(dst, src Type) bool {
	dst, src = dst.Unwrap(), src.Unwrap()
	if dst.Kind == Uninitialized || src.Kind == Uninitialized {
		return true
	}
	if dst.Kind != src.Kind {
		return false
	}
	switch dst.Kind {
	case Base:
		return dst.BaseName == src.BaseName
	case Array:
		return dst.Size == src.Size && IsCompatible(*dst.Elem, *src.Elem)
	case Tuple:
		if len(dst.Members) != len(src.Members) {
			return false
		}
		for i := range dst.Members {
			if !IsCompatible(dst.Members[i], src.Members[i]) {
				return false
			}
		}
		return true
	case Reference:
		return IsCompatible(*dst.Referent, *src.Referent)
	case Range:
		return IsCompatible(*dst.Elem, *src.Elem)
	default:
		return true // Unit
	}
}

// IsArithCompatible reports whether lhs and rhs may appear as the two
// operands of +, -, *, /, or %. Per compiler_semantic_symbol.py's arithmetic
// check, only i32 participates: both operands must be Base("i32")
// specifically, not merely the same BaseName (so bool + bool is rejected
// here, unlike under IsRelCompatible).
func IsArithCompatible(lhs, rhs Type) bool {
	return lhs.Kind == Base && rhs.Kind == Base && lhs.BaseName == "i32" && rhs.BaseName == "i32"
}

// IsRelCompatible reports whether lhs and rhs may appear as the two operands
// of <, <=, >, >=, ==, or !=. compiler_semantic_symbol.py allows comparing
// either two Base values or two References of the same underlying type;
// Array/Tuple operands are never relop-compatible.
func IsRelCompatible(lhs, rhs Type) bool {
	if lhs.Kind != rhs.Kind {
		return false
	}
	switch lhs.Kind {
	case Base:
		return lhs.BaseName == rhs.BaseName
	case Reference:
		return IsCompatible(lhs, rhs)
	default:
		return false
	}
}

// IsBool reports whether t is usable as a condition expression (§4.5,
// "NonBoolCondition"): must be the Bool base type exactly, matching
// compiler_semantic_checker.py's repeated `cond_type.name != "bool"` check.
func IsBool(t Type) bool {
	return t.Kind == Base && t.BaseName == "bool"
}
