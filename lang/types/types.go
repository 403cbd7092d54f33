// Package types implements the static type system: the closed set of base
// types, TypeDesc values describing either a simple type or a function
// signature, the type-conversion table and the per-operator compatibility
// tables.
package types

import (
	"fmt"

	"github.com/duals-lang/dualc/lang/token"
)

// BaseType is one of the language's built-in base types. It is a closed
// set: VOID, INT, FLOAT, BOOL, STR.
type BaseType int8

//nolint:revive
const (
	VOID BaseType = iota
	INT
	FLOAT
	BOOL
	STR
)

var baseTypeNames = [...]string{
	VOID:  "void",
	INT:   "int",
	FLOAT: "float",
	BOOL:  "bool",
	STR:   "string",
}

func (b BaseType) String() string { return baseTypeNames[b] }

// baseTypeByName parses the textual spelling of a base type, as it would
// appear in a TypeRef node.
var baseTypeByName = map[string]BaseType{
	"void":   VOID,
	"int":    INT,
	"float":  FLOAT,
	"bool":   BOOL,
	"string": STR,
}

// TypeDesc describes either a simple base type or a function signature. A
// function TypeDesc has ReturnType and Params set and its zero-value
// BaseType field is ignored; a simple TypeDesc only sets BaseType.
type TypeDesc struct {
	BaseType   BaseType
	isFunc     bool
	ReturnType *TypeDesc
	Params     []TypeDesc
}

// Simple base type constants, for convenient comparison and construction.
var (
	Void  = TypeDesc{BaseType: VOID}
	Int   = TypeDesc{BaseType: INT}
	Float = TypeDesc{BaseType: FLOAT}
	Bool  = TypeDesc{BaseType: BOOL}
	Str   = TypeDesc{BaseType: STR}
)

// FromBaseType returns the simple TypeDesc for b.
func FromBaseType(b BaseType) TypeDesc {
	return TypeDesc{BaseType: b}
}

// FromName parses the textual name of a type (as used in source, e.g. in a
// TypeRef node) into a TypeDesc. It fails with "unknown type" for any name
// that is not one of the base types.
func FromName(name string) (TypeDesc, error) {
	b, ok := baseTypeByName[name]
	if !ok {
		return TypeDesc{}, fmt.Errorf("unknown type %s", name)
	}
	return FromBaseType(b), nil
}

// Func builds a function TypeDesc with the given return type and ordered
// parameter types.
func Func(ret TypeDesc, params ...TypeDesc) TypeDesc {
	return TypeDesc{isFunc: true, ReturnType: &ret, Params: params}
}

// IsFunc reports whether t describes a function signature.
func (t TypeDesc) IsFunc() bool { return t.isFunc }

// IsSimple reports whether t is a non-function, non-void-only base type
// usable as the type of a value (i.e. any base type is "simple", including
// VOID itself is allowed to appear as a simple TypeDesc for statement node
// types, but IsSimple specifically answers whether t can hold a runtime
// value — VOID cannot).
func (t TypeDesc) IsSimple() bool {
	return !t.isFunc && t.BaseType != VOID
}

// Equal reports whether t and other describe the same type: structural
// equality, recursing into function signatures.
func (t TypeDesc) Equal(other TypeDesc) bool {
	if t.isFunc != other.isFunc {
		return false
	}
	if !t.isFunc {
		return t.BaseType == other.BaseType
	}
	if !t.ReturnType.Equal(*other.ReturnType) {
		return false
	}
	if len(t.Params) != len(other.Params) {
		return false
	}
	for i := range t.Params {
		if !t.Params[i].Equal(other.Params[i]) {
			return false
		}
	}
	return true
}

func (t TypeDesc) String() string {
	if !t.isFunc {
		return t.BaseType.String()
	}
	s := t.ReturnType.String() + " ("
	for i, p := range t.Params {
		if i > 0 {
			s += ", "
		}
		s += p.String()
	}
	return s + ")"
}

// conversionTable is the directed compatibility relation of spec.md §3:
// INT -> FLOAT, INT -> BOOL, and BOOL -> INT (used transitively by some
// operators, e.g. widening a bool operand back to int for arithmetic
// contexts). Applied only between simple base types.
var conversionTable = map[BaseType][]BaseType{
	INT:  {FLOAT, BOOL},
	BOOL: {INT},
}

// ConvertibleTo reports whether a value of base type from can be implicitly
// converted to base type to.
func ConvertibleTo(from, to BaseType) bool {
	for _, t := range conversionTable[from] {
		if t == to {
			return true
		}
	}
	return false
}

// ConversionTargets returns the list of base types that from can be
// implicitly widened to, in table order. Callers iterate this list
// when searching for a compatible operand pairing (see lang/checker).
func ConversionTargets(from BaseType) []BaseType {
	return conversionTable[from]
}

// basePair is a (lhs, rhs) base type pair used as a binary-operator
// compatibility table key.
type basePair struct {
	lhs, rhs BaseType
}

// BinOpCompat holds, for a single binary operator, the map of operand base
// type pairs it accepts directly (without any implicit conversion) to the
// resulting base type.
type BinOpCompat map[basePair]BaseType

// Lookup returns the result base type for the (lhs, rhs) pair, if the table
// has a direct entry for it.
func (c BinOpCompat) Lookup(lhs, rhs BaseType) (BaseType, bool) {
	b, ok := c[basePair{lhs, rhs}]
	return b, ok
}

func compat(entries ...BaseType) BinOpCompat {
	c := make(BinOpCompat, len(entries)/3)
	for i := 0; i < len(entries); i += 3 {
		c[basePair{entries[i], entries[i+1]}] = entries[i+2]
	}
	return c
}

// binOpTables is the per-operator compatibility table of spec.md §3:
// arithmetic and comparison cover INT x INT, FLOAT x FLOAT, STR x STR (for
// + and the comparisons); BOOL x BOOL for logical and bitwise operators.
// Missing entries drive the checker's automatic-widening search. Keyed by
// token.BinOp, whose ordinal values are defined in lang/token (imported
// here; lang/token does not import lang/types, so there is no cycle).
var binOpTables map[token.BinOp]BinOpCompat

func init() {
	binOpTables = map[token.BinOp]BinOpCompat{
		token.ADD: compat(
			INT, INT, INT,
			FLOAT, FLOAT, FLOAT,
			STR, STR, STR,
		),
		token.SUB: compat(INT, INT, INT, FLOAT, FLOAT, FLOAT),
		token.MUL: compat(INT, INT, INT, FLOAT, FLOAT, FLOAT),
		token.DIV: compat(INT, INT, INT, FLOAT, FLOAT, FLOAT),
		token.MOD: compat(INT, INT, INT, FLOAT, FLOAT, FLOAT),
	}
	ordered := compat(
		INT, INT, BOOL,
		FLOAT, FLOAT, BOOL,
		STR, STR, BOOL,
	)
	binOpTables[token.EQUALS] = ordered
	binOpTables[token.NEQUALS] = ordered
	binOpTables[token.LSS] = ordered
	binOpTables[token.GTR] = ordered
	binOpTables[token.LEQ] = ordered
	binOpTables[token.GEQ] = ordered

	boolBool := compat(BOOL, BOOL, BOOL)
	binOpTables[token.LOGICAL_AND] = boolBool
	binOpTables[token.LOGICAL_OR] = boolBool
	binOpTables[token.BIT_AND] = boolBool
	binOpTables[token.BIT_OR] = boolBool
}

// BinOpCompatibility returns the compatibility table for the given binary
// operator.
func BinOpCompatibility(op token.BinOp) (BinOpCompat, bool) {
	c, ok := binOpTables[op]
	return c, ok
}

// DefaultValue returns the default zero-like value for base type b, used by
// the code generators when synthesizing a missing trailing return: INT -> 0,
// FLOAT -> 0.0, BOOL -> false, STR -> "".
func DefaultValue(b BaseType) any {
	switch b {
	case INT:
		return int64(0)
	case FLOAT:
		return float64(0)
	case BOOL:
		return false
	case STR:
		return ""
	default:
		return nil
	}
}
