// Package filter is a small metadata-filter AST, adapted from the teacher's
// much larger ai/vectorstore/filter package (lexer + parser + SQL-like
// visitor over ~13k lines). This engine's retrievers build filters
// programmatically rather than parsing user-supplied filter strings, so only
// the expression tree and a fluent builder are kept; the lexer/parser layer
// is dropped (see DESIGN.md).
package filter

import "fmt"

// Expr is any node in a filter expression tree.
type Expr interface {
	expr()
}

// Operator is a comparison or membership test applied to a field.
type Operator string

const (
	OpEQ  Operator = "="
	OpNEQ Operator = "!="
	OpGT  Operator = ">"
	OpGTE Operator = ">="
	OpLT  Operator = "<"
	OpLTE Operator = "<="
	OpIN  Operator = "IN"
	OpNIN Operator = "NOT IN"
)

// Cmp compares a metadata Field against a Value.
type Cmp struct {
	Field string
	Op    Operator
	Value any
}

func (Cmp) expr() {}

// And/Or/Not compose sub-expressions. And and Or are variadic so builders can
// flatten chains instead of nesting binary trees.
type And struct{ Exprs []Expr }
type Or struct{ Exprs []Expr }
type Not struct{ Inner Expr }

func (And) expr() {}
func (Or) expr()  {}
func (Not) expr() {}

// Eq, Neq, Gt, Gte, Lt, Lte, In, NotIn are convenience constructors.
func Eq(field string, v any) Cmp    { return Cmp{Field: field, Op: OpEQ, Value: v} }
func Neq(field string, v any) Cmp   { return Cmp{Field: field, Op: OpNEQ, Value: v} }
func Gt(field string, v any) Cmp    { return Cmp{Field: field, Op: OpGT, Value: v} }
func Gte(field string, v any) Cmp   { return Cmp{Field: field, Op: OpGTE, Value: v} }
func Lt(field string, v any) Cmp    { return Cmp{Field: field, Op: OpLT, Value: v} }
func Lte(field string, v any) Cmp   { return Cmp{Field: field, Op: OpLTE, Value: v} }
func In(field string, v ...any) Cmp { return Cmp{Field: field, Op: OpIN, Value: v} }
func NotIn(field string, v ...any) Cmp {
	return Cmp{Field: field, Op: OpNIN, Value: v}
}

func All(exprs ...Expr) And { return And{Exprs: exprs} }
func Any(exprs ...Expr) Or  { return Or{Exprs: exprs} }
func Negate(e Expr) Not     { return Not{Inner: e} }

// String renders a SQL-like representation, mirroring the teacher's
// ast.SQLLikeVisitor output shape, for debugging and for backends (like the
// in-memory store) that don't need a real SQL dialect.
func String(e Expr) string {
	switch v := e.(type) {
	case Cmp:
		return fmt.Sprintf("%s %s %v", v.Field, v.Op, v.Value)
	case And:
		return joinExprs(v.Exprs, " AND ")
	case Or:
		return joinExprs(v.Exprs, " OR ")
	case Not:
		return "NOT (" + String(v.Inner) + ")"
	default:
		return ""
	}
}

func joinExprs(exprs []Expr, sep string) string {
	s := ""
	for i, e := range exprs {
		if i > 0 {
			s += sep
		}
		s += "(" + String(e) + ")"
	}
	return s
}
