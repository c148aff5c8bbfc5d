/*
 * Copyright 2026 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package types

// Specification is a composable query predicate: a WHERE expression with
// positional placeholders plus its argument values. The zero value is an
// explicit "match all" specification, so an absent filter is a typed variant
// instead of a nil pointer.
type Specification struct {
	expr string
	args []any
}

// All returns the specification matching every record.
func All() Specification {
	return Specification{}
}

// Where builds a specification from a WHERE expression and its arguments,
// e.g. Where("name = ?", "a").
func Where(expr string, args ...any) Specification {
	return Specification{expr: expr, args: args}
}

// IsAll reports whether the specification matches every record.
func (s Specification) IsAll() bool {
	return s.expr == ""
}

// Expr returns the WHERE expression. Empty for the match-all variant.
func (s Specification) Expr() string {
	return s.expr
}

// Args returns the positional argument values for Expr.
func (s Specification) Args() []any {
	return s.args
}

// And returns a specification satisfied only when both operands match.
func (s Specification) And(other Specification) Specification {
	if s.IsAll() {
		return other
	}
	if other.IsAll() {
		return s
	}
	return Specification{
		expr: "(" + s.expr + ") AND (" + other.expr + ")",
		args: mergeArgs(s.args, other.args),
	}
}

// Or returns a specification satisfied when either operand matches.
func (s Specification) Or(other Specification) Specification {
	if s.IsAll() || other.IsAll() {
		return All()
	}
	return Specification{
		expr: "(" + s.expr + ") OR (" + other.expr + ")",
		args: mergeArgs(s.args, other.args),
	}
}

// Not returns the negated specification. Negating the match-all variant
// yields a specification that matches nothing.
func (s Specification) Not() Specification {
	if s.IsAll() {
		return Specification{expr: "1 = 0"}
	}
	return Specification{
		expr: "NOT (" + s.expr + ")",
		args: mergeArgs(s.args, nil),
	}
}

func mergeArgs(a, b []any) []any {
	merged := make([]any, 0, len(a)+len(b))
	merged = append(merged, a...)
	merged = append(merged, b...)
	return merged
}
