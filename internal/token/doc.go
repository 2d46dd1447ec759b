// Package token defines the lexical kinds found at the leaves of a Verilog
// syntax tree.
// Invariants:
//   - Reserved words are case sensitive and have one Kind each.
//   - Kind.String is the spelling used in syntax-tree dumps; ParseKind reverses it.
//   - Operators other than '=' share Kind Op; the node text carries the spelling.
package token
