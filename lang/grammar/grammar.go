// Package grammar holds Duals' EBNF grammar (grammar.ebnf) as a reference
// artifact: grammar_test.go parses and verifies it with golang.org/x/exp/ebnf
// so the file stays syntactically well-formed and fully defined as the
// language itself changes, but nothing in the compiler consumes it at
// runtime — lang/parser is hand-written, not generated from this grammar.
package grammar
