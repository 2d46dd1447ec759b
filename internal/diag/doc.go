// Package diag defines the diagnostic model shared by the frontends, the
// symbol-tree builder and the resolver.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning or Error.
//   - Code – compact numeric identifier (see codes.go); its range selects the
//     Kind (Lexer, Preprocessor, Syntax, Semantics, Elaboration, IO).
//   - Message – short human oriented text.
//   - Primary – the source.Pos of the offending token.
//   - Notes – optional secondary positions.
//
// # Emitting diagnostics
//
// Producers report through a Reporter and never abort: the builder and the
// resolver always finish and publish a best-effort graph. ReportBuilder
// offers a chained form (ReportError(...).WithNote(...).Emit()).
//
// # Storage
//
// Bag collects diagnostics for one run (limit, sort, dedup). Store keeps the
// published diagnostics of a session per file; a batch replaces the entries of
// exactly the files it processed and leaves every other file untouched.
package diag
