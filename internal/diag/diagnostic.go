package diag

import (
	"vlxref/internal/source"
)

type Note struct {
	Pos source.Pos
	Msg string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Pos
	Notes    []Note
}

// Kind reports the diagnostic class derived from the code range.
func (d Diagnostic) Kind() Kind { return d.Code.Kind() }

func New(sev Severity, code Code, primary source.Pos, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Pos, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d Diagnostic) WithNote(pos source.Pos, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Pos: pos, Msg: msg})
	return d
}

// key identifies a diagnostic for set semantics: the same message at the same
// place is recorded once.
type key struct {
	code Code
	sev  Severity
	path string
	line uint32
	col  uint32
	msg  string
}

func (d Diagnostic) key() key {
	return key{
		code: d.Code,
		sev:  d.Severity,
		path: d.Primary.Path,
		line: d.Primary.Line,
		col:  d.Primary.Col,
		msg:  d.Message,
	}
}

// Less orders diagnostics by path, line, column, severity (desc), code and message.
func Less(di, dj Diagnostic) bool {
	if c := di.Primary.Compare(dj.Primary); c != 0 {
		return c < 0
	}
	if di.Severity != dj.Severity {
		return di.Severity > dj.Severity
	}
	if di.Code != dj.Code {
		return di.Code < dj.Code
	}
	return di.Message < dj.Message
}
