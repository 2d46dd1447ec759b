package diag

import (
	"fmt"
	"strings"
)

// Kind is the coarse class of a diagnostic.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindLexer
	KindPreprocessor
	KindSyntax
	KindSemantics
	KindElaboration
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindLexer:
		return "Lexer"
	case KindPreprocessor:
		return "Preprocessor"
	case KindSyntax:
		return "Syntax"
	case KindSemantics:
		return "Semantics"
	case KindElaboration:
		return "Elaboration"
	case KindIO:
		return "IO"
	default:
		return "Unknown"
	}
}

// Kinds lists the known kinds in code order.
func Kinds() []Kind {
	return []Kind{KindLexer, KindPreprocessor, KindSyntax, KindSemantics, KindElaboration, KindIO}
}

// Label is the lower-case kind name used in metrics and machine output.
func (k Kind) Label() string {
	return strings.ToLower(k.String())
}

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические (выдаются внешним лексером)
	LexInfo     Code = 1000
	LexBadToken Code = 1001

	// Препроцессор (внешний)
	PreInfo         Code = 2000
	PreMacroProblem Code = 2001
	PreIncludeError Code = 2002

	SynInfo            Code = 3000
	SynBadNumber       Code = 3001
	SynUnexpectedToken Code = 3002

	SemInfo               Code = 4000
	SemDuplicateName      Code = 4001
	SemUnknownIdent       Code = 4002
	SemNotNameSpace       Code = 4003
	SemUnknownPort        Code = 4004
	SemDuplicateCell      Code = 4005
	SemPortDeclNotAllowed Code = 4006
	SemPortDeclNotInList  Code = 4007
	SemDuplicatePortDecl  Code = 4008

	ElabInfo        Code = 5000
	ElabUnknownCell Code = 5001
	ElabCellCycle   Code = 5002

	IOInfo          Code = 6000
	IOLoadFileError Code = 6001
	IODecodeError   Code = 6002
)

var (
	codeDescription = map[Code]string{
		UnknownCode:           "Unknown error",
		LexInfo:               "Lexical information",
		LexBadToken:           "Invalid token",
		PreInfo:               "Preprocessor information",
		PreMacroProblem:       "Macro expansion problem",
		PreIncludeError:       "Include file not found",
		SynInfo:               "Syntax information",
		SynBadNumber:          "Malformed numeric literal",
		SynUnexpectedToken:    "Unexpected token",
		SemInfo:               "Semantics information",
		SemDuplicateName:      "Duplicate name in scope",
		SemUnknownIdent:       "Unknown identifier",
		SemNotNameSpace:       "Identifier is not a name space",
		SemUnknownPort:        "Unknown port or parameter",
		SemDuplicateCell:      "Duplicate cell name",
		SemPortDeclNotAllowed: "Port declaration without list_of_ports",
		SemPortDeclNotInList:  "Port declaration not in list_of_ports",
		SemDuplicatePortDecl:  "Duplicate port declaration",
		ElabInfo:              "Elaboration information",
		ElabUnknownCell:       "Unknown module or udp",
		ElabCellCycle:         "Recursive instantiation",
		IOInfo:                "I/O information",
		IOLoadFileError:       "I/O load file error",
		IODecodeError:         "Syntax tree decode error",
	}
)

// Kind maps the code range to its diagnostic class.
func (c Code) Kind() Kind {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return KindLexer
	case ic >= 2000 && ic < 3000:
		return KindPreprocessor
	case ic >= 3000 && ic < 4000:
		return KindSyntax
	case ic >= 4000 && ic < 5000:
		return KindSemantics
	case ic >= 5000 && ic < 6000:
		return KindElaboration
	case ic >= 6000 && ic < 7000:
		return KindIO
	}
	return KindUnknown
}

func (c Code) ID() string {
	ic := int(c)
	switch c.Kind() {
	case KindLexer:
		return fmt.Sprintf("LEX%04d", ic)
	case KindPreprocessor:
		return fmt.Sprintf("PRE%04d", ic)
	case KindSyntax:
		return fmt.Sprintf("SYN%04d", ic)
	case KindSemantics:
		return fmt.Sprintf("SEM%04d", ic)
	case KindElaboration:
		return fmt.Sprintf("ELB%04d", ic)
	case KindIO:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
