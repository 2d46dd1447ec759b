package token

// Kind is the lexical class of a token leaf in a syntax tree.
type Kind uint8

const (
	// Invalid marks the zero value and synthetic roots.
	Invalid Kind = iota

	// Ident is a simple or escaped identifier.
	Ident
	// SysName is a system task or function name starting with '$'.
	SysName
	// Directive is a compiler directive (`define, `ifdef, ...).
	Directive
	String
	// Natural is a plain unsigned decimal number.
	Natural
	Realnum
	// SizedBased is size + base format + value as one token.
	SizedBased
	// BasedInt is base format + value without a size.
	BasedInt
	// BaseFormat is only the 'b / 'sh ... part.
	BaseFormat
	// BaseValue is only the digits after a separate base format.
	BaseValue
	// Attribute stands for (* ... *) and everything between.
	Attribute
	// MacroUsage documents a macro call before expansion.
	MacroUsage
	// Section and SectionEnd are outline markers from structured comments.
	Section
	SectionEnd
	Comment

	// brackets and punctuation
	Lpar   // (
	Rpar   // )
	Lbrack // [
	Rbrack // ]
	Lbrace // {
	Rbrace // }
	Comma  // ,
	Dot    // .
	Semi   // ;
	Colon  // :
	Hash   // #
	At     // @
	Eq     // =
	// Op is any other operator; the text carries the spelling.
	Op

	kwFirst
	KwAlways             // always
	KwAnd                // and
	KwAssign             // assign
	KwAutomatic          // automatic
	KwBegin              // begin
	KwBuf                // buf
	KwBufif0             // bufif0
	KwBufif1             // bufif1
	KwCase               // case
	KwCasex              // casex
	KwCasez              // casez
	KwCell               // cell
	KwCmos               // cmos
	KwConfig             // config
	KwDeassign           // deassign
	KwDefault            // default
	KwDefparam           // defparam
	KwDesign             // design
	KwDisable            // disable
	KwEdge               // edge
	KwElse               // else
	KwEnd                // end
	KwEndcase            // endcase
	KwEndconfig          // endconfig
	KwEndfunction        // endfunction
	KwEndgenerate        // endgenerate
	KwEndmodule          // endmodule
	KwEndprimitive       // endprimitive
	KwEndspecify         // endspecify
	KwEndtable           // endtable
	KwEndtask            // endtask
	KwEvent              // event
	KwFor                // for
	KwForce              // force
	KwForever            // forever
	KwFork               // fork
	KwFunction           // function
	KwGenerate           // generate
	KwGenvar             // genvar
	KwHighz0             // highz0
	KwHighz1             // highz1
	KwIf                 // if
	KwIfnone             // ifnone
	KwIncdir             // incdir
	KwInclude            // include
	KwInitial            // initial
	KwInout              // inout
	KwInput              // input
	KwInstance           // instance
	KwInteger            // integer
	KwJoin               // join
	KwLarge              // large
	KwLiblist            // liblist
	KwLibrary            // library
	KwLocalparam         // localparam
	KwMacromodule        // macromodule
	KwMedium             // medium
	KwModule             // module
	KwNand               // nand
	KwNegedge            // negedge
	KwNmos               // nmos
	KwNor                // nor
	KwNoshowcancelled    // noshowcancelled
	KwNot                // not
	KwNotif0             // notif0
	KwNotif1             // notif1
	KwOr                 // or
	KwOutput             // output
	KwParameter          // parameter
	KwPmos               // pmos
	KwPosedge            // posedge
	KwPrimitive          // primitive
	KwPull0              // pull0
	KwPull1              // pull1
	KwPulldown           // pulldown
	KwPullup             // pullup
	KwPulsestyleOnevent  // pulsestyle_onevent
	KwPulsestyleOndetect // pulsestyle_ondetect
	KwRcmos              // rcmos
	KwReal               // real
	KwRealtime           // realtime
	KwReg                // reg
	KwRelease            // release
	KwRepeat             // repeat
	KwRnmos              // rnmos
	KwRpmos              // rpmos
	KwRtran              // rtran
	KwRtranif0           // rtranif0
	KwRtranif1           // rtranif1
	KwScalared           // scalared
	KwShowcancelled      // showcancelled
	KwSigned             // signed
	KwSmall              // small
	KwSpecify            // specify
	KwSpecparam          // specparam
	KwStrong0            // strong0
	KwStrong1            // strong1
	KwSupply0            // supply0
	KwSupply1            // supply1
	KwTable              // table
	KwTask               // task
	KwTime               // time
	KwTran               // tran
	KwTranif0            // tranif0
	KwTranif1            // tranif1
	KwTri                // tri
	KwTri0               // tri0
	KwTri1               // tri1
	KwTriand             // triand
	KwTrior              // trior
	KwTrireg             // trireg
	KwUnsigned           // unsigned
	KwUse                // use
	KwUwire              // uwire
	KwVectored           // vectored
	KwWait               // wait
	KwWand               // wand
	KwWeak0              // weak0
	KwWeak1              // weak1
	KwWhile              // while
	KwWire               // wire
	KwWor                // wor
	KwXnor               // xnor
	KwXor                // xor
	kwLast
)

var kindNames = [...]string{
	Invalid:    "invalid",
	Ident:      "identifier",
	SysName:    "sysname",
	Directive:  "directive",
	String:     "string",
	Natural:    "natural",
	Realnum:    "real_number",
	SizedBased: "sized_based",
	BasedInt:   "based_int",
	BaseFormat: "base_format",
	BaseValue:  "base_value",
	Attribute:  "Attribute",
	MacroUsage: "MacroUsage",
	Section:    "Section",
	SectionEnd: "SectionEnd",
	Comment:    "comment",
	Lpar:       "(",
	Rpar:       ")",
	Lbrack:     "[",
	Rbrack:     "]",
	Lbrace:     "{",
	Rbrace:     "}",
	Comma:      ",",
	Dot:        ".",
	Semi:       ";",
	Colon:      ":",
	Hash:       "#",
	At:         "@",
	Eq:         "=",
	Op:         "op",
}

var byName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames)+len(keywords))
	for k, s := range kindNames {
		if s != "" {
			m[s] = Kind(k)
		}
	}
	for s, k := range keywords {
		m[s] = k
	}
	return m
}()

// String returns the dump spelling: the keyword itself for reserved words,
// the punctuation for brackets, a lowercase class name otherwise.
func (k Kind) String() string {
	if k.IsReservedWord() {
		return keywordText[k]
	}
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "invalid"
}

// ParseKind is the inverse of String.
func ParseKind(s string) (Kind, bool) {
	k, ok := byName[s]
	return k, ok
}

// IsReservedWord reports whether k is a Verilog keyword.
func (k Kind) IsReservedWord() bool { return k > kwFirst && k < kwLast }

func (k Kind) IsNumber() bool {
	switch k {
	case Natural, Realnum, SizedBased, BasedInt, BaseFormat, BaseValue:
		return true
	}
	return false
}

// IsBlockEnd reports keywords that close a production (end, endmodule, join, ...).
func (k Kind) IsBlockEnd() bool {
	switch k {
	case KwEnd, KwEndcase, KwEndconfig, KwEndfunction, KwEndgenerate, KwEndmodule,
		KwEndprimitive, KwEndspecify, KwEndtable, KwEndtask, KwJoin:
		return true
	}
	return false
}

func (k Kind) IsBlockBegin() bool {
	switch k {
	case KwBegin, KwCase, KwCasez, KwCasex, KwConfig, KwFunction, KwGenerate, KwModule,
		KwMacromodule, KwPrimitive, KwSpecify, KwTable, KwTask, KwFork:
		return true
	}
	return false
}

func (k Kind) IsBracket() bool {
	switch k {
	case Lpar, Rpar, Lbrack, Rbrack, Lbrace, Rbrace:
		return true
	}
	return false
}
