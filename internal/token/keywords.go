package token

var keywords = map[string]Kind{
	"always":              KwAlways,
	"and":                 KwAnd,
	"assign":              KwAssign,
	"automatic":           KwAutomatic,
	"begin":               KwBegin,
	"buf":                 KwBuf,
	"bufif0":              KwBufif0,
	"bufif1":              KwBufif1,
	"case":                KwCase,
	"casex":               KwCasex,
	"casez":               KwCasez,
	"cell":                KwCell,
	"cmos":                KwCmos,
	"config":              KwConfig,
	"deassign":            KwDeassign,
	"default":             KwDefault,
	"defparam":            KwDefparam,
	"design":              KwDesign,
	"disable":             KwDisable,
	"edge":                KwEdge,
	"else":                KwElse,
	"end":                 KwEnd,
	"endcase":             KwEndcase,
	"endconfig":           KwEndconfig,
	"endfunction":         KwEndfunction,
	"endgenerate":         KwEndgenerate,
	"endmodule":           KwEndmodule,
	"endprimitive":        KwEndprimitive,
	"endspecify":          KwEndspecify,
	"endtable":            KwEndtable,
	"endtask":             KwEndtask,
	"event":               KwEvent,
	"for":                 KwFor,
	"force":               KwForce,
	"forever":             KwForever,
	"fork":                KwFork,
	"function":            KwFunction,
	"generate":            KwGenerate,
	"genvar":              KwGenvar,
	"highz0":              KwHighz0,
	"highz1":              KwHighz1,
	"if":                  KwIf,
	"ifnone":              KwIfnone,
	"incdir":              KwIncdir,
	"include":             KwInclude,
	"initial":             KwInitial,
	"inout":               KwInout,
	"input":               KwInput,
	"instance":            KwInstance,
	"integer":             KwInteger,
	"join":                KwJoin,
	"large":               KwLarge,
	"liblist":             KwLiblist,
	"library":             KwLibrary,
	"localparam":          KwLocalparam,
	"macromodule":         KwMacromodule,
	"medium":              KwMedium,
	"module":              KwModule,
	"nand":                KwNand,
	"negedge":             KwNegedge,
	"nmos":                KwNmos,
	"nor":                 KwNor,
	"noshowcancelled":     KwNoshowcancelled,
	"not":                 KwNot,
	"notif0":              KwNotif0,
	"notif1":              KwNotif1,
	"or":                  KwOr,
	"output":              KwOutput,
	"parameter":           KwParameter,
	"pmos":                KwPmos,
	"posedge":             KwPosedge,
	"primitive":           KwPrimitive,
	"pull0":               KwPull0,
	"pull1":               KwPull1,
	"pulldown":            KwPulldown,
	"pullup":              KwPullup,
	"pulsestyle_onevent":  KwPulsestyleOnevent,
	"pulsestyle_ondetect": KwPulsestyleOndetect,
	"rcmos":               KwRcmos,
	"real":                KwReal,
	"realtime":            KwRealtime,
	"reg":                 KwReg,
	"release":             KwRelease,
	"repeat":              KwRepeat,
	"rnmos":               KwRnmos,
	"rpmos":               KwRpmos,
	"rtran":               KwRtran,
	"rtranif0":            KwRtranif0,
	"rtranif1":            KwRtranif1,
	"scalared":            KwScalared,
	"showcancelled":       KwShowcancelled,
	"signed":              KwSigned,
	"small":               KwSmall,
	"specify":             KwSpecify,
	"specparam":           KwSpecparam,
	"strong0":             KwStrong0,
	"strong1":             KwStrong1,
	"supply0":             KwSupply0,
	"supply1":             KwSupply1,
	"table":               KwTable,
	"task":                KwTask,
	"time":                KwTime,
	"tran":                KwTran,
	"tranif0":             KwTranif0,
	"tranif1":             KwTranif1,
	"tri":                 KwTri,
	"tri0":                KwTri0,
	"tri1":                KwTri1,
	"triand":              KwTriand,
	"trior":               KwTrior,
	"trireg":              KwTrireg,
	"unsigned":            KwUnsigned,
	"use":                 KwUse,
	"uwire":               KwUwire,
	"vectored":            KwVectored,
	"wait":                KwWait,
	"wand":                KwWand,
	"weak0":               KwWeak0,
	"weak1":               KwWeak1,
	"while":               KwWhile,
	"wire":                KwWire,
	"wor":                 KwWor,
	"xnor":                KwXnor,
	"xor":                 KwXor,
}

var keywordText = func() map[Kind]string {
	m := make(map[Kind]string, len(keywords))
	for s, k := range keywords {
		m[k] = s
	}
	return m
}()

// LookupKeyword returns the keyword kind for ident.
// Verilog keywords are case sensitive: only lowercase spellings match.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// KeywordLen returns the display length of a reserved word, 0 for other kinds.
func KeywordLen(k Kind) uint32 {
	return uint32(len(keywordText[k]))
}
