package cst

import (
	"vlxref/internal/token"
)

// Kind is either a token kind (below RuleFirst) or a grammar production.
type Kind uint16

// RuleFirst separates token kinds from production kinds.
const RuleFirst Kind = 256

const (
	RuleOther Kind = RuleFirst + iota
	SourceText

	ModuleDeclaration
	UdpDeclaration
	TaskDeclaration
	FunctionDeclaration
	ListOfPorts
	SpecifyBlock
	GenerateBlock
	SeqBlock
	ParBlock

	LibraryDeclaration
	ConfigDeclaration
	UdpOutputDeclaration
	UdpInputDeclaration
	UdpRegDeclaration
	EventDeclaration
	TfInputDeclaration
	TfOutputDeclaration
	TfInoutDeclaration
	GenvarDeclaration
	LocalParameterDeclaration
	ParameterDeclaration
	Port
	IntegerDeclaration
	TimeDeclaration
	RegDeclaration
	BlockIntegerDeclaration
	BlockTimeDeclaration
	BlockRegDeclaration
	RealDeclaration
	RealtimeDeclaration
	BlockRealDeclaration
	BlockRealtimeDeclaration
	NetDeclaration
	SpecparamDeclaration
	ModuleOrUdpInstantiation
	ModuleOrUdpInstance
	InoutDeclaration
	InputDeclaration
	OutputDeclaration

	HierarchicalIdentifier
	HierarchicalIdentifierRange
	HierarchicalIdentifierRangeConst

	AlwaysConstruct
	IfGenerateConstruct
	CaseGenerateConstruct
	GenerateRegion
	LoopGenerateConstruct
	ConditionalStatement
	CaseStatement
	LoopStatement

	Number

	PortExpression
	PortReference
	ListOfPortDeclarations
	NameOfGateInstance
	PortConnectionOrOutputTerminal
	NamedParameterAssignment
	ListOfEventIdentifiers
	ParamAssignment
	VariableType
	RealType
	BlockVariableType
	BlockRealType
	ListOfNetDeclAssignmentsOrIdentifiers
	SpecparamAssignment
	ListOfVariablePortIdentifiers

	ModuleItem
	GateInstantiation
	ListOfPortConnections
	ParameterValueAssignment
	ListOfParameterAssignments
	ContinuousAssign
	NetAssignment
	InitialConstruct
	Statement
	BlockingAssignment
	NonblockingAssignment
	VariableLvalue
	EventControl
	Expression
	Primary
	RangeExpression
	Range

	ruleEnd
)

var ruleNames = [...]string{
	RuleOther - RuleFirst:                             "rule",
	SourceText - RuleFirst:                            "source_text",
	ModuleDeclaration - RuleFirst:                     "module_declaration",
	UdpDeclaration - RuleFirst:                        "udp_declaration",
	TaskDeclaration - RuleFirst:                       "task_declaration",
	FunctionDeclaration - RuleFirst:                   "function_declaration",
	ListOfPorts - RuleFirst:                           "list_of_ports",
	SpecifyBlock - RuleFirst:                          "specify_block",
	GenerateBlock - RuleFirst:                         "generate_block",
	SeqBlock - RuleFirst:                              "seq_block",
	ParBlock - RuleFirst:                              "par_block",
	LibraryDeclaration - RuleFirst:                    "library_declaration",
	ConfigDeclaration - RuleFirst:                     "config_declaration",
	UdpOutputDeclaration - RuleFirst:                  "udp_output_declaration",
	UdpInputDeclaration - RuleFirst:                   "udp_input_declaration",
	UdpRegDeclaration - RuleFirst:                     "udp_reg_declaration",
	EventDeclaration - RuleFirst:                      "event_declaration",
	TfInputDeclaration - RuleFirst:                    "tf_input_declaration",
	TfOutputDeclaration - RuleFirst:                   "tf_output_declaration",
	TfInoutDeclaration - RuleFirst:                    "tf_inout_declaration",
	GenvarDeclaration - RuleFirst:                     "genvar_declaration",
	LocalParameterDeclaration - RuleFirst:             "local_parameter_declaration",
	ParameterDeclaration - RuleFirst:                  "parameter_declaration",
	Port - RuleFirst:                                  "port",
	IntegerDeclaration - RuleFirst:                    "integer_declaration",
	TimeDeclaration - RuleFirst:                       "time_declaration",
	RegDeclaration - RuleFirst:                        "reg_declaration",
	BlockIntegerDeclaration - RuleFirst:               "block_integer_declaration",
	BlockTimeDeclaration - RuleFirst:                  "block_time_declaration",
	BlockRegDeclaration - RuleFirst:                   "block_reg_declaration",
	RealDeclaration - RuleFirst:                       "real_declaration",
	RealtimeDeclaration - RuleFirst:                   "realtime_declaration",
	BlockRealDeclaration - RuleFirst:                  "block_real_declaration",
	BlockRealtimeDeclaration - RuleFirst:              "block_realtime_declaration",
	NetDeclaration - RuleFirst:                        "net_declaration",
	SpecparamDeclaration - RuleFirst:                  "specparam_declaration",
	ModuleOrUdpInstantiation - RuleFirst:              "module_or_udp_instantiation",
	ModuleOrUdpInstance - RuleFirst:                   "module_or_udp_instance",
	InoutDeclaration - RuleFirst:                      "inout_declaration",
	InputDeclaration - RuleFirst:                      "input_declaration",
	OutputDeclaration - RuleFirst:                     "output_declaration",
	HierarchicalIdentifier - RuleFirst:                "hierarchical_identifier",
	HierarchicalIdentifierRange - RuleFirst:           "hierarchical_identifier_range",
	HierarchicalIdentifierRangeConst - RuleFirst:      "hierarchical_identifier_range_const",
	AlwaysConstruct - RuleFirst:                       "always_construct",
	IfGenerateConstruct - RuleFirst:                   "if_generate_construct",
	CaseGenerateConstruct - RuleFirst:                 "case_generate_construct",
	GenerateRegion - RuleFirst:                        "generate_region",
	LoopGenerateConstruct - RuleFirst:                 "loop_generate_construct",
	ConditionalStatement - RuleFirst:                  "conditional_statement",
	CaseStatement - RuleFirst:                         "case_statement",
	LoopStatement - RuleFirst:                         "loop_statement",
	Number - RuleFirst:                                "number",
	PortExpression - RuleFirst:                        "port_expression",
	PortReference - RuleFirst:                         "port_reference",
	ListOfPortDeclarations - RuleFirst:                "list_of_port_declarations",
	NameOfGateInstance - RuleFirst:                    "name_of_gate_instance",
	PortConnectionOrOutputTerminal - RuleFirst:        "port_connection_or_output_terminal",
	NamedParameterAssignment - RuleFirst:              "named_parameter_assignment",
	ListOfEventIdentifiers - RuleFirst:                "list_of_event_identifiers",
	ParamAssignment - RuleFirst:                       "param_assignment",
	VariableType - RuleFirst:                          "variable_type",
	RealType - RuleFirst:                              "real_type",
	BlockVariableType - RuleFirst:                     "block_variable_type",
	BlockRealType - RuleFirst:                         "block_real_type",
	ListOfNetDeclAssignmentsOrIdentifiers - RuleFirst: "list_of_net_decl_assignments_or_identifiers",
	SpecparamAssignment - RuleFirst:                   "specparam_assignment",
	ListOfVariablePortIdentifiers - RuleFirst:         "list_of_variable_port_identifiers",
	ModuleItem - RuleFirst:                            "module_item",
	GateInstantiation - RuleFirst:                     "gate_instantiation",
	ListOfPortConnections - RuleFirst:                 "list_of_port_connections",
	ParameterValueAssignment - RuleFirst:              "parameter_value_assignment",
	ListOfParameterAssignments - RuleFirst:            "list_of_parameter_assignments",
	ContinuousAssign - RuleFirst:                      "continuous_assign",
	NetAssignment - RuleFirst:                         "net_assignment",
	InitialConstruct - RuleFirst:                      "initial_construct",
	Statement - RuleFirst:                             "statement",
	BlockingAssignment - RuleFirst:                    "blocking_assignment",
	NonblockingAssignment - RuleFirst:                 "nonblocking_assignment",
	VariableLvalue - RuleFirst:                        "variable_lvalue",
	EventControl - RuleFirst:                          "event_control",
	Expression - RuleFirst:                            "expression",
	Primary - RuleFirst:                               "primary",
	RangeExpression - RuleFirst:                       "range_expression",
	Range - RuleFirst:                                 "range",
}

var rulesByName = func() map[string]Kind {
	m := make(map[string]Kind, len(ruleNames))
	for i, s := range ruleNames {
		m[s] = RuleFirst + Kind(i)
	}
	return m
}()

// Tok converts a token kind to a syntax-tree kind.
func Tok(k token.Kind) Kind { return Kind(k) }

// IsRule reports whether k is a grammar production.
func (k Kind) IsRule() bool { return k >= RuleFirst }

// Token returns the token kind; it is token.Invalid for productions.
func (k Kind) Token() token.Kind {
	if k.IsRule() {
		return token.Invalid
	}
	return token.Kind(k)
}

func (k Kind) String() string {
	if !k.IsRule() {
		return token.Kind(k).String()
	}
	if k < ruleEnd {
		return ruleNames[k-RuleFirst]
	}
	return "rule"
}

// ParseKind maps a dump spelling back to a Kind. Token spellings are tried
// after production names.
func ParseKind(s string) (Kind, bool) {
	if k, ok := rulesByName[s]; ok {
		return k, true
	}
	if t, ok := token.ParseKind(s); ok {
		return Tok(t), true
	}
	return 0, false
}
