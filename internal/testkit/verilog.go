package testkit

import (
	"vlxref/internal/cst"
	"vlxref/internal/token"
)

// Module builds "module name ( ports ) ; items endmodule" with one item per
// line. A nil ports slice omits the list_of_ports.
func Module(name string, ports []string, items ...any) *cst.Node {
	parts := []any{Kw(token.KwModule), Id(name)}
	if ports != nil {
		parts = append(parts, PortList(ports...))
	}
	parts = append(parts, P(";"), NL)
	parts = append(parts, items...)
	parts = append(parts, Kw(token.KwEndmodule))
	return R(cst.ModuleDeclaration, parts...)
}

// ModuleANSI builds a module header with a list_of_port_declarations made
// of decls (see PortDecl).
func ModuleANSI(name string, decls []*cst.Node, items ...any) *cst.Node {
	lpd := []any{P("(")}
	for i, d := range decls {
		if i > 0 {
			lpd = append(lpd, P(","))
		}
		lpd = append(lpd, d)
	}
	lpd = append(lpd, P(")"))
	parts := []any{Kw(token.KwModule), Id(name), R(cst.ListOfPortDeclarations, lpd...), P(";"), NL}
	parts = append(parts, items...)
	parts = append(parts, Kw(token.KwEndmodule))
	return R(cst.ModuleDeclaration, parts...)
}

// PortList builds "( a , b )" as a list_of_ports of simple port references.
func PortList(names ...string) *cst.Node {
	parts := []any{P("(")}
	for i, n := range names {
		if i > 0 {
			parts = append(parts, P(","))
		}
		parts = append(parts, R(cst.Port, R(cst.PortExpression, R(cst.PortReference, Id(n)))))
	}
	parts = append(parts, P(")"))
	return R(cst.ListOfPorts, parts...)
}

// PortDecl builds "input a" (dir is token.KwInput, KwOutput or KwInout)
// for use in a list_of_port_declarations.
func PortDecl(dir token.Kind, name string) *cst.Node {
	return R(dirProduction(dir), Kw(dir), Id(name))
}

// Input, Output and Inout build body port declarations "input a , b ;".
func Input(names ...string) *cst.Node  { return bodyPortDecl(token.KwInput, names) }
func Output(names ...string) *cst.Node { return bodyPortDecl(token.KwOutput, names) }
func Inout(names ...string) *cst.Node  { return bodyPortDecl(token.KwInout, names) }

func bodyPortDecl(dir token.Kind, names []string) *cst.Node {
	parts := []any{Kw(dir)}
	parts = append(parts, commaIds(names)...)
	parts = append(parts, P(";"), NL)
	return R(dirProduction(dir), parts...)
}

func dirProduction(dir token.Kind) cst.Kind {
	switch dir {
	case token.KwOutput:
		return cst.OutputDeclaration
	case token.KwInout:
		return cst.InoutDeclaration
	}
	return cst.InputDeclaration
}

func commaIds(names []string) []any {
	var out []any
	for i, n := range names {
		if i > 0 {
			out = append(out, P(","))
		}
		out = append(out, Id(n))
	}
	return out
}

// Wire builds "wire a , b ;".
func Wire(names ...string) *cst.Node {
	return R(cst.NetDeclaration, Kw(token.KwWire),
		R(cst.ListOfNetDeclAssignmentsOrIdentifiers, commaIds(names)...), P(";"), NL)
}

// Reg builds "reg a , b ;".
func Reg(names ...string) *cst.Node {
	var vars []any
	for i, n := range names {
		if i > 0 {
			vars = append(vars, P(","))
		}
		vars = append(vars, R(cst.VariableType, Id(n)))
	}
	return R(cst.RegDeclaration, Kw(token.KwReg), Other("list_of_variable_identifiers", vars...), P(";"), NL)
}

// Param builds "parameter name = value ;".
func Param(name, value string) *cst.Node {
	return R(cst.ParameterDeclaration, Kw(token.KwParameter),
		Other("list_of_param_assignments",
			R(cst.ParamAssignment, Id(name), P("="), Num(value))),
		P(";"), NL)
}

// Num builds a number production with a single literal token.
func Num(text string) *cst.Node {
	return R(cst.Number, Tok(token.Natural, text))
}

// Expr wraps an operand: a string is an identifier use, a node is kept.
func Expr(operand any) *cst.Node {
	return R(cst.Expression, R(cst.Primary, operand))
}

// Assign builds "assign lhs = rhs ;".
func Assign(lhs, rhs any) *cst.Node {
	return R(cst.ContinuousAssign, Kw(token.KwAssign),
		R(cst.NetAssignment, R(cst.VariableLvalue, lhs), P("="), Expr(rhs)),
		P(";"), NL)
}

// Hier builds a hierarchical identifier "a . b . c".
func Hier(parts ...string) *cst.Node {
	var out []any
	for i, p := range parts {
		if i > 0 {
			out = append(out, P("."))
		}
		out = append(out, Id(p))
	}
	return R(cst.HierarchicalIdentifier, out...)
}

// Conn is one port connection of an instance. An empty Port makes an
// ordered connection.
type Conn struct {
	Port   string
	Signal string
}

// Instance builds "cell inst ( .p ( s ) , ... ) ;".
func Instance(cell, inst string, conns ...Conn) *cst.Node {
	return Instantiation(cell, nil, InstanceOf(inst, conns...))
}

// InstanceOf builds one module_or_udp_instance.
func InstanceOf(inst string, conns ...Conn) *cst.Node {
	var list []any
	for i, c := range conns {
		if i > 0 {
			list = append(list, P(","))
		}
		if c.Port == "" {
			list = append(list, R(cst.PortConnectionOrOutputTerminal, Expr(c.Signal)))
			continue
		}
		list = append(list, R(cst.PortConnectionOrOutputTerminal,
			P("."), Id(c.Port), P("("), Expr(c.Signal), P(")")))
	}
	return R(cst.ModuleOrUdpInstance, Id(inst),
		P("("), R(cst.ListOfPortConnections, list...), P(")"))
}

// Instantiation builds "cell #( .p ( v ) ) inst1 ( ... ) , inst2 ( ... ) ;".
// params maps parameter names to values in the given order (pairs).
func Instantiation(cell string, params []Conn, instances ...*cst.Node) *cst.Node {
	parts := []any{Id(cell)}
	if len(params) > 0 {
		var list []any
		for i, p := range params {
			if i > 0 {
				list = append(list, P(","))
			}
			list = append(list, R(cst.NamedParameterAssignment, P("."), Id(p.Port), P("("), Expr(p.Signal), P(")")))
		}
		parts = append(parts, R(cst.ParameterValueAssignment, P("#"), P("("),
			R(cst.ListOfParameterAssignments, list...), P(")")))
	}
	for i, inst := range instances {
		if i > 0 {
			parts = append(parts, P(","))
		}
		parts = append(parts, inst)
	}
	parts = append(parts, P(";"), NL)
	return R(cst.ModuleOrUdpInstantiation, parts...)
}

// Block builds a sequential block "begin [: name] items end". An empty
// name makes an anonymous block.
func Block(name string, items ...any) *cst.Node {
	parts := []any{Kw(token.KwBegin)}
	if name != "" {
		parts = append(parts, P(":"), Id(name))
	}
	parts = append(parts, NL)
	parts = append(parts, items...)
	parts = append(parts, Kw(token.KwEnd), NL)
	return R(cst.SeqBlock, parts...)
}

// Always builds "always stmt".
func Always(stmt any) *cst.Node {
	return R(cst.AlwaysConstruct, Kw(token.KwAlways), R(cst.Statement, stmt))
}

// Blocking builds "lhs = rhs ;" inside procedural code.
func Blocking(lhs, rhs any) *cst.Node {
	return R(cst.Statement, R(cst.BlockingAssignment, R(cst.VariableLvalue, lhs), P("="), Expr(rhs)), P(";"), NL)
}

// Task builds "task name ; items endtask".
func Task(name string, items ...any) *cst.Node {
	parts := []any{Kw(token.KwTask), Id(name), P(";"), NL}
	parts = append(parts, items...)
	parts = append(parts, Kw(token.KwEndtask), NL)
	return R(cst.TaskDeclaration, parts...)
}

// Attribute builds an attribute instance "(* name *)" mentioning name.
func Attribute(name string) *cst.Node {
	n := Tok(token.Attribute, "(*")
	n.Children = []*cst.Node{Id(name)}
	return n
}
