package astbuild

import (
	"vlxref/internal/cst"
	"vlxref/internal/token"
)

// opensScope reports productions that get their own name table. Generate,
// sequential and parallel blocks are scopes whether they are named or not.
func opensScope(k cst.Kind) bool {
	switch k {
	case cst.ModuleDeclaration, cst.UdpDeclaration, cst.TaskDeclaration, cst.FunctionDeclaration,
		cst.ListOfPorts, cst.SpecifyBlock, cst.GenerateBlock, cst.SeqBlock, cst.ParBlock:
		return true
	}
	return false
}

func isAnonymousCandidate(k cst.Kind) bool {
	return k == cst.GenerateBlock || k == cst.SeqBlock || k == cst.ParBlock
}

// isDecl reports productions that carry declarations.
func isDecl(k cst.Kind) bool {
	switch k {
	case cst.LibraryDeclaration, cst.ConfigDeclaration,
		cst.UdpOutputDeclaration, cst.UdpInputDeclaration, cst.UdpRegDeclaration,
		cst.EventDeclaration,
		cst.TfInputDeclaration, cst.TfOutputDeclaration, cst.TfInoutDeclaration,
		cst.GenvarDeclaration, cst.LocalParameterDeclaration, cst.ParameterDeclaration,
		cst.Port,
		cst.IntegerDeclaration, cst.TimeDeclaration, cst.RegDeclaration,
		cst.BlockIntegerDeclaration, cst.BlockTimeDeclaration, cst.BlockRegDeclaration,
		cst.RealDeclaration, cst.RealtimeDeclaration,
		cst.BlockRealDeclaration, cst.BlockRealtimeDeclaration,
		cst.NetDeclaration, cst.SpecparamDeclaration,
		cst.ModuleOrUdpInstantiation, cst.ModuleOrUdpInstance,
		cst.InoutDeclaration, cst.InputDeclaration, cst.OutputDeclaration:
		return true
	}
	return false
}

func isHierarchy(k cst.Kind) bool {
	return k == cst.HierarchicalIdentifier ||
		k == cst.HierarchicalIdentifierRange ||
		k == cst.HierarchicalIdentifierRangeConst
}

// isBlockStructure reports productions kept as branches for outline and
// position queries. They do not link to their parent branch.
func isBlockStructure(k cst.Kind) bool {
	switch k {
	case cst.AlwaysConstruct, cst.IfGenerateConstruct, cst.CaseGenerateConstruct,
		cst.GenerateRegion, cst.LoopGenerateConstruct,
		cst.ConditionalStatement, cst.CaseStatement, cst.LoopStatement,
		cst.Kind(token.Attribute), cst.Kind(token.MacroUsage):
		return true
	}
	return false
}

// isPlainDeclParent reports the productions whose identifiers always declare.
func isPlainDeclParent(k cst.Kind) bool {
	switch k {
	case cst.NameOfGateInstance,
		cst.UdpOutputDeclaration, cst.UdpInputDeclaration, cst.UdpRegDeclaration,
		cst.ListOfEventIdentifiers,
		cst.TfInputDeclaration, cst.TfOutputDeclaration, cst.TfInoutDeclaration,
		cst.ParamAssignment, cst.GenvarDeclaration,
		cst.VariableType, cst.RealType, cst.BlockVariableType, cst.BlockRealType,
		cst.ListOfNetDeclAssignmentsOrIdentifiers, cst.SpecparamAssignment:
		return true
	}
	return false
}
