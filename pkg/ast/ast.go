package ast

type NodeType string

const (
	NodeIdentifier          NodeType = "Identifier"
	NodeWholeLiteral        NodeType = "WholeLiteral"
	NodeIntegerLiteral      NodeType = "IntegerLiteral"
	NodeFloatLiteral        NodeType = "FloatLiteral"
	NodeBooleanLiteral      NodeType = "BooleanLiteral"
	NodeTextLiteral         NodeType = "TextLiteral"
	NodeFunctionParameter   NodeType = "FunctionParameter"
	NodeFunctionLiteral     NodeType = "FunctionLiteral"
	NodeCall                NodeType = "Call"
	NodeDeclare             NodeType = "Declare"
	NodeAssign              NodeType = "Assign"
	NodeExpressionStatement NodeType = "ExpressionStatement"
	NodeBlock               NodeType = "Block"
	NodeWhile               NodeType = "While"
	NodeReturn              NodeType = "Return"
)

type Node interface {
	NodeType() NodeType
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"type"`
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (nodeImpl) isNode()              {}

// Marker interfaces.

type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

type Literal interface {
	Expression
	literalNode()
}

type literalMarker struct{}

func (literalMarker) literalNode() {}

// Type names

// TypeName is a declared type annotation. The surface spelling belongs to the
// front end; the evaluator only relies on these tags.
type TypeName string

const (
	TypeInteger  TypeName = "integer"
	TypeWhole    TypeName = "whole"
	TypeFloat    TypeName = "float"
	TypeBoolean  TypeName = "boolean"
	TypeText     TypeName = "text"
	TypeFunction TypeName = "function"
)

// Valid reports whether t names one of the six declarable types.
func (t TypeName) Valid() bool {
	switch t {
	case TypeInteger, TypeWhole, TypeFloat, TypeBoolean, TypeText, TypeFunction:
		return true
	default:
		return false
	}
}

// Identifier

type Identifier struct {
	nodeImpl
	expressionMarker

	Name string `json:"name"`
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier), Name: name}
}

// Literals

type WholeLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker

	Value uint64 `json:"value"`
}

func NewWholeLiteral(value uint64) *WholeLiteral {
	return &WholeLiteral{nodeImpl: newNodeImpl(NodeWholeLiteral), Value: value}
}

type IntegerLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker

	Value int64 `json:"value"`
}

func NewIntegerLiteral(value int64) *IntegerLiteral {
	return &IntegerLiteral{nodeImpl: newNodeImpl(NodeIntegerLiteral), Value: value}
}

type FloatLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker

	Value float64 `json:"value"`
}

func NewFloatLiteral(value float64) *FloatLiteral {
	return &FloatLiteral{nodeImpl: newNodeImpl(NodeFloatLiteral), Value: value}
}

type BooleanLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker

	Value bool `json:"value"`
}

func NewBooleanLiteral(value bool) *BooleanLiteral {
	return &BooleanLiteral{nodeImpl: newNodeImpl(NodeBooleanLiteral), Value: value}
}

type TextLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker

	Value string `json:"value"`
}

func NewTextLiteral(value string) *TextLiteral {
	return &TextLiteral{nodeImpl: newNodeImpl(NodeTextLiteral), Value: value}
}

// Functions and calls

type FunctionParameter struct {
	nodeImpl

	Name      string   `json:"name"`
	ParamType TypeName `json:"paramType"`
}

func NewFunctionParameter(name string, paramType TypeName) *FunctionParameter {
	return &FunctionParameter{nodeImpl: newNodeImpl(NodeFunctionParameter), Name: name, ParamType: paramType}
}

// FunctionLiteral evaluates to a closure over the scope active where it is
// evaluated. An empty ReturnType leaves returned values uncoerced.
type FunctionLiteral struct {
	nodeImpl
	expressionMarker

	Params     []*FunctionParameter `json:"params"`
	ReturnType TypeName             `json:"returnType,omitempty"`
	Body       *Block               `json:"body"`
}

func NewFunctionLiteral(params []*FunctionParameter, returnType TypeName, body *Block) *FunctionLiteral {
	return &FunctionLiteral{nodeImpl: newNodeImpl(NodeFunctionLiteral), Params: params, ReturnType: returnType, Body: body}
}

type Call struct {
	nodeImpl
	expressionMarker

	Callee    string       `json:"callee"`
	Arguments []Expression `json:"arguments"`
}

func NewCall(callee string, args []Expression) *Call {
	return &Call{nodeImpl: newNodeImpl(NodeCall), Callee: callee, Arguments: args}
}

// Statements

type Declare struct {
	nodeImpl
	statementMarker

	Name         string   `json:"name"`
	DeclaredType TypeName `json:"declaredType"`
}

func NewDeclare(name string, declaredType TypeName) *Declare {
	return &Declare{nodeImpl: newNodeImpl(NodeDeclare), Name: name, DeclaredType: declaredType}
}

type Assign struct {
	nodeImpl
	statementMarker

	Name  string     `json:"name"`
	Value Expression `json:"value"`
}

func NewAssign(name string, value Expression) *Assign {
	return &Assign{nodeImpl: newNodeImpl(NodeAssign), Name: name, Value: value}
}

// ExpressionStatement is a bare expression; its value is printed.
type ExpressionStatement struct {
	nodeImpl
	statementMarker

	Expression Expression `json:"expression"`
}

func NewExpressionStatement(expr Expression) *ExpressionStatement {
	return &ExpressionStatement{nodeImpl: newNodeImpl(NodeExpressionStatement), Expression: expr}
}

type Block struct {
	nodeImpl
	statementMarker

	Body []Statement `json:"body"`
}

func NewBlock(body []Statement) *Block {
	return &Block{nodeImpl: newNodeImpl(NodeBlock), Body: body}
}

type While struct {
	nodeImpl
	statementMarker

	Condition Expression `json:"condition"`
	Body      *Block     `json:"body"`
}

func NewWhile(condition Expression, body *Block) *While {
	return &While{nodeImpl: newNodeImpl(NodeWhile), Condition: condition, Body: body}
}

type Return struct {
	nodeImpl
	statementMarker

	Argument Expression `json:"argument"`
}

func NewReturn(argument Expression) *Return {
	return &Return{nodeImpl: newNodeImpl(NodeReturn), Argument: argument}
}
