package ast

// Identifier and literal helpers.

func ID(name string) *Identifier {
	return NewIdentifier(name)
}

func Whole(value uint64) *WholeLiteral {
	return NewWholeLiteral(value)
}

func Int(value int64) *IntegerLiteral {
	return NewIntegerLiteral(value)
}

func Flt(value float64) *FloatLiteral {
	return NewFloatLiteral(value)
}

func Bool(value bool) *BooleanLiteral {
	return NewBooleanLiteral(value)
}

func Txt(value string) *TextLiteral {
	return NewTextLiteral(value)
}

// Function helpers.

func Param(name string, paramType TypeName) *FunctionParameter {
	return NewFunctionParameter(name, paramType)
}

func Fn(params []*FunctionParameter, returnType TypeName, body ...Statement) *FunctionLiteral {
	return NewFunctionLiteral(params, returnType, NewBlock(body))
}

func CallExpr(callee string, args ...Expression) *Call {
	return NewCall(callee, args)
}

// Statement helpers.

func Decl(name string, declaredType TypeName) *Declare {
	return NewDeclare(name, declaredType)
}

func Set(name string, value Expression) *Assign {
	return NewAssign(name, value)
}

func Print(expr Expression) *ExpressionStatement {
	return NewExpressionStatement(expr)
}

func Blk(statements ...Statement) *Block {
	return NewBlock(statements)
}

func Loop(condition Expression, body ...Statement) *While {
	return NewWhile(condition, NewBlock(body))
}

func Ret(argument Expression) *Return {
	return NewReturn(argument)
}

// Program wraps top-level statements in the root block.
func Program(statements ...Statement) *Block {
	return NewBlock(statements)
}
