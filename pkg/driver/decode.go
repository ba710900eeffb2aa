package driver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"tally/interpreter-go/pkg/ast"
)

// DecodeProgramJSON decodes a JSON program document into the root block.
func DecodeProgramJSON(data []byte) (*ast.Block, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var raw any
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse program: %w", err)
	}
	return decodeProgram(raw)
}

// DecodeProgramYAML decodes a YAML program document into the root block.
func DecodeProgramYAML(data []byte) (*ast.Block, error) {
	raw, err := decodeYAMLDocument(data)
	if err != nil {
		return nil, err
	}
	return decodeProgram(raw)
}

// DecodeStatementYAML decodes a single statement node; JSON input is valid
// YAML, so the REPL accepts either.
func DecodeStatementYAML(data []byte) (ast.Statement, error) {
	raw, err := decodeYAMLDocument(data)
	if err != nil {
		return nil, err
	}
	return decodeStatement(raw)
}

func decodeYAMLDocument(data []byte) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse program: %w", err)
	}
	if doc.Kind == 0 {
		return nil, fmt.Errorf("parse program: empty document")
	}
	return yamlToGeneric(&doc)
}

// yamlToGeneric converts a YAML node tree into the shape produced by a JSON
// decoder with UseNumber. Numeric scalars keep their source spelling so
// literal typing sees the original lexeme.
func yamlToGeneric(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return yamlToGeneric(n.Content[0])
	case yaml.AliasNode:
		return yamlToGeneric(n.Alias)
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, child := range n.Content {
			val, err := yamlToGeneric(child)
			if err != nil {
				return nil, err
			}
			out = append(out, val)
		}
		return out, nil
	case yaml.MappingNode:
		out := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			var key string
			if err := n.Content[i].Decode(&key); err != nil {
				return nil, fmt.Errorf("line %d: %w", n.Content[i].Line, err)
			}
			val, err := yamlToGeneric(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			out[key] = val
		}
		return out, nil
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!int", "!!float":
			return json.Number(n.Value), nil
		case "!!bool":
			var b bool
			if err := n.Decode(&b); err != nil {
				return nil, fmt.Errorf("line %d: %w", n.Line, err)
			}
			return b, nil
		case "!!null":
			return nil, nil
		default:
			return n.Value, nil
		}
	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node", n.Line)
	}
}

func decodeProgram(raw any) (*ast.Block, error) {
	switch root := raw.(type) {
	case []any:
		body, err := decodeStatements(root, "body")
		if err != nil {
			return nil, err
		}
		return ast.NewBlock(body), nil
	case map[string]any:
		node, err := decodeNode(root)
		if err != nil {
			return nil, err
		}
		block, ok := node.(*ast.Block)
		if !ok {
			return nil, fmt.Errorf("program root must be a Block, got %s", node.NodeType())
		}
		return block, nil
	default:
		return nil, fmt.Errorf("program root must be a Block or a list of statements, got %T", raw)
	}
}

func decodeStatements(raw []any, path string) ([]ast.Statement, error) {
	stmts := make([]ast.Statement, 0, len(raw))
	for idx, item := range raw {
		stmt, err := decodeStatement(item)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", path, idx, err)
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func decodeStatement(raw any) (ast.Statement, error) {
	node, err := decodeAny(raw)
	if err != nil {
		return nil, err
	}
	stmt, ok := node.(ast.Statement)
	if !ok {
		return nil, fmt.Errorf("%s is not a statement", node.NodeType())
	}
	return stmt, nil
}

func decodeExpression(raw any) (ast.Expression, error) {
	node, err := decodeAny(raw)
	if err != nil {
		return nil, err
	}
	expr, ok := node.(ast.Expression)
	if !ok {
		return nil, fmt.Errorf("%s is not an expression", node.NodeType())
	}
	return expr, nil
}

func decodeBlock(raw any) (*ast.Block, error) {
	switch b := raw.(type) {
	case []any:
		body, err := decodeStatements(b, "body")
		if err != nil {
			return nil, err
		}
		return ast.NewBlock(body), nil
	case nil:
		return ast.NewBlock(nil), nil
	}
	node, err := decodeAny(raw)
	if err != nil {
		return nil, err
	}
	block, ok := node.(*ast.Block)
	if !ok {
		return nil, fmt.Errorf("expected Block, got %s", node.NodeType())
	}
	return block, nil
}

func decodeAny(raw any) (ast.Node, error) {
	node, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected node object, got %T", raw)
	}
	return decodeNode(node)
}

func decodeNode(node map[string]any) (ast.Node, error) {
	typ, _ := node["type"].(string)
	switch ast.NodeType(typ) {
	case ast.NodeDeclare:
		name, err := requireString(node, "name")
		if err != nil {
			return nil, err
		}
		declared, err := decodeTypeName(node, "declaredType", false)
		if err != nil {
			return nil, err
		}
		return ast.NewDeclare(name, declared), nil
	case ast.NodeAssign:
		name, err := requireString(node, "name")
		if err != nil {
			return nil, err
		}
		value, err := decodeExpression(node["value"])
		if err != nil {
			return nil, fmt.Errorf("Assign %s value: %w", name, err)
		}
		return ast.NewAssign(name, value), nil
	case ast.NodeExpressionStatement:
		expr, err := decodeExpression(node["expression"])
		if err != nil {
			return nil, fmt.Errorf("ExpressionStatement: %w", err)
		}
		return ast.NewExpressionStatement(expr), nil
	case ast.NodeBlock:
		bodyVal, err := optionalList(node, "body")
		if err != nil {
			return nil, fmt.Errorf("Block: %w", err)
		}
		body, err := decodeStatements(bodyVal, "body")
		if err != nil {
			return nil, err
		}
		return ast.NewBlock(body), nil
	case ast.NodeWhile:
		cond, err := decodeExpression(node["condition"])
		if err != nil {
			return nil, fmt.Errorf("While condition: %w", err)
		}
		body, err := decodeBlock(node["body"])
		if err != nil {
			return nil, fmt.Errorf("While body: %w", err)
		}
		return ast.NewWhile(cond, body), nil
	case ast.NodeReturn:
		arg, err := decodeExpression(node["argument"])
		if err != nil {
			return nil, fmt.Errorf("Return: %w", err)
		}
		return ast.NewReturn(arg), nil
	case ast.NodeFunctionLiteral:
		return decodeFunctionLiteral(node)
	case ast.NodeCall:
		return decodeCall(node)
	case ast.NodeIdentifier:
		name, err := requireString(node, "name")
		if err != nil {
			return nil, err
		}
		return ast.NewIdentifier(name), nil
	case "NumberLiteral":
		lexeme, err := numericText(node["lexeme"])
		if err != nil {
			return nil, fmt.Errorf("NumberLiteral: %w", err)
		}
		return ast.ParseNumberLiteral(lexeme)
	case ast.NodeWholeLiteral:
		text, err := numericText(node["value"])
		if err != nil {
			return nil, fmt.Errorf("WholeLiteral: %w", err)
		}
		val, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("WholeLiteral: %w", err)
		}
		return ast.NewWholeLiteral(val), nil
	case ast.NodeIntegerLiteral:
		text, err := numericText(node["value"])
		if err != nil {
			return nil, fmt.Errorf("IntegerLiteral: %w", err)
		}
		val, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("IntegerLiteral: %w", err)
		}
		return ast.NewIntegerLiteral(val), nil
	case ast.NodeFloatLiteral:
		text, err := numericText(node["value"])
		if err != nil {
			return nil, fmt.Errorf("FloatLiteral: %w", err)
		}
		val, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("FloatLiteral: %w", err)
		}
		return ast.NewFloatLiteral(val), nil
	case ast.NodeBooleanLiteral:
		val, ok := node["value"].(bool)
		if !ok {
			return nil, fmt.Errorf("BooleanLiteral value must be a boolean, got %T", node["value"])
		}
		return ast.NewBooleanLiteral(val), nil
	case ast.NodeTextLiteral:
		val, ok := node["value"].(string)
		if !ok {
			return nil, fmt.Errorf("TextLiteral value must be a string, got %T", node["value"])
		}
		return ast.NewTextLiteral(val), nil
	case "":
		return nil, fmt.Errorf("node is missing a type")
	default:
		return nil, fmt.Errorf("unsupported node type %q", typ)
	}
}

func decodeFunctionLiteral(node map[string]any) (ast.Node, error) {
	paramsVal, err := optionalList(node, "params")
	if err != nil {
		return nil, fmt.Errorf("FunctionLiteral: %w", err)
	}
	params := make([]*ast.FunctionParameter, 0, len(paramsVal))
	for idx, raw := range paramsVal {
		paramNode, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("FunctionLiteral params[%d]: expected object, got %T", idx, raw)
		}
		name, err := requireString(paramNode, "name")
		if err != nil {
			return nil, fmt.Errorf("FunctionLiteral params[%d]: %w", idx, err)
		}
		paramType, err := decodeTypeName(paramNode, "paramType", false)
		if err != nil {
			return nil, fmt.Errorf("FunctionLiteral params[%d]: %w", idx, err)
		}
		params = append(params, ast.NewFunctionParameter(name, paramType))
	}
	returnType, err := decodeTypeName(node, "returnType", true)
	if err != nil {
		return nil, fmt.Errorf("FunctionLiteral: %w", err)
	}
	body, err := decodeBlock(node["body"])
	if err != nil {
		return nil, fmt.Errorf("FunctionLiteral body: %w", err)
	}
	return ast.NewFunctionLiteral(params, returnType, body), nil
}

func decodeCall(node map[string]any) (ast.Node, error) {
	var callee string
	switch c := node["callee"].(type) {
	case string:
		callee = c
	case map[string]any:
		id, err := decodeNode(c)
		if err != nil {
			return nil, fmt.Errorf("Call callee: %w", err)
		}
		ident, ok := id.(*ast.Identifier)
		if !ok {
			return nil, fmt.Errorf("Call callee must be a name, got %s", id.NodeType())
		}
		callee = ident.Name
	default:
		return nil, fmt.Errorf("Call callee must be a name, got %T", node["callee"])
	}
	if callee == "" {
		return nil, fmt.Errorf("Call callee must not be empty")
	}
	argsVal, err := optionalList(node, "arguments")
	if err != nil {
		return nil, fmt.Errorf("Call %s: %w", callee, err)
	}
	args := make([]ast.Expression, 0, len(argsVal))
	for idx, raw := range argsVal {
		arg, err := decodeExpression(raw)
		if err != nil {
			return nil, fmt.Errorf("Call %s arguments[%d]: %w", callee, idx, err)
		}
		args = append(args, arg)
	}
	return ast.NewCall(callee, args), nil
}

// optionalList reads a list field; an absent or null field is empty.
func optionalList(node map[string]any, field string) ([]any, error) {
	raw, present := node[field]
	if !present || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("field %q must be a list, got %T", field, raw)
	}
	return list, nil
}

func requireString(node map[string]any, field string) (string, error) {
	val, ok := node[field].(string)
	if !ok || val == "" {
		return "", fmt.Errorf("%v: field %q must be a non-empty string", node["type"], field)
	}
	return val, nil
}

func decodeTypeName(node map[string]any, field string, optional bool) (ast.TypeName, error) {
	raw, present := node[field]
	if !present || raw == nil {
		if optional {
			return "", nil
		}
		return "", fmt.Errorf("field %q is required", field)
	}
	text, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("field %q must be a type name, got %T", field, raw)
	}
	name := ast.TypeName(text)
	if !name.Valid() {
		return "", fmt.Errorf("unknown type name %q", text)
	}
	return name, nil
}

func numericText(raw any) (string, error) {
	switch v := raw.(type) {
	case json.Number:
		return v.String(), nil
	case string:
		return v, nil
	default:
		return "", fmt.Errorf("expected a number, got %T", raw)
	}
}
