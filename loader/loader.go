// Package loader turns the JSON-like AST wire format (§6 of the spec) into
// an ast.File. Deep ASTs are expected, so conversion runs off an explicit
// work queue rather than host recursion: each job builds exactly one node
// and schedules its children as further jobs, wiring each child back into
// its already-allocated parent once built.
package loader

import (
	"bytes"
	"encoding/json"
	"strings"

	"rinha/ast"
	"rinha/rerr"
)

// raw is the generic shape encoding/json produces for arbitrary JSON: maps,
// slices, json.Number, strings, bools, or nil.
type raw = any

// job is one pending conversion step: take the raw JSON value for a node
// and, once built, hand the resulting ast.Term to assign. For the root job,
// assign stores the term as the File's expression.
type job struct {
	value  raw
	assign func(ast.Term)
}

// Load decodes data as the spec's JSON AST format and returns the
// resulting File.
func Load(data []byte, filename string) (*ast.File, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var root map[string]any
	if err := dec.Decode(&root); err != nil {
		return nil, rerr.New(rerr.MalformedAST, rerr.Location{Filename: filename}, "invalid JSON: %v", err)
	}
	return fromRoot(root, filename)
}

func fromRoot(root map[string]any, filename string) (*ast.File, error) {
	name, _ := root["name"].(string)
	loc, err := locationOf(root, filename)
	if err != nil {
		return nil, err
	}
	file := &ast.File{Location: loc, Name: name}

	exprRaw, ok := root["expression"]
	if !ok {
		return nil, rerr.New(rerr.MalformedAST, toRerrLoc(loc), "root object missing 'expression'")
	}

	queue := []job{{value: exprRaw, assign: func(t ast.Term) { file.Expression = t }}}
	for len(queue) > 0 {
		j := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		term, children, err := build(j.value, filename)
		if err != nil {
			return nil, err
		}
		j.assign(term)
		queue = append(queue, children...)
	}
	return file, nil
}

// build constructs exactly one node (allocating zero-valued Term fields
// where applicable) and returns the jobs needed to fill those fields in.
func build(v raw, filename string) (ast.Term, []job, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, nil, rerr.New(rerr.MalformedAST, rerr.Location{Filename: filename}, "expected an AST node object, got %T", v)
	}
	loc, err := locationOf(obj, filename)
	if err != nil {
		return nil, nil, err
	}
	kindRaw, _ := obj["kind"].(string)
	kind := strings.ToLower(kindRaw)

	switch kind {
	case "int":
		n, err := intField(obj, "value", loc)
		if err != nil {
			return nil, nil, err
		}
		return ast.NewInt(loc, n), nil, nil

	case "str":
		s, _ := obj["value"].(string)
		return ast.NewStr(loc, s), nil, nil

	case "bool":
		b, _ := obj["value"].(bool)
		return ast.NewBool(loc, b), nil, nil

	case "var":
		text, _ := obj["text"].(string)
		return ast.NewVar(loc, text), nil, nil

	case "tuple":
		node := ast.NewTuple(loc)
		jobs := []job{
			{value: obj["first"], assign: func(t ast.Term) { node.First = t }},
			{value: obj["second"], assign: func(t ast.Term) { node.Second = t }},
		}
		return node, jobs, nil

	case "first":
		node := ast.NewFirst(loc)
		jobs := []job{{value: obj["value"], assign: func(t ast.Term) { node.Value = t }}}
		return node, jobs, nil

	case "second":
		node := ast.NewSecond(loc)
		jobs := []job{{value: obj["value"], assign: func(t ast.Term) { node.Value = t }}}
		return node, jobs, nil

	case "print":
		node := ast.NewPrint(loc)
		jobs := []job{{value: obj["value"], assign: func(t ast.Term) { node.Value = t }}}
		return node, jobs, nil

	case "if":
		node := ast.NewIf(loc)
		jobs := []job{
			{value: obj["condition"], assign: func(t ast.Term) { node.Condition = t }},
			{value: obj["then"], assign: func(t ast.Term) { node.Then = t }},
			{value: obj["otherwise"], assign: func(t ast.Term) { node.Otherwise = t }},
		}
		return node, jobs, nil

	case "binary":
		opRaw, _ := obj["op"].(string)
		op, err := binaryOpOf(opRaw, loc)
		if err != nil {
			return nil, nil, err
		}
		node := ast.NewBinary(loc, op)
		jobs := []job{
			{value: obj["lhs"], assign: func(t ast.Term) { node.Lhs = t }},
			{value: obj["rhs"], assign: func(t ast.Term) { node.Rhs = t }},
		}
		return node, jobs, nil

	case "let":
		nameObj, _ := obj["name"].(map[string]any)
		param, err := parameterOf(nameObj, filename)
		if err != nil {
			return nil, nil, err
		}
		node := ast.NewLet(loc, param)
		jobs := []job{
			{value: obj["value"], assign: func(t ast.Term) { node.Value = t }},
			{value: obj["next"], assign: func(t ast.Term) { node.Next = t }},
		}
		return node, jobs, nil

	case "function":
		paramsRaw, _ := obj["parameters"].([]any)
		params := make([]ast.Parameter, len(paramsRaw))
		for i, p := range paramsRaw {
			pObj, _ := p.(map[string]any)
			param, err := parameterOf(pObj, filename)
			if err != nil {
				return nil, nil, err
			}
			params[i] = param
		}
		node := ast.NewFunction(loc, params)
		jobs := []job{{value: obj["value"], assign: func(t ast.Term) { node.Body = t }}}
		return node, jobs, nil

	case "call":
		argsRaw, _ := obj["arguments"].([]any)
		node := ast.NewCall(loc, len(argsRaw))
		jobs := make([]job, 0, len(argsRaw)+1)
		jobs = append(jobs, job{value: obj["callee"], assign: func(t ast.Term) { node.Callee = t }})
		for i, argRaw := range argsRaw {
			i := i
			jobs = append(jobs, job{value: argRaw, assign: func(t ast.Term) { node.Arguments[i] = t }})
		}
		return node, jobs, nil

	case "":
		return nil, nil, rerr.New(rerr.MalformedAST, toRerrLoc(loc), "node missing 'kind'")

	default:
		return nil, nil, rerr.New(rerr.MalformedAST, toRerrLoc(loc), "unknown node kind '%s'", kindRaw)
	}
}

func parameterOf(obj map[string]any, filename string) (ast.Parameter, error) {
	if obj == nil {
		return ast.Parameter{}, rerr.New(rerr.MalformedAST, rerr.Location{Filename: filename}, "missing parameter object")
	}
	loc, err := locationOf(obj, filename)
	if err != nil {
		return ast.Parameter{}, err
	}
	text, _ := obj["text"].(string)
	return ast.Parameter{Location: loc, Text: text}, nil
}

func locationOf(obj map[string]any, filename string) (ast.Location, error) {
	locRaw, ok := obj["location"].(map[string]any)
	if !ok {
		return ast.Location{Filename: filename}, nil
	}
	start, _ := numberField(locRaw, "start")
	end, _ := numberField(locRaw, "end")
	name, _ := locRaw["filename"].(string)
	if name == "" {
		name = filename
	}
	if end < start {
		bad := ast.Location{Filename: name, Start: int(start), End: int(end)}
		return ast.Location{}, rerr.New(rerr.MalformedAST, toRerrLoc(bad), "location end (%d) precedes start (%d)", end, start)
	}
	return ast.Location{Filename: name, Start: int(start), End: int(end)}, nil
}

func numberField(obj map[string]any, key string) (int64, bool) {
	switch v := obj[key].(type) {
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return n, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

func intField(obj map[string]any, key string, loc ast.Location) (int64, error) {
	n, ok := numberField(obj, key)
	if !ok {
		return 0, rerr.New(rerr.MalformedAST, toRerrLoc(loc), "missing or non-numeric field '%s'", key)
	}
	return n, nil
}

var binaryOpNames = map[string]ast.BinaryOp{
	"add": ast.Add, "sub": ast.Sub, "mul": ast.Mul, "div": ast.Div, "rem": ast.Rem,
	"eq": ast.Eq, "neq": ast.Neq, "lt": ast.Lt, "gt": ast.Gt, "lte": ast.Lte, "gte": ast.Gte,
	"and": ast.And, "or": ast.Or,
}

func binaryOpOf(name string, loc ast.Location) (ast.BinaryOp, error) {
	op, ok := binaryOpNames[strings.ToLower(name)]
	if !ok {
		return 0, rerr.New(rerr.MalformedAST, toRerrLoc(loc), "unknown binary operator '%s'", name)
	}
	return op, nil
}

func toRerrLoc(loc ast.Location) rerr.Location {
	return rerr.Location{Filename: loc.Filename, Start: loc.Start, End: loc.End}
}

