package feval

import (
	"bytes"
	"strconv"

	"github.com/iancoleman/strcase"
	"github.com/kr/pretty"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vito/feval/pkg/ast"
	"github.com/vito/feval/pkg/cata"
)

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func str(value string) *yaml.Node {
	return scalar("!!str", value)
}

// mapping builds an ordered mapping from alternating keys and values.
func mapping(pairs ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Content: pairs}
}

func yamlStep(n ast.Node[*yaml.Node, *yaml.Node]) *yaml.Node {
	kind := str(strcase.ToSnake(ast.KindOf[*yaml.Node, *yaml.Node](n)))
	fields := []*yaml.Node{str("kind"), kind}
	field := func(key string, value *yaml.Node) {
		fields = append(fields, str(key), value)
	}

	switch n := n.(type) {
	case ast.Int[*yaml.Node, *yaml.Node]:
		field("value", scalar("!!int", strconv.FormatInt(n.Value, 10)))
	case ast.Bool[*yaml.Node, *yaml.Node]:
		field("value", scalar("!!bool", strconv.FormatBool(n.Value)))
	case ast.Var[*yaml.Node, *yaml.Node]:
		field("name", str(n.Name))
	case ast.BinOp[*yaml.Node, *yaml.Node]:
		field("op", str(strcase.ToSnake(n.Op.String())))
		field("left", n.Left)
		field("right", n.Right)
	case ast.Not[*yaml.Node, *yaml.Node]:
		field("x", n.X)
	case ast.If[*yaml.Node, *yaml.Node]:
		field("cond", n.Cond)
		field("then", n.Then)
		field("else", n.Else)
	case ast.Fn[*yaml.Node, *yaml.Node]:
		field("param", str(n.Param))
		field("body", n.Body)
	case ast.App[*yaml.Node, *yaml.Node]:
		field("fn", n.Fn)
		field("arg", n.Arg)
	case ast.Let[*yaml.Node, *yaml.Node]:
		field("name", str(n.Name))
		field("bound", n.Bound)
		field("body", n.Body)
	case ast.Cons[*yaml.Node, *yaml.Node]:
		field("head", n.Head)
		field("tail", n.Tail)
	case ast.Case[*yaml.Node, *yaml.Node]:
		field("scrutinee", n.Scrutinee)
		field("if_nil", n.IfNil)
		field("head", str(n.Head))
		field("tail", str(n.Tail))
		field("if_cons", n.IfCons)
	}

	return mapping(fields...)
}

// DumpYAML renders e as a YAML document, one mapping per node.
func DumpYAML(e *ast.Expr) ([]byte, error) {
	doc := &yaml.Node{
		Kind:    yaml.DocumentNode,
		Content: []*yaml.Node{cata.Fold(yamlStep, e)},
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, errors.Wrap(err, "encode tree")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "close encoder")
	}
	return buf.Bytes(), nil
}

// DumpPretty renders the Go structure of e.
func DumpPretty(e *ast.Expr) string {
	return pretty.Sprint(e.Unwrap())
}
