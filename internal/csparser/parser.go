// Package csparser turns C# source text into the class and method declarations the analyzer needs.
package csparser

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"
)

// Tree holds the declarations extracted from one source file
type Tree struct {
	Classes   []ClassNode
	HasErrors bool
}

// ClassNode is a class declaration with the pieces of it the analyzer reads
type ClassNode struct {
	Name            string
	Attributes      []Attribute
	LeadingComments []string
	Methods         []MethodNode
}

// Attribute is a single attribute applied to a declaration
type Attribute struct {
	Name          string
	FirstArgument string
	HasArgument   bool
}

// MethodNode is a method declaration found inside a class
type MethodNode struct {
	ReturnType      string
	Name            string
	Parameters      []string
	LeadingComments []string
	Body            string
	HasBody         bool
}

// Parser parses C# source using tree-sitter. A Parser is not safe for concurrent use.
type Parser struct {
	parser *sitter.Parser
}

// NewParser creates a new C# parser
func NewParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(csharp.GetLanguage())
	return &Parser{parser: p}
}

// Close releases the underlying tree-sitter parser
func (p *Parser) Close() {
	p.parser.Close()
}

// Parse parses source and extracts every class declaration in document order
func (p *Parser) Parse(ctx context.Context, source []byte) (*Tree, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse source: %w", err)
	}
	if tree == nil {
		return nil, fmt.Errorf("parse source: no syntax tree produced")
	}
	defer tree.Close()

	root := tree.RootNode()
	result := &Tree{HasErrors: root.HasError()}

	walk(root, func(node *sitter.Node) bool {
		if node.Type() == "class_declaration" {
			result.Classes = append(result.Classes, extractClass(node, source))
		}
		return true
	})

	return result, nil
}

// walk visits named nodes in pre-order; returning false skips the node's children
func walk(node *sitter.Node, visit func(*sitter.Node) bool) {
	if node == nil || !visit(node) {
		return
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		walk(node.NamedChild(i), visit)
	}
}

// extractClass builds a ClassNode from a class_declaration node
func extractClass(node *sitter.Node, source []byte) ClassNode {
	class := ClassNode{
		Name:            identifierText(node.ChildByFieldName("name"), source),
		Attributes:      extractAttributes(node, source),
		LeadingComments: leadingComments(node, source),
	}

	// Methods of nested classes belong to the outer class as well
	for i := 0; i < int(node.NamedChildCount()); i++ {
		walk(node.NamedChild(i), func(child *sitter.Node) bool {
			if child.Type() == "method_declaration" {
				class.Methods = append(class.Methods, extractMethod(child, source))
				return false
			}
			return true
		})
	}

	return class
}

// extractAttributes returns the attributes of all attribute lists attached to node
func extractAttributes(node *sitter.Node, source []byte) []Attribute {
	var attributes []Attribute

	for i := 0; i < int(node.NamedChildCount()); i++ {
		list := node.NamedChild(i)
		if list.Type() != "attribute_list" {
			continue
		}
		for j := 0; j < int(list.NamedChildCount()); j++ {
			attr := list.NamedChild(j)
			if attr.Type() != "attribute" {
				continue
			}

			nameNode := attr.ChildByFieldName("name")
			if nameNode == nil && attr.NamedChildCount() > 0 {
				nameNode = attr.NamedChild(0)
			}
			attribute := Attribute{Name: nodeText(nameNode, source)}

			if args := findChildByType(attr, "attribute_argument_list"); args != nil {
				if arg := findChildByType(args, "attribute_argument"); arg != nil {
					if expr := argumentExpression(arg); expr != nil {
						attribute.FirstArgument = nodeText(expr, source)
						attribute.HasArgument = true
					}
				}
			}

			attributes = append(attributes, attribute)
		}
	}

	return attributes
}

// argumentExpression returns the value of an attribute argument, skipping the
// optional "Name =" or "name:" prefix
func argumentExpression(arg *sitter.Node) *sitter.Node {
	// "name: value" keeps the separator as an anonymous child of the argument
	for i := 0; i < int(arg.ChildCount()); i++ {
		child := arg.Child(i)
		if child.IsNamed() || (child.Type() != ":" && child.Type() != "=") {
			continue
		}
		for j := i + 1; j < int(arg.ChildCount()); j++ {
			if next := arg.Child(j); next.IsNamed() && next.Type() != "comment" {
				return next
			}
		}
		return nil
	}

	for i := 0; i < int(arg.NamedChildCount()); i++ {
		child := arg.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		// "Name = value" parses as an assignment
		if child.Type() == "assignment_expression" {
			if right := child.ChildByFieldName("right"); right != nil {
				return right
			}
		}
		return child
	}
	return nil
}

// extractMethod builds a MethodNode from a method_declaration node
func extractMethod(node *sitter.Node, source []byte) MethodNode {
	typeNode := node.ChildByFieldName("returns")
	if typeNode == nil {
		typeNode = node.ChildByFieldName("type")
	}

	method := MethodNode{
		ReturnType:      nodeText(typeNode, source),
		Name:            identifierText(node.ChildByFieldName("name"), source),
		LeadingComments: leadingComments(node, source),
	}

	if params := node.ChildByFieldName("parameters"); params != nil {
		method.Parameters = splitParameters(params, source)
	}

	// Expression-bodied and abstract methods have no block
	body := node.ChildByFieldName("body")
	if body == nil || body.Type() != "block" {
		body = findChildByType(node, "block")
	}
	if body != nil {
		method.Body = nodeText(body, source)
		method.HasBody = true
	}

	return method
}

// splitParameters returns the source text of each comma-separated parameter.
// A "params T[] x" parameter is not wrapped in a single node, so the text is
// taken from the first to the last token between commas.
func splitParameters(list *sitter.Node, source []byte) []string {
	var parameters []string
	var first, last *sitter.Node

	flush := func() {
		if first != nil {
			parameters = append(parameters, string(source[first.StartByte():last.EndByte()]))
		}
		first, last = nil, nil
	}

	for i := 0; i < int(list.ChildCount()); i++ {
		child := list.Child(i)
		switch child.Type() {
		case "(", ")", "comment":
			continue
		case ",":
			flush()
			continue
		}
		if first == nil {
			first = child
		}
		last = child
	}
	flush()

	return parameters
}

// leadingComments collects the comments preceding node, in source order.
// Directives such as #region are skipped. A comment that starts on the line
// where the previous declaration ends trails that declaration.
func leadingComments(node *sitter.Node, source []byte) []string {
	var comments []string

	prev := node.PrevSibling()
	for prev != nil {
		if isDirective(prev) {
			prev = prev.PrevSibling()
			continue
		}
		if prev.Type() != "comment" {
			break
		}
		before := prev.PrevSibling()
		if before != nil && before.Type() != "comment" && !isDirective(before) &&
			before.EndPoint().Row == prev.StartPoint().Row {
			break
		}
		comments = append(comments, nodeText(prev, source))
		prev = before
	}

	for i, j := 0, len(comments)-1; i < j; i, j = i+1, j-1 {
		comments[i], comments[j] = comments[j], comments[i]
	}
	return comments
}

// isDirective reports whether node is a preprocessor line that does not wrap declarations
func isDirective(node *sitter.Node) bool {
	switch node.Type() {
	case "preproc_region", "preproc_endregion", "preproc_pragma", "preproc_line",
		"preproc_nullable", "preproc_define", "preproc_undef", "preproc_error":
		return true
	}
	return false
}

// findChildByType returns the first named child of node with the given type
func findChildByType(node *sitter.Node, nodeType string) *sitter.Node {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == nodeType {
			return child
		}
	}
	return nil
}

// identifierText returns an identifier's value, dropping the verbatim '@' prefix
func identifierText(node *sitter.Node, source []byte) string {
	return strings.TrimPrefix(nodeText(node, source), "@")
}

func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return node.Content(source)
}
