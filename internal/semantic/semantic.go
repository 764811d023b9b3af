// Package semantic implements the semantic builder: a single recursive
// traversal of a parsed file that builds its scope tree and symbol
// table, resolving references as it goes and collecting the ones it
// cannot resolve. Uses a dispatch-switch-on-node-type walker, the same
// shape as a tree-sitter AST walk over any grammar.
package semantic

import (
	"strings"

	gast "github.com/grayline/vetjs/internal/ast"
	"github.com/grayline/vetjs/internal/scope"
	"github.com/grayline/vetjs/internal/sourcemap"
	"github.com/grayline/vetjs/internal/symbol"
)

// RefKind classifies how a reference span uses its symbol: a plain read,
// or the target of an assignment (`x = ...` or a compound form like
// `x += ...`, but not `x++`, which the builder tracks separately via
// Model.Updated). Absence from Model.RefKinds means Read, the default for
// every reference the builder did not specifically mark as a write.
type RefKind int

const (
	RefRead RefKind = iota
	RefWrite
)

// Model is the output of building a file's semantic information: its
// scope tree, its symbol table, and the references that never resolved.
type Model struct {
	Scopes      *scope.Tree
	Symbols     *symbol.Table
	HasJSX      bool
	RefKinds    map[sourcemap.Span]RefKind
	Initialized map[symbol.ID]bool
	// Updated marks symbols that are the operand of an increment/decrement
	// update expression somewhere in the file. Kept distinct from RefKinds
	// because update expressions count as reads for Q001/taint but still
	// represent a mutation for rules like prefer-const.
	Updated map[symbol.ID]bool
	// LetKeyword records the span of the `let` token that introduced a
	// DeclLet symbol, for rules that rewrite it to `const`.
	LetKeyword map[symbol.ID]sourcemap.Span
}

type builder struct {
	src         []byte
	scopes      *scope.Tree
	symbols     *symbol.Table
	declared    map[sourcemap.Span]bool
	hasJSX      bool
	refKinds    map[sourcemap.Span]RefKind
	initialized map[symbol.ID]bool
	updated     map[symbol.ID]bool
	letKeyword  map[symbol.ID]sourcemap.Span
	// currentLetSpan is the span of the `let` token for the lexical_declaration
	// currently being walked, consulted by bindingPattern when declaring a
	// DeclLet symbol.
	currentLetSpan sourcemap.Span
}

func spanOf(n gast.Node) sourcemap.Span {
	return sourcemap.Span{Lo: n.StartByte(), Hi: n.EndByte()}
}

// Build runs the semantic builder over a parsed program node.
func Build(root gast.Node, src []byte) *Model {
	tree := scope.New(spanOf(root))
	b := &builder{
		src:      src,
		scopes:   tree,
		symbols:  symbol.NewTable(tree),
		declared:    make(map[sourcemap.Span]bool),
		hasJSX:      root.ContainsType("jsx_element", "jsx_self_closing_element"),
		refKinds:    make(map[sourcemap.Span]RefKind),
		initialized: make(map[symbol.ID]bool),
		updated:     make(map[symbol.ID]bool),
		letKeyword:  make(map[symbol.ID]sourcemap.Span),
	}
	module := b.scopes.Push(scope.Module, tree.Root(), spanOf(root))
	b.hoistFunctionDecls(root, module)
	for _, c := range root.Children() {
		b.stmt(c, module)
	}
	return &Model{
		Scopes:      b.scopes,
		Symbols:     b.symbols,
		HasJSX:      b.hasJSX,
		RefKinds:    b.refKinds,
		Initialized: b.initialized,
		Updated:     b.updated,
		LetKeyword:  b.letKeyword,
	}
}

// hoistFunctionDecls pre-declares top-level function declarations in scope
// so forward references resolve, matching the two-pass hoisting the
// language itself performs.
func (b *builder) hoistFunctionDecls(body gast.Node, s scope.ID) {
	for _, c := range body.Children() {
		if c.Type() == "function_declaration" || c.Type() == "generator_function_declaration" {
			if name := c.ChildByFieldName("name"); !name.IsZero() {
				b.symbols.Declare(name.Text(), symbol.FunctionSym, symbol.DeclFunction, s, spanOf(c), false)
			}
		}
	}
}

// stmt dispatches one statement/declaration node.
func (b *builder) stmt(n gast.Node, s scope.ID) {
	switch n.Type() {
	case "statement_block":
		child := b.scopes.Push(scope.Block, s, spanOf(n))
		b.hoistFunctionDecls(n, child)
		for _, c := range n.Children() {
			b.stmt(c, child)
		}

	case "function_declaration", "generator_function_declaration":
		b.functionDecl(n, s, true)
	case "function_expression", "generator_function", "method_definition":
		b.functionDecl(n, s, false)
	case "arrow_function":
		b.arrowFunction(n, s)

	case "class_declaration":
		b.classDecl(n, s, true)
	case "class":
		b.classDecl(n, s, false)

	case "lexical_declaration":
		declKind := symbol.DeclLet
		letSpan := sourcemap.Span{Lo: n.StartByte(), Hi: n.StartByte() + 3}
		if strings.HasPrefix(n.Text(), "const") {
			declKind = symbol.DeclConst
		}
		for _, d := range n.Children() {
			if d.Type() == "variable_declarator" {
				if declKind == symbol.DeclLet {
					b.currentLetSpan = letSpan
				}
				b.declarator(d, s, declKind, s)
			}
		}
	case "variable_declaration":
		target := b.scopes.NearestOfKind(s, scope.Global, scope.Module, scope.Function)
		for _, d := range n.Children() {
			if d.Type() == "variable_declarator" {
				b.declarator(d, s, symbol.DeclVar, target)
			}
		}

	case "if_statement":
		if cond := n.ChildByFieldName("condition"); !cond.IsZero() {
			b.expr(cond, s)
		}
		if cons := n.ChildByFieldName("consequence"); !cons.IsZero() {
			b.stmt(cons, s)
		}
		if alt := n.ChildByFieldName("alternative"); !alt.IsZero() {
			b.stmt(alt, s)
		}

	case "for_statement":
		child := b.scopes.Push(scope.For, s, spanOf(n))
		if init := n.ChildByFieldName("initializer"); !init.IsZero() {
			b.stmt(init, child)
		}
		if cond := n.ChildByFieldName("condition"); !cond.IsZero() {
			b.expr(cond, child)
		}
		if upd := n.ChildByFieldName("increment"); !upd.IsZero() {
			b.expr(upd, child)
		}
		if body := n.ChildByFieldName("body"); !body.IsZero() {
			b.stmt(body, child)
		}

	case "for_in_statement":
		child := b.scopes.Push(scope.For, s, spanOf(n))
		left := n.ChildByFieldName("left")
		right := n.ChildByFieldName("right")
		if !left.IsZero() {
			b.forBinding(left, child)
		}
		if !right.IsZero() {
			b.expr(right, child)
		}
		if body := n.ChildByFieldName("body"); !body.IsZero() {
			b.stmt(body, child)
		}

	case "while_statement":
		child := b.scopes.Push(scope.While, s, spanOf(n))
		if cond := n.ChildByFieldName("condition"); !cond.IsZero() {
			b.expr(cond, child)
		}
		if body := n.ChildByFieldName("body"); !body.IsZero() {
			b.stmt(body, child)
		}

	case "do_statement":
		child := b.scopes.Push(scope.While, s, spanOf(n))
		if body := n.ChildByFieldName("body"); !body.IsZero() {
			b.stmt(body, child)
		}
		if cond := n.ChildByFieldName("condition"); !cond.IsZero() {
			b.expr(cond, child)
		}

	case "switch_statement":
		child := b.scopes.Push(scope.Switch, s, spanOf(n))
		if value := n.ChildByFieldName("value"); !value.IsZero() {
			b.expr(value, child)
		}
		if body := n.ChildByFieldName("body"); !body.IsZero() {
			for _, c := range body.Children() {
				b.stmt(c, child)
			}
		}
	case "switch_case", "switch_default":
		for _, c := range n.Children() {
			b.stmt(c, s)
		}

	case "try_statement":
		b.tryStatement(n, s)

	case "return_statement", "throw_statement", "expression_statement":
		for _, c := range n.Children() {
			b.expr(c, s)
		}

	case "import_statement":
		b.importStatement(n, s)

	case "export_statement":
		b.exportStatement(n, s)

	case "interface_declaration":
		if name := n.ChildByFieldName("name"); !name.IsZero() {
			b.symbols.Declare(name.Text(), symbol.TypeAlias, symbol.DeclTypeAlias, s, spanOf(n), false)
		}
		b.visitTypeAnnotations(n, s)
	case "type_alias_declaration":
		if name := n.ChildByFieldName("name"); !name.IsZero() {
			b.symbols.Declare(name.Text(), symbol.TypeAlias, symbol.DeclTypeAlias, s, spanOf(n), false)
		}
		b.visitTypeAnnotations(n, s)
	case "enum_declaration":
		if name := n.ChildByFieldName("name"); !name.IsZero() {
			b.symbols.Declare(name.Text(), symbol.Enum, symbol.DeclEnum, s, spanOf(n), false)
		}

	default:
		for _, c := range n.Children() {
			b.stmt(c, s)
		}
	}
}

func (b *builder) forBinding(n gast.Node, s scope.ID) {
	switch n.Type() {
	case "variable_declaration", "lexical_declaration":
		b.stmt(n, s)
	default:
		b.expr(n, s)
	}
}

func (b *builder) tryStatement(n gast.Node, s scope.ID) {
	body := n.ChildByFieldName("body")
	if !body.IsZero() {
		b.stmt(body, s)
	}
	for _, c := range n.Children() {
		switch c.Type() {
		case "catch_clause":
			cs := b.scopes.Push(scope.Catch, s, spanOf(c))
			if param := c.ChildByFieldName("parameter"); !param.IsZero() {
				b.bindingPattern(param, cs, symbol.DeclParameter, symbol.Parameter, cs, false, true)
			}
			if cbody := c.ChildByFieldName("body"); !cbody.IsZero() {
				b.stmt(cbody, cs)
			}
		case "finally_clause":
			fs := b.scopes.Push(scope.Block, s, spanOf(c))
			for _, fc := range c.Children() {
				b.stmt(fc, fs)
			}
		}
	}
}

func (b *builder) functionDecl(n gast.Node, s scope.ID, declares bool) {
	if declares {
		if name := n.ChildByFieldName("name"); !name.IsZero() {
			b.symbols.Declare(name.Text(), symbol.FunctionSym, symbol.DeclFunction, s, spanOf(n), false)
		}
	}
	fn := b.scopes.Push(scope.Function, s, spanOf(n))
	b.parameters(n, fn)
	b.visitTypeAnnotations(n, fn)
	if body := n.ChildByFieldName("body"); !body.IsZero() {
		b.hoistFunctionDecls(body, fn)
		for _, c := range body.Children() {
			b.stmt(c, fn)
		}
	}
}

func (b *builder) arrowFunction(n gast.Node, s scope.ID) {
	fn := b.scopes.Push(scope.ArrowFunction, s, spanOf(n))
	b.parameters(n, fn)
	if body := n.ChildByFieldName("body"); !body.IsZero() {
		if body.Type() == "statement_block" {
			b.hoistFunctionDecls(body, fn)
			for _, c := range body.Children() {
				b.stmt(c, fn)
			}
		} else {
			b.expr(body, fn)
		}
	}
}

func (b *builder) parameters(n gast.Node, fn scope.ID) {
	params := n.ChildByFieldName("parameters")
	if params.IsZero() {
		return
	}
	for _, p := range params.Children() {
		switch p.Type() {
		case "required_parameter", "optional_parameter":
			pattern := p.ChildByFieldName("pattern")
			exported := false
			for _, mod := range p.Children() {
				if mod.Type() == "accessibility_modifier" {
					exported = true
				}
			}
			if !pattern.IsZero() {
				b.bindingPattern(pattern, fn, symbol.DeclParameter, symbol.Parameter, fn, exported, true)
			}
			b.visitTypeAnnotations(p, fn)
			if def := p.ChildByFieldName("value"); !def.IsZero() {
				b.expr(def, fn)
			}
		default:
			b.bindingPattern(p, fn, symbol.DeclParameter, symbol.Parameter, fn, false, true)
		}
	}
}

func (b *builder) declarator(n gast.Node, refScope scope.ID, declKind symbol.DeclarationKind, declScope scope.ID) {
	name := n.ChildByFieldName("name")
	kind := symbol.Variable
	if declKind == symbol.DeclConst {
		kind = symbol.Constant
	}
	value := n.ChildByFieldName("value")
	if !name.IsZero() {
		b.bindingPattern(name, refScope, declKind, kind, declScope, false, !value.IsZero())
	}
	b.visitTypeAnnotations(n, refScope)
	if !value.IsZero() {
		b.expr(value, refScope)
	}
}

// bindingPattern recurses a destructuring/identifier binding, declaring
// every bound name into declScope. hasInit records whether the enclosing
// declarator had an initializer, used by prefer-const to find candidates.
func (b *builder) bindingPattern(n gast.Node, refScope scope.ID, declKind symbol.DeclarationKind, kind symbol.Kind, declScope scope.ID, exported bool, hasInit bool) {
	switch n.Type() {
	case "identifier":
		id := b.symbols.Declare(n.Text(), kind, declKind, declScope, spanOf(n), exported)
		if hasInit {
			b.initialized[id] = true
		}
		if declKind == symbol.DeclLet {
			b.letKeyword[id] = b.currentLetSpan
		}
	case "array_pattern":
		for _, c := range n.Children() {
			b.bindingPattern(c, refScope, declKind, kind, declScope, exported, hasInit)
		}
	case "object_pattern":
		for _, c := range n.Children() {
			switch c.Type() {
			case "pair_pattern":
				if value := c.ChildByFieldName("value"); !value.IsZero() {
					b.bindingPattern(value, refScope, declKind, kind, declScope, exported, hasInit)
				}
			case "shorthand_property_identifier_pattern":
				id := b.symbols.Declare(c.Text(), kind, declKind, declScope, spanOf(c), exported)
				if hasInit {
					b.initialized[id] = true
				}
				if declKind == symbol.DeclLet {
					b.letKeyword[id] = b.currentLetSpan
				}
			default:
				b.bindingPattern(c, refScope, declKind, kind, declScope, exported, hasInit)
			}
		}
	case "rest_pattern":
		for _, c := range n.Children() {
			b.bindingPattern(c, refScope, declKind, kind, declScope, exported, hasInit)
		}
	case "assignment_pattern":
		if left := n.ChildByFieldName("left"); !left.IsZero() {
			b.bindingPattern(left, refScope, declKind, kind, declScope, exported, true)
		}
		if right := n.ChildByFieldName("right"); !right.IsZero() {
			b.expr(right, refScope)
		}
	default:
		for _, c := range n.Children() {
			b.bindingPattern(c, refScope, declKind, kind, declScope, exported, hasInit)
		}
	}
}

func (b *builder) classDecl(n gast.Node, s scope.ID, declares bool) {
	if declares {
		if name := n.ChildByFieldName("name"); !name.IsZero() {
			b.symbols.Declare(name.Text(), symbol.ClassSym, symbol.DeclClass, s, spanOf(n), false)
		}
	}
	cs := b.scopes.Push(scope.Class, s, spanOf(n))
	if heritage := n.ChildByFieldName("heritage"); !heritage.IsZero() {
		b.expr(heritage, s)
	}
	body := n.ChildByFieldName("body")
	if body.IsZero() {
		return
	}
	for _, member := range body.Children() {
		switch member.Type() {
		case "method_definition":
			b.functionDecl(member, cs, false)
		case "public_field_definition", "field_definition":
			b.visitTypeAnnotations(member, cs)
			if value := member.ChildByFieldName("value"); !value.IsZero() {
				b.expr(value, cs)
			}
		default:
			b.stmt(member, cs)
		}
	}
}

func (b *builder) importStatement(n gast.Node, s scope.ID) {
	for _, c := range n.Children() {
		switch c.Type() {
		case "import_clause":
			b.importClause(c, s)
		case "namespace_import":
			if id, ok := c.FindFirst("identifier"); ok {
				b.symbols.Declare(id.Text(), symbol.Import, symbol.DeclImport, s, spanOf(c), false)
			}
		}
	}
}

func (b *builder) importClause(n gast.Node, s scope.ID) {
	for _, c := range n.Children() {
		switch c.Type() {
		case "identifier":
			b.symbols.Declare(c.Text(), symbol.Import, symbol.DeclImport, s, spanOf(c), false)
		case "namespace_import":
			if id, ok := c.FindFirst("identifier"); ok {
				b.symbols.Declare(id.Text(), symbol.Import, symbol.DeclImport, s, spanOf(c), false)
			}
		case "named_imports":
			for _, spec := range c.Children() {
				if spec.Type() != "import_specifier" {
					continue
				}
				local := spec.ChildByFieldName("alias")
				if local.IsZero() {
					local = spec.ChildByFieldName("name")
				}
				if !local.IsZero() {
					b.symbols.Declare(local.Text(), symbol.Import, symbol.DeclImport, s, spanOf(spec), false)
				}
			}
		}
	}
}

func (b *builder) exportStatement(n gast.Node, s scope.ID) {
	for _, c := range n.Children() {
		switch c.Type() {
		case "export_clause":
			for _, spec := range c.Children() {
				if spec.Type() != "export_specifier" {
					continue
				}
				name := spec.ChildByFieldName("name")
				if !name.IsZero() {
					if id, ok := b.symbols.Lookup(name.Text(), s); ok {
						b.symbols.Get(id).Exported = true
					}
				}
			}
		default:
			b.markExportedDecl(c, s)
			b.stmt(c, s)
		}
	}
}

func (b *builder) markExportedDecl(n gast.Node, s scope.ID) {
	var name gast.Node
	switch n.Type() {
	case "function_declaration", "generator_function_declaration", "class_declaration", "interface_declaration", "type_alias_declaration", "enum_declaration":
		name = n.ChildByFieldName("name")
	case "lexical_declaration", "variable_declaration":
		for _, d := range n.Children() {
			if d.Type() == "variable_declarator" {
				if nm := d.ChildByFieldName("name"); nm.Type() == "identifier" {
					name = nm
				}
			}
		}
	}
	if name.IsZero() {
		return
	}
	if id, ok := b.symbols.Lookup(name.Text(), s); ok {
		b.symbols.Get(id).Exported = true
	}
}

// visitTypeAnnotations recursively visits type references so generic
// constraints, parameter types, return types, and `as`/`satisfies`
// expressions all record references against type-alias/class symbols.
func (b *builder) visitTypeAnnotations(n gast.Node, s scope.ID) {
	for _, c := range n.Children() {
		switch c.Type() {
		case "type_annotation", "type_arguments", "type_parameters", "constraint", "as_expression", "satisfies_expression":
			b.visitTypeAnnotations(c, s)
			for _, gc := range c.Children() {
				b.visitTypeRef(gc, s)
			}
		case "predefined_type", "literal_type":
			// built-in, no symbol to resolve
		default:
			b.visitTypeAnnotations(c, s)
		}
	}
}

func (b *builder) visitTypeRef(n gast.Node, s scope.ID) {
	switch n.Type() {
	case "type_identifier":
		b.symbols.AddReference(n.Text(), spanOf(n), s)
	default:
		for _, c := range n.Children() {
			b.visitTypeRef(c, s)
		}
	}
}

// expr walks an expression for references, recursing into scope-introducing
// subexpressions (functions, classes) via stmt.
func (b *builder) expr(n gast.Node, s scope.ID) {
	switch n.Type() {
	case "identifier":
		b.symbols.AddReference(n.Text(), spanOf(n), s)

	case "assignment_expression", "augmented_assignment_expression":
		left := n.ChildByFieldName("left")
		right := n.ChildByFieldName("right")
		if !right.IsZero() {
			b.expr(right, s)
		}
		if left.Type() == "identifier" {
			b.symbols.AddReference(left.Text(), spanOf(left), s)
			// Both node types only ever carry a mutating operator (plain
			// `=` for assignment_expression, `+=`/`-=`/etc. for
			// augmented_assignment_expression), so the left-hand identifier
			// is always a write, never a plain read.
			b.refKinds[spanOf(left)] = RefWrite
		} else if !left.IsZero() {
			b.expr(left, s)
		}

	case "function_expression", "generator_function", "arrow_function", "class", "method_definition":
		b.stmt(n, s)

	case "jsx_element", "jsx_self_closing_element", "jsx_fragment":
		b.jsx(n, s)

	case "type_assertion":
		for _, c := range n.Children() {
			b.visitTypeRef(c, s)
			b.expr(c, s)
		}

	case "unary_expression":
		if n.Text() != "" && len(n.Children()) > 0 && n.Children()[0].Type() == "identifier" {
			if strings.HasPrefix(n.Text(), "typeof") {
				b.visitTypeRef(n.Children()[0], s)
			}
		}
		for _, c := range n.Children() {
			b.expr(c, s)
		}

	case "update_expression":
		// x++ / x-- / ++x / --x: counts as a Read for Q001/taint purposes
		// (spec decision), but still mutates the binding, so it is recorded
		// separately in Updated for rules like prefer-const that care about
		// reassignment regardless of read/write classification.
		for _, c := range n.Children() {
			if c.Type() == "identifier" {
				b.symbols.AddReference(c.Text(), spanOf(c), s)
				if id, ok := b.symbols.Lookup(c.Text(), s); ok {
					b.updated[id] = true
				}
			} else {
				b.expr(c, s)
			}
		}

	default:
		for _, c := range n.Children() {
			b.expr(c, s)
		}
	}
}

func (b *builder) jsx(n gast.Node, s scope.ID) {
	b.hasJSX = true
	switch n.Type() {
	case "jsx_element":
		if open := n.ChildByFieldName("open_tag"); !open.IsZero() {
			b.jsxOpeningOrSelfClosing(open, s)
		}
		for _, c := range n.Children() {
			if c.Type() != "jsx_opening_element" && c.Type() != "jsx_closing_element" {
				b.jsxChild(c, s)
			}
		}
	case "jsx_self_closing_element":
		b.jsxOpeningOrSelfClosing(n, s)
	case "jsx_fragment":
		for _, c := range n.Children() {
			b.jsxChild(c, s)
		}
	}
}

func (b *builder) jsxOpeningOrSelfClosing(n gast.Node, s scope.ID) {
	name := n.ChildByFieldName("name")
	if !name.IsZero() {
		text := name.Text()
		if text != "" && (text[0] >= 'A' && text[0] <= 'Z' || strings.Contains(text, ".")) {
			head := text
			if idx := strings.Index(head, "."); idx >= 0 {
				head = head[:idx]
			}
			b.symbols.AddReference(head, spanOf(name), s)
		}
	}
	for _, c := range n.Children() {
		if c.Type() == "jsx_attribute" {
			if value := c.ChildByFieldName("value"); !value.IsZero() {
				b.jsxChild(value, s)
			}
		}
	}
}

func (b *builder) jsxChild(n gast.Node, s scope.ID) {
	switch n.Type() {
	case "jsx_expression":
		for _, c := range n.Children() {
			b.expr(c, s)
		}
	case "jsx_element", "jsx_self_closing_element", "jsx_fragment":
		b.jsx(n, s)
	default:
		for _, c := range n.Children() {
			b.jsxChild(c, s)
		}
	}
}
