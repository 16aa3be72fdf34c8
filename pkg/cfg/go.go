package cfg

import (
	"fmt"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
)

// builder accumulates blocks and edges while walking a function body.
type builder struct {
	src    []byte
	blocks []*Block
	edges  []Edge
	exit   *Block

	// Innermost enclosing loop, for break/continue targets.
	loops []loopCtx
}

type loopCtx struct {
	header string
	after  string
}

// ExtractGo parses a Go source file and extracts the control flow graph
// of the named function or method.
func ExtractGo(path, function string) (*FuncCFG, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	cfg, err := ExtractGoSource(src, function)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ExtractGoSource extracts the control flow graph of the named function
// from Go source text.
func ExtractGoSource(src []byte, function string) (*FuncCFG, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(golang.GetLanguage())
	tree := parser.Parse(nil, src)
	defer tree.Close()

	fn := findFunction(tree.RootNode(), src, function)
	if fn == nil {
		return nil, fmt.Errorf("%w: %q", ErrFunctionNotFound, function)
	}
	body := childOfType(fn, "block")
	if body == nil {
		return nil, fmt.Errorf("%w: %q has no body", ErrFunctionNotFound, function)
	}

	b := &builder{src: src}
	entry := b.newBlock(BlockEntry, fn)
	b.exit = b.newBlock(BlockExit, fn)
	b.exit.StartLine = int(fn.EndPoint().Row) + 1
	b.exit.EndLine = b.exit.StartLine

	last := b.walkBlock(body, entry)
	if last != nil {
		b.addEdge(last.ID, b.exit.ID, EdgeFallthrough)
	}
	b.prune(entry.ID)

	out := &FuncCFG{Function: function, Entry: entry.ID, Exit: b.exit.ID}
	for _, blk := range b.blocks {
		out.Blocks = append(out.Blocks, *blk)
	}
	out.Edges = b.edges
	return out, nil
}

func findFunction(node *sitter.Node, src []byte, name string) *sitter.Node {
	if node == nil {
		return nil
	}
	switch node.Type() {
	case "function_declaration":
		if id := childOfType(node, "identifier"); id != nil && text(id, src) == name {
			return node
		}
	case "method_declaration":
		if id := childOfType(node, "field_identifier"); id != nil && text(id, src) == name {
			return node
		}
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if found := findFunction(node.Child(i), src, name); found != nil {
			return found
		}
	}
	return nil
}

func childOfType(node *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(node.ChildCount()); i++ {
		if c := node.Child(i); c != nil && c.Type() == typ {
			return c
		}
	}
	return nil
}

func text(node *sitter.Node, src []byte) string {
	if node == nil {
		return ""
	}
	start, end := node.StartByte(), node.EndByte()
	if int(end) > len(src) {
		return ""
	}
	return string(src[start:end])
}

func (b *builder) newBlock(kind BlockKind, at *sitter.Node) *Block {
	blk := &Block{
		ID:   fmt.Sprintf("b%d", len(b.blocks)),
		Kind: kind,
	}
	if at != nil {
		blk.StartLine = int(at.StartPoint().Row) + 1
		blk.EndLine = blk.StartLine
	}
	b.blocks = append(b.blocks, blk)
	return blk
}

func (b *builder) addEdge(from, to string, kind EdgeKind) {
	b.edges = append(b.edges, Edge{From: from, To: to, Kind: kind})
}

func (b *builder) record(blk *Block, node *sitter.Node) {
	if node == nil || node.Type() == "comment" {
		return
	}
	stmt := strings.TrimSpace(text(node, b.src))
	if i := strings.IndexByte(stmt, '\n'); i >= 0 {
		stmt = stmt[:i] + " ..."
	}
	if stmt == "" {
		return
	}
	blk.Statements = append(blk.Statements, stmt)
	blk.EndLine = int(node.EndPoint().Row) + 1
}

// walkBlock lowers the statements of a block node starting in cur.
// It returns the block control falls out of, or nil when every path
// terminated (return, break, continue).
func (b *builder) walkBlock(node *sitter.Node, cur *Block) *Block {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil || !child.IsNamed() {
			continue
		}
		if cur == nil {
			// Unreachable code after a terminator; pruned later.
			cur = b.newBlock(BlockPlain, child)
		}
		switch child.Type() {
		case "if_statement":
			cur = b.walkIf(child, cur)
		case "for_statement":
			cur = b.walkFor(child, cur)
		case "expression_switch_statement", "type_switch_statement", "select_statement":
			cur = b.walkSwitch(child, cur)
		case "return_statement":
			b.record(cur, child)
			b.addEdge(cur.ID, b.exit.ID, EdgeReturn)
			cur = nil
		case "break_statement":
			b.record(cur, child)
			if n := len(b.loops); n > 0 {
				b.addEdge(cur.ID, b.loops[n-1].after, EdgeBreak)
			} else {
				b.addEdge(cur.ID, b.exit.ID, EdgeBreak)
			}
			cur = nil
		case "continue_statement":
			b.record(cur, child)
			if n := len(b.loops); n > 0 {
				b.addEdge(cur.ID, b.loops[n-1].header, EdgeContinue)
			} else {
				b.addEdge(cur.ID, b.exit.ID, EdgeContinue)
			}
			cur = nil
		case "block":
			cur = b.walkBlock(child, cur)
		default:
			b.record(cur, child)
		}
	}
	return cur
}

func (b *builder) walkIf(node *sitter.Node, cur *Block) *Block {
	cond := b.newBlock(BlockBranch, node)
	condText := "if " + text(node.ChildByFieldName("condition"), b.src)
	if init := node.ChildByFieldName("initializer"); init != nil {
		condText = "if " + text(init, b.src) + "; " + text(node.ChildByFieldName("condition"), b.src)
	}
	cond.Statements = append(cond.Statements, condText)
	b.addEdge(cur.ID, cond.ID, EdgeFallthrough)

	join := b.newBlock(BlockPlain, node)
	joined := false

	thenBlk := b.newBlock(BlockPlain, node.ChildByFieldName("consequence"))
	b.addEdge(cond.ID, thenBlk.ID, EdgeTrue)
	if end := b.walkBlock(node.ChildByFieldName("consequence"), thenBlk); end != nil {
		b.addEdge(end.ID, join.ID, EdgeFallthrough)
		joined = true
	}

	if alt := node.ChildByFieldName("alternative"); alt != nil {
		elseBlk := b.newBlock(BlockPlain, alt)
		b.addEdge(cond.ID, elseBlk.ID, EdgeFalse)
		var end *Block
		if alt.Type() == "if_statement" {
			end = b.walkIf(alt, elseBlk)
		} else {
			end = b.walkBlock(alt, elseBlk)
		}
		if end != nil {
			b.addEdge(end.ID, join.ID, EdgeFallthrough)
			joined = true
		}
	} else {
		b.addEdge(cond.ID, join.ID, EdgeFalse)
		joined = true
	}

	if !joined {
		return nil
	}
	return join
}

func (b *builder) walkFor(node *sitter.Node, cur *Block) *Block {
	header := b.newBlock(BlockLoop, node)

	// The loop header is a for_clause, a range_clause, a bare condition
	// expression, or nothing (`for {}`).
	var clause *sitter.Node
	for i := 0; i < int(node.ChildCount()); i++ {
		c := node.Child(i)
		if c != nil && c.IsNamed() && c.Type() != "block" {
			clause = c
			break
		}
	}
	headText := "for"
	conditional := false
	if clause != nil {
		headText = "for " + text(clause, b.src)
		if clause.Type() == "for_clause" {
			conditional = clause.ChildByFieldName("condition") != nil
		} else {
			conditional = true
		}
	}
	header.Statements = append(header.Statements, headText)
	b.addEdge(cur.ID, header.ID, EdgeFallthrough)

	after := b.newBlock(BlockPlain, node)
	if conditional {
		b.addEdge(header.ID, after.ID, EdgeFalse)
	}

	body := childOfType(node, "block")
	bodyBlk := b.newBlock(BlockPlain, body)
	b.addEdge(header.ID, bodyBlk.ID, EdgeTrue)

	b.loops = append(b.loops, loopCtx{header: header.ID, after: after.ID})
	end := b.walkBlock(body, bodyBlk)
	b.loops = b.loops[:len(b.loops)-1]

	if end != nil {
		b.addEdge(end.ID, header.ID, EdgeLoopBack)
	}
	return after
}

func (b *builder) walkSwitch(node *sitter.Node, cur *Block) *Block {
	head := b.newBlock(BlockBranch, node)
	kw := "switch"
	if node.Type() == "select_statement" {
		kw = "select"
	}
	head.Statements = append(head.Statements, kw)
	b.addEdge(cur.ID, head.ID, EdgeFallthrough)

	join := b.newBlock(BlockPlain, node)
	joined := false
	hasDefault := false

	for i := 0; i < int(node.ChildCount()); i++ {
		clause := node.Child(i)
		if clause == nil {
			continue
		}
		switch clause.Type() {
		case "expression_case", "type_case", "communication_case", "default_case":
		default:
			continue
		}
		if clause.Type() == "default_case" {
			hasDefault = true
		}
		caseBlk := b.newBlock(BlockPlain, clause)
		b.record(caseBlk, clause)
		b.addEdge(head.ID, caseBlk.ID, EdgeFallthrough)
		if end := b.walkClause(clause, caseBlk); end != nil {
			b.addEdge(end.ID, join.ID, EdgeFallthrough)
			joined = true
		}
	}

	// Without a default clause control may skip every case.
	if !hasDefault {
		b.addEdge(head.ID, join.ID, EdgeFallthrough)
		joined = true
	}
	if !joined {
		return nil
	}
	return join
}

// walkClause lowers the statements of a case clause, skipping the case
// expression itself.
func (b *builder) walkClause(clause *sitter.Node, cur *Block) *Block {
	for i := 0; i < int(clause.ChildCount()); i++ {
		child := clause.Child(i)
		if child == nil || !child.IsNamed() {
			continue
		}
		// The case expression itself was recorded on the case block.
		switch child.Type() {
		case "expression_list", "type_list":
			continue
		}
		if cur == nil {
			cur = b.newBlock(BlockPlain, child)
		}
		switch child.Type() {
		case "if_statement":
			cur = b.walkIf(child, cur)
		case "for_statement":
			cur = b.walkFor(child, cur)
		case "return_statement":
			b.record(cur, child)
			b.addEdge(cur.ID, b.exit.ID, EdgeReturn)
			cur = nil
		case "block":
			cur = b.walkBlock(child, cur)
		default:
			b.record(cur, child)
		}
	}
	return cur
}

// prune drops blocks unreachable from the entry together with their
// edges. Dead code after terminators and joins with no predecessors
// disappear here.
func (b *builder) prune(entry string) {
	succ := map[string][]string{}
	for _, e := range b.edges {
		succ[e.From] = append(succ[e.From], e.To)
	}
	// The exit block is part of the function shape even when nothing
	// reaches it (an infinite loop); the analyzer reports that case.
	reached := map[string]bool{entry: true, b.exit.ID: true}
	queue := []string{entry}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, v := range succ[u] {
			if !reached[v] {
				reached[v] = true
				queue = append(queue, v)
			}
		}
	}

	var blocks []*Block
	for _, blk := range b.blocks {
		if reached[blk.ID] {
			blocks = append(blocks, blk)
		}
	}
	b.blocks = blocks

	var edges []Edge
	for _, e := range b.edges {
		if reached[e.From] && reached[e.To] {
			edges = append(edges, e)
		}
	}
	b.edges = edges
}
