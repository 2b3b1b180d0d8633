package parser

import (
	"fmt"
	"go/token"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/slicelab/winnow/ast"
	"github.com/slicelab/winnow/diag"
)

// reservedWords may not be used as variable names.
var reservedWords = map[string]bool{
	"let": true, "new": true, "true": true, "false": true, "null": true,
	"boolean": true, "byte": true, "char": true, "short": true,
	"int": true, "long": true, "float": true, "double": true,
}

var binaryPrec = map[string]int{
	"||": 1,
	"&&": 2,
	"==": 3, "!=": 3,
	"<": 4, "<=": 4, ">": 4, ">=": 4,
	"+": 5, "-": 5,
	"*": 6, "/": 6, "%": 6,
}

var binaryOps = map[string]token.Token{
	"||": token.LOR, "&&": token.LAND,
	"==": token.EQL, "!=": token.NEQ,
	"<": token.LSS, "<=": token.LEQ, ">": token.GTR, ">=": token.GEQ,
	"+": token.ADD, "-": token.SUB,
	"*": token.MUL, "/": token.QUO, "%": token.REM,
}

type parser struct {
	toks     []lexToken
	pos      int
	universe *ast.Universe
	errs     *diag.Errors
}

func (p *parser) cur() lexToken { return p.toks[p.pos] }

func (p *parser) advance() lexToken {
	tok := p.toks[p.pos]
	if tok.kind != tokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) atSymbol(s string) bool {
	tok := p.cur()
	return tok.kind == tokenSymbol && tok.text == s
}

func (p *parser) acceptSymbol(s string) bool {
	if p.atSymbol(s) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expectSymbol(s string) bool {
	if p.acceptSymbol(s) {
		return true
	}
	p.errorAt(p.cur(), fmt.Sprintf("expected '%s', found %s", s, p.cur().describe()))
	return false
}

func (p *parser) atKeyword(s string) bool {
	tok := p.cur()
	return tok.kind == tokenIdent && tok.text == s
}

func (p *parser) expectName(what string) (lexToken, bool) {
	tok := p.cur()
	if tok.kind != tokenIdent {
		p.errorAt(tok, fmt.Sprintf("expected %s, found %s", what, tok.describe()))
		return tok, false
	}
	if reservedWords[tok.text] {
		p.errorAt(tok, fmt.Sprintf("'%s' is a reserved word", tok.text))
		return tok, false
	}
	p.advance()
	return tok, true
}

func (p *parser) errorAt(tok lexToken, msg string) {
	p.errs = p.errs.With(diag.New(diag.NewSyntax{
		Positioner:    tokRange(tok),
		ParserMessage: msg,
	}))
}

// syncToLet skips tokens until the next declaration so one malformed
// declaration does not swallow the rest of the file.
func (p *parser) syncToLet() {
	for p.cur().kind != tokenEOF && !p.atKeyword("let") {
		p.advance()
	}
}

func tokRange(tok lexToken) ast.Range {
	return ast.Range{PosStart: tok.pos, PosEnd: tok.end}
}

func (p *parser) parseFile() *ast.File {
	file := &ast.File{}
	for p.cur().kind != tokenEOF {
		if !p.atKeyword("let") {
			p.errorAt(p.cur(), fmt.Sprintf("expected 'let', found %s", p.cur().describe()))
			p.advance()
			p.syncToLet()
			continue
		}
		decl := p.parseDecl()
		if decl == nil {
			p.syncToLet()
			continue
		}
		file.Decls = append(file.Decls, decl)
	}
	if len(file.Decls) > 0 {
		file.Range = ast.RangeBetween(file.Decls[0], file.Decls[len(file.Decls)-1])
	}
	return file
}

// parseDecl parses `let name [: type] = expr`.
func (p *parser) parseDecl() *ast.VarDecl {
	letTok := p.advance()
	name, ok := p.expectName("a variable name")
	if !ok {
		return nil
	}
	var typeAnn ast.Type
	if p.acceptSymbol(":") {
		typeAnn = p.parseType()
		if typeAnn == nil {
			return nil
		}
	}
	if !p.expectSymbol("=") {
		return nil
	}
	init := p.parseExpr()
	if init == nil {
		return nil
	}
	return &ast.VarDecl{
		Range:   ast.Range{PosStart: letTok.pos, PosEnd: init.End()},
		Name:    name.text,
		TypeAnn: typeAnn,
		Init:    init,
	}
}

// parseType parses a primitive or declared class name followed by any
// number of [] array markers.
func (p *parser) parseType() ast.Type {
	tok := p.cur()
	if tok.kind != tokenIdent {
		p.errorAt(tok, fmt.Sprintf("expected a type name, found %s", tok.describe()))
		return nil
	}
	p.advance()
	var t ast.Type
	if prim, isPrim := ast.PrimitiveByName(tok.text); isPrim {
		t = prim
	} else if class, known := p.universe.Class(tok.text); known {
		t = class
	} else {
		p.errs = p.errs.With(diag.New(diag.NewUnknownType{
			Positioner: tokRange(tok),
			Name:       tok.text,
		}))
		return nil
	}
	for p.atSymbol("[") {
		p.advance()
		if !p.expectSymbol("]") {
			return nil
		}
		t = &ast.ArrayType{Elem: t}
	}
	return t
}

func (p *parser) parseExpr() ast.Expr {
	return p.parseBinary(1)
}

// parseBinary is precedence-climbing over the binaryPrec table. All
// operators associate to the left.
func (p *parser) parseBinary(minPrec int) ast.Expr {
	left := p.parseUnary()
	if left == nil {
		return nil
	}
	for {
		tok := p.cur()
		if tok.kind != tokenSymbol {
			return left
		}
		prec, isOp := binaryPrec[tok.text]
		if !isOp || prec < minPrec {
			return left
		}
		p.advance()
		right := p.parseBinary(prec + 1)
		if right == nil {
			return nil
		}
		left = &ast.BinaryExpr{
			Range:    ast.RangeBetween(left, right),
			Left:     left,
			Operator: binaryOps[tok.text],
			Right:    right,
		}
	}
}

func (p *parser) parseUnary() ast.Expr {
	tok := p.cur()
	if tok.kind == tokenSymbol {
		var op token.Token
		switch tok.text {
		case "-":
			op = token.SUB
		case "+":
			op = token.ADD
		case "!":
			op = token.NOT
		case "~":
			op = token.XOR
		default:
			return p.parsePostfix()
		}
		p.advance()
		operand := p.parseUnary()
		if operand == nil {
			return nil
		}
		return &ast.UnaryExpr{
			Range:    ast.Range{PosStart: tok.pos, PosEnd: operand.End()},
			Operator: op,
			Operand:  operand,
		}
	}
	return p.parsePostfix()
}

// parsePostfix parses member selections and method calls after a primary:
// `x.field`, `x.method(a, b)`, chained.
func (p *parser) parsePostfix() ast.Expr {
	expr := p.parsePrimary()
	if expr == nil {
		return nil
	}
	for p.atSymbol(".") {
		p.advance()
		name, ok := p.expectName("a member name")
		if !ok {
			return nil
		}
		sel := &ast.SelectExpr{
			Range: ast.Range{PosStart: expr.Pos(), PosEnd: name.end},
			X:     expr,
			Sel:   name.text,
		}
		if p.atSymbol("(") {
			args, end, ok := p.parseArgs()
			if !ok {
				return nil
			}
			expr = &ast.CallExpr{
				Range:    ast.Range{PosStart: expr.Pos(), PosEnd: end},
				Function: sel,
				Args:     args,
			}
		} else {
			expr = sel
		}
	}
	return expr
}

// parseArgs parses a parenthesised, comma-separated argument list. The
// caller has checked that the current token is '('.
func (p *parser) parseArgs() ([]ast.Expr, token.Pos, bool) {
	p.advance()
	var args []ast.Expr
	if p.atSymbol(")") {
		closing := p.advance()
		return nil, closing.end, true
	}
	for {
		arg := p.parseExpr()
		if arg == nil {
			return nil, 0, false
		}
		args = append(args, arg)
		if p.acceptSymbol(",") {
			continue
		}
		break
	}
	if !p.atSymbol(")") {
		p.errorAt(p.cur(), fmt.Sprintf("expected ',' or ')', found %s", p.cur().describe()))
		return nil, 0, false
	}
	closing := p.advance()
	return args, closing.end, true
}

func (p *parser) parsePrimary() ast.Expr {
	tok := p.cur()
	switch tok.kind {
	case tokenNumber:
		p.advance()
		return p.numberLiteral(tok)
	case tokenString:
		p.advance()
		return p.stringLiteral(tok)
	case tokenChar:
		p.advance()
		return p.charLiteral(tok)
	case tokenIdent:
		switch tok.text {
		case "true", "false":
			p.advance()
			return &ast.Literal{Range: tokRange(tok), Kind: ast.BoolLit, Text: tok.text, Val: tok.text == "true"}
		case "null":
			p.advance()
			return &ast.Literal{Range: tokRange(tok), Kind: ast.NullLit, Text: "null"}
		case "new":
			return p.parseNew()
		}
		if reservedWords[tok.text] {
			p.errorAt(tok, fmt.Sprintf("unexpected keyword '%s'", tok.text))
			return nil
		}
		p.advance()
		return &ast.Identifier{Range: tokRange(tok), Name: tok.text}
	case tokenSymbol:
		if tok.text == "(" {
			p.advance()
			expr := p.parseExpr()
			if expr == nil {
				return nil
			}
			if !p.expectSymbol(")") {
				return nil
			}
			return expr
		}
	}
	p.errorAt(tok, fmt.Sprintf("expected an expression, found %s", tok.describe()))
	return nil
}

// parseNew parses `new Class(args)`, `new T[len]` and `new T[] {elems}`.
func (p *parser) parseNew() ast.Expr {
	newTok := p.advance()
	nameTok := p.cur()
	if nameTok.kind != tokenIdent {
		p.errorAt(nameTok, fmt.Sprintf("expected a type name after 'new', found %s", nameTok.describe()))
		return nil
	}
	p.advance()
	if prim, isPrim := ast.PrimitiveByName(nameTok.text); isPrim {
		if !p.atSymbol("[") {
			p.errorAt(p.cur(), fmt.Sprintf("expected '[' after '%s', found %s", nameTok.text, p.cur().describe()))
			return nil
		}
		return p.parseNewArray(newTok, prim)
	}
	class, known := p.universe.Class(nameTok.text)
	if !known {
		p.errs = p.errs.With(diag.New(diag.NewUnknownType{
			Positioner: tokRange(nameTok),
			Name:       nameTok.text,
		}))
		return nil
	}
	if p.atSymbol("[") {
		return p.parseNewArray(newTok, class)
	}
	if !p.atSymbol("(") {
		p.errorAt(p.cur(), fmt.Sprintf("expected '(' or '[' after '%s', found %s", nameTok.text, p.cur().describe()))
		return nil
	}
	args, end, ok := p.parseArgs()
	if !ok {
		return nil
	}
	return &ast.NewExpr{
		Range: ast.Range{PosStart: newTok.pos, PosEnd: end},
		Class: class,
		Args:  args,
	}
}

func (p *parser) parseNewArray(newTok lexToken, elem ast.Type) ast.Expr {
	p.advance()
	if p.acceptSymbol("]") {
		if !p.expectSymbol("{") {
			return nil
		}
		var elems []ast.Expr
		if !p.atSymbol("}") {
			for {
				e := p.parseExpr()
				if e == nil {
					return nil
				}
				elems = append(elems, e)
				if p.acceptSymbol(",") {
					continue
				}
				break
			}
		}
		if !p.atSymbol("}") {
			p.errorAt(p.cur(), fmt.Sprintf("expected ',' or '}', found %s", p.cur().describe()))
			return nil
		}
		closing := p.advance()
		return &ast.NewArrayExpr{
			Range: ast.Range{PosStart: newTok.pos, PosEnd: closing.end},
			Elem:  elem,
			Elems: elems,
		}
	}
	length := p.parseExpr()
	if length == nil {
		return nil
	}
	if !p.atSymbol("]") {
		p.errorAt(p.cur(), fmt.Sprintf("expected ']', found %s", p.cur().describe()))
		return nil
	}
	closing := p.advance()
	return &ast.NewArrayExpr{
		Range:  ast.Range{PosStart: newTok.pos, PosEnd: closing.end},
		Elem:   elem,
		Length: length,
	}
}

func (p *parser) numberLiteral(tok lexToken) ast.Expr {
	kind, val, err := decodeNumber(tok.text)
	if err != nil {
		p.errorAt(tok, fmt.Sprintf("malformed number literal %s", tok.text))
		return nil
	}
	return &ast.Literal{Range: tokRange(tok), Kind: kind, Text: tok.text, Val: val}
}

// decodeNumber classifies a numeric literal by its shape and suffix and
// decodes its value: int64 for the integral kinds, float64 for float and
// double. Underscores are digit separators.
func decodeNumber(text string) (ast.LitKind, any, error) {
	clean := strings.ReplaceAll(text, "_", "")
	isHex := strings.HasPrefix(clean, "0x") || strings.HasPrefix(clean, "0X")

	kind := ast.IntLit
	switch last := clean[len(clean)-1]; {
	case last == 'l' || last == 'L':
		kind = ast.LongLit
		clean = clean[:len(clean)-1]
	case !isHex && (last == 'f' || last == 'F'):
		kind = ast.FloatLit
		clean = clean[:len(clean)-1]
	case !isHex && (last == 'd' || last == 'D'):
		kind = ast.DoubleLit
		clean = clean[:len(clean)-1]
	}
	if kind == ast.IntLit && !isHex && strings.ContainsAny(clean, ".eE") {
		kind = ast.DoubleLit
	}

	if kind == ast.FloatLit || kind == ast.DoubleLit {
		val, err := strconv.ParseFloat(clean, 64)
		if err != nil {
			return 0, nil, err
		}
		return kind, val, nil
	}
	val, err := strconv.ParseInt(clean, 0, 64)
	if err != nil {
		return 0, nil, err
	}
	return kind, val, nil
}

func (p *parser) stringLiteral(tok lexToken) ast.Expr {
	val, err := strconv.Unquote(tok.text)
	if err != nil {
		p.errorAt(tok, fmt.Sprintf("malformed string literal %s", tok.text))
		return nil
	}
	return &ast.Literal{Range: tokRange(tok), Kind: ast.StringLit, Text: tok.text, Val: val}
}

func (p *parser) charLiteral(tok lexToken) ast.Expr {
	val, err := strconv.Unquote(tok.text)
	if err != nil || utf8.RuneCountInString(val) != 1 {
		p.errorAt(tok, fmt.Sprintf("malformed character literal %s", tok.text))
		return nil
	}
	r, _ := utf8.DecodeRuneInString(val)
	return &ast.Literal{Range: tokRange(tok), Kind: ast.CharLit, Text: tok.text, Val: int64(r)}
}
