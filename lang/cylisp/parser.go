// This file is part of cythan - https://github.com/db47h/cythan
//
// Copyright 2016 Denis Bernard <db047h@gmail.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cylisp

import (
	"strconv"

	"github.com/db47h/cythan/lang"
)

// exprKind discriminates the AST node produced by the parser.
type exprKind int

const (
	exprNumber exprKind = iota
	exprSymbol
	exprString
	exprList
)

// expr is one parsed form: a literal number, a bare symbol (a variable
// reference or a name, depending on its position in an enclosing list), a
// quoted string (used only for include's path argument), or a
// parenthesized list whose first item names the call being made.
type expr struct {
	kind  exprKind
	num   uint64
	text  string
	items []expr
	span  lang.Span
}

type parser struct {
	lex  *lexer
	cur  token
	file string
}

func newParser(src []byte, fileName string) *parser {
	p := &parser{lex: newLexer(src, fileName), file: fileName}
	p.cur = p.lex.next()
	return p
}

func (p *parser) advance() token {
	t := p.cur
	p.cur = p.lex.next()
	return t
}

// parseProgram parses a whole file as a sequence of top-level forms.
func parseProgram(src []byte, fileName string) ([]expr, error) {
	p := newParser(src, fileName)
	var forms []expr
	for p.cur.kind != tokEOF {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		forms = append(forms, e)
	}
	return forms, nil
}

func (p *parser) parseExpr() (expr, error) {
	t := p.cur
	switch t.kind {
	case tokNumber:
		p.advance()
		n, err := strconv.ParseUint(t.text, 10, 64)
		if err != nil {
			return expr{}, lang.NewError(lang.ErrParse, t.span, "invalid numeric literal %q", t.text)
		}
		return expr{kind: exprNumber, num: n, span: t.span}, nil
	case tokSymbol:
		p.advance()
		return expr{kind: exprSymbol, text: t.text, span: t.span}, nil
	case tokString:
		p.advance()
		return expr{kind: exprString, text: t.text, span: t.span}, nil
	case tokLParen:
		p.advance()
		var items []expr
		for p.cur.kind != tokRParen {
			if p.cur.kind == tokEOF {
				return expr{}, lang.NewError(lang.ErrParse, t.span, "unterminated list starting here")
			}
			e, err := p.parseExpr()
			if err != nil {
				return expr{}, err
			}
			items = append(items, e)
		}
		p.advance() // consume ')'
		return expr{kind: exprList, items: items, span: t.span}, nil
	case tokRParen:
		return expr{}, lang.NewError(lang.ErrParse, t.span, "unexpected ')'")
	default:
		return expr{}, lang.NewError(lang.ErrParse, t.span, "unexpected end of input")
	}
}
