package modelio

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-logr/logr"

	"github.com/katalvlaran/specmodel/model"
	"github.com/katalvlaran/specmodel/registry"
)

// Option configures parsers and the file helpers.
type Option func(*options)

type options struct {
	reg    *registry.Registry
	log    logr.Logger
	format Format
}

func buildOptions(opts []Option) options {
	o := options{reg: registry.Default(), log: logr.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithRegistry restricts parsing and writing to the kinds of reg.
func WithRegistry(reg *registry.Registry) Option {
	return func(o *options) {
		if reg != nil {
			o.reg = reg
		}
	}
}

// WithLogger receives warnings for lenient paths (unsupported ties).
func WithLogger(l logr.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// Parser reads python-shaped model text. It is safe for concurrent use.
type Parser struct {
	reg *registry.Registry
	log logr.Logger
}

// NewParser returns a parser over the kinds of reg; nil selects
// registry.Default(). WithRegistry, when also given, wins.
func NewParser(reg *registry.Registry, opts ...Option) *Parser {
	o := buildOptions(append([]Option{WithRegistry(reg)}, opts...))
	return &Parser{reg: o.reg, log: o.log}
}

// Parse reads src with the default registry.
func Parse(src []byte, opts ...Option) (*model.Composite, error) {
	return NewParser(nil, opts...).Parse(src)
}

// Parse builds a composite model from src. Every failure is a *ParseError.
func (p *Parser) Parse(src []byte) (*model.Composite, error) {
	return p.parse("", src)
}

func (p *Parser) parse(path string, src []byte) (*model.Composite, error) {
	m, err := p.parseFile(src)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
			return nil, pe
		}
		return nil, &ParseError{Path: path, Msg: "parse", Err: err}
	}
	return m, nil
}

func (p *Parser) parseFile(src []byte) (*model.Composite, error) {
	toks, err := newLexer(src).tokenize()
	if err != nil {
		return nil, err
	}
	st := &parseState{Parser: p, toks: toks, imports: make(map[string]registry.Kind)}

	var (
		comps []*model.Component
		at    token
		bound bool
	)
	for st.peek().kind != tokEOF {
		t := st.peek()
		switch {
		case t.kind == tokNewline:
			st.next()
		case t.is(tokName, "from"):
			if err = st.importStmt(); err != nil {
				return nil, err
			}
		case t.kind == tokName && st.peekAt(1).is(tokOp, "="):
			if bound {
				return nil, st.errorAt(t, nil, "second assignment %q; a file holds exactly one model", t.text)
			}
			at = t
			if comps, err = st.assignment(); err != nil {
				return nil, err
			}
			bound = true
		default:
			return nil, st.errorAt(t, nil, "unexpected %s at statement start", t)
		}
	}
	if !bound {
		return nil, &ParseError{Msg: "no model found", Err: ErrNoModel}
	}

	m, err := model.FromComponents(comps, model.WithLogger(p.log))
	if err != nil {
		return nil, st.errorAt(at, err, "invalid model")
	}
	return m, nil
}

// parseState is the cursor of one parse.
type parseState struct {
	*Parser
	toks    []token
	pos     int
	imports map[string]registry.Kind
	comp    int // index of the component being parsed, for warnings
}

func (st *parseState) peek() token { return st.peekAt(0) }

func (st *parseState) peekAt(n int) token {
	if st.pos+n >= len(st.toks) {
		return st.toks[len(st.toks)-1]
	}
	return st.toks[st.pos+n]
}

func (st *parseState) next() token {
	t := st.peek()
	if st.pos < len(st.toks)-1 {
		st.pos++
	}
	return t
}

func (st *parseState) errorAt(t token, cause error, format string, args ...any) error {
	return &ParseError{Line: t.line, Col: t.col, Msg: fmt.Sprintf(format, args...), Err: cause}
}

// expect consumes an operator or keyword token.
func (st *parseState) expect(kind tokenKind, text string) (token, error) {
	t := st.next()
	if !t.is(kind, text) {
		return t, st.errorAt(t, nil, "expected %q, found %s", text, t)
	}
	return t, nil
}

func (st *parseState) expectName() (token, error) {
	t := st.next()
	if t.kind != tokName {
		return t, st.errorAt(t, nil, "expected a name, found %s", t)
	}
	return t, nil
}

func (st *parseState) endOfStatement() error {
	t := st.peek()
	if t.kind == tokNewline || t.kind == tokEOF {
		st.next()
		return nil
	}
	return st.errorAt(t, nil, "unexpected %s after statement", t)
}

// importStmt parses "from a.b.c import K1, K2" (optionally parenthesised).
func (st *parseState) importStmt() error {
	st.next() // from
	first, err := st.expectName()
	if err != nil {
		return err
	}
	parts := []string{first.text}
	for st.peek().is(tokOp, ".") {
		st.next()
		t, err := st.expectName()
		if err != nil {
			return err
		}
		parts = append(parts, t.text)
	}
	module := strings.Join(parts, ".")
	if _, err = st.expect(tokName, "import"); err != nil {
		return err
	}

	paren := st.peek().is(tokOp, "(")
	if paren {
		st.next()
	}
	for {
		t, err := st.expectName()
		if err != nil {
			return err
		}
		kind, err := st.reg.Lookup(t.text)
		if err != nil {
			return st.errorAt(t, err, "import")
		}
		if kind.Module() != module {
			return st.errorAt(t, registry.ErrUnknownKind, "%s is defined in %s, not %s", kind, kind.Module(), module)
		}
		st.imports[t.text] = kind

		if !st.peek().is(tokOp, ",") {
			break
		}
		st.next()
		if paren && st.peek().is(tokOp, ")") {
			break
		}
	}
	if paren {
		if _, err := st.expect(tokOp, ")"); err != nil {
			return err
		}
	}
	return st.endOfStatement()
}

// assignment parses "<name> = <sum of kind calls>".
func (st *parseState) assignment() ([]*model.Component, error) {
	st.next() // name
	st.next() // =
	comps, err := st.sum()
	if err != nil {
		return nil, err
	}
	return comps, st.endOfStatement()
}

// sum parses term { "+" term }.
func (st *parseState) sum() ([]*model.Component, error) {
	var comps []*model.Component
	for {
		cs, err := st.term(len(comps))
		if err != nil {
			return nil, err
		}
		comps = append(comps, cs...)
		if !st.peek().is(tokOp, "+") {
			return comps, nil
		}
		st.next()
	}
}

// term is a kind call or a parenthesised sum. base is the index the
// first component of the term will have.
func (st *parseState) term(base int) ([]*model.Component, error) {
	t := st.peek()
	if t.is(tokOp, "(") {
		st.next()
		var comps []*model.Component
		for {
			cs, err := st.term(base + len(comps))
			if err != nil {
				return nil, err
			}
			comps = append(comps, cs...)
			if !st.peek().is(tokOp, "+") {
				break
			}
			st.next()
		}
		if _, err := st.expect(tokOp, ")"); err != nil {
			return nil, err
		}
		return comps, nil
	}
	if t.kind != tokName {
		return nil, st.errorAt(t, nil, "expected a component, found %s", t)
	}
	st.comp = base
	c, err := st.call()
	if err != nil {
		return nil, err
	}
	return []*model.Component{c}, nil
}

// call parses Kind(args...) into a component.
func (st *parseState) call() (*model.Component, error) {
	head := st.next()
	kind, ok := st.imports[head.text]
	if !ok {
		if _, err := st.reg.Lookup(head.text); err != nil {
			return nil, st.errorAt(head, err, "component")
		}
		return nil, st.errorAt(head, nil, "%s is used but not imported", head.text)
	}
	c, err := model.NewComponent(kind, "")
	if err != nil {
		return nil, st.errorAt(head, err, "component")
	}
	if _, err = st.expect(tokOp, "("); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	positional := 0
	keywords := false
	for !st.peek().is(tokOp, ")") {
		t := st.peek()
		if t.kind == tokName && st.peekAt(1).is(tokOp, "=") {
			st.next()
			st.next()
			keywords = true
			if seen[t.text] {
				return nil, st.errorAt(t, nil, "keyword %q repeated", t.text)
			}
			seen[t.text] = true
			v, err := st.value()
			if err != nil {
				return nil, err
			}
			if err = st.keyword(c, t, v); err != nil {
				return nil, err
			}
		} else {
			if keywords {
				return nil, st.errorAt(t, nil, "positional argument follows keyword argument")
			}
			v, err := st.value()
			if err != nil {
				return nil, err
			}
			if positional >= len(c.Params) {
				return nil, st.errorAt(t, nil, "%s takes %d parameters", kind, len(c.Params))
			}
			if v.kind != valNumber {
				return nil, st.errorAt(t, nil, "parameter %s: expected a number", c.Params[positional].Name)
			}
			seen[c.Params[positional].Name] = true
			c.Params[positional].Value = v.num
			positional++
		}

		if st.peek().is(tokOp, ",") {
			st.next()
			continue
		}
		if !st.peek().is(tokOp, ")") {
			nt := st.peek()
			return nil, st.errorAt(nt, nil, "expected \",\" or \")\", found %s", nt)
		}
	}
	st.next() // )
	return c, nil
}

// keyword applies one keyword argument to c.
func (st *parseState) keyword(c *model.Component, key token, v value) error {
	switch key.text {
	case "name":
		switch v.kind {
		case valString:
			c.Name = v.str
		case valNone:
			c.Name = ""
		default:
			return st.errorAt(v.tok, nil, "name: expected a string")
		}
		return nil

	case "bounds":
		return st.eachEntry(c, key, v, func(p *model.Parameter, e value) error {
			if e.kind != valTuple || len(e.items) != 2 {
				return st.errorAt(e.tok, nil, "bounds of %s: expected (min, max)", p.Name)
			}
			var b model.Bounds
			for i, item := range e.items {
				if item.kind == valNone {
					continue
				}
				if item.kind != valNumber {
					return st.errorAt(item.tok, nil, "bounds of %s: expected a number or None", p.Name)
				}
				f := item.num
				if i == 0 {
					b.Min = &f
				} else {
					b.Max = &f
				}
			}
			if err := b.Validate(); err != nil {
				return st.errorAt(e.tok, err, "bounds of %s", p.Name)
			}
			p.Bounds = b
			return nil
		})

	case "fixed":
		return st.eachEntry(c, key, v, func(p *model.Parameter, e value) error {
			if e.kind != valBool {
				return st.errorAt(e.tok, nil, "fixed of %s: expected True or False", p.Name)
			}
			p.Fixed = e.b
			return nil
		})

	case "tied":
		return st.eachEntry(c, key, v, func(p *model.Parameter, e value) error {
			switch {
			case e.kind == valBool && !e.b, e.kind == valNone:
				p.Tied = nil
			case e.kind == valLambda && e.tie != nil:
				t := *e.tie
				p.Tied = &t
			case e.kind == valLambda:
				st.log.Info("unsupported tie expression, parameter left untied",
					"component", st.comp, "param", p.Name, "expr", e.str, "line", e.tok.line)
				p.Tied = nil
			default:
				return st.errorAt(e.tok, nil, "tied of %s: expected False or a lambda", p.Name)
			}
			return nil
		})
	}

	p, err := c.Param(key.text)
	if err != nil {
		return st.errorAt(key, err, "keyword %q", key.text)
	}
	if v.kind != valNumber {
		return st.errorAt(v.tok, nil, "parameter %s: expected a number", key.text)
	}
	p.Value = v.num
	return nil
}

// eachEntry walks a {'param': value} dict.
func (st *parseState) eachEntry(c *model.Component, key token, v value, fn func(p *model.Parameter, e value) error) error {
	if v.kind != valDict {
		return st.errorAt(v.tok, nil, "%s: expected a dict", key.text)
	}
	for i, k := range v.keys {
		p, err := c.Param(k)
		if err != nil {
			return st.errorAt(v.vals[i].tok, err, "%s", key.text)
		}
		if err = fn(p, v.vals[i]); err != nil {
			return err
		}
	}
	return nil
}

// valueKind tags a parsed literal.
type valueKind int

const (
	valNumber valueKind = iota
	valString
	valBool
	valNone
	valTuple
	valDict
	valLambda
)

// value is a parsed literal. Lambdas carry their source text in str and,
// when recognised, the tie.
type value struct {
	kind  valueKind
	tok   token
	num   float64
	str   string
	b     bool
	items []value
	keys  []string
	vals  []value
	tie   *model.Tie
}

// value parses a literal: number, string, True/False/None, float('inf'),
// tuple or list, dict with string keys, or lambda.
func (st *parseState) value() (value, error) {
	t := st.next()
	switch {
	case t.is(tokOp, "-"), t.is(tokOp, "+"):
		v, err := st.value()
		if err != nil {
			return v, err
		}
		if v.kind != valNumber {
			return v, st.errorAt(t, nil, "unary %s needs a number", t.text)
		}
		if t.text == "-" {
			v.num = -v.num
		}
		v.tok = t
		return v, nil

	case t.kind == tokNumber:
		f, err := strconv.ParseFloat(t.text, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return value{}, st.errorAt(t, err, "number %q", t.text)
		}
		return value{kind: valNumber, tok: t, num: f}, nil

	case t.kind == tokString:
		return value{kind: valString, tok: t, str: t.text}, nil

	case t.is(tokName, "True"), t.is(tokName, "False"):
		return value{kind: valBool, tok: t, b: t.text == "True"}, nil

	case t.is(tokName, "None"):
		return value{kind: valNone, tok: t}, nil

	case t.is(tokName, "float"):
		if _, err := st.expect(tokOp, "("); err != nil {
			return value{}, err
		}
		s := st.next()
		if s.kind != tokString {
			return value{}, st.errorAt(s, nil, "float() expects a string")
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s.text), 64)
		if err != nil {
			return value{}, st.errorAt(s, err, "float(%q)", s.text)
		}
		if _, err := st.expect(tokOp, ")"); err != nil {
			return value{}, err
		}
		return value{kind: valNumber, tok: t, num: f}, nil

	case t.is(tokName, "lambda"):
		return st.lambda(t)

	case t.is(tokOp, "("), t.is(tokOp, "["):
		closer := ")"
		if t.text == "[" {
			closer = "]"
		}
		v := value{kind: valTuple, tok: t}
		trailingComma := false
		for !st.peek().is(tokOp, closer) {
			item, err := st.value()
			if err != nil {
				return value{}, err
			}
			v.items = append(v.items, item)
			trailingComma = false
			if st.peek().is(tokOp, ",") {
				st.next()
				trailingComma = true
				continue
			}
			if !st.peek().is(tokOp, closer) {
				nt := st.peek()
				return value{}, st.errorAt(nt, nil, "expected \",\" or %q, found %s", closer, nt)
			}
		}
		st.next()
		// (x) is a parenthesised value, (x,) a one-tuple.
		if t.text == "(" && len(v.items) == 1 && !trailingComma {
			return v.items[0], nil
		}
		return v, nil

	case t.is(tokOp, "{"):
		v := value{kind: valDict, tok: t}
		seen := make(map[string]bool)
		for !st.peek().is(tokOp, "}") {
			k := st.next()
			if k.kind != tokString {
				return value{}, st.errorAt(k, nil, "dict keys must be strings, found %s", k)
			}
			if seen[k.text] {
				return value{}, st.errorAt(k, nil, "duplicate key %q", k.text)
			}
			seen[k.text] = true
			if _, err := st.expect(tokOp, ":"); err != nil {
				return value{}, err
			}
			item, err := st.value()
			if err != nil {
				return value{}, err
			}
			v.keys = append(v.keys, k.text)
			v.vals = append(v.vals, item)
			if st.peek().is(tokOp, ",") {
				st.next()
				continue
			}
			if !st.peek().is(tokOp, "}") {
				nt := st.peek()
				return value{}, st.errorAt(nt, nil, "expected \",\" or \"}\", found %s", nt)
			}
		}
		st.next()
		return v, nil
	}
	return value{}, st.errorAt(t, nil, "unexpected %s", t)
}

// lambda consumes "lambda <v>: <body>" where body runs to the next
// top-level "," or closing bracket, then tries to read a tie from it.
func (st *parseState) lambda(kw token) (value, error) {
	param, err := st.expectName()
	if err != nil {
		return value{}, err
	}
	if _, err = st.expect(tokOp, ":"); err != nil {
		return value{}, err
	}

	var body []token
	depth := 0
scan:
	for {
		t := st.peek()
		if t.kind == tokEOF || t.kind == tokNewline {
			return value{}, st.errorAt(t, nil, "unterminated lambda")
		}
		if t.kind == tokOp {
			switch t.text {
			case "(", "[", "{":
				depth++
			case ")", "]", "}":
				if depth == 0 {
					break scan
				}
				depth--
			case ",":
				if depth == 0 {
					break scan
				}
			}
		}
		body = append(body, st.next())
	}
	if len(body) == 0 {
		return value{}, st.errorAt(kw, nil, "empty lambda")
	}

	v := value{kind: valLambda, tok: kw, str: "lambda " + param.text + ": " + joinTokens(body)}
	v.tie = matchTie(param.text, body)
	return v, nil
}

// matchTie recognises F * v[I].P, v[I].P * F and v[I].P, with optional
// parentheses around the whole body.
func matchTie(v string, body []token) *model.Tie {
	for len(body) >= 2 && body[0].is(tokOp, "(") && body[len(body)-1].is(tokOp, ")") && balanced(body[1:len(body)-1]) {
		body = body[1 : len(body)-1]
	}

	star := -1
	depth := 0
	for i, t := range body {
		switch {
		case t.is(tokOp, "("), t.is(tokOp, "["):
			depth++
		case t.is(tokOp, ")"), t.is(tokOp, "]"):
			depth--
		case t.is(tokOp, "*") && depth == 0:
			if star >= 0 {
				return nil
			}
			star = i
		}
	}

	if star < 0 {
		if idx, name, ok := matchRef(v, body); ok {
			return &model.Tie{Factor: 1, Target: idx, Param: name}
		}
		return nil
	}
	left, right := body[:star], body[star+1:]
	if idx, name, ok := matchRef(v, right); ok {
		if f, ok := matchNumber(left); ok {
			return &model.Tie{Factor: f, Target: idx, Param: name}
		}
	}
	if idx, name, ok := matchRef(v, left); ok {
		if f, ok := matchNumber(right); ok {
			return &model.Tie{Factor: f, Target: idx, Param: name}
		}
	}
	return nil
}

// matchRef recognises v[I].P.
func matchRef(v string, ts []token) (int, string, bool) {
	if len(ts) != 6 ||
		!ts[0].is(tokName, v) || !ts[1].is(tokOp, "[") || ts[2].kind != tokNumber ||
		!ts[3].is(tokOp, "]") || !ts[4].is(tokOp, ".") || ts[5].kind != tokName {
		return 0, "", false
	}
	idx, err := strconv.Atoi(ts[2].text)
	if err != nil {
		return 0, "", false
	}
	return idx, ts[5].text, true
}

// matchNumber evaluates a numeric literal token run such as "-0.5" or
// "float('inf')".
func matchNumber(ts []token) (float64, bool) {
	if len(ts) == 0 {
		return 0, false
	}
	sub := &parseState{toks: append(append([]token(nil), ts...), token{kind: tokEOF})}
	v, err := sub.value()
	if err != nil || v.kind != valNumber || sub.peek().kind != tokEOF || math.IsNaN(v.num) {
		return 0, false
	}
	return v.num, true
}

func balanced(ts []token) bool {
	depth := 0
	for _, t := range ts {
		switch {
		case t.is(tokOp, "("), t.is(tokOp, "["), t.is(tokOp, "{"):
			depth++
		case t.is(tokOp, ")"), t.is(tokOp, "]"), t.is(tokOp, "}"):
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// joinTokens renders tokens back to compact source for log messages.
func joinTokens(ts []token) string {
	var b strings.Builder
	for i, t := range ts {
		if i > 0 && (t.kind == tokName || t.kind == tokNumber || t.is(tokOp, "*") || t.is(tokOp, "+") || t.is(tokOp, "/")) &&
			!ts[i-1].is(tokOp, ".") && !ts[i-1].is(tokOp, "[") && !ts[i-1].is(tokOp, "(") {
			b.WriteByte(' ')
		}
		if t.kind == tokString {
			b.WriteString(quote(t.text))
		} else {
			b.WriteString(t.text)
		}
	}
	return b.String()
}
