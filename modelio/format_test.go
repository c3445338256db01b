package modelio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestFormatFloat matches python repr for the values models carry.
func TestFormatFloat(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{1, "1.0"},
		{0.5, "0.5"},
		{-2.5, "-2.5"},
		{6563, "6563.0"},
		{0.1, "0.1"},
		{1e-05, "1e-05"},
		{0.0001, "0.0001"},
		{1.5e-07, "1.5e-07"},
		{1e16, "1e+16"},
		{123456789012345.0, "123456789012345.0"},
		{1.0 / 3, "0.3333333333333333"},
		{0, "0.0"},
		{math.Copysign(0, -1), "-0.0"},
		{math.Inf(1), "float('inf')"},
		{math.Inf(-1), "float('-inf')"},
		{math.NaN(), "float('nan')"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, formatFloat(c.in), "%v", c.in)
	}
}

// TestQuote escapes quotes and control characters.
func TestQuote(t *testing.T) {
	assert.Equal(t, `'plain'`, quote("plain"))
	assert.Equal(t, `'it\'s'`, quote("it's"))
	assert.Equal(t, `'a\\b\n'`, quote("a\\b\n"))
}

// TestLexer_Tokens covers continuations, comments and bracket newlines.
func TestLexer_Tokens(t *testing.T) {
	src := "x = \\\n  K(1.5e3, # note\n  'a\\'b')\n\n\n"
	toks, err := newLexer([]byte(src)).tokenize()
	assert.NoError(t, err)

	var texts []string
	for _, tk := range toks {
		texts = append(texts, tk.String())
	}
	assert.Equal(t, []string{
		`"x"`, `"="`, `"K"`, `"("`, `"1.5e3"`, `","`, `string "a'b"`, `")"`, "end of line", "end of file",
	}, texts)
	assert.Equal(t, 2, toks[2].line)
	assert.Equal(t, 3, toks[2].col)
}

// TestLexer_Errors locates malformed input.
func TestLexer_Errors(t *testing.T) {
	cases := map[string]string{
		"x = 'open":  "<input>:1:5: unterminated string",
		"x = 1e+":    "<input>:1:5: malformed exponent",
		"x = 1 $":    "<input>:1:7: unexpected character '$'",
		"x = \\ 1\n": "<input>:1:5: unexpected character after line continuation",
	}
	for src, want := range cases {
		_, err := newLexer([]byte(src)).tokenize()
		if assert.Error(t, err, src) {
			assert.ErrorIs(t, err, ErrSyntax)
			assert.Contains(t, err.Error(), want)
		}
	}
}

// TestMatchTie recognises the supported lambda bodies only.
func TestMatchTie(t *testing.T) {
	body := func(s string) []token {
		toks, err := newLexer([]byte(s)).tokenize()
		assert.NoError(t, err)
		return toks[:len(toks)-1]
	}
	cases := []struct {
		src    string
		factor float64
		ok     bool
	}{
		{"0.5 * m[1].amplitude", 0.5, true},
		{"m[1].amplitude * 2", 2, true},
		{"m[1].amplitude", 1, true},
		{"(-3 * m[1].amplitude)", -3, true},
		{"float('inf') * m[1].amplitude", math.Inf(1), true},
		{"m[1].amplitude + 1", 0, false},
		{"2 * 3 * m[1].amplitude", 0, false},
		{"m[1].amplitude * m[2].mean", 0, false},
		{"q[1].amplitude", 0, false},
		{"m[1.5].amplitude", 0, false},
	}
	for _, c := range cases {
		tie := matchTie("m", body(c.src))
		if !c.ok {
			assert.Nil(t, tie, c.src)
			continue
		}
		if assert.NotNil(t, tie, c.src) {
			assert.Equal(t, c.factor, tie.Factor, c.src)
			assert.Equal(t, 1, tie.Target, c.src)
			assert.Equal(t, "amplitude", tie.Param, c.src)
		}
	}
}
