package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeBasics(t *testing.T) {
	toks, err := Tokenize("t.muon", "x = 1 + 2\n")
	require.Nil(t, err)
	kinds := []TokenKind{}
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []TokenKind{TokIdent, TokAssign, TokInt, TokPlus, TokInt, TokNewline, TokEOF}, kinds)
}

func TestTokenizeSuppressesNewlineInsideBrackets(t *testing.T) {
	toks, err := Tokenize("t.muon", "x = [\n1,\n2,\n]\n")
	require.Nil(t, err)
	var newlines int
	for _, tok := range toks {
		if tok.Kind == TokNewline {
			newlines++
		}
	}
	assert.Equal(t, 1, newlines)
}

func TestTokenizeTripleQuotedStringIsRaw(t *testing.T) {
	toks, err := Tokenize("t.muon", "x = '''a\nb'''\n")
	require.Nil(t, err)
	require.Equal(t, TokString, toks[2].Kind)
	assert.Equal(t, "a\nb", toks[2].Str)
}

func TestTokenizeEscapesInSingleQuotedString(t *testing.T) {
	toks, err := Tokenize("t.muon", `x = 'a\nb\\c'` + "\n")
	require.Nil(t, err)
	assert.Equal(t, "a\nb\\c", toks[2].Str)
}

func TestTokenizeUnterminatedStringIsLexError(t *testing.T) {
	_, err := Tokenize("t.muon", "x = 'abc\n")
	require.NotNil(t, err)
}

func TestParseAssignmentAndCall(t *testing.T) {
	prog, err := Parse("t.muon", "x = f(1, name: 'a')\n")
	require.Nil(t, err)
	require.Len(t, prog.Statements, 1)
	assign, ok := prog.Statements[0].(*Assignment)
	require.True(t, ok)
	assert.Equal(t, "x", assign.Name)
	assert.Equal(t, "=", assign.Op)
	call, ok := assign.Value.(*FuncCall)
	require.True(t, ok)
	assert.Equal(t, "f", call.Name)
	require.Len(t, call.Args.Positional, 1)
	require.Contains(t, call.Args.Keyword, "name")
}

func TestParsePlusEqAssignment(t *testing.T) {
	prog, err := Parse("t.muon", "srcs += ['a.c']\n")
	require.Nil(t, err)
	assign := prog.Statements[0].(*Assignment)
	assert.Equal(t, "+=", assign.Op)
	arr, ok := assign.Value.(*ArrayLit)
	require.True(t, ok)
	assert.Len(t, arr.Elems, 1)
}

func TestParseMethodCallChain(t *testing.T) {
	prog, err := Parse("t.muon", "x = y.strip().to_upper()\n")
	require.Nil(t, err)
	stmt := prog.Statements[0].(*Assignment)
	outer, ok := stmt.Value.(*MethodCall)
	require.True(t, ok)
	assert.Equal(t, "to_upper", outer.Name)
	inner, ok := outer.Receiver.(*MethodCall)
	require.True(t, ok)
	assert.Equal(t, "strip", inner.Name)
}

func TestParseIfElifElse(t *testing.T) {
	src := `
if a == 1
  x = 1
elif a == 2
  x = 2
else
  x = 3
endif
`
	prog, err := Parse("t.muon", src)
	require.Nil(t, err)
	ifs, ok := prog.Statements[0].(*If)
	require.True(t, ok)
	assert.Len(t, ifs.Branches, 2)
	assert.Len(t, ifs.Else, 1)
}

func TestParseForeachTwoVars(t *testing.T) {
	prog, err := Parse("t.muon", "foreach k, v in d\n  message(k)\nendforeach\n")
	require.Nil(t, err)
	fe, ok := prog.Statements[0].(*Foreach)
	require.True(t, ok)
	assert.Equal(t, []string{"k", "v"}, fe.Vars)
}

func TestParseOperatorPrecedence(t *testing.T) {
	prog, err := Parse("t.muon", "x = 1 + 2 * 3\n")
	require.Nil(t, err)
	assign := prog.Statements[0].(*Assignment)
	bin, ok := assign.Value.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "+", bin.Op)
	rhs, ok := bin.Y.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "*", rhs.Op)
}

func TestParseNotInBindsAsNegatedComparison(t *testing.T) {
	prog, err := Parse("t.muon", "x = not a in b\n")
	require.Nil(t, err)
	assign := prog.Statements[0].(*Assignment)
	un, ok := assign.Value.(*UnaryExpr)
	require.True(t, ok)
	assert.Equal(t, "not", un.Op)
	bin, ok := un.X.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "in", bin.Op)
}

func TestParseDictLiteral(t *testing.T) {
	prog, err := Parse("t.muon", "d = {'a': 1, 'b': 2}\n")
	require.Nil(t, err)
	assign := prog.Statements[0].(*Assignment)
	dl, ok := assign.Value.(*DictLit)
	require.True(t, ok)
	assert.Len(t, dl.Entries, 2)
}

func TestParseSyntaxErrorReportsPosition(t *testing.T) {
	_, err := Parse("t.muon", "x = )\n")
	require.NotNil(t, err)
	assert.Equal(t, 1, err.Position.Line)
}
