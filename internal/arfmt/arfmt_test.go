package arfmt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arstatic/internal/ar"
	"arstatic/internal/arfmt"
)

const doubleFreeSrc = `
decl malloc(si64) -> ui8*;
decl free(ui8*) -> void;

fn main() -> void {
entry:
  p: ui8* = call @malloc(8)
  call @free(p)
  call @free(p)
  ret
}
`

func TestParseStringAssemblesDoubleFreeFixture(t *testing.T) {
	bundle, err := arfmt.ParseString("double_free.ar", doubleFreeSrc)
	require.NoError(t, err)
	require.NotNil(t, bundle)

	require.Len(t, bundle.Functions, 3)
	main := bundle.FunctionByName("main")
	require.NotNil(t, main)
	require.False(t, main.IsDeclaration())
	require.Len(t, main.Blocks, 1)

	entry := main.Blocks[0]
	require.Len(t, entry.Statements, 4)

	call, ok := entry.Statements[0].(*ar.Call)
	require.True(t, ok)
	require.NotNil(t, call.Result)
	assert.Equal(t, "p", call.Result.Name)

	callee, ok := call.Callee.(*ar.FunctionAddrConstant)
	require.True(t, ok)
	assert.Equal(t, "malloc", callee.Fn.Name)

	_, ok = entry.Statements[3].(*ar.Return)
	assert.True(t, ok)

	malloc := bundle.FunctionByName("malloc")
	require.NotNil(t, malloc)
	assert.True(t, malloc.IsDeclaration())
}

const branchSrc = `
fn clamp(n: si64) -> si64 {
entry:
  big: si64 = cmp gt n, 100
  br big, cap, pass
cap:
  hundred: si64 = add n, 0
  ret hundred
pass:
  ret n
}
`

func TestParseStringWiresBranchEdges(t *testing.T) {
	bundle, err := arfmt.ParseString("clamp.ar", branchSrc)
	require.NoError(t, err)

	fn := bundle.FunctionByName("clamp")
	require.NotNil(t, fn)
	require.Len(t, fn.Blocks, 3)

	entry := fn.Blocks[0]
	require.Len(t, entry.Successors, 2)

	var trueLabel, falseLabel string
	for _, e := range entry.Successors {
		switch e.Kind {
		case ar.EdgeTrue:
			trueLabel = e.To.Label
		case ar.EdgeFalse:
			falseLabel = e.To.Label
		}
	}
	assert.Equal(t, "cap", trueLabel)
	assert.Equal(t, "pass", falseLabel)
}

func TestParseStringRejectsUnknownBlockLabel(t *testing.T) {
	src := `
fn f() -> void {
entry:
  jmp nowhere
}
`
	_, err := arfmt.ParseString("bad.ar", src)
	assert.Error(t, err)
}

func TestPrintRoundTripsThroughParser(t *testing.T) {
	bundle, err := arfmt.ParseString("double_free.ar", doubleFreeSrc)
	require.NoError(t, err)

	text := arfmt.Print(bundle)
	reparsed, err := arfmt.ParseString("reprinted.ar", text)
	require.NoError(t, err, "printed form:\n%s", text)

	require.Len(t, reparsed.Functions, 3)
	main := reparsed.FunctionByName("main")
	require.NotNil(t, main)
	require.Len(t, main.Blocks[0].Statements, 4)
}
