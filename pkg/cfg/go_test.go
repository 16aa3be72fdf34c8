package cfg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klintqinami/sese-regions/pkg/sese"
)

const sample = `package sample

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sum(items []int) int {
	total := 0
	for _, v := range items {
		total += v
	}
	return total
}

func classify(x int) string {
	var out string
	if x < 0 {
		out = "negative"
	} else if x == 0 {
		out = "zero"
	} else {
		out = "positive"
	}
	return out
}
`

func mustExtract(t *testing.T, function string) *FuncCFG {
	t.Helper()
	fcfg, err := ExtractGoSource([]byte(sample), function)
	require.NoError(t, err)
	return fcfg
}

func blockIDs(f *FuncCFG) map[string]bool {
	ids := make(map[string]bool, len(f.Blocks))
	for _, b := range f.Blocks {
		ids[b.ID] = true
	}
	return ids
}

func TestExtractGoSource_FunctionNotFound(t *testing.T) {
	_, err := ExtractGoSource([]byte(sample), "missing")
	assert.ErrorIs(t, err, ErrFunctionNotFound)
}

func TestExtractGoSource_Branch(t *testing.T) {
	fcfg := mustExtract(t, "abs")

	assert.Equal(t, "abs", fcfg.Function)
	ids := blockIDs(fcfg)
	assert.True(t, ids[fcfg.Entry])
	assert.True(t, ids[fcfg.Exit])

	// Every edge endpoint is a known block.
	for _, e := range fcfg.Edges {
		assert.True(t, ids[e.From], "unknown source %s", e.From)
		assert.True(t, ids[e.To], "unknown target %s", e.To)
	}

	// One conditional block, and both return paths reach the exit.
	var branches, returns int
	for _, b := range fcfg.Blocks {
		if b.Kind == BlockBranch {
			branches++
		}
	}
	for _, e := range fcfg.Edges {
		if e.Kind == EdgeReturn && e.To == fcfg.Exit {
			returns++
		}
	}
	assert.Equal(t, 1, branches)
	assert.Equal(t, 2, returns)
}

func TestExtractGoSource_Loop(t *testing.T) {
	fcfg := mustExtract(t, "sum")

	var loops, backEdges int
	for _, b := range fcfg.Blocks {
		if b.Kind == BlockLoop {
			loops++
		}
	}
	for _, e := range fcfg.Edges {
		if e.Kind == EdgeLoopBack {
			backEdges++
		}
	}
	assert.Equal(t, 1, loops)
	assert.Equal(t, 1, backEdges)
}

func TestExtractGoSource_ElseIfChain(t *testing.T) {
	fcfg := mustExtract(t, "classify")

	var branches int
	for _, b := range fcfg.Blocks {
		if b.Kind == BlockBranch {
			branches++
		}
	}
	assert.Equal(t, 2, branches)
}

func TestFuncCFG_GraphAndAnalyze(t *testing.T) {
	for _, function := range []string{"abs", "sum", "classify"} {
		t.Run(function, func(t *testing.T) {
			fcfg := mustExtract(t, function)
			g, err := fcfg.Graph()
			require.NoError(t, err)

			res, err := sese.Analyze(g)
			require.NoError(t, err)

			assert.Equal(t, fcfg.Entry, res.Entry)
			assert.Equal(t, fcfg.Exit, res.Exit)
			assert.NotEmpty(t, res.Regions)
		})
	}
}
