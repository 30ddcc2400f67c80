package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-costing/internal/core"
)

func TestParsePlanArgs(t *testing.T) {
	items, err := parsePlanArgs([]string{"10=30", " 11 = 2.5 "})
	require.NoError(t, err)
	assert.Equal(t, []core.PlanItem{{RecipeID: 10, Servings: 30}, {RecipeID: 11, Servings: 2.5}}, items)

	for _, bad := range []string{"10", "x=3", "0=3", "10=lots"} {
		_, err := parsePlanArgs([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestProcureCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"procure", "--catalog", "../../internal/store/file/testdata/catalog.yaml", "10=30"})
	t.Cleanup(func() { svc = nil })

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "鶏もも肉")
	assert.Contains(t, out.String(), "3924")
}
