package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bread-converter/internal/core/recipe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const countryLoaf = "500g bread flour\n350g water\n100g active starter (100% hydration)\n10g salt\nMethod:\nMix and bake"

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeRecipe(t *testing.T, name, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func TestRootCommandHasSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range newRootCmd().Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["convert"])
	assert.True(t, names["parse"])
}

func TestConvertFromStdin(t *testing.T) {
	out, err := run(t, countryLoaf, "convert", "--direction", "sourdough-to-yeast")
	require.NoError(t, err)

	assert.Contains(t, out, "== - (sourdough-to-yeast, parser: local, lean dough)")
	assert.Contains(t, out, "instant yeast")
	assert.Contains(t, out, "Method:")
	assert.NotContains(t, out, "(starter)")
}

func TestConvertJSON(t *testing.T) {
	path := writeRecipe(t, "loaf.txt", countryLoaf)

	out, err := run(t, "", "convert", "-d", "sourdough-to-yeast", "--json", path)
	require.NoError(t, err)

	var res recipe.ConversionResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.NotNil(t, res.Conversion)
	assert.True(t, res.Conversion.Converted.YeastAmount > 0)
}

func TestConvertManyFiles(t *testing.T) {
	a := writeRecipe(t, "a.txt", countryLoaf)
	b := writeRecipe(t, "b.txt", "500g bread flour\n350g water\n7g instant yeast\n10g salt")

	out, err := run(t, "", "convert", "-d", "yeast-to-sourdough", "--json", a, b)
	require.NoError(t, err)

	var res []recipe.ConversionResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res, 2)
	assert.NotNil(t, res[1].Conversion.Levain)
}

func TestConvertErrors(t *testing.T) {
	_, err := run(t, countryLoaf, "convert")
	assert.Error(t, err, "direction is required")

	_, err = run(t, countryLoaf, "convert", "-d", "rye")
	assert.ErrorContains(t, err, "unknown direction")

	_, err = run(t, "", "convert", "-d", "sourdough-to-yeast", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)

	out, err := run(t, "20g flour\n300g water", "convert", "-d", "sourdough-to-yeast")
	assert.ErrorIs(t, err, errBlocked)
	assert.Contains(t, out, "cannot be converted")
}

func TestParseCommand(t *testing.T) {
	out, err := run(t, countryLoaf, "parse")
	require.NoError(t, err)

	assert.Contains(t, out, "bread flour")
	assert.Contains(t, out, "hydration 72.7%")
	assert.Contains(t, out, "Baker's percentages:")
}

func TestStrictUnitsFlag(t *testing.T) {
	text := "500g bread flour\n350g water\n2 large onions\n10g salt"

	out, err := run(t, text, "parse", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, "onions")

	out, err = run(t, text, "parse", "--json", "--strict-units")
	require.NoError(t, err)
	assert.NotContains(t, out, "onions")
}
