package ui

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"kitten", "sitting", 3},
		{"strng", "string", 1},
		{"uint8", "unit8", 2},
		{"héllo", "hello", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Distance(tt.a, tt.b))
		})
	}
}

func TestSuggest(t *testing.T) {
	candidates := []string{"string", "int8", "uint8", "float64", "time.Time"}

	tests := []struct {
		name   string
		target string
		opts   *SuggestOptions
		want   []string
	}{
		{"exact", "string", nil, []string{"string"}},
		{"typo", "strng", nil, []string{"string"}},
		{"nearest first", "int", nil, []string{"int8", "uint8"}},
		{"case folded", "STRING", nil, []string{"string"}},
		{"case sensitive", "STRING", &SuggestOptions{CaseSensitive: true}, []string{}},
		{"capped", "int", &SuggestOptions{MaxSuggestions: 1}, []string{"int8"}},
		{"nothing close", "complex128", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Suggest(tt.target, candidates, tt.opts))
		})
	}
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, true, "Generator", "Priority")
	table.AddRow("bool", "0")
	table.AddRow("struct", "-100")
	table.Render()

	want := "" +
		"Generator  Priority\n" +
		"─────────  ────────\n" +
		"bool       0\n" +
		"struct     -100\n"
	assert.Equal(t, want, buf.String())
}

func TestTableWithoutHeaders(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, true)
	table.AddRow("ignored")
	table.Render()
	assert.Empty(t, buf.String())
}

func TestKeyValueTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewKeyValueTable(&buf, true)
	table.AddRow("type", "[]string")
	table.AddRow("generator", "*generators.Slice")
	table.Render()

	want := "" +
		"type:      []string\n" +
		"generator: *generators.Slice\n"
	assert.Equal(t, want, buf.String())
}

func TestMessage(t *testing.T) {
	t.Run("unknown type", func(t *testing.T) {
		out := UnknownTypeError("strng", []string{"string"}, true).Format()
		assert.Contains(t, out, "❌ UNKNOWN TYPE: Cannot parse type 'strng'.")
		assert.Contains(t, out, "Did you mean: string?")
		assert.Contains(t, out, "→ Known types: fixtures types")
	})

	t.Run("generation error carries hints", func(t *testing.T) {
		msg := GenerationError("chan int", errors.New("generator not found"), []string{"register one"}, true)
		out := msg.Format()
		assert.Contains(t, out, "GENERATION FAILED: chan int: generator not found")
		assert.Contains(t, out, "   register one\n")
		assert.Contains(t, out, "fixtures generators chan int")
	})

	t.Run("write", func(t *testing.T) {
		var buf bytes.Buffer
		ConfigError(errors.New("bad seed"), true).Write(&buf)
		assert.Contains(t, buf.String(), "CONFIGURATION ERROR: bad seed")
	})

	t.Run("levels", func(t *testing.T) {
		assert.Contains(t, Message{Level: LevelWarning, Problem: "careful", NoColor: true}.Format(), "⚠️ careful")
		assert.Contains(t, Message{Level: LevelInfo, Problem: "note", NoColor: true}.Format(), "ℹ️ note")
	})

	t.Run("success", func(t *testing.T) {
		assert.Equal(t, "✓ done", FormatSuccess("done", true))
	})
}
