package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Level is the severity of a message
type Level int

const (
	LevelError Level = iota
	LevelWarning
	LevelInfo
)

// Message is a structured diagnostic with optional suggestions and follow-up
// commands
type Message struct {
	Level        Level
	Context      string
	Problem      string
	Hints        []string
	Suggestions  []string
	HelpCommands []string
	NoColor      bool
}

// Format renders the message.
//
// Example output:
//
//	❌ UNKNOWN TYPE: Cannot parse type 'strng'.
//
//	   Did you mean: string?
//
//	   → List known generators: fixtures generators
func (m Message) Format() string {
	var b strings.Builder

	var header, body *color.Color
	var symbol string
	switch m.Level {
	case LevelWarning:
		header, body, symbol = color.New(color.FgYellow, color.Bold), color.New(color.FgYellow), "⚠️"
	case LevelInfo:
		header, body, symbol = color.New(color.FgCyan, color.Bold), color.New(color.FgCyan), "ℹ️"
	default:
		header, body, symbol = color.New(color.FgRed, color.Bold), color.New(color.FgRed), "❌"
	}
	accent := color.New(color.FgCyan)
	if m.NoColor {
		header.DisableColor()
		body.DisableColor()
		accent.DisableColor()
	}

	if m.Context != "" {
		header.Fprintf(&b, "%s %s: %s\n", symbol, strings.ToUpper(m.Context), m.Problem)
	} else {
		header.Fprintf(&b, "%s %s\n", symbol, m.Problem)
	}

	for _, hint := range m.Hints {
		body.Fprintf(&b, "   %s\n", hint)
	}
	if len(m.Suggestions) > 0 {
		b.WriteString("\n")
		body.Fprintf(&b, "   Did you mean: %s?\n", strings.Join(m.Suggestions, ", "))
	}
	if len(m.HelpCommands) > 0 {
		b.WriteString("\n")
		for _, cmd := range m.HelpCommands {
			accent.Fprintf(&b, "   → %s\n", cmd)
		}
	}
	return b.String()
}

// Write writes the formatted message to w
func (m Message) Write(w io.Writer) {
	fmt.Fprint(w, m.Format())
}

// FormatSuccess creates a success line
func FormatSuccess(message string, noColor bool) string {
	green := color.New(color.FgGreen, color.Bold)
	if noColor {
		green.DisableColor()
	}
	return green.Sprintf("✓ %s", message)
}

// UnknownTypeError reports a type expression that does not parse
func UnknownTypeError(expr string, suggestions []string, noColor bool) Message {
	return Message{
		Level:       LevelError,
		Context:     "unknown type",
		Problem:     fmt.Sprintf("Cannot parse type '%s'.", expr),
		Suggestions: suggestions,
		HelpCommands: []string{
			"Known types: fixtures types",
			"Get help: fixtures generate --help",
		},
		NoColor: noColor,
	}
}

// GenerationError reports a failed generation, carrying the error's hints
func GenerationError(expr string, err error, hints []string, noColor bool) Message {
	return Message{
		Level:   LevelError,
		Context: "generation failed",
		Problem: fmt.Sprintf("%s: %v", expr, err),
		Hints:   hints,
		HelpCommands: []string{
			"See which generator serves it: fixtures generators " + expr,
		},
		NoColor: noColor,
	}
}

// ConfigError reports an invalid configuration
func ConfigError(err error, noColor bool) Message {
	return Message{
		Level:   LevelError,
		Context: "configuration error",
		Problem: err.Error(),
		HelpCommands: []string{
			"View config: cat fixtures.yml",
			"Get help: fixtures --help",
		},
		NoColor: noColor,
	}
}
