// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"strings"
	"unicode"
)

// =============================================================================
// PARSER
// =============================================================================

// ParseResult contains the result of parsing user input.
type ParseResult struct {
	// IsCommand is true if the input starts with /
	IsCommand bool

	// Command is the matched command (nil if not found)
	Command *Command

	// CommandName is the raw command name (e.g., "/help")
	CommandName string

	Args []string

	// RawArgs is the unparsed arguments portion
	RawArgs string
}

// Parser splits input into a command and its arguments.
type Parser struct {
	registry *Registry
}

// NewParser creates a parser that resolves names against registry.
func NewParser(registry *Registry) *Parser {
	return &Parser{registry: registry}
}

// Parse returns IsCommand=false if the input doesn't start with /.
func (p *Parser) Parse(input string) ParseResult {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return ParseResult{}
	}

	result := ParseResult{IsCommand: true}
	parts := splitCommandLine(input)
	if len(parts) == 0 {
		return result
	}
	result.CommandName = parts[0]
	result.Args = parts[1:]
	result.RawArgs = strings.TrimSpace(input[len(ExtractCommandName(input)):])
	result.Command = p.registry.Get(result.CommandName)
	return result
}

// splitCommandLine splits a command line into tokens. Single or double quotes
// group words; a backslash escapes a quote or backslash inside quotes.
func splitCommandLine(input string) []string {
	var tokens []string
	var current strings.Builder
	var inSingle, inDouble, quoted bool

	flush := func() {
		if current.Len() > 0 || quoted {
			tokens = append(tokens, current.String())
			current.Reset()
		}
		quoted = false
	}

	runes := []rune(input)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\'' && !inDouble:
			inSingle = !inSingle
			quoted = true
		case r == '"' && !inSingle:
			inDouble = !inDouble
			quoted = true
		case r == '\\' && (inSingle || inDouble) && i+1 < len(runes) && strings.ContainsRune(`"'\`, runes[i+1]):
			current.WriteRune(runes[i+1])
			i++
		case unicode.IsSpace(r) && !inSingle && !inDouble:
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return tokens
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// IsCommand returns true if the input appears to be a command.
func IsCommand(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(input), "/")
}

// ExtractCommandName extracts just the command name from input.
// e.g., "/use safety_manual" -> "/use"
func ExtractCommandName(input string) string {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return ""
	}
	if end := strings.IndexFunc(input, unicode.IsSpace); end >= 0 {
		return input[:end]
	}
	return input
}

// ValidateArgs checks required arguments and enum values.
func ValidateArgs(cmd *Command, args []string) error {
	if cmd == nil {
		return nil
	}
	for i, def := range cmd.Args {
		if i >= len(args) {
			if def.Required {
				return &ValidationError{Command: cmd.Name, Arg: def.Name, Message: "required argument missing", Expected: def.Description}
			}
			continue
		}
		if def.Type == ArgTypeEnum && len(def.Values) > 0 && !containsFold(def.Values, args[i]) {
			return &ValidationError{
				Command:  cmd.Name,
				Arg:      def.Name,
				Message:  "invalid value",
				Got:      args[i],
				Expected: strings.Join(def.Values, ", "),
			}
		}
	}
	return nil
}

func containsFold(values []string, v string) bool {
	for _, candidate := range values {
		if strings.EqualFold(candidate, v) {
			return true
		}
	}
	return false
}

// ValidationError represents an argument validation error.
type ValidationError struct {
	Command  string
	Arg      string
	Message  string
	Got      string
	Expected string
}

func (e *ValidationError) Error() string {
	msg := e.Command + ": " + e.Message
	if e.Arg != "" {
		msg += " for argument '" + e.Arg + "'"
	}
	if e.Got != "" {
		msg += " (got: " + e.Got + ")"
	}
	if e.Expected != "" {
		msg += " - expected: " + e.Expected
	}
	return msg
}
