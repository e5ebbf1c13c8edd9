// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/ragdesk/internal/app"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Command represents a slash command that can be executed.
type Command struct {
	// Name is the primary command name (e.g., "/help")
	Name string

	// Aliases are alternative names (e.g., "/h", "/?")
	Aliases []string

	Description string

	// Usage shows argument syntax (e.g., "/use <collection>")
	Usage string

	Args []ArgDef

	Handler func(ctx *Context, args []string) Result

	// Category for grouping in help display
	Category string
}

// ArgDef defines an argument for a command.
type ArgDef struct {
	Name        string
	Required    bool
	Type        ArgType
	Description string

	// Values for enum types
	Values []string
}

// ArgType indicates what kind of completion to provide.
type ArgType int

const (
	ArgTypeString     ArgType = iota // Free-form string
	ArgTypeFile                      // File path
	ArgTypeEnum                      // One of predefined values
	ArgTypeCollection                // Collection name from the registry
	ArgTypeDocument                  // Document id from the registry
	ArgTypePrompt                    // Prompt template name
)

// Context gives handlers the running application.
type Context struct {
	App *app.App
}

// Result is what a handler produced.
type Result struct {
	// Cmd performs any backend work; run it through the app loop.
	Cmd tea.Cmd

	// Output is text to show the user.
	Output string

	// Quit asks the front end to exit.
	Quit bool

	Err error
}

// ErrNotCommand is returned by Execute for input without a leading slash.
var ErrNotCommand = errors.New("not a command")

// UnknownCommandError names a command that is not registered.
type UnknownCommandError struct {
	Name       string
	Suggestion string
}

func (e *UnknownCommandError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown command %s (did you mean %s?)", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("unknown command %s - type /help", e.Name)
}

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds all registered commands.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]*Command
}

// NewRegistry creates a registry with all built-in commands.
func NewRegistry() *Registry {
	r := &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Command),
	}
	r.registerBuiltins()
	return r
}

// Register adds a command to the registry.
func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		r.aliases[alias] = cmd
	}
}

// Get retrieves a command by name or alias, ignoring case.
func (r *Registry) Get(name string) *Command {
	name = strings.ToLower(name)
	if cmd, ok := r.commands[name]; ok {
		return cmd
	}
	return r.aliases[name]
}

// All returns all registered commands sorted by name.
func (r *Registry) All() []*Command {
	cmds := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
	return cmds
}

// ByCategory returns commands grouped by category.
func (r *Registry) ByCategory() map[string][]*Command {
	result := make(map[string][]*Command)
	for _, cmd := range r.All() {
		category := cmd.Category
		if category == "" {
			category = "General"
		}
		result[category] = append(result[category], cmd)
	}
	return result
}

// Execute parses input and runs the matching command.
func (r *Registry) Execute(ctx *Context, input string) Result {
	parsed := NewParser(r).Parse(input)
	if !parsed.IsCommand {
		return Result{Err: ErrNotCommand}
	}
	if parsed.Command == nil {
		return Result{Err: &UnknownCommandError{Name: parsed.CommandName, Suggestion: r.suggest(parsed.CommandName)}}
	}
	if err := ValidateArgs(parsed.Command, parsed.Args); err != nil {
		return Result{Err: err}
	}
	return parsed.Command.Handler(ctx, parsed.Args)
}

// suggest returns the only command name starting with prefix, if exactly one does.
func (r *Registry) suggest(prefix string) string {
	prefix = strings.ToLower(prefix)
	if len(prefix) < 2 {
		return ""
	}
	var match string
	for _, cmd := range r.All() {
		if strings.HasPrefix(cmd.Name, prefix) {
			if match != "" {
				return ""
			}
			match = cmd.Name
		}
	}
	return match
}

// =============================================================================
// BUILT-IN COMMANDS
// =============================================================================

func (r *Registry) registerBuiltins() {
	// Documents
	r.Register(&Command{
		Name:        "/upload",
		Aliases:     []string{"/up"},
		Description: "Upload a PDF, DOCX or TXT file",
		Usage:       "/upload <file> [collection]",
		Args: []ArgDef{
			{Name: "file", Required: true, Type: ArgTypeFile, Description: "Path to the document"},
			{Name: "collection", Type: ArgTypeCollection, Description: "Target collection (default: default)"},
		},
		Category: "Documents",
		Handler:  handleUpload,
	})
	r.Register(&Command{
		Name:        "/delete",
		Aliases:     []string{"/rm"},
		Description: "Delete a document",
		Usage:       "/delete <id|filename>",
		Args: []ArgDef{
			{Name: "document", Required: true, Type: ArgTypeDocument, Description: "Document id or filename"},
		},
		Category: "Documents",
		Handler:  handleDelete,
	})
	r.Register(&Command{
		Name:        "/docs",
		Aliases:     []string{"/ls"},
		Description: "List uploaded documents",
		Category:    "Documents",
		Handler:     handleDocs,
	})
	r.Register(&Command{
		Name:        "/collections",
		Description: "List collections",
		Category:    "Documents",
		Handler:     handleCollections,
	})
	r.Register(&Command{
		Name:        "/refresh",
		Description: "Reload documents, collections and prompts",
		Category:    "Documents",
		Handler:     handleRefresh,
	})

	// Chat
	r.Register(&Command{
		Name:        "/use",
		Description: "Choose the collection questions search",
		Usage:       "/use [collection|all]",
		Args: []ArgDef{
			{Name: "collection", Type: ArgTypeCollection, Description: "Collection name or all"},
		},
		Category: "Chat",
		Handler:  handleUse,
	})
	r.Register(&Command{
		Name:        "/clear",
		Aliases:     []string{"/new"},
		Description: "Clear the chat and start a new session",
		Category:    "Chat",
		Handler:     handleClear,
	})
	r.Register(&Command{
		Name:        "/prompts",
		Description: "List prompt templates",
		Category:    "Chat",
		Handler:     handlePrompts,
	})
	r.Register(&Command{
		Name:        "/prompt",
		Description: "Load a prompt template into the input",
		Usage:       "/prompt <name>",
		Args: []ArgDef{
			{Name: "name", Required: true, Type: ArgTypePrompt, Description: "Template name"},
		},
		Category: "Chat",
		Handler:  handlePrompt,
	})
	r.Register(&Command{
		Name:        "/export",
		Description: "Save the transcript to a file",
		Usage:       "/export [json|md|txt] [path]",
		Args: []ArgDef{
			{Name: "format", Type: ArgTypeEnum, Values: []string{"json", "md", "markdown", "txt", "text"}, Description: "Output format"},
			{Name: "path", Type: ArgTypeFile, Description: "Output file"},
		},
		Category: "Chat",
		Handler:  handleExport,
	})

	// Navigation
	r.Register(&Command{
		Name:        "/help",
		Aliases:     []string{"/h", "/?"},
		Description: "Show available commands",
		Usage:       "/help [command]",
		Args: []ArgDef{
			{Name: "command", Type: ArgTypeString, Description: "Command to describe"},
		},
		Category: "Navigation",
		Handler:  handleHelp(r),
	})
	r.Register(&Command{
		Name:        "/quit",
		Aliases:     []string{"/q", "/exit"},
		Description: "Exit ragdesk",
		Category:    "Navigation",
		Handler:     handleQuit,
	})
}
