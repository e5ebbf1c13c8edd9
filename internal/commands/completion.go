// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jeranaias/ragdesk/internal/app"
	"github.com/jeranaias/ragdesk/internal/chat"
	"github.com/jeranaias/ragdesk/internal/registry"
)

// maxFileCompletions caps directory listings.
const maxFileCompletions = 20

// Completion represents a completion suggestion.
type Completion struct {
	// Value to insert
	Value string

	Description string

	// Score for ranking (higher = better match)
	Score int
}

// =============================================================================
// COMPLETER
// =============================================================================

// Completer handles tab completion for commands and arguments.
type Completer struct {
	registry *Registry

	// Callbacks for dynamic completion, set from the running app.
	CollectionsFn func() []string
	DocumentsFn   func() []string
	PromptsFn     func() []string
}

// NewCompleter creates a completer with no dynamic sources.
func NewCompleter(registry *Registry) *Completer {
	return &Completer{registry: registry}
}

// NewAppCompleter creates a completer fed by a's cached registry and prompts.
func NewAppCompleter(registry *Registry, a *app.App) *Completer {
	c := NewCompleter(registry)
	c.CollectionsFn = a.Registry.Collections
	c.DocumentsFn = func() []string {
		docs := a.Registry.Documents()
		ids := make([]string, 0, len(docs))
		for _, d := range docs {
			ids = append(ids, d.ID.String())
		}
		return ids
	}
	c.PromptsFn = func() []string {
		list := a.Prompts.Prompts()
		names := make([]string, 0, len(list))
		for _, p := range list {
			names = append(names, p.Name)
		}
		return names
	}
	return c
}

// Complete returns completions for the word being typed at the end of input.
func (c *Completer) Complete(input string) []Completion {
	if !strings.HasPrefix(strings.TrimLeft(input, " "), "/") {
		return nil
	}
	parts := splitCommandLine(input)
	trailingSpace := strings.HasSuffix(input, " ")

	if len(parts) == 0 {
		return c.completeCommands("")
	}
	if len(parts) == 1 && !trailingSpace {
		return c.completeCommands(parts[0])
	}

	cmd := c.registry.Get(parts[0])
	if cmd == nil {
		return nil
	}
	argIndex := len(parts) - 2
	partial := ""
	if trailingSpace {
		argIndex++
	} else {
		partial = parts[len(parts)-1]
	}
	return c.completeArg(cmd, argIndex, partial)
}

// Lines returns full replacement lines for input, for line editors that
// complete whole lines.
func (c *Completer) Lines(input string) []string {
	completions := c.Complete(input)
	if len(completions) == 0 {
		return nil
	}
	head := input
	if !strings.HasSuffix(input, " ") {
		if i := strings.LastIndex(input, " "); i >= 0 {
			head = input[:i+1]
		} else {
			head = ""
		}
	}
	lines := make([]string, 0, len(completions))
	for _, comp := range completions {
		lines = append(lines, head+comp.Value)
	}
	return lines
}

func (c *Completer) completeCommands(partial string) []Completion {
	var completions []Completion
	partial = strings.ToLower(partial)
	for _, cmd := range c.registry.All() {
		if strings.HasPrefix(cmd.Name, partial) {
			completions = append(completions, Completion{
				Value:       cmd.Name,
				Description: cmd.Description,
				Score:       calculateScore(cmd.Name, partial),
			})
		}
	}
	sortCompletions(completions)
	return completions
}

func (c *Completer) completeArg(cmd *Command, argIndex int, partial string) []Completion {
	if argIndex < 0 || argIndex >= len(cmd.Args) {
		return nil
	}
	arg := cmd.Args[argIndex]
	switch arg.Type {
	case ArgTypeFile:
		return completeFiles(partial)
	case ArgTypeEnum:
		return completeFromList(arg.Values, partial)
	case ArgTypeCollection:
		names := call(c.CollectionsFn)
		if cmd.Name == "/use" {
			names = append([]string{chat.AllCollections}, names...)
		}
		return completeFromList(names, partial)
	case ArgTypeDocument:
		return completeFromList(call(c.DocumentsFn), partial)
	case ArgTypePrompt:
		return completeFromList(call(c.PromptsFn), partial)
	}
	if cmd.Name == "/help" {
		names := make([]string, 0)
		for _, other := range c.registry.All() {
			names = append(names, strings.TrimPrefix(other.Name, "/"))
		}
		return completeFromList(names, partial)
	}
	return nil
}

func call(fn func() []string) []string {
	if fn == nil {
		return nil
	}
	return fn()
}

// completeFiles lists directories and uploadable files matching partial.
func completeFiles(partial string) []Completion {
	dir, prefix := filepath.Split(partial)
	readDir := dir
	if readDir == "" {
		readDir = "."
	}
	entries, err := os.ReadDir(readDir)
	if err != nil {
		return nil
	}

	var completions []Completion
	lowerPrefix := strings.ToLower(prefix)
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(strings.ToLower(name), lowerPrefix) {
			continue
		}
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(prefix, ".") {
			continue
		}
		if entry.IsDir() {
			completions = append(completions, Completion{
				Value:       dir + name + string(os.PathSeparator),
				Description: "directory",
				Score:       calculateScore(name, lowerPrefix) + 5,
			})
			continue
		}
		if registry.ValidateFile(name) != nil {
			continue
		}
		completions = append(completions, Completion{
			Value: dir + name,
			Score: calculateScore(name, lowerPrefix),
		})
	}
	sortCompletions(completions)
	if len(completions) > maxFileCompletions {
		completions = completions[:maxFileCompletions]
	}
	return completions
}

func completeFromList(values []string, partial string) []Completion {
	var completions []Completion
	partial = strings.ToLower(partial)
	for _, value := range values {
		if strings.HasPrefix(strings.ToLower(value), partial) {
			completions = append(completions, Completion{Value: value, Score: calculateScore(value, partial)})
		}
	}
	sortCompletions(completions)
	return completions
}

// calculateScore favours exact and short matches.
func calculateScore(value, partial string) int {
	if strings.EqualFold(value, partial) {
		return 100
	}
	return 50 - len(value) + len(partial)
}

func sortCompletions(completions []Completion) {
	sort.SliceStable(completions, func(i, j int) bool {
		if completions[i].Score != completions[j].Score {
			return completions[i].Score > completions[j].Score
		}
		return completions[i].Value < completions[j].Value
	})
}
