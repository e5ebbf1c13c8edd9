// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/ragdesk/internal/api"
	"github.com/jeranaias/ragdesk/internal/chat"
	"github.com/jeranaias/ragdesk/internal/export"
	"github.com/jeranaias/ragdesk/internal/util"
)

// Column widths for /docs.
const (
	idWidth         = 12
	filenameWidth   = 36
	collectionWidth = 18
)

// =============================================================================
// DOCUMENT HANDLERS
// =============================================================================

// handleUpload uploads a file without disturbing the TUI's selected candidate.
// Validation failures are reported by the registry as notices.
func handleUpload(ctx *Context, args []string) Result {
	collection := ctx.App.Registry.CollectionInput()
	if len(args) > 1 {
		collection = args[1]
	}
	cmd, err := ctx.App.Registry.UploadFile(args[0], collection)
	if err != nil {
		return Result{}
	}
	return Result{Cmd: cmd}
}

func handleDelete(ctx *Context, args []string) Result {
	id := resolveDocument(ctx, args[0])
	return Result{Cmd: ctx.App.Registry.Delete(id)}
}

// resolveDocument accepts a document id, or a filename shared by no other document.
func resolveDocument(ctx *Context, ref string) api.DocumentID {
	if _, ok := ctx.App.Registry.Document(api.DocumentID(ref)); ok {
		return api.DocumentID(ref)
	}
	var match []api.Document
	for _, d := range ctx.App.Registry.Documents() {
		if d.Filename == ref {
			match = append(match, d)
		}
	}
	if len(match) == 1 {
		return match[0].ID
	}
	return api.DocumentID(ref)
}

func handleDocs(ctx *Context, _ []string) Result {
	return Result{Output: FormatDocuments(ctx.App.Registry.Documents())}
}

// FormatDocuments renders documents as an aligned table.
func FormatDocuments(docs []api.Document) string {
	if len(docs) == 0 {
		return "No documents uploaded yet"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s  %s  %s  %s\n",
		util.PadRight("ID", idWidth), util.PadRight("FILENAME", filenameWidth),
		util.PadRight("COLLECTION", collectionWidth), "SIZE")
	for _, d := range docs {
		fmt.Fprintf(&sb, "%s  %s  %s  %s\n",
			util.PadRight(d.ID.String(), idWidth), util.PadRight(d.Filename, filenameWidth),
			util.PadRight(d.Collection, collectionWidth), d.SizeKB())
	}
	fmt.Fprintf(&sb, "%d document(s)", len(docs))
	return sb.String()
}

func handleCollections(ctx *Context, _ []string) Result {
	names := ctx.App.Registry.Collections()
	if len(names) == 0 {
		return Result{Output: "No collections yet"}
	}
	current := ctx.App.Chat.Collection()
	var sb strings.Builder
	for _, name := range names {
		marker := "  "
		if name == current {
			marker = "* "
		}
		sb.WriteString(marker + name + "\n")
	}
	return Result{Output: strings.TrimRight(sb.String(), "\n")}
}

func handleRefresh(ctx *Context, _ []string) Result {
	ctx.App.Prompts.Invalidate()
	return Result{Cmd: tea.Batch(ctx.App.Registry.Refresh(), ctx.App.Prompts.Load())}
}

// =============================================================================
// CHAT HANDLERS
// =============================================================================

func handleUse(ctx *Context, args []string) Result {
	if len(args) == 0 {
		return Result{Output: "Searching: " + ctx.App.Chat.Collection()}
	}
	name := args[0]
	if !strings.EqualFold(name, chat.AllCollections) && !containsString(ctx.App.Registry.Collections(), name) {
		return Result{Err: fmt.Errorf("unknown collection %q (see /collections)", name)}
	}
	if strings.EqualFold(name, chat.AllCollections) {
		name = chat.AllCollections
	}
	ctx.App.Chat.SetCollection(name)
	return Result{Output: "Searching: " + name}
}

func handleClear(ctx *Context, _ []string) Result {
	ctx.App.Chat.Clear()
	return Result{}
}

func handlePrompts(ctx *Context, _ []string) Result {
	list := ctx.App.Prompts.Prompts()
	if len(list) == 0 {
		return Result{Output: "No prompt templates"}
	}
	var sb strings.Builder
	if ctx.App.Prompts.UsingFallback() {
		sb.WriteString("(built-in templates, backend unavailable)\n")
	}
	for _, p := range list {
		fmt.Fprintf(&sb, "  %s  %s\n", util.PadRight(p.Name, 24), util.TruncateWidth(util.FirstLine(p.Content), 50))
	}
	return Result{Output: strings.TrimRight(sb.String(), "\n")}
}

func handlePrompt(ctx *Context, args []string) Result {
	name := strings.Join(args, " ")
	if !ctx.App.ApplyPrompt(name) {
		return Result{Err: fmt.Errorf("unknown prompt %q (see /prompts)", name)}
	}
	return Result{Output: "Loaded prompt: " + name}
}

func handleExport(ctx *Context, args []string) Result {
	format := ""
	if len(args) > 0 {
		format = args[0]
	}
	exporter, err := export.ForFormat(format)
	if err != nil {
		return Result{Err: err}
	}
	path := ""
	if len(args) > 1 {
		path = args[1]
	}
	written, err := export.ToFile(ctx.App.Chat.Conversation(), exporter, path)
	if err != nil {
		return Result{Err: err}
	}
	return Result{Output: "Exported to " + written}
}

// =============================================================================
// NAVIGATION HANDLERS
// =============================================================================

func handleHelp(r *Registry) func(*Context, []string) Result {
	return func(_ *Context, args []string) Result {
		if len(args) > 0 {
			name := args[0]
			if !strings.HasPrefix(name, "/") {
				name = "/" + name
			}
			cmd := r.Get(name)
			if cmd == nil {
				return Result{Err: &UnknownCommandError{Name: name, Suggestion: r.suggest(name)}}
			}
			return Result{Output: describe(cmd)}
		}
		return Result{Output: Help(r)}
	}
}

// Help lists every command grouped by category.
func Help(r *Registry) string {
	groups := r.ByCategory()
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, group := range names {
		sb.WriteString(group + ":\n")
		for _, cmd := range groups[group] {
			usage := cmd.Usage
			if usage == "" {
				usage = cmd.Name
			}
			fmt.Fprintf(&sb, "  %s  %s\n", util.PadRight(usage, 32), cmd.Description)
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func describe(cmd *Command) string {
	var sb strings.Builder
	usage := cmd.Usage
	if usage == "" {
		usage = cmd.Name
	}
	fmt.Fprintf(&sb, "%s\n  %s", usage, cmd.Description)
	if len(cmd.Aliases) > 0 {
		fmt.Fprintf(&sb, "\n  aliases: %s", strings.Join(cmd.Aliases, ", "))
	}
	for _, arg := range cmd.Args {
		req := "optional"
		if arg.Required {
			req = "required"
		}
		fmt.Fprintf(&sb, "\n  %s (%s): %s", arg.Name, req, arg.Description)
	}
	return sb.String()
}

func handleQuit(_ *Context, _ []string) Result {
	return Result{Quit: true}
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
