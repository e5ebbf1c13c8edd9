// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// documents.go - Listing, upload and delete commands.
package cli

import (
	"fmt"
	"strings"

	"github.com/jeranaias/ragdesk/internal/api"
	"github.com/jeranaias/ragdesk/internal/chat"
	"github.com/jeranaias/ragdesk/internal/commands"
	"github.com/jeranaias/ragdesk/internal/prompts"
	"github.com/jeranaias/ragdesk/internal/registry"
	"github.com/jeranaias/ragdesk/internal/util"
)

// HandleDocs lists uploaded documents.
func HandleDocs(env *Env, args Args) error {
	loaded, _ := env.runOnce(env.App.Registry.LoadDocuments()).(registry.DocumentsLoadedMsg)
	if loaded.Err != nil {
		return Reported(loaded.Err)
	}
	docs := env.App.Registry.Documents()
	if args.JSON {
		return NewJSONResponse("docs", docs).Write(env.Out)
	}
	fmt.Fprintln(env.Out, commands.FormatDocuments(docs))
	return nil
}

// HandleCollections lists collection names.
func HandleCollections(env *Env, args Args) error {
	loaded, _ := env.runOnce(env.App.Registry.LoadCollections()).(registry.CollectionsLoadedMsg)
	if loaded.Err != nil {
		return Reported(loaded.Err)
	}
	names := env.App.Registry.Collections()
	if args.JSON {
		return NewJSONResponse("collections", names).Write(env.Out)
	}
	if len(names) == 0 {
		fmt.Fprintln(env.Out, DimStyle.Render("No collections yet"))
		return nil
	}
	for _, name := range names {
		fmt.Fprintln(env.Out, name)
	}
	return nil
}

// PromptsResult is the JSON shape of the prompts command.
type PromptsResult struct {
	Prompts  []api.PromptTemplate `json:"prompts"`
	Fallback bool                 `json:"fallback"`
}

// HandlePrompts lists prompt templates. The built-in set is shown, with a
// warning, when the backend cannot provide them.
func HandlePrompts(env *Env, args Args) error {
	loaded, _ := env.runOnce(env.App.Prompts.Load()).(prompts.PromptsLoadedMsg)
	if args.JSON {
		return NewJSONResponse("prompts", PromptsResult{Prompts: loaded.Prompts, Fallback: loaded.Fallback}).Write(env.Out)
	}
	if loaded.Fallback && !args.Quiet {
		fmt.Fprintln(env.Err, WarningStyle.Render("Backend prompts unavailable, showing built-in templates"))
	}
	width := 0
	for _, p := range loaded.Prompts {
		if w := util.StringWidth(p.Name); w > width {
			width = w
		}
	}
	for _, p := range loaded.Prompts {
		content := util.FirstLine(p.Content)
		if content == "" {
			content = DimStyle.Render("(empty)")
		}
		fmt.Fprintf(env.Out, "%s  %s\n", util.PadRight(p.Name, width), content)
	}
	return nil
}

// UploadResult is the JSON shape of the upload command.
type UploadResult struct {
	Filename   string `json:"filename"`
	Collection string `json:"collection"`
	Chunks     int    `json:"chunks"`
}

// HandleUpload uploads args.Path into args.Collection, or the configured
// default collection.
func HandleUpload(env *Env, args Args) error {
	collection := args.Collection
	if collection == "" {
		collection = env.App.Registry.CollectionInput()
	}
	if collection == chat.AllCollections {
		return NewValidationError("collection", collection, `"all" is not a collection you can upload into`)
	}

	cmd, err := env.App.Registry.UploadFile(args.Path, collection)
	if err != nil {
		if registry.IsInvalidFileType(err) {
			return Reported(NewValidationError("file", args.Path, err.Error()))
		}
		return Reported(NewCommandError("upload", "read file", args.Path, err))
	}
	done, _ := env.runOnce(cmd).(registry.UploadFinishedMsg)
	if done.Err != nil {
		return Reported(done.Err)
	}

	if args.JSON {
		return NewJSONResponse("upload", UploadResult{
			Filename:   done.Response.Filename,
			Collection: done.Collection,
			Chunks:     done.Response.Chunks,
		}).Write(env.Out)
	}
	return nil
}

// HandleDelete deletes the document with id args.DocumentID.
func HandleDelete(env *Env, args Args) error {
	id := api.DocumentID(strings.TrimSpace(args.DocumentID))
	done, _ := env.runOnce(env.App.Registry.Delete(id)).(registry.DeleteFinishedMsg)
	if done.Err != nil {
		if api.IsNotFound(done.Err) {
			return Reported(NewNotFoundError("document", id.String()))
		}
		return Reported(done.Err)
	}
	if args.JSON {
		return NewJSONResponse("delete", map[string]string{"id": id.String()}).Write(env.Out)
	}
	return nil
}
