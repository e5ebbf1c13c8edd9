// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing for ragdesk.
package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdDocs
	CmdUpload
	CmdDelete
	CmdCollections
	CmdPrompts
	CmdWatch
	CmdConfig
	CmdVersion
	CmdHelp
)

var commandNames = map[Command]string{
	CmdTUI:         "tui",
	CmdAsk:         "ask",
	CmdChat:        "chat",
	CmdDocs:        "docs",
	CmdUpload:      "upload",
	CmdDelete:      "delete",
	CmdCollections: "collections",
	CmdPrompts:     "prompts",
	CmdWatch:       "watch",
	CmdConfig:      "config",
	CmdVersion:     "version",
	CmdHelp:        "help",
}

// String returns the command name as typed.
func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "unknown"
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Backend    string // --backend overrides backend.url
	ConfigPath string // --config reads this file instead of the default
	JSON       bool
	Quiet      bool
	Verbose    bool

	// Command-specific
	Query           string
	Collection      string
	Path            string // file for upload, directory for watch
	DocumentID      string
	IncludeExisting bool // watch: upload files already present
	Subcommand      string
	ConfigKey       string
	ConfigVal       string

	// Raw args after the command name
	Raw []string
}

// boolFlags never take a value.
var boolFlags = []string{"json", "quiet", "q", "verbose", "v", "help", "h", "version", "existing"}

const usageText = `ragdesk - ask questions about your documents

Usage:
  ragdesk                            Start the TUI (default)
  ragdesk ask "question"             Ask a single question
  ragdesk chat                       Interactive line-mode chat
  ragdesk docs, ls                   List uploaded documents
  ragdesk upload FILE                Upload a PDF, DOCX or TXT file
  ragdesk delete, rm ID              Delete a document
  ragdesk collections                List collections
  ragdesk prompts                    List prompt templates
  ragdesk watch DIR                  Upload files as they appear in DIR
  ragdesk config [show|get|set|path|reset]
  ragdesk version                    Show version

Options:
  -c, --collection NAME   Collection to search (ask, chat) or upload into
                          (upload, watch). "all" searches everything.
  --existing              watch: also upload files already in DIR
  --backend URL           Backend root, overrides backend.url
  --config FILE           Read configuration from FILE
  --json                  Machine-readable output
  -q, --quiet             Only report errors
  -v, --verbose           Debug logging

Examples:
  ragdesk ask "What is the evacuation procedure?" -c safety_manual
  ragdesk upload ./manual.pdf --collection safety_manual
  ragdesk config set backend.timeout_secs 60
  ragdesk watch ~/inbox --collection intake --existing

Environment:
  RAGDESK_BACKEND_URL     Backend root (REACT_APP_BACKEND_URL also accepted)
  RAGDESK_CONFIG          Config file location
  RAGDESK_TIMEOUT         Request timeout, seconds or a duration
  RAGDESK_LOG_LEVEL       debug, info, warn or error
  NO_COLOR                Disable colored output

Version: %s
`

// PrintUsage writes the usage text to w.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, Version)
}

// VersionData is the JSON shape of the version command.
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

// PrintVersion writes version information to w.
func PrintVersion(w io.Writer, jsonMode bool) error {
	if jsonMode {
		return NewJSONResponse("version", VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
		}).Write(w)
	}
	fmt.Fprintf(w, "ragdesk version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
	return nil
}

// =============================================================================
// PARSING
// =============================================================================

// Parse maps argv (without the program name) to a command and its arguments.
// Usage problems are returned as *ValidationError.
func Parse(argv []string) (Command, Args, error) {
	p := NewArgParser(argv, boolFlags...)
	args := Args{
		Backend:    p.Flag("backend"),
		ConfigPath: p.Flag("config"),
		JSON:       p.BoolFlag("json"),
		Quiet:      p.BoolFlag("quiet", "q"),
		Verbose:    p.BoolFlag("verbose", "v"),
		Collection: p.Flag("collection", "c"),
		Raw:        p.PositionalFrom(1),
	}

	name := strings.ToLower(p.Positional(0))
	if name == "" {
		switch {
		case p.BoolFlag("help", "h"):
			return CmdHelp, args, nil
		case p.BoolFlag("version"):
			return CmdVersion, args, nil
		}
		return CmdTUI, args, nil
	}

	switch name {
	case "tui":
		return CmdTUI, args, nil

	case "ask":
		args.Query = JoinPositionalArgs(p, 1)
		if strings.TrimSpace(args.Query) == "" {
			return CmdAsk, args, NewValidationErrorWithExample("query", "", "a question is required",
				`ragdesk ask "What is the evacuation procedure?"`)
		}
		return CmdAsk, args, nil

	case "chat":
		return CmdChat, args, nil

	case "docs", "ls", "documents":
		return CmdDocs, args, nil

	case "upload", "up":
		args.Path = p.Positional(1)
		if args.Path == "" {
			return CmdUpload, args, NewValidationErrorWithExample("file", "", "a file to upload is required",
				"ragdesk upload ./manual.pdf --collection safety_manual")
		}
		return CmdUpload, args, nil

	case "delete", "rm":
		args.DocumentID = p.Positional(1)
		if args.DocumentID == "" {
			return CmdDelete, args, NewValidationErrorWithExample("document", "", "a document id is required",
				"ragdesk delete 3")
		}
		return CmdDelete, args, nil

	case "collections":
		return CmdCollections, args, nil

	case "prompts":
		return CmdPrompts, args, nil

	case "watch":
		args.Path = p.Positional(1)
		args.IncludeExisting = p.BoolFlag("existing")
		if args.Path == "" {
			return CmdWatch, args, NewValidationErrorWithExample("directory", "", "a directory to watch is required",
				"ragdesk watch ~/inbox --collection intake")
		}
		return CmdWatch, args, nil

	case "config":
		return CmdConfig, args, parseConfigArgs(&args, p)

	case "version":
		return CmdVersion, args, nil

	case "help":
		return CmdHelp, args, nil
	}

	return CmdHelp, args, NewValidationError("command", name, "unknown command (see ragdesk help)")
}

// parseConfigArgs fills the config subcommand and its operands.
func parseConfigArgs(args *Args, p *ArgParser) error {
	args.Subcommand = strings.ToLower(p.Positional(1))
	if args.Subcommand == "" {
		args.Subcommand = "show"
	}
	args.ConfigKey = p.Positional(2)
	args.ConfigVal = JoinPositionalArgs(p, 3)

	switch args.Subcommand {
	case "show", "path", "reset":
		return nil
	case "get":
		if args.ConfigKey == "" {
			return NewValidationErrorWithExample("key", "", "a key is required", "ragdesk config get backend.url")
		}
		return nil
	case "set":
		if args.ConfigKey == "" || p.PositionalCount() < 4 {
			return NewValidationErrorWithExample("key", args.ConfigKey, "a key and a value are required",
				"ragdesk config set backend.url http://localhost:8000")
		}
		return nil
	}
	return NewValidationError("config subcommand", args.Subcommand, "expected show, get, set, path or reset")
}
