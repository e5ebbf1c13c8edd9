// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - The "config" command.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jeranaias/ragdesk/internal/config"
)

// HandleConfig runs a config subcommand. show and get report the effective
// configuration, environment and flags included; set and reset edit the file.
func HandleConfig(args Args, out, errw io.Writer) error {
	switch args.Subcommand {
	case "", "show":
		return handleConfigShow(args, out)
	case "get":
		return handleConfigGet(args, out)
	case "set":
		return handleConfigSet(args, out)
	case "reset":
		return handleConfigReset(args, out)
	case "path":
		return handleConfigPath(args, out, errw)
	}
	return NewValidationError("config subcommand", args.Subcommand, "expected show, get, set, path or reset")
}

// configPath returns the file config edits act on.
func configPath(args Args) (string, error) {
	if args.ConfigPath != "" {
		return args.ConfigPath, nil
	}
	path, err := config.ConfigPathTOML()
	if err != nil {
		return "", &ConfigError{Err: err}
	}
	return path, nil
}

func handleConfigShow(args Args, out io.Writer) error {
	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}
	if args.JSON {
		return NewJSONResponse("config", cfg).Write(out)
	}

	fmt.Fprintln(out, TitleStyle.Render("ragdesk configuration"))
	fmt.Fprintln(out, RenderSeparator(41))

	section := ""
	for _, key := range config.GetAllKeys() {
		name := key
		if head, field, ok := strings.Cut(key, "."); ok {
			if head != section {
				section = head
				fmt.Fprintln(out)
				fmt.Fprintln(out, SectionStyle.Render("["+section+"]"))
			}
			name = field
		}
		value, err := cfg.Get(key)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "  %s%s\n", RenderLabel(name+":"), formatConfigValue(value))
	}

	if path, err := configPath(args); err == nil {
		fmt.Fprintln(out)
		fmt.Fprintln(out, RenderSeparator(41))
		fmt.Fprintf(out, "Config file: %s\n", DimStyle.Render(path))
	}
	return nil
}

func formatConfigValue(v interface{}) string {
	if s, ok := v.(string); ok && s == "" {
		return DimStyle.Render("(not set)")
	}
	return ValueStyle.Render(fmt.Sprint(v))
}

func handleConfigGet(args Args, out io.Writer) error {
	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}
	value, err := cfg.Get(args.ConfigKey)
	if err != nil {
		return NewValidationError("key", args.ConfigKey, err.Error())
	}
	if args.JSON {
		return NewJSONResponse("config", map[string]interface{}{args.ConfigKey: value}).Write(out)
	}
	fmt.Fprintln(out, value)
	return nil
}

// handleConfigSet edits the file only; environment overrides are not
// written back.
func handleConfigSet(args Args, out io.Writer) error {
	path, err := configPath(args)
	if err != nil {
		return err
	}

	cfg := config.Default()
	if _, statErr := os.Stat(path); statErr == nil {
		if err := config.LoadTOML(cfg, path); err != nil {
			return &ConfigError{Path: path, Err: err}
		}
	} else if !errors.Is(statErr, os.ErrNotExist) {
		return &ConfigError{Path: path, Err: statErr}
	}

	if err := cfg.Set(args.ConfigKey, args.ConfigVal); err != nil {
		return NewValidationError("key", args.ConfigKey, err.Error())
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return &ConfigError{Path: path, Err: err}
	}
	if err := config.SaveTOML(cfg, path); err != nil {
		return &ConfigError{Path: path, Err: err}
	}

	value, _ := cfg.Get(args.ConfigKey)
	if args.JSON {
		return NewJSONResponse("config", map[string]interface{}{args.ConfigKey: value}).Write(out)
	}
	fmt.Fprintf(out, "%s %s = %v\n", SuccessStyle.Render("[OK]"), args.ConfigKey, value)
	return nil
}

func handleConfigReset(args Args, out io.Writer) error {
	path, err := configPath(args)
	if err != nil {
		return err
	}
	if err := config.SaveTOML(config.Default(), path); err != nil {
		return &ConfigError{Path: path, Err: err}
	}
	if args.JSON {
		return NewJSONResponse("config", map[string]string{"path": path}).Write(out)
	}
	fmt.Fprintf(out, "%s Configuration reset to defaults\n", SuccessStyle.Render("[OK]"))
	fmt.Fprintf(out, "Config file: %s\n", DimStyle.Render(path))
	return nil
}

func handleConfigPath(args Args, out, errw io.Writer) error {
	path, err := configPath(args)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, path)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) && !args.Quiet {
		fmt.Fprintln(errw, DimStyle.Render("(file does not exist; defaults are in effect)"))
	}
	return nil
}
