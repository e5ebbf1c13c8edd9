// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import "fmt"

// Handler runs one line-mode command.
type Handler func(env *Env, args Args) error

var handlers = map[Command]Handler{
	CmdAsk:         HandleAsk,
	CmdChat:        HandleChat,
	CmdDocs:        HandleDocs,
	CmdUpload:      HandleUpload,
	CmdDelete:      HandleDelete,
	CmdCollections: HandleCollections,
	CmdPrompts:     HandlePrompts,
	CmdWatch:       HandleWatch,
}

// Run loads configuration, builds the controllers and runs a line-mode
// command. The TUI, config, version and help are dispatched by main.
func Run(cmd Command, args Args) error {
	handler, ok := handlers[cmd]
	if !ok {
		return fmt.Errorf("%s is not a line-mode command", cmd)
	}
	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}
	env, err := NewEnv(cfg, args, nil)
	if err != nil {
		return err
	}
	defer env.Close()
	return handler(env, args)
}
