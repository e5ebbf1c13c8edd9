// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// watch.go - The "watch" command: upload files dropped into a directory.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jeranaias/ragdesk/internal/watch"
)

// HandleWatch uploads supported files as they settle in args.Path until
// interrupted.
func HandleWatch(env *Env, args Args) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return runWatch(ctx, env, args)
}

func runWatch(ctx context.Context, env *Env, args Args) error {
	cfg := env.Config
	collection := args.Collection
	if collection == "" {
		collection = env.App.Registry.CollectionInput()
	}

	w, err := watch.New(watch.Config{
		Dir:              args.Path,
		Debounce:         time.Duration(cfg.Watch.DebounceMS) * time.Millisecond,
		UploadsPerMinute: cfg.Watch.UploadsPerMinute,
		IncludeExisting:  args.IncludeExisting,
		Logger:           env.Logger,
	})
	if err != nil {
		return NewValidationError("directory", args.Path, err.Error())
	}

	if !args.Quiet {
		fmt.Fprintf(env.Err, "%s %s %s\n",
			TitleStyle.Render("Watching"), args.Path,
			DimStyle.Render(fmt.Sprintf("(collection %s, Ctrl+C to stop)", collection)))
	}
	return w.Run(ctx, watch.Uploader(env.App, collection))
}
