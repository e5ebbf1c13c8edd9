// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package watch

import (
	"github.com/jeranaias/ragdesk/internal/app"
)

// Uploader returns a Handler that uploads each file into collection through
// the app's registry and waits for the upload and the refetch that follows it.
func Uploader(a *app.App, collection string) Handler {
	return func(path string) error {
		cmd, err := a.Registry.UploadFile(path, collection)
		if err != nil {
			return err
		}
		a.Drive(cmd)
		return nil
	}
}
