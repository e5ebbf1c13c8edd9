// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for ragdesk.
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - the --backend command-line flag (backend.url only)
//   - Environment variables (RAGDESK_*, REACT_APP_BACKEND_URL)
//   - ~/.ragdesk/config.toml, or the file named by RAGDESK_CONFIG
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := api.NewClientWithConfig(&api.ClientConfig{
//	    BaseURL: cfg.Backend.URL,
//	    Timeout: cfg.Timeout(),
//	})
package config
