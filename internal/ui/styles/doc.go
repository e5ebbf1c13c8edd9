// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles holds the ragdesk colour palette and the lipgloss styles built
from it.

# Colours (colors.go)

Every colour is a lipgloss.AdaptiveColor so the same palette reads on light
and dark terminals:

  - Cyan: brand colour, user messages, the active tab
  - Purple: assistant messages and selections
  - Emerald: success notices
  - Amber: warnings and the pending spinner
  - Rose: errors and documents being deleted

Status lines always carry a text indicator ([OK], [X], [!], [i]) as well as a
colour, so they stay readable with NO_COLOR set.

# Theme (theme.go)

Theme groups the styles the TUI draws with. NewTheme takes the configured
mode ("dark", "light" or "auto") and picks the lipgloss background
accordingly.
*/
package styles
