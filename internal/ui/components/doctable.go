// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/ragdesk/internal/api"
	"github.com/jeranaias/ragdesk/internal/ui/styles"
	"github.com/jeranaias/ragdesk/internal/util"
)

// DocumentTable renders the document list with a cursor row.
type DocumentTable struct {
	Documents []api.Document
	Cursor    int
	Deleting  func(api.DocumentID) bool
	Width     int
	Height    int // visible rows, header excluded; 0 shows all
}

const (
	sizeColumn       = 10
	collectionColumn = 18
)

// View renders the table, scrolled so the cursor row is visible.
func (t DocumentTable) View(theme *styles.Theme) string {
	if len(t.Documents) == 0 {
		return theme.Muted.Render("No documents uploaded yet. Press u to upload one.")
	}

	nameWidth := t.Width - sizeColumn - collectionColumn - 6
	if nameWidth < 12 {
		nameWidth = 12
	}
	row := func(name, collection, size string) string {
		return "  " + util.PadRight(name, nameWidth) + "  " +
			util.PadRight(collection, collectionColumn) + "  " +
			util.PadRight(size, sizeColumn)
	}

	lines := []string{theme.TableHeader.Render(row("FILENAME", "COLLECTION", "SIZE"))}

	start, end := t.window()
	for i := start; i < end; i++ {
		d := t.Documents[i]
		line := row(d.Filename, d.Collection, d.SizeKB())
		switch {
		case t.Deleting != nil && t.Deleting(d.ID):
			line = theme.TableDeleting.Render(line)
		case i == t.Cursor:
			line = theme.TableSelected.Render(">" + line[1:])
		default:
			line = theme.TableRow.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// window returns the visible row range.
func (t DocumentTable) window() (int, int) {
	n := len(t.Documents)
	if t.Height <= 0 || n <= t.Height {
		return 0, n
	}
	start := t.Cursor - t.Height + 1
	if start < 0 {
		start = 0
	}
	return start, start + t.Height
}
