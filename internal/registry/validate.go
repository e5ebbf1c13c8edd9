// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package registry

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// SupportedExtensions lists the accepted upload types, lowercase and without dot.
var SupportedExtensions = []string{"pdf", "docx", "txt"}

var (
	// ErrNoFile is returned when an upload is requested without a selected file.
	ErrNoFile = errors.New("no file selected")

	// ErrFileTooLarge is returned when a file exceeds the configured size limit.
	ErrFileTooLarge = errors.New("file exceeds the upload size limit")
)

// InvalidFileTypeError rejects a file whose extension is not supported.
type InvalidFileTypeError struct {
	Filename  string
	Extension string
}

func (e *InvalidFileTypeError) Error() string {
	if e.Extension == "" {
		return fmt.Sprintf("%s: missing file extension (want pdf, docx or txt)", e.Filename)
	}
	return fmt.Sprintf("%s: unsupported file type %q (want pdf, docx or txt)", e.Filename, e.Extension)
}

// Extension returns the lowercased text after the last '.' of the file's base
// name, or "" when there is no dot.
func Extension(name string) string {
	base := filepath.Base(name)
	i := strings.LastIndex(base, ".")
	if i < 0 {
		return ""
	}
	return strings.ToLower(base[i+1:])
}

// ValidateFile checks the file name against SupportedExtensions.
func ValidateFile(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNoFile
	}
	ext := Extension(name)
	for _, ok := range SupportedExtensions {
		if ext == ok {
			return nil
		}
	}
	return &InvalidFileTypeError{Filename: filepath.Base(name), Extension: ext}
}

// IsInvalidFileType reports whether err is an InvalidFileTypeError.
func IsInvalidFileType(err error) bool {
	var target *InvalidFileTypeError
	return errors.As(err, &target)
}
