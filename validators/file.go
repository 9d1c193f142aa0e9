package validators

import (
	"errors"
	"slices"
	"strings"
	"unicode/utf8"
)

var (
	ErrFileNameEmpty       = errors.New("file name is required")
	ErrFileNameTooLong     = errors.New("file name is too long")
	ErrFileNameInvalid     = errors.New("file name contains invalid characters")
	ErrFileTypeUnsupported = errors.New("unsupported file type")
)

const maxFileNameSize = 255

func FileNameValidator(name string) error {
	if name == "" {
		return ErrFileNameEmpty
	}

	if len(name) > maxFileNameSize {
		return ErrFileNameTooLong
	}

	if !utf8.ValidString(name) || strings.ContainsAny(name, "/\\\x00") {
		return ErrFileNameInvalid
	}

	return nil
}

// FileTypeValidator checks mime against the allow list. Parameters such as
// charset are ignored and an empty list allows everything.
func FileTypeValidator(mime string, allowed []string) error {
	if len(allowed) == 0 {
		return nil
	}

	base, _, _ := strings.Cut(mime, ";")
	if !slices.Contains(allowed, strings.TrimSpace(base)) {
		return ErrFileTypeUnsupported
	}

	return nil
}
