package drive

import (
	"path"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"tgdrive/internal/config"
	"tgdrive/internal/domain"
)

var errInvalidName = &domain.ValidationError{Message: "Invalid folder name, try again"}

// characters that cannot appear in a folder name; each becomes "_"
const forbiddenNameChars = `\/:*?"<>|`

// SanitizeFolderName normalizes user text into a folder name.
// Separators and reserved characters are replaced, and names that still
// look like a traversal ("..", ".") are rejected.
func SanitizeFolderName(raw string) (string, error) {
	name := path.Clean(strings.TrimSpace(raw))

	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(forbiddenNameChars, r) {
			return '_'
		}
		return r
	}, name)

	if strings.Contains(name, "..") || name == "." {
		return "", errInvalidName
	}

	err := validation.Validate(name,
		validation.Required,
		validation.Length(1, config.MaxFolderNameLength),
	)
	if err != nil {
		return "", errInvalidName
	}

	return name, nil
}
