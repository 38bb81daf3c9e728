package config

import "time"

const (
	// MaxFolderNameLength is the maximum length for folder names.
	// Long names also make unusable keyboard buttons.
	MaxFolderNameLength = 255

	// DefaultPageSize is the number of folder entries shown per explorer page.
	DefaultPageSize = 50

	// MaxPageSize stays under the platform's limit of 100 inline keyboard buttons,
	// leaving room for the header and navigation rows.
	MaxPageSize = 90

	// DefaultWorkerLimit bounds how many intents are handled at once.
	DefaultWorkerLimit = 32

	// DefaultInputTimeout is how long a prompt (e.g. rename) waits for the reply.
	DefaultInputTimeout = 5 * time.Minute
)
