package config

const (
	// DefaultDatabasePath is the default path for the catalog database
	DefaultDatabasePath = "./locallibrary.db"

	// DefaultCollationLocale orders book titles in forms
	DefaultCollationLocale = "en"
)
