package database

// Config holds database connection settings. It is filled by the
// application from its own configuration; this package stays below the
// config and logger layers.
type Config struct {
	Host           string
	Port           string
	User           string
	Password       string
	Name           string
	SSLMode        string
	MaxConnections int
}
