package store

// Config aggregates per backend configuration
type Config struct {
	AppName string

	PG   PGConfig
	Lite LiteConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int
}

// LiteConfig configures the embedded sqlite file.
// Path ":memory:" opens an in-memory database, used by tests
type LiteConfig struct {
	Enabled bool
	Path    string
	LogSQL  bool
}
