package types

import "errors"

// Config holds backend selection and file locations for Store.Attach.
type Config struct {
	Backend       string `json:"backend" yaml:"backend"`
	DataDir       string `json:"data_dir" yaml:"data_dir"`
	EntriesFile   string `json:"entries_file" yaml:"entries_file"`
	ReferenceFile string `json:"reference_file" yaml:"reference_file"`
}

// Supported backend names.
const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
)

// Default file names inside DataDir.
const (
	DefaultEntriesFile   = "data.csv"
	DefaultReferenceFile = "data.json"
)

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendCSV:    true,
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	return nil
}

// EntriesName returns the entries file name, falling back to the default.
func (c Config) EntriesName() string {
	if c.EntriesFile == "" {
		return DefaultEntriesFile
	}
	return c.EntriesFile
}

// ReferenceName returns the reference file name, falling back to the default.
func (c Config) ReferenceName() string {
	if c.ReferenceFile == "" {
		return DefaultReferenceFile
	}
	return c.ReferenceFile
}
