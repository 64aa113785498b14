package config

// DefaultStatementCacheSize is the default size of the parsed statement cache.
const DefaultStatementCacheSize = 128

// InterpreterConfiguration contains settings of the program interpreter.
type InterpreterConfiguration struct {
	// StrictStart makes a repeated `faka start` inside the block an error
	// instead of being silently accepted.
	StrictStart bool `yaml:"StrictStart"`
	// StatementCacheSize is the number of parsed statements kept while
	// running a program, 0 means the default.
	StatementCacheSize int `yaml:"StatementCacheSize"`
}
