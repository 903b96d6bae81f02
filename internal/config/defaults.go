package config

const (
	defaultStateDir        = "~/.local/share/gridtrace"
	defaultLogDir          = "~/.local/share/gridtrace/logs"
	defaultVectorFieldName = "DN"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Raster: Raster{
			Extensions: []string{".asc"},
		},
		Vector: Vector{
			FieldName: defaultVectorFieldName,
		},
		Ledger: Ledger{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
