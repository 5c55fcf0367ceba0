package config

// Application constants
const (
	// Application Info
	AppName = "posagg"

	// EnvPrefix namespaces every environment variable (POSAGG_LOGGING_LEVEL, ...)
	EnvPrefix = "POSAGG"

	// Container input
	DefaultSeriesName = "Position"
	DefaultExtension  = ".hdf5"

	// Report files, written into the output folder
	DefaultAverageFile     = "average_positions.csv"
	DefaultMaxDistanceFile = "max_distances.csv"
	DefaultWorkbookFile    = "position_report.xlsx"

	// Report formats
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	// Report compression
	CompressionNone = "none"
	CompressionGzip = "gzip"
	CompressionZstd = "zstd"
	CompressionLZ4  = "lz4"

	// Logging
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogOutput = "console"
	DefaultLogFile   = "logs/posagg.log"

	// Processing limits
	MaxWorkers = 64
)
