package config

// Convert defaults.
const (
	DefaultPlatform              = "wx"
	DefaultRewriteAssetPaths     = true
	DefaultRenamePlatformKeyword = true
	DefaultRepairAliasing        = true
	DefaultHasVant               = false
	DefaultWorkers               = 0
	DefaultStaticDir             = "static"
)

// Output defaults.
const (
	DefaultOutputFormat = FormatText
	DefaultOutputDir    = ""
	DefaultSingleFile   = true
	DefaultSkipVendored = true
)

// Logging defaults.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Telemetry defaults.
const (
	DefaultOTLPEndpoint = ""
	DefaultOTLPInsecure = false
	DefaultSampleRatio  = 1.0
	DefaultTraceVerbose = false
	DefaultMetricsFile  = ""
)

// Report formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)
