// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Playback Engine - these keys select and tune the engine bound to the player window.
const (
	PlayerEngine     = "player.engine"
	PlayerNative     = "player.native"
	PlayerAutoplay   = "player.autoplay"
	PlayerFullscreen = "player.fullscreen"
)

// Stream Validation - these keys govern the pre-flight request made before playback.
const (
	StreamDefaultProtocol = "stream.default_protocol"
	StreamTimeout         = "stream.timeout"
	StreamUserAgent       = "stream.user_agent"
	StreamProbeManifest   = "stream.probe_manifest"
)

// History Tracking - these keys configure the persistence of remembered streams.
const (
	HistorySaveOnPlay      = "history.save_on_play"
	HistoryShowSuggestions = "history.show_suggestions"
)

// Local Stream Server - these keys configure the bundled file server.
const (
	ServerPort       = "server.port"
	ServerRoot       = "server.root"
	ServerRateLimit  = "server.rate_limit"
	ServerMetrics    = "server.metrics"
	ServerCORSOrigin = "server.cors_origin"
)

// Terminal User Interface (TUI) - these keys define the interactive form's styling.
const (
	TUIPromptString = "tui.prompt"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
