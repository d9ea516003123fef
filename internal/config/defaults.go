package config

const (
	defaultOutputDir    = "~/Downloads/HumbleBundle"
	defaultDatabasePath = "~/.humblebundle/downloads.db"
	defaultLogDir       = "~/.local/share/humblesync/logs"

	defaultMaxConcurrent    = 3
	defaultNotificationSecs = 5
	defaultItemRemovalSecs  = 10

	defaultHumbleBinary    = "humble-cli"
	defaultListTimeoutSecs = 60

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// MaxConcurrentLimit is the upper bound on simultaneous downloads. The queue
// enforces the same bound at construction time.
const MaxConcurrentLimit = 10

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir:    defaultOutputDir,
			DatabasePath: defaultDatabasePath,
			LogDir:       defaultLogDir,
		},
		Downloads: Downloads{
			MaxConcurrent:    defaultMaxConcurrent,
			NotificationSecs: defaultNotificationSecs,
			ItemRemovalSecs:  defaultItemRemovalSecs,
		},
		Humble: Humble{
			Binary:          defaultHumbleBinary,
			ListTimeoutSecs: defaultListTimeoutSecs,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
