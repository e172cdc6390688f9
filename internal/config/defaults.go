package config

const (
	defaultConfigPath            = "~/.config/autosrt/config.toml"
	defaultWorkDir               = "~/.local/share/autosrt/work"
	defaultStateDir              = "~/.local/share/autosrt"
	defaultLogDir                = "~/.local/share/autosrt/logs"
	defaultResourceID            = "volc.seedasr.auc"
	defaultSubmitURL             = "https://openspeech-direct.zijieapi.com/api/v3/auc/bigmodel/submit"
	defaultQueryURL              = "https://openspeech-direct.zijieapi.com/api/v3/auc/bigmodel/query"
	defaultUID                   = "auto_srt_user"
	defaultModelName             = "bigmodel"
	defaultPollIntervalSeconds   = 3
	defaultRequestTimeoutSeconds = 60
	defaultPollTransportRetries  = 3
	defaultAudioFormat           = "mp3"
	defaultFFmpegBinary          = "ffmpeg"
	defaultMinFreeMiB            = 256
	defaultPublishPrefix         = "subtitles"
	defaultPublishRegion         = "us-east-1"
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	envFileVar                   = "AUTOSRT_ENV_FILE"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:  defaultWorkDir,
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Volcengine: Volcengine{
			ResourceID:            defaultResourceID,
			SubmitURL:             defaultSubmitURL,
			QueryURL:              defaultQueryURL,
			UID:                   defaultUID,
			ModelName:             defaultModelName,
			PollIntervalSeconds:   defaultPollIntervalSeconds,
			RequestTimeoutSeconds: defaultRequestTimeoutSeconds,
			PollTransportRetries:  defaultPollTransportRetries,
		},
		Audio: Audio{
			Format:       defaultAudioFormat,
			FFmpegBinary: defaultFFmpegBinary,
			MinFreeMiB:   defaultMinFreeMiB,
		},
		History: History{
			Enabled: true,
		},
		Publish: Publish{
			Prefix: defaultPublishPrefix,
			Region: defaultPublishRegion,
			UseSSL: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
