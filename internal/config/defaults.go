package config

const (
	defaultConfigPath          = "~/.config/subburn/config.toml"
	defaultInstallDir          = "~/.local/share/subburn"
	defaultWorkDir             = "work"
	defaultOutputDir           = "output"
	defaultLogDir              = "logs"
	defaultModelsDir           = "whisper_models"
	defaultHistoryPath         = "history.db"
	defaultFFmpeg              = "ffmpeg"
	defaultFFprobe             = "ffprobe"
	defaultMagick              = "magick"
	defaultWhisper             = "whisper"
	defaultTextColor           = "white"
	defaultOutlineColor        = "black"
	defaultFont                = "Arial"
	defaultFontSize            = 18
	defaultBoxHeight           = 40
	defaultOutlineOffset       = 1
	defaultWrapWidth           = 60
	defaultMaxLines            = 2
	defaultModel               = "small"
	defaultSourceLanguage      = "en"
	defaultTranslationBaseURL  = "https://openrouter.ai/api/v1/chat/completions"
	defaultTranslationModel    = "google/gemini-3-flash-preview"
	defaultTranslationReferer  = "https://github.com/subburn/subburn"
	defaultTranslationTitle    = "subburn translator"
	defaultTranslationTimeout  = 30
	defaultOutputFormat        = "mp4"
	defaultOutputBasename      = "subtitled_video"
	defaultVideoCodec          = "libx264"
	defaultPreset              = "veryfast"
	defaultMaxWorkers          = 8
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	tempAudioName              = "temp_audio.wav"
	lockFileName               = "subburn.lock"
	modelExtension             = ".pt"
	maxWorkersCeiling          = 8
	defaultToolTimeoutSeconds  = 0
	defaultTranslationLanguage = ""
)

// OutputFormats lists the containers the encoder accepts.
var OutputFormats = []string{"mp4", "avi", "mov", "mkv", "flv", "wmv"}

// Models lists the recognition model names shipped with an installation.
var Models = []string{"tiny", "base", "small", "medium", "large"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			InstallDir: defaultInstallDir,
			WorkDir:    defaultWorkDir,
			OutputDir:  defaultOutputDir,
			LogDir:     defaultLogDir,
			ModelsDir:  defaultModelsDir,
		},
		Tools: Tools{
			FFmpeg:  defaultFFmpeg,
			FFprobe: defaultFFprobe,
			Magick:  defaultMagick,
			Whisper: defaultWhisper,
		},
		Style: Style{
			TextColor:     defaultTextColor,
			OutlineColor:  defaultOutlineColor,
			Font:          defaultFont,
			FontSize:      defaultFontSize,
			BoxHeight:     defaultBoxHeight,
			OutlineOffset: defaultOutlineOffset,
			WrapWidth:     defaultWrapWidth,
			MaxLines:      defaultMaxLines,
		},
		Recognition: Recognition{
			Model:          defaultModel,
			SourceLanguage: defaultSourceLanguage,
		},
		Translation: Translation{
			TargetLanguage: defaultTranslationLanguage,
			BaseURL:        defaultTranslationBaseURL,
			Model:          defaultTranslationModel,
			Referer:        defaultTranslationReferer,
			Title:          defaultTranslationTitle,
			TimeoutSeconds: defaultTranslationTimeout,
		},
		Encode: Encode{
			OutputFormat:   defaultOutputFormat,
			OutputBasename: defaultOutputBasename,
			VideoCodec:     defaultVideoCodec,
			Preset:         defaultPreset,
		},
		Pipeline: Pipeline{
			MaxWorkers:         defaultMaxWorkers,
			ToolTimeoutSeconds: defaultToolTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		History: History{
			Enabled: true,
			Path:    defaultHistoryPath,
		},
	}
}
