package config

// ConfigDiff describes what changed between two configs.
// Only fields that can be safely hot-reloaded are tracked; provider and
// listener changes require a restart.
type ConfigDiff struct {
	LogLevelChanged bool
	NewLogLevel     LogLevel

	// SpeechChanged is true when the default voice, language, or rate changed.
	SpeechChanged bool
	NewSpeech     SpeechConfig

	// DrillChanged is true when the match threshold or record window changed.
	DrillChanged bool
	NewDrill     DrillConfig

	// CourseChanged is true when the course file path changed; the catalog is
	// reloaded on the next request.
	CourseChanged bool
	NewCourseFile string
}

// Diff compares old and new configs and returns what changed.
// Only tracks changes that are safe to apply without restart.
func Diff(old, new *Config) ConfigDiff {
	d := ConfigDiff{}

	if old.Server.LogLevel != new.Server.LogLevel {
		d.LogLevelChanged = true
		d.NewLogLevel = new.Server.LogLevel
	}

	if old.Speech != new.Speech {
		d.SpeechChanged = true
		d.NewSpeech = new.Speech
	}

	if old.Drill != new.Drill {
		d.DrillChanged = true
		d.NewDrill = new.Drill
	}

	if old.Course.File != new.Course.File {
		d.CourseChanged = true
		d.NewCourseFile = new.Course.File
	}

	return d
}
