package conf

import "fmt"

// ValidateSettings checks the session-level settings. Chain parameters are
// validated separately by the pipeline when the parameter store is seeded,
// so a bad chain value in the config file is reported with the field name
// by the same code path a runtime update would use.
func ValidateSettings(settings *Settings) error {
	if settings == nil {
		return fmt.Errorf("settings is nil")
	}

	if settings.Audio.SampleRate <= 0 {
		return fmt.Errorf("audio.samplerate must be positive, got %d", settings.Audio.SampleRate)
	}

	if settings.Audio.BlockSize <= 0 {
		return fmt.Errorf("audio.blocksize must be positive, got %d", settings.Audio.BlockSize)
	}

	if settings.Audio.Export.Enabled && settings.Audio.Export.Path == "" {
		return fmt.Errorf("audio.export.path must be set when export is enabled")
	}

	return nil
}
