package conf

import (
	"github.com/spf13/viper"
)

// setDefaultConfig sets the default values for the viper configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	// Main defaults
	viper.SetDefault("main.name", "SuperHear")
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "superhear.log")
	viper.SetDefault("main.log.rotation", RotationDaily)
	viper.SetDefault("main.log.maxsize", 1048576)

	// Audio session defaults
	viper.SetDefault("audio.device", "")
	viper.SetDefault("audio.samplerate", 44100)
	viper.SetDefault("audio.blocksize", 1024)
	viper.SetDefault("audio.export.enabled", false)
	viper.SetDefault("audio.export.path", "recordings/")

	// Telemetry defaults
	viper.SetDefault("telemetry.enabled", false)
	viper.SetDefault("telemetry.listen", "localhost:8090")

	// Enhancement chain defaults
	viper.SetDefault("chain.inputgaindb", 0.0)
	viper.SetDefault("chain.noisegatethreshold", 0.01)
	viper.SetDefault("chain.speechfocusenabled", false)
	viper.SetDefault("chain.bandpasslowhz", 300.0)
	viper.SetDefault("chain.bandpasshighhz", 3400.0)
	viper.SetDefault("chain.compressorenabled", true)
	viper.SetDefault("chain.compressorthresholddb", -50.0)
	viper.SetDefault("chain.compressorratio", 8.0)
	viper.SetDefault("chain.compressorattackms", 5.0)
	viper.SetDefault("chain.compressorreleasems", 100.0)
	viper.SetDefault("chain.makeupgaindb", 10.0)
	viper.SetDefault("chain.outputgaindb", 0.0)
	viper.SetDefault("chain.limiterenabled", true)
	viper.SetDefault("chain.limiterthresholddb", -1.0)
}
