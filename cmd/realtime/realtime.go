package realtime

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/clearvoice/superhear/internal/conf"
	"github.com/clearvoice/superhear/internal/enhance"
)

// Command creates the command that runs the real-time enhancement session.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "realtime",
		Short: "Enhance audio in realtime mode",
		Long:  "Capture audio, run it through the enhancement chain and play it back with minimal latency.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return enhance.Realtime(settings)
		},
	}

	if err := setupFlags(cmd, settings); err != nil {
		fmt.Printf("error setting up flags: %v\n", err)
		os.Exit(1)
	}

	return cmd
}

// setupFlags configures flags specific to the realtime command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) error {
	cmd.Flags().StringVar(&settings.Audio.Device, "source", viper.GetString("audio.device"), "Audio device (\"sysdefault\", \"USB Audio\", \":0,0\", etc.), empty for system default")
	cmd.Flags().IntVar(&settings.Audio.SampleRate, "samplerate", viper.GetInt("audio.samplerate"), "Session sample rate in Hz")
	cmd.Flags().IntVar(&settings.Audio.BlockSize, "blocksize", viper.GetInt("audio.blocksize"), "Samples per processing block")
	cmd.Flags().BoolVar(&settings.Audio.Export.Enabled, "export", viper.GetBool("audio.export.enabled"), "Record the enhanced output to a WAV file")
	cmd.Flags().StringVar(&settings.Audio.Export.Path, "exportpath", viper.GetString("audio.export.path"), "Directory to save recordings in")
	cmd.Flags().BoolVar(&settings.Telemetry.Enabled, "telemetry", viper.GetBool("telemetry.enabled"), "Enable Prometheus telemetry endpoint")
	cmd.Flags().StringVar(&settings.Telemetry.Listen, "listen", viper.GetString("telemetry.listen"), "Listen address and port of telemetry endpoint")

	// Bind flags to the viper settings
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}

	return nil
}
