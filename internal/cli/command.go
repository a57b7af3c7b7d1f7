package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/vmarinov/cliplingo/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cliplingo",
		Short: "Clipboard screenshot translator",
		Long: `cliplingo grabs an image from the system clipboard, recognizes the
text in it with a remote vision model and translates the result.

Examples:
  cliplingo                      # Launch the GUI (default)
  cliplingo --once               # One pass on the current clipboard, print to stdout
  cliplingo --set-key KEY        # Save the recognition API key and exit
  cliplingo --history 10         # Print the 10 most recent runs`,
		Args:    cobra.NoArgs,
		Version: internal.Version,
	}

	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.cliplingo.yaml)")

	// Local flags
	cmd.Flags().BoolVar(&flags.Once, "once", false, "Run one clipboard pass without the GUI and print the result")
	cmd.Flags().StringVar(&flags.SetKey, "set-key", "", "Save the recognition API key and exit")
	cmd.Flags().IntVar(&flags.HistoryLimit, "history", 0, "Print the N most recent runs and exit")
	cmd.Flags().BoolVar(&flags.NoHistory, "no-history", false, "Do not record runs in the history database")
	cmd.Flags().StringVar(&flags.RecognitionEndpoint, "recognition-endpoint", "", "Override the recognition service URL")
	cmd.Flags().StringVar(&flags.TranslationEndpoint, "translation-endpoint", "", "Override the translation service URL")
	cmd.Flags().IntVar(&flags.TimeoutSeconds, "timeout", flags.TimeoutSeconds, "Remote call timeout in seconds")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("service.recognition_endpoint", cmd.Flags().Lookup("recognition-endpoint"))
	viper.BindPFlag("service.translation_endpoint", cmd.Flags().Lookup("translation-endpoint"))
	viper.BindPFlag("service.timeout_seconds", cmd.Flags().Lookup("timeout"))
	viper.BindPFlag("history.disabled", cmd.Flags().Lookup("no-history"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".cliplingo" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".cliplingo")
	}

	// Environment variables
	viper.SetEnvPrefix("CLIPLINGO")
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// KeyFilePath returns where the recognition API key is persisted
func KeyFilePath() string {
	if path := viper.GetString("credential.path"); path != "" {
		return path
	}
	return filepath.Join(internal.StateDir(), "api_key")
}

// HistoryPath returns where the run history database lives
func HistoryPath() string {
	if path := viper.GetString("history.path"); path != "" {
		return path
	}
	return filepath.Join(internal.StateDir(), "history.db")
}

// RecognitionEndpoint returns the configured recognition service URL,
// or an empty string for the built-in default
func RecognitionEndpoint() string {
	return viper.GetString("service.recognition_endpoint")
}

// TranslationEndpoint returns the configured translation service URL,
// or an empty string for the built-in default
func TranslationEndpoint() string {
	return viper.GetString("service.translation_endpoint")
}
