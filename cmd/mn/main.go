package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/adship/mininote"
	_ "github.com/joho/godotenv/autoload"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configPath  string
	wireLogFile string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "mn [note]",
	Short: "Take short notes from the command line",
	Long: `mn saves short notes, annotated with #hashtags, to a notes sync service.

Without a command, the arguments are saved as a new note; without arguments either, mn prompts for the note.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(*cobra.Command, []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
	RunE: runAdd,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"configuration file (default $MININOTE_CONFIG or ~/.mininote/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&wireLogFile, "wire-log", "", "log sync API requests and responses to this file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug messages")
	_ = rootCmd.PersistentFlags().MarkHidden("wire-log")
	_ = rootCmd.PersistentFlags().MarkHidden("verbose")
	rootCmd.AddCommand(addCmd, searchCmd, editCmd, loginCmd, setEditorCmd, setNotebookCmd)
}

func main() {
	log.SetLevel(log.WarnLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, context.Canceled):
		// Interrupted by the user.
	case errors.Is(err, mininote.ErrNotLoggedIn):
		log.Error(`Please login using "mn login"`)
	case errors.Is(err, mininote.ErrEditor):
		log.WithField("cause", err).Error(`Error opening text editor. Please specify an editor with 'mn set-editor "<path-to-editor>"'`)
	default:
		log.WithField("cause", err).Error("Failed")
	}
	os.Exit(1)
}

func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return mininote.DefaultConfigPath()
}

// loadConfig loads the configuration with environment variables expanded, ready for use.
func loadConfig() (*mininote.Config, error) {
	cfg, _, err := loadRawConfig()
	if err != nil {
		return nil, err
	}
	return cfg.Expanded(), nil
}

// loadRawConfig loads the configuration as written, for changing and saving it.
func loadRawConfig() (*mininote.Config, string, error) {
	path, err := resolveConfigPath()
	if err != nil {
		return nil, "", err
	}
	cfg, err := mininote.LoadRawConfig(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// newClient creates a client from the configuration and loads the local copy of the notes. A missing or
// corrupted local copy only costs a full sync.
func newClient(cfg *mininote.Config) (*mininote.Client, error) {
	if err := cfg.ValidateForSync(); err != nil {
		return nil, err
	}
	opts := []mininote.ClientOption{mininote.WithEndpoint(cfg.Endpoint)}
	if cfg.StateDir != "" {
		opts = append(opts, mininote.WithStateDir(cfg.StateDir))
	}
	if cfg.NotebookGUID != "" {
		opts = append(opts, mininote.WithNotebook(cfg.NotebookGUID))
	}
	if wireLogFile != "" {
		opts = append(opts, mininote.WithWireLog(wireLogFile))
	}
	client, err := mininote.NewClient(cfg.AuthToken, opts...)
	if err != nil {
		return nil, err
	}
	if err := client.Load(); err != nil {
		log.WithField("cause", err).Debug("Could not load local data, will do a full sync")
	}
	return client, nil
}

// dump saves the local copy of the notes. Failing only makes the next sync slower.
func dump(client *mininote.Client) {
	if err := client.Dump(); err != nil {
		log.WithField("cause", err).Warning("Could not dump data locally")
	}
}
