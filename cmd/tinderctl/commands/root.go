package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	tinderclient "github.com/RassulYunussov/tinderclient"
	json "github.com/goccy/go-json"
)

var (
	configPath string
	baseURL    string
	token      string

	client *tinderclient.Client
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	configPath, baseURL, token, client = "", "", "", nil

	root := &cobra.Command{
		Use:          "tinderctl",
		Short:        "Command line client for the Tinder API",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cmd.ErrOrStderr())

			opts := []tinderclient.Option{tinderclient.WithLogger(logger)}
			if configPath == "" {
				configPath = os.Getenv("TINDER_CONFIG")
			}
			if configPath != "" {
				cfg, err := tinderclient.LoadConfig(configPath)
				if err != nil {
					return err
				}
				opts = append(opts, tinderclient.WithConfig(cfg))
			}
			if baseURL == "" {
				baseURL = os.Getenv("TINDER_BASE_URL")
			}
			opts = append(opts, tinderclient.WithBaseURL(baseURL))

			client = tinderclient.New(opts...)
			if token == "" {
				token = os.Getenv("TINDER_AUTH_TOKEN")
			}
			client.SetAuthToken(token)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file, JSON or YAML (default $TINDER_CONFIG)")
	root.PersistentFlags().StringVar(&baseURL, "base-url", "", "API base URL (default $TINDER_BASE_URL or "+tinderclient.DefaultBaseURL+")")
	root.PersistentFlags().StringVar(&token, "token", "", "session token from authorize (default $TINDER_AUTH_TOKEN)")

	root.AddCommand(
		authorizeCmd(),
		recsCmd(),
		accountCmd(),
		userCmd(),
		updatesCmd(),
		messageCmd(),
		likeCmd(),
		passCmd(),
		statusCmd(),
	)
	return root
}

// newLogger reads LOG_LEVEL (debug, info, warn, error) and LOG_FORMAT (text, json).
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
