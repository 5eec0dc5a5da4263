package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	tinderclient "github.com/RassulYunussov/tinderclient"
	"github.com/RassulYunussov/tinderclient/common"
)

// authorize <fb-token> <fb-user-id>: print the auth response, including the token to pass as --token.
func authorizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "authorize <facebook-token> <facebook-user-id>",
		Short: "Exchange Facebook credentials for a session token",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := client.Authorize(cmd.Context(), args[0], args[1])
			return output(cmd, body, err)
		},
	}
}

func recsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recs",
		Short: "List recommendations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := client.GetRecommendations(cmd.Context())
			return output(cmd, body, err)
		},
	}
}

func accountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "account",
		Short: "Show the authorized account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := client.GetAccount(cmd.Context())
			return output(cmd, body, err)
		},
	}
}

func userCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "user <user-id>",
		Short: "Show a user profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := client.GetUser(cmd.Context(), args[0])
			return output(cmd, body, err)
		},
	}
}

func updatesCmd() *cobra.Command {
	var since string
	cmd := &cobra.Command{
		Use:   "updates",
		Short: "Fetch matches and messages changed since a date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := tinderclient.ParseActivityDate(since)
			if err != nil {
				return err
			}
			body, err := client.GetUpdates(cmd.Context(), date)
			return output(cmd, body, err)
		},
	}
	cmd.Flags().StringVar(&since, "since", "", "RFC 3339 timestamp, all updates when empty")
	return cmd
}

func messageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "message <match-id> <text>",
		Short: "Send a message to a match",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := client.SendMessage(cmd.Context(), args[0], args[1])
			return output(cmd, body, err)
		},
	}
}

func likeCmd() *cobra.Command {
	var photoID, contentHash, sNumber string
	cmd := &cobra.Command{
		Use:   "like <user-id>",
		Short: "Like a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := client.Like(cmd.Context(), args[0], photoID, contentHash, sNumber)
			if errors.Is(err, tinderclient.ErrOutOfLikes) {
				// still show the body, it carries the time likes reset
				if perr := printJSON(cmd.OutOrStdout(), body); perr != nil {
					return perr
				}
				return err
			}
			return output(cmd, body, err)
		},
	}
	cmd.Flags().StringVar(&photoID, "photo-id", "", "id of the liked photo")
	cmd.Flags().StringVar(&contentHash, "content-hash", "", "content hash of the user")
	cmd.Flags().StringVar(&sNumber, "s-number", "", "s_number of the user")
	return cmd
}

func passCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pass <user-id>",
		Short: "Pass on a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := client.Pass(cmd.Context(), args[0])
			return output(cmd, body, err)
		},
	}
}

func output(cmd *cobra.Command, body common.Payload, err error) error {
	if err != nil {
		if tinderclient.IsNotAuthorized(err) {
			return fmt.Errorf("%w (run authorize and pass --token)", err)
		}
		return err
	}
	return printJSON(cmd.OutOrStdout(), body)
}
