/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	pb "github.com/ponyo877/chatroom/pkg/api/chatroompb"
	"github.com/spf13/cobra"
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Logs a username on to the room.",
	Long: `Registers the username on first use and marks it online.
The login is refused while the same username is already online.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := ""
		if len(args) == 1 {
			username = args[0]
		} else {
			var err error
			if username, err = resolveUsername(); err != nil {
				return err
			}
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Second*10)
		defer cancel()
		return login(ctx, chatroomClient, username, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

func login(ctx context.Context, client pb.ChatRoomClient, username string, out io.Writer) error {
	res, err := client.Login(ctx, &pb.LoginRequest{Username: username})
	if err != nil {
		return fmt.Errorf("login as %q: %w", username, err)
	}
	if !res.GetOk() {
		return fmt.Errorf("login as %q: %w: username is empty or already online", username, errRejected)
	}
	fmt.Fprintf(out, "successful login as username %s!\n", username)
	return nil
}
