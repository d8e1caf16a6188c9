/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	pb "github.com/ponyo877/chatroom/pkg/api/chatroompb"
	"github.com/spf13/cobra"
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send <message...>",
	Short: "Posts a message to the room.",
	Long: `Posts a message as the username given by --name or the config file.
The username must have logged in at least once.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username, err := resolveUsername()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Second*10)
		defer cancel()
		return send(ctx, chatroomClient, username, strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
}

func send(ctx context.Context, client pb.ChatRoomClient, username, text string) error {
	res, err := client.SendMessage(ctx, &pb.SendMessageRequest{Username: username, Message: text})
	if err != nil {
		return fmt.Errorf("send as %q: %w", username, err)
	}
	if !res.GetOk() {
		return fmt.Errorf("send as %q: %w: username is not registered", username, errRejected)
	}
	return nil
}
