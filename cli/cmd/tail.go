/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	pb "github.com/ponyo877/chatroom/pkg/api/chatroompb"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	tailCursor uint64

	logonColor  = color.New(color.FgGreen)
	logoutColor = color.New(color.FgYellow)
)

// tailCmd represents the tail command
var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Follows the room's messages.",
	Long: `Prints every message from --cursor on and keeps following new ones
until interrupted. Logon and logout notices are colored.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		stream, err := chatroomClient.GetMessageStream(ctx, &pb.GetMessageStreamRequest{
			Username: viper.GetString(usernameKey),
			Cursor:   tailCursor,
		})
		if err != nil {
			return fmt.Errorf("open message stream: %w", err)
		}
		return printStream(ctx, stream, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(tailCmd)
	tailCmd.Flags().Uint64VarP(&tailCursor, "cursor", "c", 0, "Log index to start from")
}

type messageReceiver interface {
	Recv() (*pb.GetMessageStreamReply, error)
}

// printStream writes every non-probe message to out until the stream ends
// or ctx is cancelled.
func printStream(ctx context.Context, stream messageReceiver, out io.Writer) error {
	return recvMessages(ctx, stream, func(msg string) {
		printMessage(out, msg)
	})
}

// recvMessages calls fn for every non-probe message on stream. A clean end
// of stream or a cancelled ctx is not an error.
func recvMessages(ctx context.Context, stream messageReceiver, fn func(string)) error {
	for {
		reply, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			if ctx.Err() != nil || status.Code(err) == codes.Canceled {
				return nil
			}
			return fmt.Errorf("receive message: %w", err)
		}
		if reply.IsProbe() {
			continue
		}
		fn(reply.GetMessage())
	}
}

func printMessage(out io.Writer, msg string) {
	switch messageKind(msg) {
	case kindLogon:
		logonColor.Fprintln(out, msg)
	case kindLogout:
		logoutColor.Fprintln(out, msg)
	default:
		fmt.Fprintln(out, msg)
	}
}

type kind int

const (
	kindUser kind = iota
	kindLogon
	kindLogout
)

// messageKind tells system notices apart from user posts, which carry ": "
// after the username.
func messageKind(msg string) kind {
	if strings.Contains(msg, ": ") {
		return kindUser
	}
	switch {
	case strings.HasSuffix(msg, " logged on!"):
		return kindLogon
	case strings.HasSuffix(msg, " logged out!"):
		return kindLogout
	default:
		return kindUser
	}
}
