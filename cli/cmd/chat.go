package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	pb "github.com/ponyo877/chatroom/pkg/api/chatroompb"

	"github.com/c-bata/go-prompt"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var chatCursor uint64

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Starts a chat session in a tview-based interface",
	Long: `Logs on, then shows the room history above an input line.
Type a message and press Enter to post it. Ctrl+C leaves the room.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		username := strings.TrimSpace(viper.GetString(usernameKey))
		if username == "" {
			username = strings.TrimSpace(prompt.Input("Enter a username: ", noSuggestions))
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Second*10)
		err := login(ctx, chatroomClient, username, cmd.OutOrStdout())
		cancel()
		if err != nil {
			return err
		}

		return runChatUITview(cmd.Context(), chatroomClient, username, chatCursor)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().Uint64VarP(&chatCursor, "cursor", "c", 0, "Log index to start the history from")
}

func noSuggestions(prompt.Document) []prompt.Suggest {
	return nil
}

func runChatUITview(parent context.Context, client pb.ChatRoomClient, userName string, cursor uint64) error {
	app := tview.NewApplication()

	textView := tview.NewTextView().
		SetDynamicColors(true).
		SetWordWrap(true).
		SetScrollable(true).
		ScrollToEnd()

	inputField := tview.NewInputField().
		SetLabel(userName + " ❯❯ ").
		SetFieldWidth(0).
		SetAcceptanceFunc(tview.InputFieldMaxLength(256))

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(textView, 0, 1, false).
		AddItem(inputField, 1, 0, true)

	app.SetRoot(flex, true).SetFocus(inputField)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	stream, err := client.GetMessageStream(ctx, &pb.GetMessageStreamRequest{Username: userName, Cursor: cursor})
	if err != nil {
		return fmt.Errorf("open message stream: %w", err)
	}
	fmt.Fprintf(textView, "[green]Welcome! You are %s. (Ctrl+C to exit)\n", tview.Escape(userName))

	go func() {
		err := recvMessages(ctx, stream, func(msg string) {
			app.QueueUpdateDraw(func() {
				fmt.Fprintln(textView, tviewLine(msg))
				textView.ScrollToEnd()
			})
		})
		app.QueueUpdateDraw(func() {
			if err != nil {
				fmt.Fprintf(textView, "[red]Error receiving message: %v\n", tview.Escape(err.Error()))
				return
			}
			if ctx.Err() == nil {
				fmt.Fprintln(textView, "[red]Stream closed by server.")
			}
		})
	}()

	inputField.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		text := strings.TrimSpace(inputField.GetText())
		if text == "" {
			return
		}
		inputField.SetText("")

		sendCtx, sendCancel := context.WithTimeout(ctx, time.Second*10)
		defer sendCancel()
		if err := send(sendCtx, client, userName, text); err != nil {
			if errors.Is(err, errRejected) {
				cancel()
				app.Stop()
				return
			}
			fmt.Fprintf(textView, "[red]Failed to send message: %v\n", tview.Escape(err.Error()))
		}
	})

	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlC {
			cancel()
			app.Stop()
			return nil
		}
		return event
	})

	return app.Run()
}

// tviewLine renders msg with tview color tags.
func tviewLine(msg string) string {
	escaped := tview.Escape(msg)
	switch messageKind(msg) {
	case kindLogon:
		return "[green]" + escaped + "[white]"
	case kindLogout:
		return "[yellow]" + escaped + "[white]"
	default:
		name, text, found := strings.Cut(msg, ": ")
		if !found {
			return escaped
		}
		return fmt.Sprintf("[blue]%s[white]: %s", tview.Escape(name), tview.Escape(text))
	}
}
