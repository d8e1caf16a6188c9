/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	pb "github.com/ponyo877/chatroom/pkg/api/chatroompb"

	"github.com/c-bata/go-prompt"
	"github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

var (
	cfgFile        string
	serverAddress  string
	chatroomClient pb.ChatRoomClient
	grpcConn       *grpc.ClientConn
)

const (
	serverAddressKey = "server_address"
	usernameKey      = "username"

	defaultServerAddress = "localhost:50051"
)

var errRejected = errors.New("rejected by server")

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chatroom",
	Short: "Terminal client for the chat room server",
	Long: `chatroom talks to a chat room server over gRPC.

Run a single command (chatroom chat, chatroom tail, ...) or start it without
arguments to enter interactive mode.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		conn, err := grpc.NewClient(serverAddress, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return fmt.Errorf("did not connect to gRPC server: %w", err)
		}
		grpcConn = conn
		chatroomClient = pb.NewChatRoomClient(conn)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if grpcConn != nil {
			err := grpcConn.Close()
			grpcConn = nil
			return err
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// one-shot
	if len(os.Args) > 1 {
		if err := rootCmd.Execute(); err != nil {
			os.Exit(1)
		}
		return
	}

	// REPL
	fmt.Println("entering interactive mode, type 'exit' to quit")
	for {
		line := strings.TrimSpace(prompt.Input("❯❯❯ ", replCompleter))
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}
		args, err := shellwords.Parse(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing input: %v\n", err)
			continue
		}
		rootCmd.SetArgs(args)
		if err := rootCmd.Execute(); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
	}
}

func replCompleter(d prompt.Document) []prompt.Suggest {
	if strings.Contains(d.TextBeforeCursor(), " ") {
		return nil
	}
	suggests := []prompt.Suggest{{Text: "exit", Description: "Leave interactive mode"}}
	for _, c := range rootCmd.Commands() {
		if c.Hidden || !c.IsAvailableCommand() {
			continue
		}
		suggests = append(suggests, prompt.Suggest{Text: c.Name(), Description: c.Short})
	}
	return prompt.FilterHasPrefix(suggests, d.GetWordBeforeCursor(), true)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.chatroom.yaml)")
	rootCmd.PersistentFlags().String("server", defaultServerAddress, "Address of the chat room gRPC server")
	rootCmd.PersistentFlags().StringP("name", "n", "", "Username to act as")

	viper.BindPFlag(serverAddressKey, rootCmd.PersistentFlags().Lookup("server"))
	viper.BindPFlag(usernameKey, rootCmd.PersistentFlags().Lookup("name"))
	viper.SetDefault(serverAddressKey, defaultServerAddress)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".chatroom" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".chatroom")
	}

	viper.SetEnvPrefix("CHATROOM")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "Error reading config file:", err)
		}
	}

	serverAddress = viper.GetString(serverAddressKey)
}

// resolveUsername returns the username from --name or the config file.
func resolveUsername() (string, error) {
	username := strings.TrimSpace(viper.GetString(usernameKey))
	if username == "" {
		return "", errors.New("username is not set; use --name or set username in the config file")
	}
	return username, nil
}
