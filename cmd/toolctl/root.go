package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/th3jlux/toolsmith/internal/controller"
)

type cliOptions struct {
	serverUrl string
	yes       bool

	controller *controller.Controller
	binding    *consoleBinding
}

func newRootCommand() *cobra.Command {
	opts := cliOptions{serverUrl: "http://localhost:8000"}

	if env := os.Getenv("TOOLSMITH_URL"); env != "" {
		opts.serverUrl = env
	}

	root := &cobra.Command{
		Use:           "toolctl",
		Short:         "CLI client for a running toolsmith server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			opts.binding = &consoleBinding{out: cmd.OutOrStdout()}
			notifier := &consoleNotifier{
				out:        cmd.OutOrStdout(),
				in:         cmd.InOrStdin(),
				autoAccept: opts.yes,
			}
			backend := controller.NewClient(strings.TrimSpace(opts.serverUrl))
			opts.controller = controller.New(backend, notifier, opts.binding)
		},
	}

	root.PersistentFlags().StringVar(&opts.serverUrl, "server", opts.serverUrl, "base URL of the toolsmith server")
	root.PersistentFlags().BoolVar(&opts.yes, "yes", false, "answer yes to confirmation prompts")

	root.AddCommand(
		newSubmitCmd(&opts),
		newDeleteCmd(&opts),
		newCodeCmd(&opts),
		newSaveCmd(&opts),
		newChatCmd(&opts),
	)

	return root
}
