package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/th3jlux/toolsmith/internal/controller"
	"github.com/th3jlux/toolsmith/internal/domain"
)

// Notified errors (validation, backend messages) are already on the
// terminal; printing them again as a cobra error would double up.
func quiet(err error) error {
	var vErr controller.ValidationError
	var bErr controller.BackendError

	if errors.As(err, &vErr) || errors.As(err, &bErr) {
		return errors.New("command failed")
	}

	return err
}

func newSubmitCmd(opts *cliOptions) *cobra.Command {
	var title, prompt, selection string

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Generate a new tool from a description",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if selection != "" {
				if err := opts.controller.Select(0, selection); err != nil {
					return quiet(err)
				}
			}

			if err := opts.controller.SubmitCreation(cmd.Context(), title, prompt); err != nil {
				return quiet(err)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "display title of the tool")
	cmd.Flags().StringVar(&prompt, "prompt", "", "what the tool should do")
	cmd.Flags().StringVar(&selection, "select", "", "existing tool href to regenerate, e.g. /notes_html")

	return cmd
}

func newDeleteCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <title>",
		Short: "Delete a generated tool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.controller.DeleteTool(cmd.Context(), args[0]); err != nil {
				return quiet(err)
			}

			return nil
		},
	}
}

func newCodeCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "code <title>",
		Short: "Show a tool's generated sources, e.g. code /notes_html",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.controller.OpenCodeEditor(cmd.Context(), args[0]); err != nil {
				return quiet(err)
			}

			return nil
		},
	}
}

func newSaveCmd(opts *cliOptions) *cobra.Command {
	var pythonFile, htmlFile string

	cmd := &cobra.Command{
		Use:   "save <title>",
		Short: "Push edited sources back to the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var pair domain.CodePair

			if pythonFile != "" {
				content, err := os.ReadFile(pythonFile)

				if err != nil {
					return err
				}

				pair.PythonCode = string(content)
			}

			if htmlFile != "" {
				content, err := os.ReadFile(htmlFile)

				if err != nil {
					return err
				}

				pair.HTMLCode = string(content)
			}

			if err := opts.controller.SaveCode(cmd.Context(), args[0], pair); err != nil {
				return quiet(err)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&pythonFile, "python", "", "file with the edited python source")
	cmd.Flags().StringVar(&htmlFile, "html", "", "file with the edited html source")

	return cmd
}

func newChatCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat <title> <prompt>",
		Short: "Refine a tool with a follow-up prompt, e.g. chat /notes_html \"add search\"",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			// The chat widget derives its target from the page it sits
			// on; the CLI stands on the tool page named by the argument.
			opts.binding.page = args[0]

			if err := opts.controller.SubmitChat(cmd.Context(), args[1]); err != nil {
				return quiet(err)
			}

			return nil
		},
	}
}
