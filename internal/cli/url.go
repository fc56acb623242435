package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/pagemark/internal/urls"
)

func urlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "url",
		Short: "URL helpers; absent values exit with status 1",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "canonicalize <input>",
			Short: "Turn an existing file path into a file:// URL",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprintln(cmd.OutOrStdout(), urls.CanonicalizeURL(args[0]))
				return nil
			},
		},
		optionalCmd("base <url>", "Print the host without sub-domains", urls.GetBaseURL),
		optionalCmd("filename <url>", "Print the decoded last path segment", urls.GetFilename),
		optionalCmd("host <url>", "Print the host name", urls.Host),
		&cobra.Command{
			Use:   "is-url <input>",
			Short: "Exit with status 0 if input looks like a URL",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				if !urls.IsURL(args[0]) {
					return errSilent
				}
				return nil
			},
		},
		&cobra.Command{
			Use:     "offset <url> <delta>",
			Short:   "Print url with its page number moved by delta",
			Example: "  pagemark url offset https://example.com/page/3 -- -1",
			Args:    cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				delta, err := strconv.ParseInt(args[1], 10, 32)
				if err != nil {
					return fmt.Errorf("invalid delta %q", args[1])
				}
				next, ok := urls.Offset(args[0], int32(delta))
				return printOptional(cmd, next, ok)
			},
		},
	)
	return cmd
}

func optionalCmd(use, short string, fn func(string) (string, bool)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, ok := fn(args[0])
			return printOptional(cmd, value, ok)
		},
	}
}

func printOptional(cmd *cobra.Command, value string, ok bool) error {
	if !ok {
		return errSilent
	}
	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}
