// Package cli implements the pagemark command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nikbrunner/pagemark/internal/bookmarks"
	"github.com/nikbrunner/pagemark/internal/browser"
	"github.com/nikbrunner/pagemark/internal/picker"
	"github.com/nikbrunner/pagemark/internal/shell"
	"github.com/nikbrunner/pagemark/internal/storage"
)

// errSilent makes the process exit non-zero without printing anything
// further, e.g. when a message was already shown or a value is absent.
var errSilent = errors.New("silent failure")

// Execute runs the command line and exits on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c := newCLI()
	err := newRootCmd(c).ExecuteContext(ctx)
	if cerr := c.close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		if !errors.Is(err, errSilent) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		stop()
		os.Exit(1)
	}
}

// cli holds the state shared by all commands of one invocation.
type cli struct {
	configPath string
	logLevel   string

	cfg     *storage.Config
	log     zerolog.Logger
	storage storage.Storage
	manager *bookmarks.Manager

	openURL   func(url string) error
	copyText  func(text string) error
	runPicker func(cmd *cobra.Command, p picker.Picker) (picker.Picker, error)
	newShell  func(cmd *cobra.Command, log *zerolog.Logger) browser.Shell
}

func newCLI() *cli {
	return &cli{
		log:       zerolog.Nop(),
		openURL:   shell.OpenURL,
		copyText:  clipboard.WriteAll,
		runPicker: runPicker,
		newShell:  newTerminal,
	}
}

func newRootCmd(c *cli) *cobra.Command {
	var copyURL bool

	cmd := &cobra.Command{
		Use:   "pagemark [query]",
		Short: "pagemark - bookmarks and page tools for the browser",
		Long: `pagemark keeps the bookmarks of a browser session and offers the
page commands bound to them: adding, deleting and tagging the current page,
moving to the next or previous page of a paginated URL, and URL helpers.

With a query, pagemark fuzzy searches the bookmarks and opens the choice.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return c.search(cmd, strings.Join(args, " "), searchFilter{}, copyURL)
		},
	}

	cmd.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/pagemark/config.json)")
	cmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides config)")
	cmd.Flags().BoolVarP(&copyURL, "copy", "y", false, "copy the chosen URL instead of opening it")

	cmd.AddCommand(
		addCmd(c),
		deleteCmd(c),
		tagsCmd(c),
		nextCmd(c),
		prevCmd(c),
		searchCmd(c),
		importCmd(c),
		exportCmd(c),
		cullCmd(c),
		downloadDirCmd(c),
		urlCmd(),
	)
	return cmd
}

// setup loads the configuration and sets up logging.
func (c *cli) setup(logOut io.Writer) error {
	path := c.configPath
	if path == "" {
		p, err := storage.DefaultConfigFilePath()
		if err != nil {
			return err
		}
		path = p
	}

	cfg, err := storage.LoadConfig(path)
	if err != nil {
		return err
	}
	c.cfg = cfg

	level := cfg.LogLevel
	if c.logLevel != "" {
		level = c.logLevel
	}
	log, err := newLogger(logOut, level)
	if err != nil {
		return err
	}
	c.log = log
	c.log.Debug().Str("config", path).Str("backend", cfg.Backend).Msg("config loaded")
	return nil
}

// openBookmarks opens the storage backend on first use.
func (c *cli) openBookmarks() (*bookmarks.Manager, error) {
	if c.manager != nil {
		return c.manager, nil
	}

	s, err := storage.Open(*c.cfg)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	m, err := bookmarks.NewManager(bookmarks.ManagerParams{Storage: s, Logger: &c.log})
	if err != nil {
		storage.Close(s)
		return nil, err
	}

	c.storage = s
	c.manager = m
	return m, nil
}

func (c *cli) close() error {
	if c.storage == nil {
		return nil
	}
	err := storage.Close(c.storage)
	c.storage, c.manager = nil, nil
	return err
}

func newTerminal(cmd *cobra.Command, log *zerolog.Logger) browser.Shell {
	return shell.NewTerminal(shell.TerminalParams{
		Out:    cmd.OutOrStdout(),
		Err:    cmd.ErrOrStderr(),
		In:     cmd.InOrStdin(),
		Logger: log,
	})
}

func runPicker(cmd *cobra.Command, p picker.Picker) (picker.Picker, error) {
	final, err := tea.NewProgram(p,
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.ErrOrStderr()),
		tea.WithContext(cmd.Context()),
	).Run()
	if err != nil {
		return p, fmt.Errorf("run picker: %w", err)
	}
	return final.(picker.Picker), nil
}
