package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/OneNoteDev/onenote-client/internal/app"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Run several commands with one sign-in",
	Long: `Starts an interactive prompt. Each line is run as an onenote-client
command in this process, so a token acquired by one command is reused by the
next. --debug on a line turns on debug logging of API calls for that line;
sign-in keeps the log level the shell started with. Type 'exit' or press
Ctrl-D to leave.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.ForCommand(cmd)
		if err != nil {
			return err
		}
		return shellLogic(a, cmd, os.Stdin, executeLine)
	},
}

// shellLogic reads command lines from in and hands each one to run along
// with a context carrying a.
func shellLogic(a *app.App, cmd *cobra.Command, in io.Reader, run func(ctx context.Context, args []string) error) error {
	ctx := app.WithApp(app.Context(cmd), a)
	scanner := bufio.NewScanner(in)

	fmt.Fprintf(os.Stderr, "onenote-client shell (%s). Type 'help' for commands, 'exit' to quit.\n", a.Provider())
	for {
		fmt.Fprint(os.Stderr, "onenote> ")
		if !scanner.Scan() {
			fmt.Fprintln(os.Stderr)
			break
		}

		args, err := splitArgs(scanner.Text())
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			continue
		}
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "exit", "quit":
			return nil
		case "shell":
			fmt.Fprintln(os.Stderr, "Already in the shell.")
			continue
		}

		if err := run(ctx, args); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
	}
	return scanner.Err()
}

// executeLine runs one shell line through the root command.
func executeLine(ctx context.Context, args []string) error {
	resetCommands(ctx, rootCmd)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)
	return rootCmd.ExecuteContext(ctx)
}

// resetCommands restores every flag in the tree to its default and points
// every command at ctx, so nothing leaks from the previous line.
func resetCommands(ctx context.Context, c *cobra.Command) {
	c.SetContext(ctx)
	c.Flags().VisitAll(resetFlag)
	c.PersistentFlags().VisitAll(resetFlag)
	for _, sub := range c.Commands() {
		resetCommands(ctx, sub)
	}
}

func resetFlag(f *pflag.Flag) {
	if !f.Changed {
		return
	}
	if sv, ok := f.Value.(pflag.SliceValue); ok {
		_ = sv.Replace(splitDefaultSlice(f.DefValue))
	} else {
		_ = f.Value.Set(f.DefValue)
	}
	f.Changed = false
}

// splitDefaultSlice parses the "[a,b]" form pflag uses for slice defaults.
func splitDefaultSlice(def string) []string {
	def = strings.TrimSuffix(strings.TrimPrefix(def, "["), "]")
	if def == "" {
		return []string{}
	}
	return strings.Split(def, ",")
}

// splitArgs splits a shell line into arguments. Single and double quotes
// group words, and a backslash escapes the next character outside single quotes.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		current strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)

	for _, r := range line {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			inWord = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inWord = true
		case r == ' ' || r == '\t':
			if inWord {
				args = append(args, current.String())
				current.Reset()
				inWord = false
			}
		default:
			current.WriteRune(r)
			inWord = true
		}
	}

	if quote != 0 {
		return nil, errors.New("unterminated quote")
	}
	if escaped {
		return nil, errors.New("line ends with an escape character")
	}
	if inWord {
		args = append(args, current.String())
	}
	return args, nil
}

func init() {
	rootCmd.AddCommand(shellCmd)
}
