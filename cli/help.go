package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

const maxWidth = 72
const minWidth = 40

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFA066"))
	sectionStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#FFA066"))
	commandStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7E9CD8"))
	flagStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#957FB8"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// getTerminalWidth returns the terminal width capped at maxWidth.
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < minWidth {
		return maxWidth
	}
	if width > maxWidth {
		return maxWidth
	}
	return width
}

// wrapText wraps text to width, preserving existing line breaks.
func wrapText(text string, width int) string {
	var result []string
	for _, paragraph := range strings.Split(text, "\n") {
		if len(paragraph) <= width {
			result = append(result, paragraph)
			continue
		}

		var line string
		for _, word := range strings.Fields(paragraph) {
			switch {
			case line == "":
				line = word
			case len(line)+1+len(word) <= width:
				line += " " + word
			default:
				result = append(result, line)
				line = word
			}
		}
		if line != "" {
			result = append(result, line)
		}
	}
	return strings.Join(result, "\n")
}

// SetStyledHelp applies the styled help output to a command.
func SetStyledHelp(cmd *cobra.Command) {
	cmd.SetHelpFunc(styledHelpFunc)
}

// ApplyStyledHelpRecursive applies styled help to a command and all its
// subcommands. Call it after every subcommand has been added.
func ApplyStyledHelpRecursive(cmd *cobra.Command) {
	cmd.SetHelpFunc(styledHelpFunc)
	cmd.SetUsageFunc(func(*cobra.Command) error { return nil })
	for _, sub := range cmd.Commands() {
		ApplyStyledHelpRecursive(sub)
	}
}

// PrintError prints a styled error message with a help hint.
func PrintError(cmd *cobra.Command, err error) {
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", errorStyle.Render("Error:"), err.Error())
	fmt.Fprintf(cmd.ErrOrStderr(), "%s\n", mutedStyle.Render(fmt.Sprintf("Run '%s --help' for usage.", cmd.CommandPath())))
}

func styledHelpFunc(cmd *cobra.Command, args []string) {
	w := cmd.OutOrStdout()
	width := getTerminalWidth() - 2

	fmt.Fprintln(w, " "+titleStyle.Render(strings.ToUpper(cmd.CommandPath())))
	if cmd.Short != "" {
		printIndented(w, wrapText(cmd.Short, width))
	}
	if cmd.Long != "" && cmd.Long != cmd.Short {
		fmt.Fprintln(w)
		printIndented(w, wrapText(cmd.Long, width))
	}

	if cmd.Runnable() || cmd.HasSubCommands() {
		fmt.Fprintln(w, "\n "+sectionStyle.Render("USAGE"))
		if cmd.Runnable() {
			fmt.Fprintf(w, " %s\n", cmd.UseLine())
		}
		if cmd.HasSubCommands() {
			fmt.Fprintf(w, " %s [command]\n", cmd.CommandPath())
		}
	}

	if cmd.HasAvailableSubCommands() {
		maxLen := 0
		for _, sub := range cmd.Commands() {
			if sub.IsAvailableCommand() && len(sub.Name()) > maxLen {
				maxLen = len(sub.Name())
			}
		}
		fmt.Fprintln(w, "\n "+sectionStyle.Render("COMMANDS"))
		for _, sub := range cmd.Commands() {
			if sub.IsAvailableCommand() {
				padding := strings.Repeat(" ", maxLen-len(sub.Name()))
				fmt.Fprintf(w, " %s%s  %s\n", commandStyle.Render(sub.Name()), padding, sub.Short)
			}
		}
	}

	printFlags(w, "FLAGS", cmd.LocalFlags())
	if cmd.HasParent() {
		printFlags(w, "GLOBAL FLAGS", cmd.InheritedFlags())
	}

	if cmd.Example != "" {
		fmt.Fprintln(w, "\n "+sectionStyle.Render("EXAMPLES"))
		for _, line := range strings.Split(cmd.Example, "\n") {
			trimmed := strings.TrimSpace(line)
			if strings.HasPrefix(trimmed, "#") {
				fmt.Fprintln(w, "  "+mutedStyle.Render(trimmed))
			} else {
				fmt.Fprintln(w, "  "+trimmed)
			}
		}
	}

	if cmd.HasSubCommands() {
		fmt.Fprintf(w, "\n Use \"%s [command] --help\" for more information.\n", cmd.CommandPath())
	}
}

func printFlags(w io.Writer, title string, flags *pflag.FlagSet) {
	var visible []*pflag.Flag
	flags.VisitAll(func(f *pflag.Flag) {
		if !f.Hidden {
			visible = append(visible, f)
		}
	})
	if len(visible) == 0 {
		return
	}

	fmt.Fprintln(w, "\n "+sectionStyle.Render(title))
	maxLen := 0
	for _, f := range visible {
		if n := len(formatFlagName(f)); n > maxLen {
			maxLen = n
		}
	}
	for _, f := range visible {
		name := formatFlagName(f)
		usage := f.Usage
		if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "[]" {
			usage += mutedStyle.Render(fmt.Sprintf(" (default: %s)", f.DefValue))
		}
		fmt.Fprintf(w, " %s%s  %s\n", flagStyle.Render(name), strings.Repeat(" ", maxLen-len(name)), usage)
	}
}

// formatFlagName returns a formatted flag string like "-f, --flag" or "--flag".
func formatFlagName(f *pflag.Flag) string {
	if f.Shorthand != "" {
		return fmt.Sprintf("-%s, --%s", f.Shorthand, f.Name)
	}
	return fmt.Sprintf("    --%s", f.Name)
}

func printIndented(w io.Writer, text string) {
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintln(w, " "+line)
	}
}
