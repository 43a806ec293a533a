package cli

import (
	"github.com/grovetools/sessionlog/errors"
	"github.com/spf13/cobra"
)

// Execute runs the root command and returns the process exit code.
func Execute(root *cobra.Command) int {
	ApplyStyledHelpRecursive(root)

	cmd, err := root.ExecuteC()
	if err == nil {
		return 0
	}
	if cmd == nil {
		cmd = root
	}

	if _, ok := errors.As(err); !ok {
		PrintError(cmd, err)
		return 1
	}
	h := NewErrorHandler(GetOptions(cmd).Verbose)
	h.Writer = cmd.ErrOrStderr()
	_ = h.Handle(err)
	return 1
}
