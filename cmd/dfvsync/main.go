package main

import (
	"fmt"
	"os"

	dfverr "github.com/dfvsync/dfvsync/pkg/errors"
)

func main() {
	rootCmd := newRoot().Command()
	rootCmd.AddCommand(newVersionCommand())

	if cmd, err := rootCmd.ExecuteC(); err != nil {
		switch err.(type) {
		case usageError:
			cmd.Println("")
			cmd.Println(cmd.UsageString())
		default:
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprint(os.Stderr, helpFor(err))
		}
		os.Exit(1)
	}
}

// helpFor returns the help text carried by err, or the catch-all help
// for failures that have none, e.g., network or git errors.
func helpFor(err error) string {
	if help := dfverr.HelpFor(err); help != "" {
		return help
	}
	return dfverr.CoverAllError(err).Help
}
