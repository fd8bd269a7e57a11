package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"qmllint/internal/prof"
)

// setupProfiling starts the profiles requested by --cpuprofile and
// --memprofile and returns the function that writes them.
func setupProfiling(cmd *cobra.Command) (func(), error) {
	flags := cmd.Root().PersistentFlags()
	cpu, err := flags.GetString("cpuprofile")
	if err != nil {
		return nil, fmt.Errorf("failed to get cpuprofile flag: %w", err)
	}
	mem, err := flags.GetString("memprofile")
	if err != nil {
		return nil, fmt.Errorf("failed to get memprofile flag: %w", err)
	}
	session, err := prof.Start(prof.Options{CPU: cpu, Mem: mem})
	if err != nil {
		return nil, err
	}
	return func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "qmllint: %v\n", err)
		}
	}, nil
}
