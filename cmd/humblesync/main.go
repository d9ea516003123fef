package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the CLI and maps the result to a process exit code. A
// cancelled context means the user interrupted a running command, so it
// exits with the conventional SIGINT code and stays silent.
func run(args []string) int {
	cmd := newRootCommand()
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		if errors.Is(err, context.Canceled) {
			return 130
		}
		fmt.Fprintf(os.Stderr, "humblesync: %v\n", err)
		return 1
	}
	return 0
}
