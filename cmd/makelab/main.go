package main

import (
	"fmt"
	"os"

	"github.com/ehsaniara/makelab/internal/makelab/cli"
	"github.com/ehsaniara/makelab/pkg/errors"
)

func main() {
	if err := cli.Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		_, _ = fmt.Fprintln(os.Stderr, errors.GetUserMessage(err))
		os.Exit(errors.ExitCode(err))
	}
}
