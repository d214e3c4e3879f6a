package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fuomag9/apitray/internal/cli"
	"github.com/fuomag9/apitray/internal/style"
)

var version = "dev"

func main() {
	cli.Version = version

	if err := cli.Execute(); err != nil {
		if !errors.Is(err, cli.ErrEndpointDown) {
			fmt.Fprintln(os.Stderr, style.ErrorBox.Render(err.Error()))
		}
		os.Exit(1)
	}
}
