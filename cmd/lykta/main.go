package main

import (
	"fmt"
	"os"

	"github.com/0xalexb/lykta/internal/cmd"
)

func main() {
	command := cmd.NewDefaultLyktaCmd()

	err := command.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "lykta: Error: %s\n", err)
		os.Exit(1)
	}
}
