package main

import (
	"fmt"
	"io"
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type command func(args []string, stdin io.Reader, stdout, stderr io.Writer) error

var commands = map[string]command{
	"convert":  convertCommand,
	"validate": validateCommand,
	"init":     initCommand,
	"version":  versionCommand,
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 1
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "Unknown command: %s\n", args[0])
		printUsage(stderr)
		return 1
	}
	if err := cmd(args[1:], stdin, stdout, stderr); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", args[0], err)
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "Usage: typetext <command> [options] [file]\n")
	fmt.Fprintf(w, "\nCommands:\n")
	fmt.Fprintf(w, "  convert   Convert a document between JSON and JSV\n")
	fmt.Fprintf(w, "  validate  Check that a document parses\n")
	fmt.Fprintf(w, "  init      Write a settings file with the defaults\n")
	fmt.Fprintf(w, "  version   Show version information\n")
	fmt.Fprintf(w, "\nRun 'typetext <command> -h' for help on a specific command.\n")
}
