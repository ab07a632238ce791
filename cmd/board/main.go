package main

import (
	"fmt"
	"os"
)

const usageText = `board manages the notes board from a terminal.

Usage:
  board <command> [flags]

Commands:
  list     show the board grouped by column
  create   add a note to the pending column
  edit     change a note's title and content
  move     drop a note onto a column slot
  trash    delete a note
  watch    report when the notes service goes away and comes back
  help     show help

Flags:
  -h, --help   show help

The service address comes from THINKVAULT_URL or the [client] section of the
config file (THINKVAULT_CONFIG).

Examples:
  board list -q groceries
  board create -title "Release" -content "Cut the tag"
  board move 65f1c0ffee00000000000001 current 0
  board trash 65f1c0ffee00000000000001
  board watch -interval 5s
`

func printUsage() {
	fmt.Fprint(os.Stderr, usageText)
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		return
	}

	wiring := defaultCommandWiring(os.Stdout, os.Stderr)
	commands := buildCommands(wiring)

	switch args[0] {
	case "-h", "--help", "help":
		printUsage()
		return
	}

	runner, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(2)
	}
	exitOnErr(args[0], runner.Run(args[1:]), wiring.stderr)
}
