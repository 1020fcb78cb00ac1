// Command veritum-cli is a local-only tool for compiling, storing, and
// retrieving Veritum content against an on-disk cube store. It has no
// networking: the wire transport is out of scope for this core (spec §1).
package main

import (
	"io"
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return 2
	}
	switch args[0] {
	case "put":
		return runPut(args[1:], stdout, stderr)
	case "get":
		return runGet(args[1:], stdout, stderr)
	case "keygen":
		return runKeygen(args[1:], stdout, stderr)
	case "-h", "--help", "help":
		printUsage(stdout)
		return 0
	default:
		_, _ = io.WriteString(stderr, "unknown subcommand: "+args[0]+"\n")
		printUsage(stderr)
		return 2
	}
}

func printUsage(w io.Writer) {
	_, _ = io.WriteString(w, `veritum-cli: compile, store, and retrieve Verity content

Usage:
  veritum-cli put    --datadir=DIR --type=TYPE [--payload=TEXT] [--difficulty=N] [--privkey=HEX]
  veritum-cli get    --datadir=DIR --key=HEX [--difficulty=N]
  veritum-cli keygen

Cube types: frozen, frozen_notify, pic, pic_notify, muc, muc_notify, pmuc, pmuc_notify
`)
}
