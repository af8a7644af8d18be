// Command xhr executes a request through the xhrkit adapter and prints the
// normalized Response as JSON.
//
//	xhr exec -url http://localhost:8080/json -type json
//	xhr exec -request req.json -backend browser
//	xhr serve -addr :8080
//	xhr version
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/kbukum/xhrkit/version"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(Run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// Run executes the CLI and returns the process exit code.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return exitUsage
	}
	switch args[0] {
	case "exec":
		return runExec(args[1:], stdin, stdout, stderr)
	case "serve":
		return runServe(args[1:], stderr)
	case "version":
		fmt.Fprintln(stdout, version.Get().String())
		return exitOK
	case "help", "-h", "-help", "--help":
		printUsage(stdout)
		return exitOK
	default:
		fmt.Fprintf(stderr, "xhr: unknown command %q\n\n", args[0])
		printUsage(stderr)
		return exitUsage
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `Usage: xhr <command> [flags]

Commands:
  exec     execute a request and print the Response as JSON
  serve    run the fixture HTTP server
  version  print build information

Run "xhr <command> -h" for command flags.
`)
}
