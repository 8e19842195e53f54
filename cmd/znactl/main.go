package main

import (
	"fmt"
	"os"
)

const usage = `usage: znactl <command> [flags]

commands:
  serve    accept connections and log every received object
  send     dial a server and send demo readings
  dump     print the wire form of a demo object
  schema   print the demo schemas as json or yaml
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "serve":
		err = runServe(args)
	case "send":
		err = runSend(args)
	case "dump":
		err = runDump(args, os.Stdout)
	case "schema":
		err = runSchema(args, os.Stdout)
	case "help", "-h", "--help":
		fmt.Fprint(os.Stdout, usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "znactl: unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "znactl: %v\n", err)
		os.Exit(1)
	}
}
