// Command objinv is the CLI entry point: it delegates straight to the
// command tree registered in package cmd.
package main

import "github.com/oscargus/objinv/cmd"

func main() {
	cmd.Execute()
}
