// Package main is the entry point for the portfolio binary.
//
// The main package stays minimal: all commands live in internal/cli, which
// loads configuration, builds the logger and wires the content source.
//
//	portfolio serve                 start the HTTP API
//	portfolio seed --file f.yaml    load fixtures into the sqlite store
//	portfolio entries --kind Asset  list records in the sqlite store
//	portfolio projects --tech Go    print a filtered page of projects
//	portfolio home                  print the home page
//	portfolio hash-secret SECRET    hash a preview secret
package main

import "github.com/cobbinma/portfolio/internal/cli"

func main() {
	cli.Execute()
}
