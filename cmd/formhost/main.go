// Command formhost talks to a form service: health checks, authentication,
// listing forms, rendering them to self-contained HTML documents, and bulk
// importing definitions from disk or OpenAPI documents.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}
