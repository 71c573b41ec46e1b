// Command savedobjects manages saved objects from the command line and
// serves them over HTTP.
package main

import "github.com/mesh-intelligence/savedobjects/internal/cli"

func main() {
	cli.Execute()
}
