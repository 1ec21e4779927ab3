// Command crazyseq enumerates the values reachable from a run of digits.
package main

import "github.com/mesh-intelligence/crazyseq/internal/cli"

func main() {
	cli.Execute()
}
