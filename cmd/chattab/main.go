// chattab - chat export to table converter
//
// chattab rebuilds the messages of an exported chat transcript and writes
// them as a table, one row per message, for downstream analysis.
package main

import (
	"os"

	"github.com/ccollicutt/chattab/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
