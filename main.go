// main is the entry point of the busybee CLI.
package main

import (
	"fmt"
	"os"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/cmd"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/iocache"
)

func main() {
	defer iocache.CloseStores()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		iocache.CloseStores()
		os.Exit(1)
	}
}
