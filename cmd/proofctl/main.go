// Command proofctl is the operator CLI of a proof ledger node. It opens the
// node's storage directly, so it must not run against a database another
// process is writing to unless a Redis append lock is configured.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
