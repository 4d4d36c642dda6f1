// zfctl inspects zebrafish boot files from a host: the command line the
// stub would build from a volume, and the kernel device path it would
// derive from a raw device path.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
