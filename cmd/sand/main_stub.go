//go:build !ebiten

package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(os.Stderr, "The GUI build of sandfall requires the ebiten build tag.")
	fmt.Fprintln(os.Stderr, "Re-run with `go run -tags ebiten ./cmd/sand` or build with `-tags ebiten`.")
	fmt.Fprintln(os.Stderr, "For a terminal view use `go run ./cmd/sandterm`.")
	os.Exit(2)
}
