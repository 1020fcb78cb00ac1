package main

import (
	"encoding/hex"
	"fmt"
	"io"

	"verity.dev/core/cryptox"
)

func runKeygen(_ []string, stdout, stderr io.Writer) int {
	pub, priv, err := cryptox.GenerateKeypair()
	if err != nil {
		fmt.Fprintln(stderr, "keygen:", err)
		return 1
	}
	fmt.Fprintf(stdout, "public  %s\n", hex.EncodeToString(pub))
	fmt.Fprintf(stdout, "private %s\n", hex.EncodeToString(priv))
	return 0
}
