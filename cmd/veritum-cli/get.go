package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"io"

	"verity.dev/core/cci"
	"verity.dev/core/codec"
	"verity.dev/core/store"
	"verity.dev/core/veritum"
	"verity.dev/core/veritumnode"
)

func runGet(args []string, stdout, stderr io.Writer) int {
	defaults := veritumnode.DefaultConfig()
	fs := flag.NewFlagSet("veritum-cli get", flag.ContinueOnError)
	fs.SetOutput(stderr)

	cfg := defaults
	fs.StringVar(&cfg.DataDir, "datadir", defaults.DataDir, "cube store directory")
	fs.IntVar(&cfg.Difficulty, "difficulty", defaults.Difficulty, "required trailing-zero-bit proof-of-work")
	keyHex := fs.String("key", "", "hex-encoded veritum key (first chunk's key)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *keyHex == "" {
		fmt.Fprintln(stderr, "get: -key is required")
		return 2
	}
	raw, err := hex.DecodeString(*keyHex)
	if err != nil || len(raw) != 32 {
		fmt.Fprintln(stderr, "get: -key must be 32 bytes hex")
		return 2
	}
	var key codec.CubeID
	copy(key[:], raw)

	st, err := store.OpenBolt(cfg.DataDir, cfg.Difficulty)
	if err != nil {
		fmt.Fprintln(stderr, "open store:", err)
		return 1
	}
	defer st.Close()

	v, err := veritum.Decompile(context.Background(), key, veritum.DecompileOptions{Store: st})
	if err != nil {
		fmt.Fprintln(stderr, "get:", err)
		return 1
	}

	for _, f := range v.Fields() {
		if f.Type == cci.FieldPayload {
			if _, err := stdout.Write(f.Value); err != nil {
				return 1
			}
		}
	}
	fmt.Fprintln(stdout)
	return 0
}
