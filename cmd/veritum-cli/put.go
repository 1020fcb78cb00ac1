package main

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"time"

	"verity.dev/core/cci"
	"verity.dev/core/codec"
	"verity.dev/core/continuation"
	"verity.dev/core/store"
	"verity.dev/core/veritum"
	"verity.dev/core/veritumnode"
)

func runPut(args []string, stdout, stderr io.Writer) int {
	defaults := veritumnode.DefaultConfig()
	fs := flag.NewFlagSet("veritum-cli put", flag.ContinueOnError)
	fs.SetOutput(stderr)

	cfg := defaults
	fs.StringVar(&cfg.DataDir, "datadir", defaults.DataDir, "cube store directory")
	fs.IntVar(&cfg.Difficulty, "difficulty", defaults.Difficulty, "required trailing-zero-bit proof-of-work")
	typeFlag := fs.String("type", "frozen", "cube type: frozen|frozen_notify|pic|pic_notify|muc|muc_notify|pmuc|pmuc_notify")
	payload := fs.String("payload", "", "PAYLOAD field text content")
	privKeyHex := fs.String("privkey", "", "hex-encoded ed25519 private key, required for muc/pmuc families")
	maxChunkSize := fs.Int("max-chunk-size", 0, "cap each chunk's serialized size (0 = full 1024 bytes)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	typ, err := parseCubeType(*typeFlag)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	var privKey ed25519.PrivateKey
	if *privKeyHex != "" {
		raw, err := hex.DecodeString(*privKeyHex)
		if err != nil {
			fmt.Fprintln(stderr, "invalid -privkey hex:", err)
			return 2
		}
		privKey = ed25519.PrivateKey(raw)
	}

	st, err := store.OpenBolt(cfg.DataDir, cfg.Difficulty)
	if err != nil {
		fmt.Fprintln(stderr, "open store:", err)
		return 1
	}
	defer st.Close()

	fields := []cci.Field{{Type: cci.FieldPayload, Value: []byte(*payload)}}

	opts := veritum.CompileOptions{
		Store: st,
		Split: continuation.SplitOptions{
			CubeType:     typ,
			MaxChunkSize: *maxChunkSize,
			Compile: codec.CompileOptions{
				Difficulty: cfg.Difficulty,
				PrivateKey: privKey,
				Date:       uint64(time.Now().Unix()),
			},
		},
	}

	ctx := context.Background()
	v, err := veritum.Compile(ctx, fields, opts)
	if err != nil {
		fmt.Fprintln(stderr, "compile:", err)
		return 1
	}
	for _, chunk := range v.Chunks() {
		if _, err := st.Put(ctx, chunk); err != nil {
			fmt.Fprintln(stderr, "put:", err)
			return 1
		}
	}

	fmt.Fprintf(stdout, "%s\n", hex.EncodeToString(v.Key().Bytes()))
	return 0
}
