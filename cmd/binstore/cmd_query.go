package main

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/urfave/cli/v2"
	"k8s.io/klog/v2"

	"github.com/matlapo/binstore"
	"github.com/matlapo/binstore/bucket"
	"github.com/matlapo/binstore/valuecodec"
)

func newCmdQuery() *cli.Command {
	var verify bool
	return &cli.Command{
		Name:        "query",
		Description: "Look up a single key in a bucket and print its value set.",
		ArgsUsage:   "<bucket-path> <key>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "verify",
				Usage:       "print the xxHash64 digest of the bucket's dense index alongside the result",
				Destination: &verify,
			},
		},
		Action: func(c *cli.Context) error {
			bucketPath := c.Args().Get(0)
			keyStr := c.Args().Get(1)
			if bucketPath == "" || keyStr == "" {
				return cli.Exit("usage: binstore query <bucket-path> <key>", 1)
			}

			key, err := strconv.ParseUint(keyStr, 10, 64)
			if err != nil {
				return cli.Exit(fmt.Errorf("bad key %q: %w", keyStr, err), 1)
			}

			o, err := binstore.Open(bucketPath)
			if err != nil {
				return cli.Exit(err, 1)
			}
			defer o.Close()

			codec := valuecodec.Uint128SetCodec{}
			set, ok, err := binstore.Get(o, codec, key)
			if err != nil {
				return cli.Exit(err, 1)
			}
			if !ok {
				klog.Infof("key %d not found", key)
				return cli.Exit("", 1)
			}

			fmt.Println(formatValueList(set))

			if verify {
				digest, err := denseIndexDigest(bucketPath)
				if err != nil {
					return cli.Exit(err, 1)
				}
				klog.Infof("dense index digest: %016x", digest)
			}

			return nil
		},
	}
}

// denseIndexDigest computes a non-cryptographic xxHash64 over the dense
// index's on-disk bytes, for human operators comparing two bucket files
// by eye rather than as an integrity guarantee.
func denseIndexDigest(path string) (uint64, error) {
	bk, err := bucket.Open(path)
	if err != nil {
		return 0, err
	}
	defer bk.Close()

	if err := bk.CheckHeaders(); err != nil {
		return 0, err
	}

	entries, err := bk.ReadDenseIndex()
	if err != nil {
		return 0, err
	}

	h := xxhash.New()
	for _, e := range entries {
		h.Write(e.Bytes())
	}

	return h.Sum64(), nil
}
