package main

import (
	"os"
	"time"

	"github.com/natefinch/atomic"
	"github.com/urfave/cli/v2"
	"k8s.io/klog/v2"

	"github.com/matlapo/binstore"
	"github.com/matlapo/binstore/valuecodec"
)

func newCmdMerge() *cli.Command {
	return &cli.Command{
		Name:        "merge",
		Description: "Fuse two buckets into a third, unioning value sets on colliding keys.",
		ArgsUsage:   "<a> <b> <out>",
		Action: func(c *cli.Context) error {
			a := c.Args().Get(0)
			b := c.Args().Get(1)
			out := c.Args().Get(2)
			if a == "" || b == "" || out == "" {
				return cli.Exit("usage: binstore merge <a> <b> <out>", 1)
			}

			startedAt := time.Now()
			klog.Infof("merging %s and %s", a, b)

			tmpPath := out + ".tmp"
			codec := valuecodec.Uint128SetCodec{}
			if err := binstore.Merge(a, b, tmpPath, codec); err != nil {
				os.Remove(tmpPath)
				return cli.Exit(err, 1)
			}

			if err := atomic.ReplaceFile(tmpPath, out); err != nil {
				os.Remove(tmpPath)
				return cli.Exit(err, 1)
			}

			klog.Infof("wrote %s in %s", out, time.Since(startedAt))
			return nil
		},
	}
}
