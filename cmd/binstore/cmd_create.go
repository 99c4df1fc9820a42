package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"
	"github.com/urfave/cli/v2"
	"k8s.io/klog/v2"

	"github.com/matlapo/binstore/valuecodec"
	"github.com/matlapo/binstore/writer"
)

func newCmdCreate() *cli.Command {
	var stride int
	return &cli.Command{
		Name:        "create",
		Description: "Build a bucket file from a text mapping file.",
		ArgsUsage:   "<mapping-file> <bucket-path>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "stride",
				Usage:       "sparse-index sampling stride",
				Value:       writer.DefaultSampleStride,
				Destination: &stride,
			},
		},
		Action: func(c *cli.Context) error {
			mappingPath := c.Args().Get(0)
			bucketPath := c.Args().Get(1)
			if mappingPath == "" || bucketPath == "" {
				return cli.Exit("usage: binstore create <mapping-file> <bucket-path>", 1)
			}

			startedAt := time.Now()
			klog.Infof("reading mapping file %s", mappingPath)

			entries, err := parseMappingFile(mappingPath)
			if err != nil {
				return cli.Exit(err, 1)
			}
			klog.Infof("building bucket with %d keys", len(entries))

			tmpPath := bucketPath + ".tmp"
			codec := valuecodec.Uint128SetCodec{}
			if err := writer.Create(tmpPath, codec, entries, writer.WithSampleStride(stride)); err != nil {
				os.Remove(tmpPath)
				return cli.Exit(err, 1)
			}

			// writer.Create has already fully written and closed tmpPath;
			// ReplaceFile makes it visible at bucketPath in one atomic step
			// rather than leaving a window where a reader could open a
			// partially written bucketPath.
			if err := atomic.ReplaceFile(tmpPath, bucketPath); err != nil {
				os.Remove(tmpPath)
				return cli.Exit(err, 1)
			}

			klog.Infof("wrote %s in %s", filepath.Clean(bucketPath), time.Since(startedAt))
			return nil
		},
	}
}
