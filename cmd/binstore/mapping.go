package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/matlapo/binstore/valuecodec"
	"github.com/matlapo/binstore/writer"
)

// parseMappingFile reads the CLI's text mapping format: one key per line,
//
//	<decimal key><TAB><hex1>[,<hex2>,...]
//
// where each hex value is the 32 hex characters of a Uint128 (8 bytes Hi,
// then 8 bytes Lo, big-endian, for readability — unrelated to the bucket's
// on-disk little-endian layout). Blank lines and lines starting with '#'
// are ignored. Keys need not already be sorted; they are sorted here.
func parseMappingFile(path string) ([]writer.Entry[valuecodec.Uint128Set], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m := make(map[uint64]valuecodec.Uint128Set)

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.SplitN(line, "\t", 2)
		if len(fields) != 2 {
			return nil, fmt.Errorf("mapping file line %d: expected \"<key>\\t<values>\"", lineNo)
		}

		key, err := strconv.ParseUint(strings.TrimSpace(fields[0]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("mapping file line %d: bad key: %w", lineNo, err)
		}

		set, err := parseValueList(fields[1])
		if err != nil {
			return nil, fmt.Errorf("mapping file line %d: %w", lineNo, err)
		}

		m[key] = set
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return writer.EntriesFromMap(m), nil
}

func parseValueList(raw string) (valuecodec.Uint128Set, error) {
	parts := strings.Split(raw, ",")
	out := make(valuecodec.Uint128Set, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		b, err := hex.DecodeString(p)
		if err != nil || len(b) != 16 {
			return nil, fmt.Errorf("bad uint128 value %q: must be 32 hex characters", p)
		}

		out = append(out, valuecodec.Uint128{
			Hi: beUint64(b[0:8]),
			Lo: beUint64(b[8:16]),
		})
	}

	return out, nil
}

func beUint64(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}

	return v
}

func formatValueList(set valuecodec.Uint128Set) string {
	sort.Slice(set, func(i, j int) bool { return set[i].Less(set[j]) })

	parts := make([]string, len(set))
	for i, v := range set {
		var b [16]byte
		putBEUint64(b[0:8], v.Hi)
		putBEUint64(b[8:16], v.Lo)
		parts[i] = hex.EncodeToString(b[:])
	}

	return strings.Join(parts, ",")
}

func putBEUint64(b []byte, v uint64) {
	for i := 7; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
}
