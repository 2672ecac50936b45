// Command makepfa packs a directory into a single PFA archive.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/packedfilearchive/pfa/shared"
	"github.com/packedfilearchive/pfa/writer"
)

func usage() {
	fmt.Fprintln(os.Stderr, "USAGE:")
	fmt.Fprintln(os.Stderr, "\tmakepfa [directory]")
	os.Exit(1)
}

func main() {
	args := os.Args[1:]
	if len(args) != 1 || args[0] == "--help" || args[0] == "-h" {
		usage()
	}
	dir := args[0]

	info, err := os.Stat(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "directory %q not found\n", dir)
		usage()
	}
	if !info.IsDir() {
		fmt.Fprintf(os.Stderr, "found %q, but it is not a directory\n", dir)
		usage()
	}

	canon, err := filepath.Abs(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
	name := filepath.Base(canon)

	b := writer.NewBuilder(name)
	if err := b.IncludeDirectory(canon, "", shared.Options{Compression: shared.AutoCompression}, nil); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: failed to pack %q: %v\n", dir, err)
		os.Exit(1)
	}

	bytes, err := b.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: failed to build archive: %v\n", err)
		os.Exit(1)
	}

	outPath := name + ".pfa"
	if err := os.WriteFile(outPath, bytes, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: failed to write %q: %v\n", outPath, err)
		os.Exit(1)
	}
}
