// Command pfadiff creates and applies differential patches between PFA
// archives.
package main

import (
	"fmt"
	"os"

	"github.com/packedfilearchive/pfa/diff"
	"github.com/packedfilearchive/pfa/reader"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage:")
	fmt.Fprintln(os.Stderr, "\tpfadiff create --old X --new Y --diff-output Z")
	fmt.Fprintln(os.Stderr, "\tpfadiff apply --old X --diff Y --new-output Z")
}

// parseFlags reads a flat "--name value" argument list into a map; it is
// not a general flag parser, just enough to cover this command's fixed
// set of required options.
func parseFlags(args []string) map[string]string {
	out := map[string]string{}
	for i := 0; i+1 < len(args); i += 2 {
		out[args[i]] = args[i+1]
	}
	return out
}

func openArchive(path string) (*reader.Reader, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	r, err := reader.Open(f, info.Size())
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return r, f, nil
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "create":
		flags := parseFlags(os.Args[2:])
		oldPath, newPath, outPath := flags["--old"], flags["--new"], flags["--diff-output"]
		if oldPath == "" || newPath == "" || outPath == "" {
			usage()
			os.Exit(1)
		}

		old, oldFile, err := openArchive(oldPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: open old file: %v\n", err)
			os.Exit(1)
		}
		defer oldFile.Close()

		newArchive, newFile, err := openArchive(newPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: open new file: %v\n", err)
			os.Exit(1)
		}
		defer newFile.Close()

		out, err := os.Create(outPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: create output file: %v\n", err)
			os.Exit(1)
		}
		defer out.Close()

		if err := diff.Create(old, newArchive, out); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: create diff: %v\n", err)
			os.Exit(1)
		}

	case "apply":
		flags := parseFlags(os.Args[2:])
		oldPath, diffPath, outPath := flags["--old"], flags["--diff"], flags["--new-output"]
		if oldPath == "" || diffPath == "" || outPath == "" {
			usage()
			os.Exit(1)
		}

		old, oldFile, err := openArchive(oldPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: open old file: %v\n", err)
			os.Exit(1)
		}
		defer oldFile.Close()

		diffArchive, diffFile, err := openArchive(diffPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: open diff file: %v\n", err)
			os.Exit(1)
		}
		defer diffFile.Close()

		out, err := os.Create(outPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: create output file: %v\n", err)
			os.Exit(1)
		}
		defer out.Close()

		if err := diff.Apply(old, diffArchive, out); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: apply diff: %v\n", err)
			os.Exit(1)
		}

	default:
		usage()
		os.Exit(1)
	}
}
