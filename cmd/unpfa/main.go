// Command unpfa extracts or inspects a PFA archive.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/packedfilearchive/pfa/reader"
)

func usage() {
	fmt.Println("unpfa -- PFA extractor")
	fmt.Println("usage: unpfa [file_path] (--view)")
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}
	filePath := args[0]
	view := len(args) > 1 && args[1] == "--view"

	f, err := os.Open(filePath)
	if err != nil {
		usage()
		fmt.Fprintf(os.Stderr, "ERROR: failed to open file %q: %v\n", filePath, err)
		os.Exit(1)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}

	r, err := reader.Open(f, info.Size())
	if err != nil {
		usage()
		fmt.Fprintf(os.Stderr, "ERROR: failed to read PFA file: %v\n", err)
		os.Exit(1)
	}

	rootDirPath := "./" + r.Name()
	if !view {
		if err := os.Mkdir(rootDirPath, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: failed to create root directory at %q: %v\n", rootDirPath, err)
			os.Exit(1)
		}
	}

	fmt.Println(r.Name())

	err = r.TraverseFiles("/", nil, func(path string, contents []byte) error {
		if !view {
			fullPath := filepath.Join(rootDirPath, path)
			if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
				return fmt.Errorf("could not create directory: %w", err)
			}
			if err := os.WriteFile(fullPath, contents, 0o644); err != nil {
				return fmt.Errorf("failed to write %q: %w", fullPath, err)
			}
		}
		fmt.Printf("\t%q (%db)\n", path, len(contents))
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}
