// Package diff computes and applies textual differences between two PFA
// archives: a diff archive is itself a PFA file, with files recorded under
// /remove/, /add/, and /change/ using diffmatchpatch text patches.
package diff

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/packedfilearchive/pfa/reader"
	"github.com/packedfilearchive/pfa/shared"
	"github.com/packedfilearchive/pfa/writer"
)

const (
	removeDir = "/remove/"
	addDir    = "/add/"
	changeDir = "/change/"
)

// Create compares old against new and writes a diff archive to out,
// recording every path present in old but absent from new as "removed",
// every path present in new but absent from old as "added" (full
// contents), and every path present in both with different contents as
// "changed" (a diffmatchpatch text patch).
func Create(old, newArchive *reader.Reader, out io.Writer) error {
	dmp := diffmatchpatch.New()

	var removed []string
	changed := map[string]string{}

	err := old.TraverseFiles("/", nil, func(path string, oldContents []byte) error {
		newContents, err := newArchive.GetFile(path, nil)
		switch {
		case errors.Is(err, shared.ErrNotFound):
			removed = append(removed, shared.EscapeForDiff(path))
			return nil
		case err != nil:
			return fmt.Errorf("pfa/diff: looking up %q in new archive: %w", path, err)
		}

		if !bytes.Equal(oldContents, newContents) {
			diffs := dmp.DiffMain(string(oldContents), string(newContents), false)
			patches := dmp.PatchMake(string(oldContents), diffs)
			changed[shared.EscapeForDiff(path)] = dmp.PatchToText(patches)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("pfa/diff: scanning old archive: %w", err)
	}

	var added []struct {
		name     string
		contents []byte
	}
	err = newArchive.TraverseFiles("/", nil, func(path string, contents []byte) error {
		if _, err := old.GetPath(path); errors.Is(err, shared.ErrNotFound) {
			added = append(added, struct {
				name     string
				contents []byte
			}{shared.EscapeForDiff(path), contents})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("pfa/diff: scanning new archive: %w", err)
	}

	b := writer.NewBuilder(old.Name() + "_patch")
	for _, name := range removed {
		if err := b.AddFile(removeDir+name, nil, shared.Options{}); err != nil {
			return fmt.Errorf("pfa/diff: recording removal of %q: %w", name, err)
		}
	}
	for _, a := range added {
		if err := b.AddFile(addDir+a.name, a.contents, shared.Options{Compression: shared.AutoCompression}); err != nil {
			return fmt.Errorf("pfa/diff: recording addition of %q: %w", a.name, err)
		}
	}
	for name, patchText := range changed {
		if err := b.AddFile(changeDir+name, []byte(patchText), shared.Options{Compression: shared.AutoCompression}); err != nil {
			return fmt.Errorf("pfa/diff: recording change to %q: %w", name, err)
		}
	}

	bytesOut, err := b.Build()
	if err != nil {
		return fmt.Errorf("pfa/diff: building diff archive: %w", err)
	}
	_, err = out.Write(bytesOut)
	return err
}
