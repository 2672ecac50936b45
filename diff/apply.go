package diff

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/sergi/go-diff/diffmatchpatch"
	"golang.org/x/sync/errgroup"

	"github.com/packedfilearchive/pfa/reader"
	"github.com/packedfilearchive/pfa/shared"
	"github.com/packedfilearchive/pfa/writer"
)

// traverseOrEmpty treats a missing grouping directory (a diff archive
// with no removed/added/changed entries never creates /remove/, /add/,
// or /change/) as zero files rather than an error.
func traverseOrEmpty(r *reader.Reader, dir string, fn func(path string, contents []byte) error) error {
	err := r.TraverseFiles(dir, nil, fn)
	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	return err
}

type changeTask struct {
	path        string
	patchText   string
	oldContents string
}

// Apply reconstructs the archive old+diffArchive describes and writes it
// to out. Changed-file patches are applied concurrently, one goroutine per
// file, against a single mutex-guarded builder; no goroutine is cancelled,
// every one runs to completion, and the first patch failure any of them
// reports is returned once all have finished.
func Apply(old, diffArchive *reader.Reader, out io.Writer) error {
	removed := map[string]bool{}
	if err := traverseOrEmpty(diffArchive, removeDir, func(path string, _ []byte) error {
		removed[unescapeUnderDir(removeDir, path)] = true
		return nil
	}); err != nil {
		return fmt.Errorf("pfa/diff: reading removed-file list: %w", err)
	}

	added := map[string][]byte{}
	if err := traverseOrEmpty(diffArchive, addDir, func(path string, contents []byte) error {
		added[unescapeUnderDir(addDir, path)] = contents
		return nil
	}); err != nil {
		return fmt.Errorf("pfa/diff: reading added files: %w", err)
	}

	changedPatches := map[string]string{}
	if err := traverseOrEmpty(diffArchive, changeDir, func(path string, contents []byte) error {
		changedPatches[unescapeUnderDir(changeDir, path)] = string(contents)
		return nil
	}); err != nil {
		return fmt.Errorf("pfa/diff: reading change patches: %w", err)
	}

	b := writer.NewBuilder(old.Name() + "_patched")
	var mu sync.Mutex
	var tasks []changeTask

	err := old.TraverseFiles("/", nil, func(path string, contents []byte) error {
		if removed[path] {
			return nil
		}
		if patchText, ok := changedPatches[path]; ok {
			tasks = append(tasks, changeTask{path: path, patchText: patchText, oldContents: string(contents)})
			return nil
		}
		return b.AddFile(path, contents, shared.Options{Compression: shared.AutoCompression})
	})
	if err != nil {
		return fmt.Errorf("pfa/diff: copying unchanged files from old archive: %w", err)
	}

	g, _ := errgroup.WithContext(context.Background())
	for _, t := range tasks {
		t := t
		g.Go(func() error {
			dmp := diffmatchpatch.New()
			patches, err := dmp.PatchFromText(t.patchText)
			if err != nil {
				return fmt.Errorf("%w: parsing patch for %q: %v", shared.ErrPatchApply, t.path, err)
			}
			newContents, applied := dmp.PatchApply(patches, t.oldContents)
			for _, ok := range applied {
				if !ok {
					return fmt.Errorf("%w: %q", shared.ErrPatchApply, t.path)
				}
			}

			mu.Lock()
			defer mu.Unlock()
			return b.AddFile(t.path, []byte(newContents), shared.Options{Compression: shared.AutoCompression})
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for path, contents := range added {
		if err := b.AddFile(path, contents, shared.Options{Compression: shared.AutoCompression}); err != nil {
			return fmt.Errorf("pfa/diff: adding new file %q: %w", path, err)
		}
	}

	bytesOut, err := b.Build()
	if err != nil {
		return fmt.Errorf("pfa/diff: building patched archive: %w", err)
	}
	_, err = out.Write(bytesOut)
	return err
}

// unescapeUnderDir strips a diff archive's grouping prefix (e.g.
// "/change/") and reverses EscapeForDiff on what remains.
func unescapeUnderDir(dir, path string) string {
	return shared.UnescapeFromDiff(strings.TrimPrefix(path, dir))
}
