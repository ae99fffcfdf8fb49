package git

import (
	"bytes"
	"errors"
	"io"
	"os"
	"sort"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// leafEntry is one blob-level entry of a flattened tree.
type leafEntry struct {
	Hash plumbing.Hash
	Mode filemode.FileMode
}

// sameEntry reports whether two optional leaf entries are identical.
// Two absent entries are identical.
func sameEntry(a, b *leafEntry) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Hash == b.Hash && a.Mode == b.Mode
}

// flattenTree walks a tree recursively and returns its leaf entries keyed by
// slash-separated path. A nil tree flattens to an empty map, which makes a
// null merge base just another tree. Flattening is what pushes
// directory-vs-file and add/add disagreements down to leaf paths: the merge
// below never reasons about directories at all.
func flattenTree(tree *object.Tree) (map[string]leafEntry, error) {
	leaves := make(map[string]leafEntry)
	if tree == nil {
		return leaves, nil
	}

	walker := object.NewTreeWalker(tree, true, nil)
	defer walker.Close()

	for {
		name, entry, err := walker.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, wrapError(err, "failed to walk tree")
		}
		if entry.Mode == filemode.Dir {
			continue
		}
		leaves[name] = leafEntry{Hash: entry.Hash, Mode: entry.Mode}
	}
	return leaves, nil
}

// mergeApply is one theirs-side change a clean (or partially clean) merge
// lays onto the working tree and index.
type mergeApply struct {
	Path   string
	Hash   plumbing.Hash
	Mode   filemode.FileMode
	Delete bool
}

// mergeResult is the outcome of a three-way tree merge.
type mergeResult struct {
	// Conflicts holds one entry per leaf path both sides changed to
	// different content, in path order.
	Conflicts []ConflictInfo

	// Apply holds the theirs-side changes that merged cleanly. Ours-side
	// changes are already present in the working tree and need no action.
	Apply []mergeApply

	// OursChanged and TheirsChanged list the paths each side changed
	// relative to the base, conflicted paths included.
	OursChanged   []string
	TheirsChanged []string
}

// hasConflicts reports whether the merge needs manual resolution.
func (m *mergeResult) hasConflicts() bool {
	return len(m.Conflicts) > 0
}

// changedUnion returns the sorted union of paths changed on either side.
func (m *mergeResult) changedUnion() []string {
	seen := make(map[string]bool, len(m.OursChanged)+len(m.TheirsChanged))
	for _, p := range m.OursChanged {
		seen[p] = true
	}
	for _, p := range m.TheirsChanged {
		seen[p] = true
	}
	union := make([]string, 0, len(seen))
	for p := range seen {
		union = append(union, p)
	}
	sort.Strings(union)
	return union
}

// mergeTrees performs a three-way merge of base, ours and theirs trees.
// base may be nil when the histories share no common ancestor.
//
// Each leaf path is classified as unchanged (all three equal, or no base and
// ours equals theirs), auto-resolved (exactly one side changed relative to
// the base; the change wins), or conflicting (both sides changed to
// different content, including modify/delete and add/add disagreements).
// Conflicting paths collect full ours/theirs content plus the base content
// when the path existed in the common ancestor.
func (r *Repository) mergeTrees(base, ours, theirs *object.Tree) (*mergeResult, error) {
	baseLeaves, err := flattenTree(base)
	if err != nil {
		return nil, err
	}
	oursLeaves, err := flattenTree(ours)
	if err != nil {
		return nil, err
	}
	theirsLeaves, err := flattenTree(theirs)
	if err != nil {
		return nil, err
	}

	paths := make(map[string]bool)
	for p := range baseLeaves {
		paths[p] = true
	}
	for p := range oursLeaves {
		paths[p] = true
	}
	for p := range theirsLeaves {
		paths[p] = true
	}
	ordered := make([]string, 0, len(paths))
	for p := range paths {
		ordered = append(ordered, p)
	}
	sort.Strings(ordered)

	result := &mergeResult{}

	for _, path := range ordered {
		b := lookupLeaf(baseLeaves, path)
		o := lookupLeaf(oursLeaves, path)
		t := lookupLeaf(theirsLeaves, path)

		oursChanged := !sameEntry(b, o)
		theirsChanged := !sameEntry(b, t)
		if oursChanged {
			result.OursChanged = append(result.OursChanged, path)
		}
		if theirsChanged {
			result.TheirsChanged = append(result.TheirsChanged, path)
		}

		switch {
		case sameEntry(o, t):
			// Unchanged, or both sides made the identical change.

		case !theirsChanged:
			// Only ours changed; the working tree already has it.

		case !oursChanged:
			// Only theirs changed; lay their version (or deletion) onto ours.
			if t == nil {
				result.Apply = append(result.Apply, mergeApply{Path: path, Delete: true})
			} else {
				result.Apply = append(result.Apply, mergeApply{Path: path, Hash: t.Hash, Mode: t.Mode})
			}

		default:
			info, err := r.conflictInfo(path, b, o, t)
			if err != nil {
				return nil, err
			}
			result.Conflicts = append(result.Conflicts, info)
		}
	}

	return result, nil
}

func lookupLeaf(leaves map[string]leafEntry, path string) *leafEntry {
	if entry, ok := leaves[path]; ok {
		return &entry
	}
	return nil
}

// conflictInfo materializes the ours/theirs/base content of a conflicted
// leaf. A side that deleted the path contributes empty content; a path absent
// from the common ancestor has a nil base.
func (r *Repository) conflictInfo(path string, b, o, t *leafEntry) (ConflictInfo, error) {
	info := ConflictInfo{Path: path}

	if o != nil {
		content, err := r.readBlob(o.Hash)
		if err != nil {
			return info, err
		}
		info.Ours = string(content)
	}
	if t != nil {
		content, err := r.readBlob(t.Hash)
		if err != nil {
			return info, err
		}
		info.Theirs = string(content)
	}
	if b != nil {
		content, err := r.readBlob(b.Hash)
		if err != nil {
			return info, err
		}
		base := string(content)
		info.Base = &base
	}

	return info, nil
}

// applyMerge lays cleanly merged theirs-side changes onto the working tree
// and index.
func (r *Repository) applyMerge(applies []mergeApply) error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return wrapError(err, "failed to get worktree")
	}

	for _, a := range applies {
		if a.Delete {
			if err := r.fs.Remove(a.Path); err != nil && !isNotExist(err) {
				return wrapError(err, "failed to delete "+a.Path)
			}
			if err := r.removeIndexEntries(a.Path, 0); err != nil {
				return err
			}
			continue
		}

		content, err := r.readBlob(a.Hash)
		if err != nil {
			return err
		}
		if err := r.writeWorkingFile(a.Path, content); err != nil {
			return wrapError(err, "failed to write "+a.Path)
		}
		if _, err := wt.Add(a.Path); err != nil {
			return wrapError(err, "failed to stage "+a.Path)
		}
	}
	return nil
}

// stageConflicts writes multi-stage index entries for every conflicted path:
// ancestor at stage 1, ours at stage 2, theirs at stage 3. A side that
// deleted the path gets no entry at its stage. Any stage-0 entry for the
// path is removed first, preserving the invariant that a path has either one
// resolved entry or one conflicted entry set, never both.
func (r *Repository) stageConflicts(conflicts []ConflictInfo, base, ours, theirs map[string]leafEntry) error {
	idx, err := r.repo.Storer.Index()
	if err != nil {
		return wrapError(err, "failed to read index")
	}

	for _, conflict := range conflicts {
		removeEntries(idx, conflict.Path, 0)

		if entry, ok := base[conflict.Path]; ok {
			idx.Entries = append(idx.Entries, &index.Entry{
				Name:  conflict.Path,
				Hash:  entry.Hash,
				Mode:  entry.Mode,
				Stage: index.AncestorMode,
			})
		}
		if entry, ok := ours[conflict.Path]; ok {
			idx.Entries = append(idx.Entries, &index.Entry{
				Name:  conflict.Path,
				Hash:  entry.Hash,
				Mode:  entry.Mode,
				Stage: index.OurMode,
			})
		}
		if entry, ok := theirs[conflict.Path]; ok {
			idx.Entries = append(idx.Entries, &index.Entry{
				Name:  conflict.Path,
				Hash:  entry.Hash,
				Mode:  entry.Mode,
				Stage: index.TheirMode,
			})
		}
	}

	if err := r.repo.Storer.SetIndex(idx); err != nil {
		return wrapError(err, "failed to write index")
	}
	return nil
}

// removeIndexEntries drops index entries for a path with stage >= minStage
// and persists the index.
func (r *Repository) removeIndexEntries(path string, minStage index.Stage) error {
	idx, err := r.repo.Storer.Index()
	if err != nil {
		return wrapError(err, "failed to read index")
	}
	removeEntries(idx, path, minStage)
	if err := r.repo.Storer.SetIndex(idx); err != nil {
		return wrapError(err, "failed to write index")
	}
	return nil
}

// removeEntries filters entries for path with stage >= minStage out of idx.
func removeEntries(idx *index.Index, path string, minStage index.Stage) {
	kept := idx.Entries[:0]
	for _, entry := range idx.Entries {
		if entry.Name == path && entry.Stage >= minStage {
			continue
		}
		kept = append(kept, entry)
	}
	idx.Entries = kept
}

// conflictMarkers renders the working-tree content for a conflicted file:
// ours and theirs delimited git-style, with the base section labeled by the
// merge-base id and included when the path existed in the common ancestor.
func conflictMarkers(conflict ConflictInfo, baseID, remoteID string) []byte {
	var buf bytes.Buffer

	buf.WriteString("<<<<<<< HEAD\n")
	writeSection(&buf, conflict.Ours)
	if conflict.Base != nil {
		buf.WriteString("||||||| " + baseID + "\n")
		writeSection(&buf, *conflict.Base)
	}
	buf.WriteString("=======\n")
	writeSection(&buf, conflict.Theirs)
	buf.WriteString(">>>>>>> " + remoteID + "\n")

	return buf.Bytes()
}

// writeSection writes content ensuring it ends with a newline so the next
// marker starts on its own line.
func writeSection(buf *bytes.Buffer, content string) {
	if content == "" {
		return
	}
	buf.WriteString(content)
	if content[len(content)-1] != '\n' {
		buf.WriteByte('\n')
	}
}

// isNotExist matches both os and billy not-found errors.
func isNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
