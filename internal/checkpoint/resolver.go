package checkpoint

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jonathan/review-generator/internal/types"
)

// Handle identifies one on-disk checkpoint artifact.
type Handle struct {
	Path      string
	SizeBytes int64
	ModTime   time.Time
}

// Name returns the artifact's base file name.
func (h Handle) Name() string {
	return filepath.Base(h.Path)
}

// IsFinal reports whether the artifact was written at successful job
// completion. Final checkpoints are exempt from retention pruning.
func (h Handle) IsFinal() bool {
	return strings.Contains(h.Name(), "_final_")
}

// Signature derives the stable identity of a logical job from the input
// file's base name and the selected mode. It depends on nothing but its
// arguments, so it can be computed before any checkpoint is loaded: two runs
// over the same file and mode always share a signature, different files or
// modes never collide.
func Signature(inputPath string, mode types.Mode) string {
	base := filepath.Base(inputPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return fmt.Sprintf("%s_%s", base, mode)
}

// Find lists checkpoint artifacts for the signature, newest first. A missing
// directory or no matches yields an empty slice, not an error.
func Find(dir, signature string) ([]Handle, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan checkpoint directory %s: %w", dir, err)
	}

	prefix := signature + "_"
	var handles []Handle
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		// The prefix alone is ambiguous: signature "data_quick" would also
		// match artifacts of signature "data_quick_medium". The token after
		// the signature must be this run's tag, a sequence count or "final".
		tag, _, _ := strings.Cut(strings.TrimPrefix(name, prefix), "_")
		if !isTag(tag) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue // raced with deletion
		}
		handles = append(handles, Handle{
			Path:      filepath.Join(dir, name),
			SizeBytes: info.Size(),
			ModTime:   info.ModTime(),
		})
	}

	sort.Slice(handles, func(i, j int) bool {
		if !handles[i].ModTime.Equal(handles[j].ModTime) {
			return handles[i].ModTime.After(handles[j].ModTime)
		}
		return handles[i].Name() > handles[j].Name()
	})
	return handles, nil
}

// isTag reports whether s is a valid artifact tag: a decimal review count or
// the final marker.
func isTag(s string) bool {
	if s == FinalTag {
		return true
	}
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

