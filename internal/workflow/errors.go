package workflow

import (
	"fmt"

	"github.com/VoxDroid/shipr/internal/gitutil"
)

// DirtyTreeError reports uncommitted changes blocking a release.
type DirtyTreeError struct {
	Files []gitutil.StatusFile
}

func (e *DirtyTreeError) Error() string {
	return fmt.Sprintf("working tree has uncommitted changes (%d files); commit or stash them before releasing", len(e.Files))
}

// PushRejectedError reports a push the remote refused (e.g. non-fast-forward).
type PushRejectedError struct {
	Remote string
	Ref    string
	Err    error
}

func (e *PushRejectedError) Error() string {
	return fmt.Sprintf("push of %s to %s rejected by the remote: %v", e.Ref, e.Remote, e.Err)
}

func (e *PushRejectedError) Unwrap() error { return e.Err }

// ExternalToolError wraps a non-zero exit from an invoked tool, naming the
// release step it belongs to.
type ExternalToolError struct {
	Step string
	Err  error
}

func (e *ExternalToolError) Error() string {
	return fmt.Sprintf("%s step failed: %v", e.Step, e.Err)
}

func (e *ExternalToolError) Unwrap() error { return e.Err }
