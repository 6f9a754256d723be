// Package gitinfo reports the state of the git repository checked out in an
// environment's web root.
package gitinfo

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ErrNotRepository is returned when path is not inside a git repository.
var ErrNotRepository = git.ErrRepositoryNotExists

// Info holds information about a git repository
type Info struct {
	// Branch is the checked out branch, empty for a detached HEAD
	Branch string
	// Commit is the abbreviated HEAD commit hash
	Commit string
	// Tags point at HEAD
	Tags []string
	// Dirty indicates uncommitted changes in the working tree
	Dirty bool
}

// Ref is the branch name, or the commit for a detached HEAD.
func (i *Info) Ref() string {
	if i.Branch != "" {
		return i.Branch
	}
	return i.Commit
}

func (i *Info) String() string {
	s := i.Ref()
	if i.Branch != "" && i.Commit != "" {
		s += " (" + i.Commit + ")"
	}
	if i.Dirty {
		s += ", uncommitted changes"
	}
	return s
}

// Get opens the repository containing path, seeking upwards for .git.
func Get(path string) (*Info, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotRepository, path)
		}
		return nil, fmt.Errorf("failed to open git repository at %q: %w", path, err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD reference for repository %q: %w", path, err)
	}

	info := &Info{Commit: head.Hash().String()[:7]}
	if head.Name().IsBranch() {
		info.Branch = head.Name().Short()
	}

	tagRefs, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	err = tagRefs.ForEach(func(ref *plumbing.Reference) error {
		rev, err := repo.ResolveRevision(plumbing.Revision(ref.Name()))
		if err != nil {
			return fmt.Errorf("failed to resolve tag %q: %w", ref.Name().Short(), err)
		}
		if *rev == head.Hash() {
			info.Tags = append(info.Tags, ref.Name().Short())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree for repository %q: %w", path, err)
	}
	status, err := worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree status for repository %q: %w", path, err)
	}
	info.Dirty = !status.IsClean()

	return info, nil
}
