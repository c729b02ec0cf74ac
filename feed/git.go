package feed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// GitLog pages through the commit log of a repository, newest first.
type GitLog struct {
	// Path is any directory inside the working tree.
	Path string
}

var errStop = errors.New("stop")

func (g GitLog) Name() string { return "git:" + g.Path }

func (g GitLog) Page(ctx context.Context, index, size int) ([]Entry, error) {
	if index < 0 || size <= 0 {
		return nil, nil
	}
	repo, err := git.PlainOpenWithOptions(g.Path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repo %s: %w", g.Path, err)
	}
	head, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		// No commits yet.
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}

	iter, err := repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, fmt.Errorf("git log: %w", err)
	}
	defer iter.Close()

	skip := index * size
	entries := make([]Entry, 0, size)
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if skip > 0 {
			skip--
			return nil
		}
		if len(entries) >= size {
			return errStop
		}
		entries = append(entries, commitEntry(c))
		return nil
	})
	if err != nil && !errors.Is(err, errStop) {
		return nil, err
	}
	return entries, nil
}

func commitEntry(c *object.Commit) Entry {
	subject, body, _ := strings.Cut(strings.TrimSpace(c.Message), "\n")
	hash := c.Hash.String()
	return Entry{
		ID:     hash,
		Title:  subject,
		Meta:   fmt.Sprintf("%s · %s · %s", hash[:7], c.Author.Name, c.Author.When.UTC().Format(time.RFC3339)),
		Body:   strings.TrimSpace(body),
		Marker: true,
	}
}
