package main

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/mfialko/folio"
	"github.com/mfialko/folio/collate"
	"github.com/mfialko/folio/index"
)

// indexLockName is the lock file guarding concurrent index runs over
// the same content tree.
const indexLockName = ".index.lock"

// Run executes the index command.
func (c *IndexCmd) Run(deps *Dependencies) error {
	lock := flock.New(filepath.Join(c.Content, indexLockName))
	locked, err := lock.TryLock()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: cannot lock %q: %s\n", c.Content, err)
		return err
	}
	if !locked {
		err := folio.Errorf(folio.ECONFLICT, "another index run is in progress for %q", c.Content)
		fmt.Fprintf(deps.Stderr, "error: %s\n", folio.ErrorMessage(err))
		return err
	}
	defer func() { _ = lock.Unlock() }()

	builder := &index.Builder{
		Scanner:  deps.Scanner,
		Titles:   deps.Titles,
		Writer:   deps.Writer,
		Collator: collate.New(),
	}

	if _, err := builder.Build(deps.Ctx, c.Content, deps.Stdout); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", folio.ErrorMessage(err))
		return err
	}

	return nil
}
