/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package reaper

import (
	"context"

	"github.com/chainguard-dev/clog"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

// Executor runs detached tasks. Go returns without waiting for fn and no
// result is reported back.
type Executor interface {
	Go(fn func())
}

// ExecutorFunc adapts a function to an Executor.
type ExecutorFunc func(fn func())

// Go calls f(fn).
func (f ExecutorFunc) Go(fn func()) { f(fn) }

// DirectoryReaper recursively deletes directory trees.
type DirectoryReaper struct {
	executor Executor
	fs       billy.Filesystem
}

// Option configures a DirectoryReaper.
type Option func(*DirectoryReaper)

// WithExecutor makes Delete run on e instead of the calling goroutine.
func WithExecutor(e Executor) Option {
	return func(r *DirectoryReaper) { r.executor = e }
}

// WithFilesystem sets the filesystem paths are resolved against. Defaults to
// the host filesystem.
func WithFilesystem(fs billy.Filesystem) Option {
	return func(r *DirectoryReaper) { r.fs = fs }
}

// New returns a DirectoryReaper.
func New(opts ...Option) *DirectoryReaper {
	r := &DirectoryReaper{fs: osfs.New("")}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Delete removes path and everything below it. An empty path is ignored.
func (r *DirectoryReaper) Delete(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if r.executor == nil {
		r.performDelete(ctx, path)
		return
	}

	// The task outlives the caller's request.
	ctx = context.WithoutCancel(ctx)
	r.executor.Go(func() { r.performDelete(ctx, path) })
}

func (r *DirectoryReaper) performDelete(ctx context.Context, path string) {
	log := clog.FromContext(ctx).With("path", path)
	defer func() {
		if p := recover(); p != nil {
			deletions.WithLabelValues(resultFailed).Inc()
			log.Errorf("Panic while deleting %s: %v", path, p)
		}
	}()

	log.Infof("Deleting %s", path)
	if err := util.RemoveAll(r.fs, path); err != nil {
		deletions.WithLabelValues(resultFailed).Inc()
		log.Errorf("Error while deleting %s: %v", path, err)
		return
	}
	deletions.WithLabelValues(resultDeleted).Inc()
}
