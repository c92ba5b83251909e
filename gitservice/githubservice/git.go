/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package githubservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chainguard.dev/launcher/gitservice"
	"github.com/chainguard-dev/clog"
	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const (
	remoteName    = "origin"
	commitMessage = "Initial commit"
)

// Clone implements gitservice.Service.
func (s *Service) Clone(ctx context.Context, repo *gitservice.Repository, dir string) (string, error) {
	clog.FromContext(ctx).Infof("Cloning repository %s into %s", repo.CloneURL, dir)

	auth, err := s.gitAuth(ctx)
	if err != nil {
		return "", err
	}

	if _, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:  repo.CloneURL,
		Auth: auth,
	}); err != nil {
		return "", fmt.Errorf("cloning repository: %w", err)
	}
	return dir, nil
}

// Push implements gitservice.Service. A directory that is not yet a git
// repository is initialized on the default branch. Everything in dir is
// committed and the current branch is pushed to repo.
func (s *Service) Push(ctx context.Context, repo *gitservice.Repository, dir string) error {
	log := clog.FromContext(ctx)

	r, err := s.openOrInit(dir)
	if err != nil {
		return err
	}

	if err := s.commitAll(ctx, r); err != nil {
		return err
	}

	if err := setRemote(r, repo.CloneURL); err != nil {
		return err
	}

	head, err := r.Head()
	if err != nil {
		return fmt.Errorf("resolving HEAD: %w", err)
	}

	auth, err := s.gitAuth(ctx)
	if err != nil {
		return err
	}

	refSpec := gitconfig.RefSpec(fmt.Sprintf("%s:%s", head.Name(), head.Name()))
	log.Infof("Pushing %s to %s", refSpec, repo.CloneURL)

	if err := r.PushContext(ctx, &git.PushOptions{
		RemoteName: remoteName,
		Auth:       auth,
		RefSpecs:   []gitconfig.RefSpec{refSpec},
	}); err != nil {
		if errors.Is(err, git.NoErrAlreadyUpToDate) {
			log.Infof("Branch already up to date")
			return nil
		}
		return fmt.Errorf("pushing: %w", err)
	}
	return nil
}

func (s *Service) openOrInit(dir string) (*git.Repository, error) {
	r, err := git.PlainOpen(dir)
	if err == nil {
		return r, nil
	}
	if !errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("opening repository: %w", err)
	}

	r, err = git.PlainInit(dir, false)
	if err != nil {
		return nil, fmt.Errorf("initializing repository: %w", err)
	}
	if err := r.Storer.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName(s.branch))); err != nil {
		return nil, fmt.Errorf("setting default branch: %w", err)
	}
	return r, nil
}

func (s *Service) commitAll(ctx context.Context, r *git.Repository) error {
	worktree, err := r.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	if err := worktree.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return fmt.Errorf("staging changes: %w", err)
	}

	user, err := s.LoggedUser(ctx)
	if err != nil {
		return err
	}

	if _, err := worktree.Commit(commitMessage, &git.CommitOptions{
		Author: signature(user),
	}); err != nil {
		if errors.Is(err, git.ErrEmptyCommit) {
			clog.FromContext(ctx).Infof("Nothing to commit")
			return nil
		}
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// setRemote points origin at url, replacing any other origin.
func setRemote(r *git.Repository, url string) error {
	remote, err := r.Remote(remoteName)
	switch {
	case errors.Is(err, git.ErrRemoteNotFound):
	case err != nil:
		return fmt.Errorf("looking up remote: %w", err)
	default:
		if urls := remote.Config().URLs; len(urls) == 1 && urls[0] == url {
			return nil
		}
		if err := r.DeleteRemote(remoteName); err != nil {
			return fmt.Errorf("deleting remote: %w", err)
		}
	}

	if _, err := r.CreateRemote(&gitconfig.RemoteConfig{
		Name: remoteName,
		URLs: []string{url},
	}); err != nil {
		return fmt.Errorf("creating remote: %w", err)
	}
	return nil
}

func signature(user *gitservice.User) *object.Signature {
	name := user.Name
	if name == "" {
		name = user.Login
	}
	email := user.Email
	if email == "" {
		email = fmt.Sprintf("%s@users.noreply.github.com", user.Login)
	}
	return &object.Signature{
		Name:  name,
		Email: email,
		When:  time.Now(),
	}
}
