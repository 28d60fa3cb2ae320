// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package storage persists media blobs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrInvalidPath is returned when a directory or file name would escape the root.
var ErrInvalidPath = errors.New("invalid storage path")

// Provider stores files under slash-separated directories such as "blog/2026/10/sm".
type Provider interface {
	// Save writes data to dir/fileName, creating dir if needed.
	Save(ctx context.Context, dir, fileName string, data []byte) error
	// Delete removes dir/fileName. Deleting a missing file is not an error.
	Delete(ctx context.Context, dir, fileName string) error
	// Exists reports whether dir/fileName is present.
	Exists(ctx context.Context, dir, fileName string) (bool, error)
	// Endpoint is the public URL prefix files are served from.
	Endpoint() string
}

// LocalProvider stores files on the local filesystem.
type LocalProvider struct {
	root     string
	endpoint string
}

// NewLocalProvider creates a provider rooted at root. The directory is
// created on first write.
func NewLocalProvider(root, endpoint string) (*LocalProvider, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage root: %w", err)
	}
	return &LocalProvider{root: abs, endpoint: endpoint}, nil
}

// Root returns the absolute root directory.
func (p *LocalProvider) Root() string {
	return p.root
}

// Endpoint returns the public URL prefix.
func (p *LocalProvider) Endpoint() string {
	return p.endpoint
}

// Save writes data to dir/fileName.
func (p *LocalProvider) Save(ctx context.Context, dir, fileName string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := p.resolve(dir, fileName)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(target, data, 0644); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}
	return nil
}

// Delete removes dir/fileName if it exists.
func (p *LocalProvider) Delete(ctx context.Context, dir, fileName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := p.resolve(dir, fileName)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Exists reports whether dir/fileName exists.
func (p *LocalProvider) Exists(ctx context.Context, dir, fileName string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	target, err := p.resolve(dir, fileName)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(target)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// resolve validates dir and fileName and returns the absolute target path.
func (p *LocalProvider) resolve(dir, fileName string) (string, error) {
	safeName := filepath.Base(fileName)
	if safeName != fileName || safeName == "." || safeName == ".." || safeName == "" {
		return "", fmt.Errorf("%w: file name %q", ErrInvalidPath, fileName)
	}

	cleanDir := path.Clean("/" + dir)[1:]
	if strings.Contains(dir, "..") || path.IsAbs(dir) {
		return "", fmt.Errorf("%w: directory %q", ErrInvalidPath, dir)
	}

	target := filepath.Join(p.root, filepath.FromSlash(cleanDir), safeName)
	rel, err := filepath.Rel(p.root, target)
	if err != nil || strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
		return "", fmt.Errorf("%w: path traversal detected", ErrInvalidPath)
	}
	return target, nil
}
