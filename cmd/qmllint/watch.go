package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"qmllint/internal/ast"
	"qmllint/internal/config"
	"qmllint/internal/importer"
)

const watchDebounce = 250 * time.Millisecond

// watchAndCheck runs the check once and again after every batch of
// relevant file changes until ctx is done.
func watchAndCheck(ctx context.Context, w io.Writer, args []string, s *checkSettings) error {
	if _, err := checkOnce(ctx, w, args, s); err != nil {
		return err
	}
	roots := append([]string(nil), args...)
	roots = append(roots, s.lint.ImportPaths...)
	if s.projectFile != "" {
		roots = append(roots, s.projectFile)
	}
	return watchPaths(ctx, roots, watchDebounce, func(changed []string) {
		fmt.Fprintf(w, "\n-- %d file(s) changed, re-checking --\n", len(changed))
		if _, err := checkOnce(ctx, w, args, s); err != nil {
			fmt.Fprintf(os.Stderr, "qmllint: %v\n", err)
		}
	})
}

func watchPaths(ctx context.Context, targets []string, debounce time.Duration, onChange func(changed []string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, target := range targets {
		root, err := watchRoot(target)
		if err != nil {
			return err
		}
		if err := addWatchRecursive(watcher, root); err != nil {
			return err
		}
	}

	if debounce <= 0 {
		debounce = watchDebounce
	}
	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	pending := map[string]bool{}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			path := filepath.Clean(event.Name)
			if event.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
					_ = addWatchRecursive(watcher, path)
					continue
				}
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 || !isWatchedFile(path) {
				continue
			}
			if len(pending) > 0 && !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			pending[path] = true
			timer.Reset(debounce)
		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for path := range pending {
				changed = append(changed, path)
			}
			sort.Strings(changed)
			pending = map[string]bool{}
			onChange(changed)
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return watchErr
		}
	}
}

// watchRoot is the directory to watch for target: itself or its parent.
func watchRoot(target string) (string, error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return filepath.Clean(abs), nil
	}
	return filepath.Dir(abs), nil
}

func addWatchRecursive(watcher *fsnotify.Watcher, root string) error {
	root = filepath.Clean(root)
	return filepath.WalkDir(root, func(path string, entry os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !entry.IsDir() {
			return nil
		}
		if path != root && skipWatchDir(entry.Name()) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

func skipWatchDir(name string) bool {
	switch name {
	case ".git", ".hg", ".svn", "node_modules":
		return true
	}
	return strings.HasPrefix(name, ".")
}

// isWatchedFile reports whether a change to path can alter a lint result.
func isWatchedFile(path string) bool {
	base := filepath.Base(path)
	switch {
	case ast.IsDocumentPath(path):
		return true
	case strings.HasSuffix(base, ".qml"), strings.HasSuffix(base, importer.TypeFileSuffix):
		return true
	case base == config.FileName:
		return true
	}
	return false
}
