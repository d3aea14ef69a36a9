package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// logTimeFormat sorts lexically in creation order
const logTimeFormat = "2006-01-02T15-04-05.000"

// SetupLogFile creates a timestamped log file for one binary (server,
// granthctl) under dir and prunes that binary's files beyond maxFiles.
// The caller closes the returned file.
func SetupLogFile(dir, name string, maxFiles int) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	path := filepath.Join(dir, name+"-"+time.Now().Format(logTimeFormat)+".log")
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	if err := pruneLogs(dir, name, maxFiles); err != nil {
		// logging still works without the cleanup
		fmt.Fprintf(os.Stderr, "warning: prune old logs: %v\n", err)
	}
	return f, nil
}

// pruneLogs keeps the newest maxFiles logs of name. Other binaries' logs in
// the same directory are left alone.
func pruneLogs(dir, name string, maxFiles int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	var logs []string
	for _, e := range entries {
		n := e.Name()
		if !e.IsDir() && strings.HasPrefix(n, name+"-") && strings.HasSuffix(n, ".log") {
			logs = append(logs, n)
		}
	}
	if len(logs) <= maxFiles {
		return nil
	}

	slices.Sort(logs)
	for _, n := range logs[:len(logs)-maxFiles] {
		if err := os.Remove(filepath.Join(dir, n)); err != nil {
			return fmt.Errorf("remove %s: %w", n, err)
		}
	}
	return nil
}
