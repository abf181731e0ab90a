// Package main provides a script to clean up build and test artefacts.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/api3dao/ois/internal/app"
)

func main() {
	cleanDirs([]string{"bin"})
	cleanLogs()
	cleanPatterns([]string{"coverage*", "*.out", "*.test", "*.coverprofile"})
}

func cleanDirs(dirs []string) {
	for _, dir := range dirs {
		if err := os.RemoveAll(dir); err != nil {
			_, _ = fmt.Printf("❌ Failed to remove dir %s: %v\n", dir, err)
		} else {
			_, _ = fmt.Printf("✅ Removed dir %s\n", dir)
		}
	}
}

// cleanLogs removes the log files left next to the packages whose tests run the CLI.
func cleanLogs() {
	var logs []string
	_ = filepath.WalkDir(".", func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() && d.Name() == "_examples" {
			return filepath.SkipDir
		}
		if !d.IsDir() && d.Name() == app.LogFile {
			logs = append(logs, path)
		}
		return nil
	})

	for _, file := range logs {
		if err := os.Remove(file); err != nil {
			_, _ = fmt.Printf("❌ Failed to remove file %s: %v\n", file, err)
		} else {
			_, _ = fmt.Printf("✅ Removed file %s\n", file)
		}
	}
}

func cleanPatterns(patterns []string) {
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			_, _ = fmt.Printf("❌ Failed to glob pattern %s: %v\n", pattern, err)
			continue
		}
		for _, match := range matches {
			if rErr := os.Remove(match); rErr != nil {
				_, _ = fmt.Printf("❌ Failed to remove matched file %s: %v\n", match, rErr)
			} else {
				_, _ = fmt.Printf("✅ Removed matched file %s\n", match)
			}
		}
	}
}
