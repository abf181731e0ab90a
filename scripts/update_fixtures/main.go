// Package main rewrites the oisFormat of the test fixtures to the current ois.Version
// and checks that the valid fixture still passes.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/rogpeppe/go-internal/txtar"
	"github.com/tidwall/gjson"

	"github.com/api3dao/ois/internal/ois"
)

const (
	fixturePath = "internal/ois/testdata/ois.json"
	scriptsDir  = "cmd/ois/testdata/script"
)

var yamlFormatLine = regexp.MustCompile(`(?m)^oisFormat: ".*"$`)

func main() {
	data, err := os.ReadFile(fixturePath)
	if err != nil {
		fail("Failed to read %s: %v", fixturePath, err)
	}
	updated := setJSONFormat(data)
	if err := check(updated); err != nil {
		fail("%s is not valid after the update:\n%v", fixturePath, err)
	}
	write(fixturePath, data, updated)

	scripts, err := filepath.Glob(filepath.Join(scriptsDir, "*.txtar"))
	if err != nil {
		fail("Failed to list scripts: %v", err)
	}
	for _, path := range scripts {
		data, err := os.ReadFile(path)
		if err != nil {
			fail("Failed to read %s: %v", path, err)
		}
		write(path, data, updateArchive(data))
	}
}

// setJSONFormat replaces the top-level oisFormat value in place, keeping the rest of
// the document byte for byte.
func setJSONFormat(data []byte) []byte {
	res := gjson.GetBytes(data, "oisFormat")
	if !res.Exists() || res.Type != gjson.String || res.Index == 0 {
		return data
	}
	out := make([]byte, 0, len(data))
	out = append(out, data[:res.Index]...)
	out = append(out, strconv.Quote(ois.Version)...)
	out = append(out, data[res.Index+len(res.Raw):]...)
	return out
}

func updateArchive(data []byte) []byte {
	a := txtar.Parse(data)
	for i, f := range a.Files {
		switch strings.ToLower(filepath.Ext(f.Name)) {
		case ".json":
			a.Files[i].Data = setJSONFormat(f.Data)
		case ".yml", ".yaml":
			a.Files[i].Data = yamlFormatLine.ReplaceAll(f.Data, []byte(`oisFormat: "`+ois.Version+`"`))
		}
	}
	return txtar.Format(a)
}

func check(data []byte) error {
	v, err := ois.New()
	if err != nil {
		return err
	}
	res, err := v.ValidateJSON(data)
	if err != nil {
		return err
	}
	return res.Err()
}

func write(path string, before, after []byte) {
	if string(before) == string(after) {
		fmt.Printf("✅ %s is up to date\n", path)
		return
	}
	if err := os.WriteFile(path, after, 0o644); err != nil {
		fail("Failed to write %s: %v", path, err)
	}
	fmt.Printf("✅ Updated %s to oisFormat %s\n", path, ois.Version)
}

func fail(format string, args ...any) {
	fmt.Printf("❌ "+format+"\n", args...)
	os.Exit(1)
}
