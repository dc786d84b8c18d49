// Package osrelease reads os-release(5) files.
//
// The format is a list of shell-compatible variable assignments and is parsed
// with a POSIX shell parser, so quoting and escapes match what a shell sees.
package osrelease

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/syntax"
)

// DefaultPaths are searched in order, as systemd documents
var DefaultPaths = []string{"/etc/os-release", "/usr/lib/os-release"}

// Info holds the fields of interest from an os-release file
type Info struct {
	ID        string
	IDLike    []string
	VersionID string
	Name      string
	Fields    map[string]string
}

// Parse reads assignments from r. Lines that are not plain assignments are ignored.
func Parse(r io.Reader) (*Info, error) {
	parser := syntax.NewParser(syntax.Variant(syntax.LangPOSIX))
	file, err := parser.Parse(r, "os-release")
	if err != nil {
		return nil, fmt.Errorf("failed to parse os-release: %w", err)
	}

	fields := make(map[string]string)
	for _, stmt := range file.Stmts {
		call, ok := stmt.Cmd.(*syntax.CallExpr)
		if !ok || len(call.Args) > 0 {
			continue
		}
		for _, as := range call.Assigns {
			if as.Name == nil {
				continue
			}
			value := ""
			if as.Value != nil {
				value, err = expand.Literal(nil, as.Value)
				if err != nil {
					return nil, fmt.Errorf("failed to expand %s: %w", as.Name.Value, err)
				}
			}
			fields[as.Name.Value] = value
		}
	}

	info := &Info{
		ID:        strings.ToLower(fields["ID"]),
		VersionID: fields["VERSION_ID"],
		Name:      fields["NAME"],
		Fields:    fields,
	}
	if like := strings.TrimSpace(fields["ID_LIKE"]); like != "" {
		info.IDLike = strings.Fields(strings.ToLower(like))
	}

	return info, nil
}

// ReadFirst parses the first readable file among paths
func ReadFirst(paths []string) (*Info, error) {
	var lastErr error
	for _, p := range paths {
		//nolint:gosec // G304: paths are fixed os-release locations or test fixtures
		data, err := os.ReadFile(p)
		if err != nil {
			lastErr = err
			continue
		}
		return Parse(bytes.NewReader(data))
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no os-release paths given")
	}
	return nil, fmt.Errorf("failed to read os-release: %w", lastErr)
}
