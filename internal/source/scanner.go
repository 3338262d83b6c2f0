// Package source locates documentation comments in source trees and resolves
// example file lists. It feeds the interpreter with pre-split command
// occurrences; all knowledge of comment delimiters and directory layout stays
// here.
package source

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/exdoc/internal/diag"
	"git.home.luguber.info/inful/exdoc/internal/docmodel"
	"git.home.luguber.info/inful/exdoc/internal/util/sets"
)

// ExcludeContext is the read-only exclusion configuration applied while
// walking source trees. It is constructed once per run and passed explicitly;
// nothing in this package keeps mutable global filter state.
type ExcludeContext struct {
	dirs  sets.Set[string]
	files sets.Set[string]
}

// NewExcludeContext builds an exclusion context from directory and file base
// names.
func NewExcludeContext(dirs, files []string) ExcludeContext {
	return ExcludeContext{
		dirs:  sets.New(dirs...),
		files: sets.New(files...),
	}
}

// ExcludesDir reports whether a directory base name is excluded from walks.
func (e ExcludeContext) ExcludesDir(name string) bool { return e.dirs.Has(name) }

// ExcludesFile reports whether a file base name is excluded from walks.
func (e ExcludeContext) ExcludesFile(name string) bool { return e.files.Has(name) }

// Scanner extracts documentation comments from the files of a source tree.
type Scanner struct {
	fileTypes sets.Set[string]
	excludes  ExcludeContext
	reporter  diag.Reporter
}

// NewScanner creates a Scanner visiting files with the given extensions
// (".cpp" style, leading dot). A nil reporter discards read warnings.
func NewScanner(fileTypes []string, excludes ExcludeContext, reporter diag.Reporter) *Scanner {
	if reporter == nil {
		reporter = diag.NoopReporter{}
	}
	return &Scanner{
		fileTypes: sets.New(fileTypes...),
		excludes:  excludes,
		reporter:  reporter,
	}
}

// ScanTree walks root and extracts the documentation comments of every
// matching file in deterministic walk order. Unreadable files are reported
// and skipped; only a failure to walk the root itself is an error.
func (s *Scanner) ScanTree(root string) ([]*docmodel.Doc, error) {
	var docs []*docmodel.Doc
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			s.reporter.Warningf(docmodel.Location{File: path}, "skipping unreadable entry: %v", err)
			return nil
		}
		if d.IsDir() {
			if path != root && s.excludes.ExcludesDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if s.excludes.ExcludesFile(d.Name()) || !s.fileTypes.Has(filepath.Ext(d.Name())) {
			return nil
		}
		content, readErr := os.ReadFile(path)
		if readErr != nil {
			s.reporter.Warningf(docmodel.Location{File: path}, "skipping unreadable file: %v", readErr)
			return nil
		}
		docs = append(docs, Extract(path, string(content))...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// bodyLine is one comment line with its position in the file.
type bodyLine struct {
	text string
	line int
}

// Extract returns the documentation comments of one file's content. Both
// `/*! ... */` blocks and runs of `//!` lines form comments. Comments
// carrying no commands at all (snippet markers, stray banners) are dropped;
// they document nothing.
func Extract(file, content string) []*docmodel.Doc {
	var docs []*docmodel.Doc
	lines := strings.Split(content, "\n")

	var block []bodyLine
	inBlock := false
	lineComment := false
	blockStart := 0

	flush := func() {
		if doc := parseComment(file, blockStart, block); doc != nil {
			docs = append(docs, doc)
		}
		block = nil
		inBlock = false
		lineComment = false
	}

	for i, line := range lines {
		lineNo := i + 1

		if inBlock {
			if end := strings.Index(line, "*/"); end >= 0 {
				block = append(block, bodyLine{text: line[:end], line: lineNo})
				flush()
			} else {
				block = append(block, bodyLine{text: line, line: lineNo})
			}
			continue
		}

		trimmed := strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(trimmed, "//!"); ok {
			if !lineComment {
				lineComment = true
				blockStart = lineNo
			}
			block = append(block, bodyLine{text: rest, line: lineNo})
			continue
		}
		if lineComment {
			flush()
		}

		if start := strings.Index(line, "/*!"); start >= 0 {
			rest := line[start+3:]
			blockStart = lineNo
			if end := strings.Index(rest, "*/"); end >= 0 {
				block = []bodyLine{{text: rest[:end], line: lineNo}}
				flush()
				continue
			}
			inBlock = true
			block = []bodyLine{{text: rest, line: lineNo}}
		}
	}
	if len(block) > 0 {
		flush()
	}

	return docs
}

// parseComment turns one comment body into a Doc. A `\command` after
// optional whitespace (and an optional `*` continuation marker) starts a
// command; its argument is the remainder of the line plus any following
// lines up to a blank line or the next command, joined with single spaces.
func parseComment(file string, startLine int, body []bodyLine) *docmodel.Doc {
	var commands []docmodel.Command
	var raw []string
	current := -1

	for _, ln := range body {
		text := strings.TrimSpace(ln.text)
		if after, ok := strings.CutPrefix(text, "*"); ok && !strings.HasPrefix(text, "*/") {
			text = strings.TrimSpace(after)
		}
		raw = append(raw, text)

		if name, arg, ok := splitCommand(text); ok {
			commands = append(commands, docmodel.Command{
				Name: name,
				Arg:  arg,
				Loc:  docmodel.Location{File: file, Line: ln.line},
			})
			current = len(commands) - 1
			continue
		}
		if text == "" {
			current = -1
			continue
		}
		if current >= 0 {
			commands[current].Arg = strings.TrimSpace(commands[current].Arg + " " + text)
		}
	}

	if len(commands) == 0 {
		return nil
	}
	loc := docmodel.Location{File: file, Line: startLine}
	return docmodel.NewDoc(strings.TrimSpace(strings.Join(raw, "\n")), loc, commands)
}

// splitCommand splits a `\name argument` line. Command names are lowercase
// letters and digits; anything else is body text.
func splitCommand(text string) (name, arg string, ok bool) {
	if !strings.HasPrefix(text, "\\") {
		return "", "", false
	}
	rest := text[1:]
	i := 0
	for i < len(rest) && (rest[i] >= 'a' && rest[i] <= 'z' || rest[i] >= '0' && rest[i] <= '9') {
		i++
	}
	if i == 0 {
		return "", "", false
	}
	return rest[:i], strings.TrimSpace(rest[i:]), true
}
