package manifest

import (
	"path"
	"sort"
	"strings"
)

// Ranking maps a priority to the single file occupying it; lower priorities
// are more preferred. When several files tie for a priority, the last one
// encountered wins the slot. That last-writer-wins rule is deliberate and
// load-bearing for downstream consumers; do not "fix" it to keep the first.
type Ranking map[int]string

// Candidate priorities. A file whose base name (up to the first dot,
// compared case-insensitively) equals the example's base name ranks by
// extension; otherwise main.qml beats main.cpp. Files matching neither rule
// are left out of the ranking.
const (
	priorityNamedQML = iota
	priorityNamedCPP
	priorityNamedHeader
	priorityMainQML
	priorityMainCPP
)

// RankFilesToOpen selects which of an example's files a consuming tool
// should offer to open, keyed by preference.
func RankFilesToOpen(files []string, exampleBase string) Ranking {
	ranking := make(Ranking)
	for _, file := range files {
		fileName := strings.ToLower(path.Base(file))
		base, _, _ := strings.Cut(path.Base(file), ".")
		if strings.EqualFold(base, exampleBase) {
			switch {
			case strings.HasSuffix(fileName, ".qml"):
				ranking[priorityNamedQML] = file
			case strings.HasSuffix(fileName, ".cpp"):
				ranking[priorityNamedCPP] = file
			case strings.HasSuffix(fileName, ".h"):
				ranking[priorityNamedHeader] = file
			}
		} else if strings.HasSuffix(fileName, "main.qml") {
			ranking[priorityMainQML] = file
		} else if strings.HasSuffix(fileName, "main.cpp") {
			ranking[priorityMainCPP] = file
		}
	}
	return ranking
}

// FileToOpen is one ranked file; Main marks the file a tool opens by default.
type FileToOpen struct {
	Path string
	Main bool
}

// Ordered returns the ranked files most-preferred first. Exactly the first
// entry carries the Main flag; an empty ranking yields nothing.
func (r Ranking) Ordered() []FileToOpen {
	priorities := make([]int, 0, len(r))
	for p := range r {
		priorities = append(priorities, p)
	}
	sort.Ints(priorities)

	out := make([]FileToOpen, 0, len(priorities))
	for i, p := range priorities {
		out = append(out, FileToOpen{Path: r[p], Main: i == 0})
	}
	return out
}
