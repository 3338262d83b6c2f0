// Package manifest compiles the example entities of a documentation graph
// into the examples-manifest.xml and demos-manifest.xml documents consumed
// by IDE example browsers. Attribute order, tag derivation and file ranking
// follow a strict contract; downstream consumers parse these files by
// position as much as by name.
package manifest

import (
	"encoding/xml"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/exdoc/internal/config"
	"git.home.luguber.info/inful/exdoc/internal/diag"
	"git.home.luguber.info/inful/exdoc/internal/docmodel"
	"git.home.luguber.info/inful/exdoc/internal/logfields"
	"git.home.luguber.info/inful/exdoc/internal/util/sets"
)

// Manifest kinds, also the file name prefixes.
const (
	KindExamples = "examples"
	KindDemos    = "demos"
)

// noDescription is emitted when an example has no brief text.
const noDescription = "No description available"

// partitions pairs each manifest kind with its per-example element name and
// the demo classification it selects. Generation order is fixed: examples
// first, then demos.
var partitions = []struct {
	kind    string
	element string
	demos   bool
}{
	{KindExamples, "example", false},
	{KindDemos, "demo", true},
}

// Writer compiles and serializes manifests for one generation run. The
// filter list is consumed by WriteManifests; create a fresh Writer per run.
type Writer struct {
	project      string
	outputDir    string
	urlPrefix    string
	examplesPath string
	filters      []Filter
	reporter     diag.Reporter
}

// NewWriter creates a manifest writer from the project configuration.
// A nil reporter discards the missing-attribute warnings.
func NewWriter(cfg *config.Config, reporter diag.Reporter) *Writer {
	if reporter == nil {
		reporter = diag.NoopReporter{}
	}
	prefix := cfg.HelpBaseURL
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &Writer{
		project:      cfg.Project,
		outputDir:    cfg.Output.Directory,
		urlPrefix:    prefix,
		examplesPath: cfg.ExamplesInstallPath,
		filters:      CompileFilters(cfg.ManifestMeta),
		reporter:     reporter,
	}
}

// WriteManifests writes one manifest per non-empty partition of the graph's
// examples and returns the paths written. A kind whose output file cannot be
// produced is abandoned for this run without failing the other kind; partial
// output is removed. As an end-of-run cleanup signal the graph's example
// collection and the loaded filter list are cleared, so the Writer is spent
// after this call.
func (w *Writer) WriteManifests(graph *docmodel.Graph) ([]string, error) {
	defer func() {
		graph.ClearExamples()
		w.filters = nil
	}()

	examples := graph.Examples()
	if len(examples) == 0 {
		return nil, nil
	}

	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return nil, err
	}

	var written []string
	for _, part := range partitions {
		subset := make([]*docmodel.ExampleNode, 0, len(examples))
		for _, ex := range examples {
			if ex.IsDemo() == part.demos {
				subset = append(subset, ex)
			}
		}
		if len(subset) == 0 {
			continue
		}

		path := filepath.Join(w.outputDir, part.kind+"-manifest.xml")
		if err := w.writeFile(path, part.kind, part.element, subset); err != nil {
			slog.Warn("abandoning manifest kind",
				logfields.Kind(part.kind), logfields.Path(path), logfields.Error(err))
			continue
		}
		written = append(written, path)
	}
	return written, nil
}

func (w *Writer) writeFile(path, kind, element string, examples []*docmodel.ExampleNode) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	err = w.encode(f, kind, element, examples)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return err
	}
	return nil
}

// encode serializes one manifest document. Split from the file handling so
// tests can target a buffer.
func (w *Writer) encode(out io.Writer, kind, element string, examples []*docmodel.ExampleNode) error {
	if _, err := io.WriteString(out, xml.Header); err != nil {
		return err
	}

	enc := xml.NewEncoder(out)
	enc.Indent("", "    ")

	root := xml.StartElement{
		Name: xml.Name{Local: "instructionals"},
		Attr: []xml.Attr{attr("module", w.project)},
	}
	if err := enc.EncodeToken(root); err != nil {
		return err
	}
	container := xml.StartElement{Name: xml.Name{Local: kind}}
	if err := enc.EncodeToken(container); err != nil {
		return err
	}

	for _, ex := range examples {
		if err := w.encodeExample(enc, element, ex); err != nil {
			return err
		}
	}

	if err := enc.EncodeToken(container.End()); err != nil {
		return err
	}
	if err := enc.EncodeToken(root.End()); err != nil {
		return err
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(out, "\n")
	return err
}

func (w *Writer) encodeExample(enc *xml.Encoder, element string, ex *docmodel.ExampleNode) error {
	installPath := w.installPath(ex)

	// name and docUrl are unconditional and never subject to
	// first-writer-wins deduplication against filter attributes.
	used := sets.New("name", "docUrl")
	start := xml.StartElement{
		Name: xml.Name{Local: element},
		Attr: []xml.Attr{
			attr("name", ex.Title),
			attr("docUrl", w.urlPrefix+PageFileBase(ex.Name)+".html"),
		},
	}
	if ex.ProjectFile != "" {
		start.Attr = append(start.Attr, attr("projectPath", installPath+ex.ProjectFile))
		used.Add("projectPath")
	}
	if ex.ImageFileName != "" {
		start.Attr = append(start.Attr, attr("imageUrl", w.urlPrefix+ex.ImageFileName))
		used.Add("imageUrl")
	}

	var filterTags []string
	fullName := w.project + "/" + ex.Title
	for _, f := range w.filters {
		if !f.Matches(fullName) {
			continue
		}
		filterTags = append(filterTags, f.Tags...)
		for _, a := range f.Attributes {
			if used.Has(a.Key) {
				continue
			}
			start.Attr = append(start.Attr, attr(a.Key, a.Value))
			used.Add(a.Key)
		}
	}

	w.warnUnusedAttributes(used, ex)

	if err := enc.EncodeToken(start); err != nil {
		return err
	}

	description := struct {
		Text string `xml:",cdata"`
	}{Text: briefText(ex)}
	if err := enc.EncodeElement(description, startElement("description")); err != nil {
		return err
	}

	if tags := DeriveTags(ex, w.project, filterTags); tags.Len() > 0 {
		joined := strings.Join(sets.SortedStrings(tags), ",")
		if err := enc.EncodeElement(joined, startElement("tags")); err != nil {
			return err
		}
	}

	for _, file := range RankFilesToOpen(ex.Files, ex.FileBase()).Ordered() {
		el := startElement("fileToOpen")
		if file.Main {
			el.Attr = append(el.Attr, attr("mainFile", "true"))
		}
		if err := enc.EncodeElement(installPath+file.Path, el); err != nil {
			return err
		}
	}

	return enc.EncodeToken(start.End())
}

// installPath resolves where the example is installed: the \meta installpath
// value when present, the configured examples install path otherwise, with a
// trailing slash ensured on any non-empty result.
func (w *Writer) installPath(ex *docmodel.ExampleNode) string {
	installPath := ""
	if ex.Doc != nil {
		installPath = ex.Doc.MetaTagMap().Value("installpath")
	}
	if installPath == "" {
		installPath = w.examplesPath
	}
	if installPath != "" && !strings.HasSuffix(installPath, "/") {
		installPath += "/"
	}
	return installPath
}

func briefText(ex *docmodel.ExampleNode) string {
	if ex.Doc != nil {
		if brief := ex.Doc.BriefText(); brief != "" {
			return brief
		}
	}
	return noDescription
}

// attributesToWarnFor are advisory: examples should carry an image and a
// project file, but their absence never blocks serialization.
var attributesToWarnFor = []string{"imageUrl", "projectPath"}

func (w *Writer) warnUnusedAttributes(used sets.Set[string], ex *docmodel.ExampleNode) {
	for _, attribute := range attributesToWarnFor {
		if !used.Has(attribute) {
			w.reporter.Warningf(ex.Loc, "%s: missing attribute %s", ex.Name, attribute)
		}
	}
}

// PageFileBase derives the documentation page base name for an example:
// the example name lowercased with every non-alphanumeric run collapsed to a
// single dash, then an "-example" suffix.
func PageFileBase(name string) string {
	var b []byte
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b = append(b, byte(r))
		case len(b) > 0 && b[len(b)-1] != '-':
			b = append(b, '-')
		}
	}
	base := strings.TrimSuffix(string(b), "-")
	if base == "" {
		return "example"
	}
	return base + "-example"
}

func attr(key, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: key}, Value: value}
}

func startElement(name string) xml.StartElement {
	return xml.StartElement{Name: xml.Name{Local: name}}
}
