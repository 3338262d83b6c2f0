package manifest

import (
	"bytes"
	"encoding/xml"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/exdoc/internal/config"
	"git.home.luguber.info/inful/exdoc/internal/diag"
	"git.home.luguber.info/inful/exdoc/internal/docmodel"
)

func manifestConfig(outputDir string) *config.Config {
	return &config.Config{
		Project:             "QtDoc",
		HelpBaseURL:         "qthelp://org.qt-project.qtdoc/qtdoc",
		ExamplesInstallPath: "examples",
		Output:              config.Output{Directory: outputDir},
		ManifestMeta: []config.ManifestFilter{
			{
				Name:       "highlighted",
				Names:      []string{"QtDoc/Analog Clock"},
				Attributes: []string{"isHighlighted", "category:clocks"},
				Tags:       []string{"showcase"},
			},
			{
				Name:       "all",
				Names:      []string{"*"},
				Attributes: []string{"category:other", "name:evil"},
			},
		},
	}
}

func analogClock() *docmodel.ExampleNode {
	doc := docmodel.NewDoc("", docmodel.Location{File: "analogclock.qdoc", Line: 1}, nil)
	doc.SetBrief("A ticking analog clock.")
	doc.AddMetaTag("tag", "widgets")

	ex := docmodel.NewExample("widgets/analogclock", doc)
	ex.Title = "Analog Clock"
	ex.ProjectFile = "widgets/analogclock/CMakeLists.txt"
	ex.ImageFileName = "analogclock.png"
	ex.Files = []string{
		"widgets/analogclock/analogclock.cpp",
		"widgets/analogclock/main.cpp",
	}
	return ex
}

func TestEncodeManifestDocument(t *testing.T) {
	w := NewWriter(manifestConfig(t.TempDir()), nil)

	var buf bytes.Buffer
	err := w.encode(&buf, KindExamples, "example", []*docmodel.ExampleNode{analogClock()})
	require.NoError(t, err)

	want := `<?xml version="1.0" encoding="UTF-8"?>
<instructionals module="QtDoc">
    <examples>
        <example name="Analog Clock" docUrl="qthelp://org.qt-project.qtdoc/qtdoc/widgets-analogclock-example.html" projectPath="examples/widgets/analogclock/CMakeLists.txt" imageUrl="qthelp://org.qt-project.qtdoc/qtdoc/analogclock.png" isHighlighted="true" category="clocks">
            <description><![CDATA[A ticking analog clock.]]></description>
            <tags>analog,clock,doc,showcase,widgets</tags>
            <fileToOpen mainFile="true">examples/widgets/analogclock/analogclock.cpp</fileToOpen>
            <fileToOpen>examples/widgets/analogclock/main.cpp</fileToOpen>
        </example>
    </examples>
</instructionals>
`
	require.Equal(t, want, buf.String(),
		"attribute order, first-writer-wins and name/docUrl protection are all position sensitive")
}

func TestEncodeEmptyBriefFallsBack(t *testing.T) {
	ex := docmodel.NewExample("widgets/calendar", docmodel.NewDoc("", docmodel.Location{}, nil))
	ex.Title = "Calendar"

	w := NewWriter(&config.Config{Project: "QtDoc"}, nil)
	var buf bytes.Buffer
	require.NoError(t, w.encode(&buf, KindExamples, "example", []*docmodel.ExampleNode{ex}))
	require.Contains(t, buf.String(), "<![CDATA[No description available]]>")
}

func TestEncodeInstallPathFromMetaCommand(t *testing.T) {
	doc := docmodel.NewDoc("", docmodel.Location{}, nil)
	doc.AddMetaTag("installpath", "qtbase/examples/widgets")
	ex := docmodel.NewExample("widgets/clock", doc)
	ex.Title = "Clock"
	ex.ProjectFile = "widgets/clock/clock.pro"

	w := NewWriter(&config.Config{Project: "QtDoc", ExamplesInstallPath: "ignored"}, nil)
	var buf bytes.Buffer
	require.NoError(t, w.encode(&buf, KindExamples, "example", []*docmodel.ExampleNode{ex}))
	require.Contains(t, buf.String(), `projectPath="qtbase/examples/widgets/widgets/clock/clock.pro"`)
}

type instructionals struct {
	XMLName  xml.Name      `xml:"instructionals"`
	Module   string        `xml:"module,attr"`
	Examples []exampleElem `xml:"examples>example"`
	Demos    []exampleElem `xml:"demos>demo"`
}

type exampleElem struct {
	Name        string `xml:"name,attr"`
	DocURL      string `xml:"docUrl,attr"`
	Description string `xml:"description"`
}

func TestWriteManifestsPartitionsByDemoPrefix(t *testing.T) {
	outputDir := t.TempDir()

	graph := docmodel.NewGraph()
	clock := analogClock()
	require.NoError(t, graph.Insert(clock))

	demoDoc := docmodel.NewDoc("", docmodel.Location{}, nil)
	demoDoc.SetBrief("Affine transformation demo.")
	demo := docmodel.NewExample("demos/affine", demoDoc)
	demo.Title = "Affine Transformations"
	demo.ProjectFile = "demos/affine/affine.pro"
	demo.ImageFileName = "affine.png"
	require.NoError(t, graph.Insert(demo))

	w := NewWriter(manifestConfig(outputDir), nil)
	written, err := w.WriteManifests(graph)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(outputDir, "examples-manifest.xml"),
		filepath.Join(outputDir, "demos-manifest.xml"),
	}, written, "examples first, then demos")

	var examples instructionals
	data, err := os.ReadFile(written[0])
	require.NoError(t, err)
	require.NoError(t, xml.Unmarshal(data, &examples))
	require.Equal(t, "QtDoc", examples.Module)
	require.Len(t, examples.Examples, 1)
	require.Empty(t, examples.Demos)
	require.Equal(t, "Analog Clock", examples.Examples[0].Name)

	var demos instructionals
	data, err = os.ReadFile(written[1])
	require.NoError(t, err)
	require.NoError(t, xml.Unmarshal(data, &demos))
	require.Len(t, demos.Demos, 1)
	require.Empty(t, demos.Examples)
	require.Equal(t, "Affine Transformations", demos.Demos[0].Name)
	require.Equal(t, "Affine transformation demo.", demos.Demos[0].Description)

	require.Zero(t, graph.ExampleCount(), "example collection is cleared as the end-of-run signal")
	require.Nil(t, w.filters, "filter list is spent after one run")
}

func TestWriteManifestsSkipsEmptyPartition(t *testing.T) {
	outputDir := t.TempDir()

	graph := docmodel.NewGraph()
	require.NoError(t, graph.Insert(analogClock()))

	w := NewWriter(manifestConfig(outputDir), nil)
	written, err := w.WriteManifests(graph)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(outputDir, "examples-manifest.xml")}, written)

	_, statErr := os.Stat(filepath.Join(outputDir, "demos-manifest.xml"))
	require.True(t, os.IsNotExist(statErr), "no demos, no demos manifest")
}

func TestWriteManifestsWithNoExamplesIsANoOp(t *testing.T) {
	outputDir := t.TempDir()
	w := NewWriter(manifestConfig(outputDir), nil)

	written, err := w.WriteManifests(docmodel.NewGraph())
	require.NoError(t, err)
	require.Empty(t, written)

	entries, err := os.ReadDir(outputDir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestMissingAttributeWarnings(t *testing.T) {
	ex := docmodel.NewExample("widgets/bare", docmodel.NewDoc("", docmodel.Location{}, nil))
	ex.Title = "Bare"

	collector := diag.NewCollector(nil)
	w := NewWriter(&config.Config{Project: "QtDoc"}, collector)
	var buf bytes.Buffer
	require.NoError(t, w.encode(&buf, KindExamples, "example", []*docmodel.ExampleNode{ex}))

	diags := collector.Diagnostics()
	require.Len(t, diags, 2)
	require.Contains(t, diags[0].Message, "widgets/bare: missing attribute imageUrl")
	require.Contains(t, diags[1].Message, "widgets/bare: missing attribute projectPath")
}

func TestPageFileBase(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"widgets/analogclock", "widgets-analogclock-example"},
		{"demos/sub attaq", "demos-sub-attaq-example"},
		{"Already-Dashed", "already-dashed-example"},
		{"trailing/", "trailing-example"},
		{"", "example"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, PageFileBase(tt.name))
		})
	}
}
