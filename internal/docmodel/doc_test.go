package docmodel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocationString(t *testing.T) {
	require.Equal(t, "<unknown location>", Location{}.String())
	require.Equal(t, "src/clock.qdoc", Location{File: "src/clock.qdoc"}.String())
	require.Equal(t, "src/clock.qdoc:14", Location{File: "src/clock.qdoc", Line: 14}.String())
}

func TestMetaTagMapMultiValue(t *testing.T) {
	m := make(MetaTagMap)
	m.Add("tag", "widgets,controls")
	m.Add("tag", "graphics")
	m.Add("installpath", "examples/widgets")

	require.Equal(t, []string{"widgets,controls", "graphics"}, m.Values("tag"))
	require.Equal(t, "examples/widgets", m.Value("installpath"))
	require.Empty(t, m.Value("missing"))
	require.Nil(t, m.Values("missing"))
}

func TestMetaTagMapValueReturnsMostRecent(t *testing.T) {
	m := make(MetaTagMap)
	m.Add("category", "first")
	m.Add("category", "second")
	require.Equal(t, "second", m.Value("category"))
}

func TestNilMetaTagMapIsSafe(t *testing.T) {
	var m MetaTagMap
	require.Empty(t, m.Value("tag"))
	require.Nil(t, m.Values("tag"))
}

func TestDocMetaTagAttachment(t *testing.T) {
	doc := NewDoc("raw", Location{File: "a.cpp", Line: 3}, nil)
	require.Nil(t, doc.MetaTagMap())

	doc.AddMetaTag("tag", "clock")
	require.Equal(t, []string{"clock"}, doc.MetaTagMap().Values("tag"))
}

func TestBriefText(t *testing.T) {
	cases := []struct {
		name   string
		markup string
		want   string
	}{
		{"plain", "Displays an analog clock.", "Displays an analog clock."},
		{"emphasis", "Uses *property bindings* to tick.", "Uses property bindings to tick."},
		{"code span", "Demonstrates the `Timer` type.", "Demonstrates the Timer type."},
		{"wrapped lines", "Shows how anchors\nkeep items aligned.", "Shows how anchors keep items aligned."},
		{"link", "See [the tutorial](https://doc.example.org) first.", "See the tutorial first."},
		{"empty", "   ", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := NewDoc("", Location{}, nil)
			doc.SetBrief(tc.markup)
			require.Equal(t, tc.want, doc.BriefText())
		})
	}
}

func TestBriefMarkupPreserved(t *testing.T) {
	doc := NewDoc("", Location{}, nil)
	doc.SetBrief("A *styled* brief.")
	require.Equal(t, "A *styled* brief.", doc.BriefMarkup())
	require.Equal(t, "A styled brief.", doc.BriefText())
}
