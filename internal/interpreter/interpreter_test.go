package interpreter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/exdoc/internal/diag"
	"git.home.luguber.info/inful/exdoc/internal/docmodel"
)

func docWith(commands ...docmodel.Command) *docmodel.Doc {
	loc := docmodel.Location{File: "widgets.cpp", Line: 10}
	for i := range commands {
		if commands[i].Loc.IsZero() {
			commands[i].Loc = docmodel.Location{File: loc.File, Line: loc.Line + i}
		}
	}
	return docmodel.NewDoc("", loc, commands)
}

func interpret(t *testing.T, doc *docmodel.Doc) (docmodel.Node, *docmodel.Graph, *diag.Collector) {
	t.Helper()
	graph := docmodel.NewGraph()
	collector := diag.NewCollector(nil)
	node, err := New(collector, nil).Interpret(doc, graph)
	require.NoError(t, err)
	return node, graph, collector
}

func TestInterpretCreatesEntityPerTopic(t *testing.T) {
	tests := []struct {
		command  string
		arg      string
		wantKind docmodel.Kind
		wantName string
	}{
		{"class", "QWidget", docmodel.KindAggregate, "QWidget"},
		{"struct", "QPoint", docmodel.KindAggregate, "QPoint"},
		{"namespace", "Qt", docmodel.KindAggregate, "Qt"},
		{"headerfile", "<QtAlgorithms>", docmodel.KindAggregate, "<QtAlgorithms>"},
		{"qmltype", "Rectangle", docmodel.KindAggregate, "Rectangle"},
		{"fn", "int QString::indexOf(QChar ch) const", docmodel.KindFunction, "int QString::indexOf(QChar ch) const"},
		{"macro", "Q_ASSERT(bool test)", docmodel.KindFunction, "Q_ASSERT(bool test)"},
		{"qmlsignal", "Loader::loaded()", docmodel.KindFunction, "Loader::loaded()"},
		{"enum", "Qt::Alignment", docmodel.KindMember, "Qt::Alignment"},
		{"property", "QWidget::visible", docmodel.KindMember, "QWidget::visible"},
		{"qmlproperty", "string Text::text", docmodel.KindMember, "string"},
		{"page", "overview.html Overview", docmodel.KindPage, "overview.html"},
		{"externalpage", "https://doc.qt.io", docmodel.KindPage, "https://doc.qt.io"},
		{"module", "QtWidgets", docmodel.KindCollection, "QtWidgets"},
		{"qmlmodule", "QtQuick", docmodel.KindCollection, "QtQuick"},
		{"group", "painting", docmodel.KindCollection, "painting"},
		{"example", "widgets/analogclock", docmodel.KindExample, "widgets/analogclock"},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			node, graph, _ := interpret(t, docWith(docmodel.Command{Name: tt.command, Arg: tt.arg}))
			require.NotNil(t, node)
			require.Equal(t, tt.wantKind, node.Kind())
			require.Equal(t, tt.wantName, node.Base().Name)

			found, ok := graph.Lookup(tt.wantName)
			require.True(t, ok)
			require.Same(t, node, found)
		})
	}
}

func TestInterpretExternalPageIsExternal(t *testing.T) {
	node, _, _ := interpret(t, docWith(docmodel.Command{Name: "externalpage", Arg: "https://doc.qt.io"}))
	page, ok := node.(*docmodel.PageNode)
	require.True(t, ok)
	require.True(t, page.External)
}

func TestInterpretNoTopicWarnsAndSkips(t *testing.T) {
	node, graph, collector := interpret(t, docWith(docmodel.Command{Name: "title", Arg: "Lost Title"}))
	require.Nil(t, node)
	require.Zero(t, graph.Len())
	require.Equal(t, 1, collector.WarningCount())
	require.Contains(t, collector.Diagnostics()[0].Message, "no topic command")
}

func TestInterpretTooManyTopicsWarnsAndSkips(t *testing.T) {
	node, graph, collector := interpret(t, docWith(
		docmodel.Command{Name: "example", Arg: "widgets/analogclock"},
		docmodel.Command{Name: "page", Arg: "clock.html"},
	))
	require.Nil(t, node)
	require.Zero(t, graph.Len())
	require.Equal(t, 1, collector.WarningCount())
	require.Contains(t, collector.Diagnostics()[0].Message, `\example, \page`)
}

func TestInterpretDuplicateEntitySurfacesError(t *testing.T) {
	graph := docmodel.NewGraph()
	in := New(diag.NoopReporter{}, nil)

	first, err := in.Interpret(docWith(docmodel.Command{Name: "class", Arg: "QWidget"}), graph)
	require.NoError(t, err)
	require.NotNil(t, first)

	dup := docWith(docmodel.Command{Name: "class", Arg: "QWidget"})
	node, err := in.Interpret(dup, graph)
	require.Nil(t, node)
	require.ErrorIs(t, err, docmodel.ErrDuplicateEntity)

	// The original registration stays untouched.
	found, ok := graph.Lookup("QWidget")
	require.True(t, ok)
	require.Same(t, first, found)
	require.Equal(t, 1, graph.Len())
}

func TestInterpretUnknownCommandRecoversLocally(t *testing.T) {
	node, _, collector := interpret(t, docWith(
		docmodel.Command{Name: "example", Arg: "widgets/analogclock"},
		docmodel.Command{Name: "flibbertigibbet", Arg: "nonsense"},
		docmodel.Command{Name: "title", Arg: "Analog Clock"},
	))
	require.NotNil(t, node)
	require.Equal(t, "Analog Clock", node.Base().Title, "commands after the unknown one still apply")
	require.Equal(t, 1, collector.WarningCount())
	require.Contains(t, collector.Diagnostics()[0].Message, `\flibbertigibbet`)
}

func TestInterpretMarkupCommandsStaySilent(t *testing.T) {
	node, _, collector := interpret(t, docWith(
		docmodel.Command{Name: "example", Arg: "widgets/analogclock"},
		docmodel.Command{Name: "title", Arg: "Analog Clock"},
		docmodel.Command{Name: "snippet", Arg: "analogclock/main.cpp 0"},
		docmodel.Command{Name: "note", Arg: "Resize to see the clock scale."},
		docmodel.Command{Name: "list", Arg: ""},
		docmodel.Command{Name: "li", Arg: "A hand-painted widget"},
		docmodel.Command{Name: "endlist", Arg: ""},
	))
	require.NotNil(t, node)
	require.Equal(t, "Analog Clock", node.Base().Title)
	require.Zero(t, collector.WarningCount(), "body markup must not be reported as unknown")
}

func TestInterpretMetaBeforeTopicStillApplies(t *testing.T) {
	node, _, _ := interpret(t, docWith(
		docmodel.Command{Name: "title", Arg: "Analog Clock"},
		docmodel.Command{Name: "example", Arg: "widgets/analogclock"},
	))
	require.NotNil(t, node)
	require.Equal(t, "Analog Clock", node.Base().Title)
}

func TestInterpretBaseMetaCommands(t *testing.T) {
	node, _, _ := interpret(t, docWith(
		docmodel.Command{Name: "page", Arg: "qtwidgets-index.html"},
		docmodel.Command{Name: "title", Arg: "Qt Widgets"},
		docmodel.Command{Name: "subtitle", Arg: "C++ Classes for Widgets"},
		docmodel.Command{Name: "brief", Arg: "A set of *UI* elements."},
		docmodel.Command{Name: "since", Arg: "5.0"},
		docmodel.Command{Name: "ingroup", Arg: "frameworks-technologies"},
		docmodel.Command{Name: "inmodule", Arg: "QtWidgets"},
		docmodel.Command{Name: "nextpage", Arg: "Getting Started"},
		docmodel.Command{Name: "previouspage", Arg: "Qt Overviews"},
	))
	require.NotNil(t, node)

	base := node.Base()
	require.Equal(t, "Qt Widgets", base.Title)
	require.Equal(t, "C++ Classes for Widgets", base.Subtitle)
	require.Equal(t, "5.0", base.Since)
	require.Equal(t, []string{"frameworks-technologies"}, base.Groups)
	require.Equal(t, "QtWidgets", base.Module)
	require.Equal(t, "A set of UI elements.", base.Doc.BriefText(), "brief markup is flattened to plain text")

	page := node.(*docmodel.PageNode)
	require.Equal(t, "Getting Started", page.NextPage)
	require.Equal(t, "Qt Overviews", page.PrevPage)
}

func TestInterpretStatusAndThreadSafety(t *testing.T) {
	tests := []struct {
		command string
		check   func(t *testing.T, base *docmodel.BaseNode)
	}{
		{"deprecated", func(t *testing.T, b *docmodel.BaseNode) {
			require.Equal(t, docmodel.StatusDeprecated, b.Status)
		}},
		{"obsolete", func(t *testing.T, b *docmodel.BaseNode) {
			require.Equal(t, docmodel.StatusObsolete, b.Status)
		}},
		{"internal", func(t *testing.T, b *docmodel.BaseNode) {
			require.Equal(t, docmodel.StatusInternal, b.Status)
		}},
		{"preliminary", func(t *testing.T, b *docmodel.BaseNode) {
			require.Equal(t, docmodel.StatusPreliminary, b.Status)
		}},
		{"threadsafe", func(t *testing.T, b *docmodel.BaseNode) {
			require.Equal(t, docmodel.ThreadSafetyThreadSafe, b.ThreadSafety)
		}},
		{"reentrant", func(t *testing.T, b *docmodel.BaseNode) {
			require.Equal(t, docmodel.ThreadSafetyReentrant, b.ThreadSafety)
		}},
		{"nonreentrant", func(t *testing.T, b *docmodel.BaseNode) {
			require.Equal(t, docmodel.ThreadSafetyNonReentrant, b.ThreadSafety)
		}},
		{"abstract", func(t *testing.T, b *docmodel.BaseNode) {
			require.True(t, b.Abstract)
		}},
		{"wrapper", func(t *testing.T, b *docmodel.BaseNode) {
			require.True(t, b.Wrapper)
		}},
		{"noautolist", func(t *testing.T, b *docmodel.BaseNode) {
			require.True(t, b.NoAutoList)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			node, _, _ := interpret(t, docWith(
				docmodel.Command{Name: "class", Arg: "QWidget"},
				docmodel.Command{Name: tt.command},
			))
			require.NotNil(t, node)
			tt.check(t, node.Base())
		})
	}
}

func TestInterpretFunctionMetaCommands(t *testing.T) {
	node, _, _ := interpret(t, docWith(
		docmodel.Command{Name: "fn", Arg: "void QWidget::show()"},
		docmodel.Command{Name: "overload", Arg: ""},
		docmodel.Command{Name: "reimp", Arg: ""},
	))
	fn := node.(*docmodel.FunctionNode)
	require.True(t, fn.Overload)
	require.True(t, fn.Reimp)
}

func TestInterpretKindMismatchWarnsAndIgnores(t *testing.T) {
	node, _, collector := interpret(t, docWith(
		docmodel.Command{Name: "page", Arg: "overview.html"},
		docmodel.Command{Name: "overload", Arg: ""},
	))
	require.NotNil(t, node)
	require.Equal(t, 1, collector.WarningCount())
	require.Contains(t, collector.Diagnostics()[0].Message, `ignored \overload`)
}

func TestInterpretAggregateMetaCommands(t *testing.T) {
	node, _, _ := interpret(t, docWith(
		docmodel.Command{Name: "qmltype", Arg: "ColorDialog"},
		docmodel.Command{Name: "inqmlmodule", Arg: "QtQuick.Dialogs"},
		docmodel.Command{Name: "qmlinstantiates", Arg: "QColorDialog"},
		docmodel.Command{Name: "inheaderfile", Arg: "QColorDialog"},
	))
	agg := node.(*docmodel.AggregateNode)
	require.Equal(t, "QtQuick.Dialogs", agg.Module)
	require.Equal(t, "QColorDialog", agg.Instantiates)
	require.Equal(t, []string{"QColorDialog"}, agg.Headers)
}

func TestInterpretCollectionMetaCommands(t *testing.T) {
	node, _, _ := interpret(t, docWith(
		docmodel.Command{Name: "module", Arg: "QtQuick3D"},
		docmodel.Command{Name: "modulestate", Arg: "Technical Preview"},
		docmodel.Command{Name: "startpage", Arg: "Qt Quick 3D"},
		docmodel.Command{Name: "qtvariable", Arg: "quick3d"},
		docmodel.Command{Name: "qtcmakepackage", Arg: "Quick3D"},
	))
	col := node.(*docmodel.CollectionNode)
	require.Equal(t, "Technical Preview", col.ModuleState)
	require.Equal(t, "Qt Quick 3D", col.StartPage)
	require.Equal(t, "quick3d", col.QtVariable)
	require.Equal(t, "Quick3D", col.QtCMakePackage)
}

func TestInterpretExampleMetaCommands(t *testing.T) {
	node, _, _ := interpret(t, docWith(
		docmodel.Command{Name: "example", Arg: "demos/affine"},
		docmodel.Command{Name: "title", Arg: "Affine Transformations"},
		docmodel.Command{Name: "image", Arg: "affine-demo.png A transformed clock"},
		docmodel.Command{Name: "meta", Arg: "tag {graphics,painting}"},
		docmodel.Command{Name: "meta", Arg: "{installpath} {qtbase/examples/demos}"},
	))
	ex := node.(*docmodel.ExampleNode)
	require.True(t, ex.IsDemo())
	require.Equal(t, "affine", ex.FileBase())
	require.Equal(t, "affine-demo.png", ex.ImageFileName, "image file name is the first word of the argument")

	tags := ex.Doc.MetaTagMap()
	require.Equal(t, []string{"graphics,painting"}, tags.Values("tag"))
	require.Equal(t, "qtbase/examples/demos", tags.Value("installpath"))
}

func TestSplitMetaArg(t *testing.T) {
	tests := []struct {
		arg       string
		wantKey   string
		wantValue string
	}{
		{"tag widgets", "tag", "widgets"},
		{"tag {widgets,layout}", "tag", "widgets,layout"},
		{"{tag} {widgets}", "tag", "widgets"},
		{"{installpath} examples/demos", "installpath", "examples/demos"},
		{"category", "category", ""},
		{"{unterminated", "unterminated", ""},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			key, value := splitMetaArg(tt.arg)
			require.Equal(t, tt.wantKey, key)
			require.Equal(t, tt.wantValue, value)
		})
	}
}

func TestInterpretDontDocument(t *testing.T) {
	node, graph, collector := interpret(t, docWith(
		docmodel.Command{Name: "dontdocument", Arg: "QPrivateSignal, QTestInternal"},
	))
	require.Nil(t, node)
	require.Zero(t, collector.WarningCount())
	require.Zero(t, graph.Len(), "dontdocument defines no entity")
	require.True(t, graph.IsDontDocument("QPrivateSignal"))
	require.True(t, graph.IsDontDocument("QTestInternal"))
	require.False(t, graph.IsDontDocument("QWidget"))
}

func TestInterpretTopicWithoutArgumentWarns(t *testing.T) {
	node, graph, collector := interpret(t, docWith(docmodel.Command{Name: "class", Arg: "   "}))
	require.Nil(t, node)
	require.Zero(t, graph.Len())
	require.Equal(t, 1, collector.WarningCount())
	require.Contains(t, collector.Diagnostics()[0].Message, `\class requires an argument`)
}
