package interpreter

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/exdoc/internal/diag"
	"git.home.luguber.info/inful/exdoc/internal/docmodel"
	"git.home.luguber.info/inful/exdoc/internal/metrics"
)

// Interpreter dispatches annotation commands against the documentation
// graph. It keeps no per-comment state: the entity a meta command targets is
// re-resolved through the graph by name for every command.
type Interpreter struct {
	reporter diag.Reporter
	recorder metrics.Recorder
}

// New creates an Interpreter. A nil reporter discards diagnostics and a nil
// recorder discards metrics.
func New(reporter diag.Reporter, recorder metrics.Recorder) *Interpreter {
	if reporter == nil {
		reporter = diag.NoopReporter{}
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Interpreter{reporter: reporter, recorder: recorder}
}

// Interpret processes one documentation comment. Exactly one topic command
// must be present: zero or several topic commands skip the whole comment
// with a warning. The topic command creates a new entity and registers it in
// the graph; the comment's meta commands then augment that entity.
//
// A topic command naming an entity that already exists returns an error
// wrapping docmodel.ErrDuplicateEntity; the existing entity is untouched.
// Body-markup commands are passed over without note; unknown command tokens
// are reported and skipped, and the rest of the comment is still processed.
func (in *Interpreter) Interpret(doc *docmodel.Doc, graph *docmodel.Graph) (docmodel.Node, error) {
	topics := topicCommands(doc)
	if len(topics) == 0 {
		in.reporter.Warningf(doc.Loc, "comment has no topic command")
		return nil, nil
	}
	if len(topics) > 1 {
		in.reporter.Warningf(doc.Loc, "multiple topic commands found in comment: %s", commandList(topics))
		return nil, nil
	}

	in.recorder.IncCommand(topics[0].Name)
	node, err := in.processTopic(topics[0], doc, graph)
	if err != nil {
		return nil, err
	}
	if node == nil {
		// \dontdocument defines no entity; meta commands have no target.
		return nil, nil
	}

	// The entity is reached by name for every meta command rather than by
	// holding the node across iterations; the graph stays the one owner.
	name := node.Base().Name
	for _, cmd := range doc.Commands {
		if LookupTopic(cmd.Name) != TopicUnrecognized || IsMarkup(cmd.Name) {
			continue
		}
		meta := LookupMeta(cmd.Name)
		if meta == MetaUnrecognized {
			in.recorder.IncUnknownCommand()
			in.reporter.Warningf(cmd.Loc, "unknown command: \\%s", cmd.Name)
			continue
		}
		in.recorder.IncCommand(cmd.Name)
		current, ok := graph.Lookup(name)
		if !ok {
			continue
		}
		in.applyMeta(meta, cmd, current, doc)
	}

	return node, nil
}

func topicCommands(doc *docmodel.Doc) []docmodel.Command {
	var topics []docmodel.Command
	for _, cmd := range doc.Commands {
		if LookupTopic(cmd.Name) != TopicUnrecognized {
			topics = append(topics, cmd)
		}
	}
	return topics
}

func commandList(cmds []docmodel.Command) string {
	names := make([]string, len(cmds))
	for i, cmd := range cmds {
		names[i] = "\\" + cmd.Name
	}
	return strings.Join(names, ", ")
}

// entityFactories maps every entity-defining topic variant to its
// constructor. \dontdocument is absent: it marks names instead of defining
// an entity and is handled before the table is consulted.
var entityFactories = map[TopicCommand]func(name string, doc *docmodel.Doc) docmodel.Node{
	TopicClass:               newAggregate,
	TopicStruct:              newAggregate,
	TopicUnion:               newAggregate,
	TopicNamespace:           newAggregate,
	TopicHeaderFile:          newAggregate,
	TopicQmlType:             newAggregate,
	TopicQmlValueType:        newAggregate,
	TopicQmlBasicType:        newAggregate,
	TopicFn:                  newFunction,
	TopicMacro:               newFunction,
	TopicQmlMethod:           newFunction,
	TopicQmlAttachedMethod:   newFunction,
	TopicQmlSignal:           newFunction,
	TopicQmlAttachedSignal:   newFunction,
	TopicEnum:                newMember,
	TopicTypedef:             newMember,
	TopicTypeAlias:           newMember,
	TopicVariable:            newMember,
	TopicProperty:            newMember,
	TopicQmlProperty:         newMember,
	TopicQmlPropertyGroup:    newMember,
	TopicQmlAttachedProperty: newMember,
	TopicPage: func(name string, doc *docmodel.Doc) docmodel.Node {
		return docmodel.NewPage(name, doc, false)
	},
	TopicExternalPage: func(name string, doc *docmodel.Doc) docmodel.Node {
		return docmodel.NewPage(name, doc, true)
	},
	TopicModule:    newCollection,
	TopicQmlModule: newCollection,
	TopicGroup:     newCollection,
	TopicExample: func(name string, doc *docmodel.Doc) docmodel.Node {
		return docmodel.NewExample(name, doc)
	},
}

func newAggregate(name string, doc *docmodel.Doc) docmodel.Node {
	return docmodel.NewAggregate(name, doc)
}

func newFunction(name string, doc *docmodel.Doc) docmodel.Node {
	return docmodel.NewFunction(name, doc)
}

func newMember(name string, doc *docmodel.Doc) docmodel.Node {
	return docmodel.NewMember(name, doc)
}

func newCollection(name string, doc *docmodel.Doc) docmodel.Node {
	return docmodel.NewCollection(name, doc)
}

func (in *Interpreter) processTopic(cmd docmodel.Command, doc *docmodel.Doc, graph *docmodel.Graph) (docmodel.Node, error) {
	topic := LookupTopic(cmd.Name)
	arg := strings.TrimSpace(cmd.Arg)

	if topic == TopicDontDocument {
		for _, name := range strings.Split(arg, ",") {
			if name = strings.TrimSpace(name); name != "" {
				graph.MarkDontDocument(name)
			}
		}
		return nil, nil
	}

	name := entityName(topic, arg)
	if name == "" {
		in.reporter.Warningf(cmd.Loc, "\\%s requires an argument", cmd.Name)
		return nil, nil
	}

	node := entityFactories[topic](name, doc)
	node.Base().Loc = cmd.Loc
	if err := graph.Insert(node); err != nil {
		return nil, fmt.Errorf("%s: %w", cmd.Loc, err)
	}
	return node, nil
}

// entityName extracts the entity name from a topic argument. Function and
// macro signatures keep embedded spaces; every other topic takes the first
// whitespace-separated token.
func entityName(topic TopicCommand, arg string) string {
	switch topic {
	case TopicFn, TopicMacro:
		return arg
	}
	return firstField(arg)
}

func (in *Interpreter) applyMeta(meta MetaCommand, cmd docmodel.Command, node docmodel.Node, doc *docmodel.Doc) {
	base := node.Base()
	arg := strings.TrimSpace(cmd.Arg)

	switch meta {
	case MetaAbstract, MetaQmlAbstract:
		base.Abstract = true
	case MetaBrief:
		doc.SetBrief(arg)
	case MetaDefault, MetaQmlDefault:
		base.Default = true
	case MetaDeprecated:
		base.Status = docmodel.StatusDeprecated
	case MetaImage:
		// Elsewhere \image is body markup; only examples record the file
		// name, for the manifest's imageUrl attribute.
		if ex, ok := node.(*docmodel.ExampleNode); ok {
			ex.ImageFileName = firstField(arg)
		}
	case MetaInGroup, MetaInPublicGroup:
		if group := firstField(arg); group != "" {
			base.Groups = append(base.Groups, group)
		}
	case MetaInHeaderFile:
		if agg, ok := node.(*docmodel.AggregateNode); ok {
			agg.Headers = append(agg.Headers, firstField(arg))
		} else {
			in.ignored(cmd, base, "a class or header file")
		}
	case MetaInModule, MetaInQmlModule:
		base.Module = firstField(arg)
	case MetaInternal:
		base.Status = docmodel.StatusInternal
	case MetaMeta:
		key, value := splitMetaArg(arg)
		if key == "" {
			in.reporter.Warningf(cmd.Loc, "\\meta requires a key")
			return
		}
		doc.AddMetaTag(key, value)
	case MetaModuleState:
		if col, ok := node.(*docmodel.CollectionNode); ok {
			col.ModuleState = arg
		} else {
			in.ignored(cmd, base, "a module")
		}
	case MetaNextPage:
		if page, ok := node.(*docmodel.PageNode); ok {
			page.NextPage = arg
		} else {
			in.ignored(cmd, base, "a page")
		}
	case MetaNoAutoList:
		base.NoAutoList = true
	case MetaNonReentrant:
		base.ThreadSafety = docmodel.ThreadSafetyNonReentrant
	case MetaObsolete:
		base.Status = docmodel.StatusObsolete
	case MetaOverload:
		if fn, ok := node.(*docmodel.FunctionNode); ok {
			fn.Overload = true
		} else {
			in.ignored(cmd, base, "a function")
		}
	case MetaPreliminary:
		base.Status = docmodel.StatusPreliminary
	case MetaPreviousPage:
		if page, ok := node.(*docmodel.PageNode); ok {
			page.PrevPage = arg
		} else {
			in.ignored(cmd, base, "a page")
		}
	case MetaQmlInstantiates:
		if agg, ok := node.(*docmodel.AggregateNode); ok {
			agg.Instantiates = firstField(arg)
		} else {
			in.ignored(cmd, base, "a QML type")
		}
	case MetaQtCMakePackage:
		if col, ok := node.(*docmodel.CollectionNode); ok {
			col.QtCMakePackage = firstField(arg)
		} else {
			in.ignored(cmd, base, "a module")
		}
	case MetaQtVariable:
		if col, ok := node.(*docmodel.CollectionNode); ok {
			col.QtVariable = firstField(arg)
		} else {
			in.ignored(cmd, base, "a module")
		}
	case MetaReentrant:
		base.ThreadSafety = docmodel.ThreadSafetyReentrant
	case MetaReimp:
		if fn, ok := node.(*docmodel.FunctionNode); ok {
			fn.Reimp = true
		} else {
			in.ignored(cmd, base, "a function")
		}
	case MetaRelates:
		base.RelatesTo = firstField(arg)
	case MetaSince:
		base.Since = arg
	case MetaStartPage:
		if col, ok := node.(*docmodel.CollectionNode); ok {
			col.StartPage = arg
		} else {
			in.ignored(cmd, base, "a module")
		}
	case MetaSubtitle:
		base.Subtitle = arg
	case MetaThreadSafe:
		base.ThreadSafety = docmodel.ThreadSafetyThreadSafe
	case MetaTitle:
		base.Title = arg
	case MetaWrapper:
		base.Wrapper = true
	}
}

func (in *Interpreter) ignored(cmd docmodel.Command, base *docmodel.BaseNode, wanted string) {
	in.reporter.Warningf(cmd.Loc, "ignored \\%s: %s is not %s", cmd.Name, base.Name, wanted)
}

// splitMetaArg splits a \meta argument into key and value. Both
// "{key} {value}" brace groups and bare "key value" forms are accepted;
// the value text is stored verbatim apart from surrounding braces.
func splitMetaArg(arg string) (key, value string) {
	if strings.HasPrefix(arg, "{") {
		end := strings.Index(arg, "}")
		if end < 0 {
			return strings.TrimSpace(arg[1:]), ""
		}
		key = strings.TrimSpace(arg[1:end])
		value = strings.TrimSpace(arg[end+1:])
	} else {
		key, value, _ = strings.Cut(arg, " ")
		value = strings.TrimSpace(value)
	}
	value = strings.TrimPrefix(value, "{")
	value = strings.TrimSuffix(value, "}")
	return key, strings.TrimSpace(value)
}

func firstField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
