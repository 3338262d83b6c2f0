// Package interpreter turns parsed documentation comments into entities in
// the documentation graph. It recognizes a fixed, closed vocabulary of topic
// commands (each classifies a comment as defining one new entity) and meta
// commands (each augments the entity the comment defined).
package interpreter

// TopicCommand enumerates the closed set of entity-defining commands.
// The zero value is TopicUnrecognized.
type TopicCommand int

const (
	TopicUnrecognized TopicCommand = iota
	TopicClass
	TopicDontDocument
	TopicEnum
	TopicExample
	TopicExternalPage
	TopicFn
	TopicGroup
	TopicHeaderFile
	TopicMacro
	TopicModule
	TopicNamespace
	TopicPage
	TopicProperty
	TopicTypeAlias
	TopicTypedef
	TopicVariable
	TopicQmlType
	TopicQmlProperty
	TopicQmlPropertyGroup
	TopicQmlAttachedProperty
	TopicQmlSignal
	TopicQmlAttachedSignal
	TopicQmlMethod
	TopicQmlAttachedMethod
	TopicQmlValueType
	TopicQmlBasicType
	TopicQmlModule
	TopicStruct
	TopicUnion
)

var topicNames = map[TopicCommand]string{
	TopicClass:               "class",
	TopicDontDocument:        "dontdocument",
	TopicEnum:                "enum",
	TopicExample:             "example",
	TopicExternalPage:        "externalpage",
	TopicFn:                  "fn",
	TopicGroup:               "group",
	TopicHeaderFile:          "headerfile",
	TopicMacro:               "macro",
	TopicModule:              "module",
	TopicNamespace:           "namespace",
	TopicPage:                "page",
	TopicProperty:            "property",
	TopicTypeAlias:           "typealias",
	TopicTypedef:             "typedef",
	TopicVariable:            "variable",
	TopicQmlType:             "qmltype",
	TopicQmlProperty:         "qmlproperty",
	TopicQmlPropertyGroup:    "qmlpropertygroup",
	TopicQmlAttachedProperty: "qmlattachedproperty",
	TopicQmlSignal:           "qmlsignal",
	TopicQmlAttachedSignal:   "qmlattachedsignal",
	TopicQmlMethod:           "qmlmethod",
	TopicQmlAttachedMethod:   "qmlattachedmethod",
	TopicQmlValueType:        "qmlvaluetype",
	TopicQmlBasicType:        "qmlbasictype",
	TopicQmlModule:           "qmlmodule",
	TopicStruct:              "struct",
	TopicUnion:               "union",
}

var topicByName = invert(topicNames)

// LookupTopic maps a command token to its topic variant,
// TopicUnrecognized when the token is not a topic command.
func LookupTopic(name string) TopicCommand { return topicByName[name] }

// String returns the command token as written in comments, without the
// leading backslash.
func (t TopicCommand) String() string {
	if s, ok := topicNames[t]; ok {
		return s
	}
	return "<unrecognized>"
}

// MetaCommand enumerates the closed set of entity-augmenting commands.
// The zero value is MetaUnrecognized.
type MetaCommand int

const (
	MetaUnrecognized MetaCommand = iota
	MetaAbstract
	MetaBrief
	MetaDefault
	MetaDeprecated
	MetaImage
	MetaInGroup
	MetaInHeaderFile
	MetaInModule
	MetaInPublicGroup
	MetaInQmlModule
	MetaInternal
	MetaMeta // generic key/value pairs stored in the MetaTagMap
	MetaModuleState
	MetaNextPage
	MetaNoAutoList
	MetaNonReentrant
	MetaObsolete
	MetaOverload
	MetaPreliminary
	MetaPreviousPage
	MetaQmlAbstract
	MetaQmlDefault
	MetaQmlInstantiates
	MetaQtCMakePackage
	MetaQtVariable
	MetaReentrant
	MetaReimp
	MetaRelates
	MetaSince
	MetaStartPage
	MetaSubtitle
	MetaThreadSafe
	MetaTitle
	MetaWrapper
)

var metaNames = map[MetaCommand]string{
	MetaAbstract:        "abstract",
	MetaBrief:           "brief",
	MetaDefault:         "default",
	MetaDeprecated:      "deprecated",
	MetaImage:           "image",
	MetaInGroup:         "ingroup",
	MetaInHeaderFile:    "inheaderfile",
	MetaInModule:        "inmodule",
	MetaInPublicGroup:   "inpublicgroup",
	MetaInQmlModule:     "inqmlmodule",
	MetaInternal:        "internal",
	MetaMeta:            "meta",
	MetaModuleState:     "modulestate",
	MetaNextPage:        "nextpage",
	MetaNoAutoList:      "noautolist",
	MetaNonReentrant:    "nonreentrant",
	MetaObsolete:        "obsolete",
	MetaOverload:        "overload",
	MetaPreliminary:     "preliminary",
	MetaPreviousPage:    "previouspage",
	MetaQmlAbstract:     "qmlabstract",
	MetaQmlDefault:      "qmldefault",
	MetaQmlInstantiates: "qmlinstantiates",
	MetaQtCMakePackage:  "qtcmakepackage",
	MetaQtVariable:      "qtvariable",
	MetaReentrant:       "reentrant",
	MetaReimp:           "reimp",
	MetaRelates:         "relates",
	MetaSince:           "since",
	MetaStartPage:       "startpage",
	MetaSubtitle:        "subtitle",
	MetaThreadSafe:      "threadsafe",
	MetaTitle:           "title",
	MetaWrapper:         "wrapper",
}

var metaByName = invert(metaNames)

// LookupMeta maps a command token to its meta variant, MetaUnrecognized
// when the token is not a meta command.
func LookupMeta(name string) MetaCommand { return metaByName[name] }

// String returns the command token as written in comments, without the
// leading backslash.
func (m MetaCommand) String() string {
	if s, ok := metaNames[m]; ok {
		return s
	}
	return "<unrecognized>"
}

func invert[T comparable](names map[T]string) map[string]T {
	byName := make(map[string]T, len(names))
	for cmd, name := range names {
		byName[name] = cmd
	}
	return byName
}

// markupCommands are body-markup commands a renderer would consume. The
// interpreter skips them silently so the unknown-command warning is reserved
// for genuine typos.
var markupCommands = map[string]struct{}{
	"a": {}, "b": {}, "badcode": {}, "c": {}, "caption": {}, "code": {},
	"codeline": {}, "div": {}, "dots": {}, "e": {}, "else": {}, "endif": {},
	"endcode": {}, "endfootnote": {}, "endlist": {}, "endomit": {},
	"endquotation": {}, "endraw": {}, "endsection1": {}, "endsection2": {},
	"endsection3": {}, "endsection4": {}, "endtable": {}, "footnote": {},
	"header": {}, "if": {}, "include": {}, "inlineimage": {}, "keyword": {},
	"l": {}, "li": {}, "list": {}, "note": {}, "o": {}, "omit": {},
	"omitvalue": {}, "printline": {}, "printto": {}, "printuntil": {},
	"quotation": {}, "quotefile": {}, "quotefromfile": {}, "raw": {},
	"row": {}, "sa": {}, "section1": {}, "section2": {}, "section3": {},
	"section4": {}, "skipline": {}, "skipto": {}, "skipuntil": {},
	"snippet": {}, "span": {}, "sub": {}, "sup": {}, "table": {},
	"tableofcontents": {}, "target": {}, "tt": {}, "uicontrol": {},
	"underline": {}, "value": {}, "warning": {},
}

// IsMarkup reports whether name is a known body-markup command.
func IsMarkup(name string) bool {
	_, ok := markupCommands[name]
	return ok
}
