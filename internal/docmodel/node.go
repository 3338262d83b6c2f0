package docmodel

import "strings"

// Kind classifies documentation entities by variant.
type Kind string

const (
	KindAggregate  Kind = "aggregate"  // class, struct, union, namespace, header file, QML type
	KindFunction   Kind = "function"   // function, macro
	KindMember     Kind = "member"     // enum, typedef, type alias, variable, property
	KindPage       Kind = "page"       // page, external page
	KindCollection Kind = "collection" // module, QML module, group
	KindExample    Kind = "example"
)

// Status tracks the documentation lifecycle state of an entity.
type Status string

const (
	StatusActive      Status = "active"
	StatusPreliminary Status = "preliminary"
	StatusDeprecated  Status = "deprecated"
	StatusObsolete    Status = "obsolete"
	StatusInternal    Status = "internal"
)

// ThreadSafety records the declared thread-safety level of an entity.
type ThreadSafety string

const (
	ThreadSafetyUnspecified  ThreadSafety = ""
	ThreadSafetyThreadSafe   ThreadSafety = "thread-safe"
	ThreadSafetyReentrant    ThreadSafety = "reentrant"
	ThreadSafetyNonReentrant ThreadSafety = "non-reentrant"
)

// Node is implemented by every documentation entity variant. The shared
// fields live on BaseNode; callers reach them through Base() and type-switch
// for variant-specific data.
type Node interface {
	Base() *BaseNode
	Kind() Kind
}

// BaseNode carries the fields shared by all entity variants. A topic command
// creates exactly one node; later meta commands mutate it but never replace it.
type BaseNode struct {
	NodeKind Kind
	Name     string
	Title    string
	Subtitle string
	Doc      *Doc
	Loc      Location

	Status       Status
	ThreadSafety ThreadSafety
	Since        string
	Groups       []string // \ingroup memberships
	Module       string   // \inmodule or \inqmlmodule
	RelatesTo    string   // \relates target
	Abstract     bool
	Default      bool
	Wrapper      bool
	NoAutoList   bool
}

func (b *BaseNode) Base() *BaseNode { return b }
func (b *BaseNode) Kind() Kind      { return b.NodeKind }

func newBase(kind Kind, name string, doc *Doc) BaseNode {
	base := BaseNode{NodeKind: kind, Name: name, Status: StatusActive}
	if doc != nil {
		base.Doc = doc
		base.Loc = doc.Loc
	}
	return base
}

// AggregateNode is a named scope: class, struct, union, namespace, header
// file or QML type. Only the manifest-relevant surface is modeled; the rest
// of the hierarchy stays outside this package's contract.
type AggregateNode struct {
	BaseNode
	Headers      []string // \inheaderfile associations
	Instantiates string   // \qmlinstantiates target for QML types
}

// NewAggregate creates an aggregate entity.
func NewAggregate(name string, doc *Doc) *AggregateNode {
	return &AggregateNode{BaseNode: newBase(KindAggregate, name, doc)}
}

// FunctionNode is a documented function or macro.
type FunctionNode struct {
	BaseNode
	Overload bool
	Reimp    bool
}

// NewFunction creates a function entity.
func NewFunction(name string, doc *Doc) *FunctionNode {
	return &FunctionNode{BaseNode: newBase(KindFunction, name, doc)}
}

// MemberNode is a documented enum, typedef, type alias, variable or property.
type MemberNode struct {
	BaseNode
}

// NewMember creates a member entity.
func NewMember(name string, doc *Doc) *MemberNode {
	return &MemberNode{BaseNode: newBase(KindMember, name, doc)}
}

// PageNode is a free-standing documentation page.
type PageNode struct {
	BaseNode
	External bool
	PrevPage string
	NextPage string
}

// NewPage creates a page entity.
func NewPage(name string, doc *Doc, external bool) *PageNode {
	return &PageNode{BaseNode: newBase(KindPage, name, doc), External: external}
}

// CollectionNode groups other entities: a module, QML module or group.
type CollectionNode struct {
	BaseNode
	Members        []string
	ModuleState    string // \modulestate, e.g. "Technical Preview"
	StartPage      string
	QtVariable     string
	QtCMakePackage string
}

// NewCollection creates a collection entity.
func NewCollection(name string, doc *Doc) *CollectionNode {
	return &CollectionNode{BaseNode: newBase(KindCollection, name, doc)}
}

// AddMember records a member name in the collection.
func (c *CollectionNode) AddMember(name string) {
	c.Members = append(c.Members, name)
}

// demoPrefix on an example name routes the example to the demos manifest.
const demoPrefix = "demos"

// ExampleNode is the entity variant the manifest compiler consumes.
type ExampleNode struct {
	BaseNode
	ProjectFile   string   // project file path relative to the example dir
	ImageFileName string   // \image argument
	Files         []string // associated files, relative to the example dir
}

// NewExample creates an example entity.
func NewExample(name string, doc *Doc) *ExampleNode {
	return &ExampleNode{BaseNode: newBase(KindExample, name, doc)}
}

// IsDemo reports whether the example belongs in the demos manifest.
// Classification is a pure function of the name prefix.
func (e *ExampleNode) IsDemo() bool {
	return strings.HasPrefix(e.Name, demoPrefix)
}

// FileBase returns the final path segment of the example name, used to match
// files the consuming tool should open.
func (e *ExampleNode) FileBase() string {
	if i := strings.LastIndex(e.Name, "/"); i >= 0 {
		return e.Name[i+1:]
	}
	return e.Name
}
