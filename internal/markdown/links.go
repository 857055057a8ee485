package markdown

// Options controls how Markdown is parsed and rendered.
type Options struct {
	// AllowRawHTML passes raw HTML in page bodies through to the output.
	AllowRawHTML bool
}

type LinkKind string

const (
	LinkKindInline              LinkKind = "inline"
	LinkKindImage               LinkKind = "image"
	LinkKindAuto                LinkKind = "auto"
	LinkKindReferenceDefinition LinkKind = "reference_definition"
)

type Link struct {
	Kind        LinkKind
	Destination string
}
