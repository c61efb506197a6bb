package agentcore

import "context"

// Document is a named, addressable piece of content an agent's tools can
// read through a DocumentRepository - a file, an MCP resource, anything
// with an identity, a body, and a content type.
type Document interface {
	ID() string
	Name() string
	Description() string
	Path() string
	Content() string
	ContentType() string
}

// TextDocumentOptions constructs a textDocument.
type TextDocumentOptions struct {
	ID          string
	Name        string
	Description string
	Path        string
	Content     string
	ContentType string
}

type textDocument struct {
	opts TextDocumentOptions
}

// NewTextDocument builds a Document backed by an in-memory string, the
// shape every DocumentRepository normalizes its entries into.
func NewTextDocument(opts TextDocumentOptions) Document {
	return &textDocument{opts: opts}
}

func (d *textDocument) ID() string          { return d.opts.ID }
func (d *textDocument) Name() string        { return d.opts.Name }
func (d *textDocument) Description() string { return d.opts.Description }
func (d *textDocument) Path() string        { return d.opts.Path }
func (d *textDocument) Content() string     { return d.opts.Content }
func (d *textDocument) ContentType() string { return d.opts.ContentType }

// ListDocumentInput filters a DocumentRepository.ListDocuments call.
type ListDocumentInput struct {
	PathPrefix string
}

// ListDocumentOutput is the result of ListDocuments.
type ListDocumentOutput struct {
	Items []Document
}

// DocumentRepository abstracts a source of documents - the local
// filesystem, an MCP server's resources - behind one interface tools can
// depend on without knowing which backend they're talking to.
type DocumentRepository interface {
	GetDocument(ctx context.Context, name string) (Document, error)
	ListDocuments(ctx context.Context, input *ListDocumentInput) (*ListDocumentOutput, error)
	PutDocument(ctx context.Context, doc Document) error
	DeleteDocument(ctx context.Context, doc Document) error
	Exists(ctx context.Context, name string) (bool, error)
	RegisterDocument(ctx context.Context, name, path string) error
}
