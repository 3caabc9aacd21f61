package ports

// DocumentLoader decodes a document into a value graph the engine can flatten.
//
//go:generate go run go.uber.org/mock/mockgen -source=document_loader.go -destination=mocks/mock_document_loader.go -package=mocks
type DocumentLoader interface {
	// Load reads and decodes the document at path.
	// Mappings decode to domain.Record, sequences to []any and scalars to their natural Go type.
	Load(path string) (any, error)
}
