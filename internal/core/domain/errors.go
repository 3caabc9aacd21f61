package domain

import "go.trai.ch/zerr"

var (
	// ErrCycleDetected is returned when a composite already on the active traversal path is entered again.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrAttributeAccess is returned when reading an attribute of a composite fails.
	// The underlying failure stays reachable through errors.Is and errors.As.
	ErrAttributeAccess = zerr.New("attribute access failed")

	// ErrBudgetExceeded is returned when a traversal goes past its configured depth or leaf budget.
	ErrBudgetExceeded = zerr.New("traversal budget exceeded")

	// ErrNotComposite is returned when a projection is requested for a leaf value.
	ErrNotComposite = zerr.New("value is not a composite")

	// ErrNotQuasiEqual is returned by the CLI layer when compared documents differ.
	ErrNotQuasiEqual = zerr.New("values are not quasi-equal")

	// ErrInvalidConfig is returned when the configuration file contains invalid settings.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrInvalidManifest is returned when a batch manifest is malformed.
	ErrInvalidManifest = zerr.New("invalid manifest")

	// ErrDuplicatePair is returned when a batch manifest declares the same pair name twice.
	ErrDuplicatePair = zerr.New("duplicate pair name")

	// ErrUnsupportedDocument is returned when a document uses a construct that cannot be compared.
	ErrUnsupportedDocument = zerr.New("unsupported document")
)
