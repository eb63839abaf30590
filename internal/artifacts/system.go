package artifacts

import (
	"context"

	"github.com/google/uuid"
	"github.com/harshad-dhokane/new-docx/pkg/pagination"
)

// System defines artifact generation and retrieval.
// Generation is fail-closed: on any error no row or blob remains.
type System interface {
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Artifact], error)
	Find(ctx context.Context, id uuid.UUID) (*Artifact, error)
	Generate(ctx context.Context, cmd GenerateCommand) (*Artifact, error)
	Download(ctx context.Context, id uuid.UUID) (*Artifact, []byte, error)
	Preview(ctx context.Context, id uuid.UUID, opts PreviewOptions) ([]byte, string, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
