package templates

import (
	"context"

	"github.com/google/uuid"
	"github.com/harshad-dhokane/new-docx/pkg/pagination"
)

// System defines template library operations.
// Implementations keep the database row and the stored blob consistent.
type System interface {
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Template], error)
	Find(ctx context.Context, id uuid.UUID) (*Template, error)
	Scan(filename, contentType string, data []byte) (*ScanResult, error)
	Create(ctx context.Context, cmd CreateCommand) (*Template, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Template, error)
	Replace(ctx context.Context, id uuid.UUID, cmd ReplaceCommand) (*Template, error)
	Download(ctx context.Context, id uuid.UUID) (*Template, []byte, error)
	IncrementUseCount(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}
