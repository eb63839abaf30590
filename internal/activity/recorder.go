package activity

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/harshad-dhokane/new-docx/pkg/pagination"
	"github.com/harshad-dhokane/new-docx/pkg/query"
	"github.com/harshad-dhokane/new-docx/pkg/repository"
)

// Recorder appends activity entries. Record never fails the caller: storage
// and publish errors are logged and dropped.
type Recorder interface {
	Record(ctx context.Context, event Event)
}

// System lists recorded activity in addition to recording it.
type System interface {
	Recorder
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Entry], error)
}

type repo struct {
	db         *sql.DB
	publisher  Publisher
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates the activity system. publisher may be nil when event
// streaming is disabled.
func New(db *sql.DB, publisher Publisher, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		publisher:  publisher,
		logger:     logger.With("system", "activity"),
		pagination: pagination,
	}
}

func (r *repo) Record(ctx context.Context, event Event) {
	entry, err := r.insert(ctx, event)
	if err != nil {
		r.logger.Error("activity record failed", "action", event.Action, "error", err)
		return
	}

	r.logger.Debug("activity recorded", "action", entry.Action, "resource_id", entry.ResourceID)

	if r.publisher == nil {
		return
	}
	if err := r.publisher.Publish(ctx, entry); err != nil {
		r.logger.Error("activity publish failed", "action", entry.Action, "error", err)
	}
}

func (r *repo) insert(ctx context.Context, event Event) (Entry, error) {
	metadata := event.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	raw, err := json.Marshal(metadata)
	if err != nil {
		return Entry{}, fmt.Errorf("marshal metadata: %w", err)
	}

	var resourceID *uuid.UUID
	if event.ResourceID != uuid.Nil {
		resourceID = &event.ResourceID
	}

	q := `INSERT INTO activity_logs(id, action, resource_type, resource_id, metadata)
		VALUES($1, $2, $3, $4, $5)
		RETURNING id, action, resource_type, resource_id, metadata, created_at`

	return repository.QueryOne(ctx, r.db, q, []any{
		uuid.New(), event.Action, event.ResourceType, resourceID, raw,
	}, scanEntry)
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Entry], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Action")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count activity: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	entries, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanEntry)
	if err != nil {
		return nil, fmt.Errorf("query activity: %w", err)
	}

	result := pagination.NewPageResult(entries, total, page.Page, page.PageSize)
	return &result, nil
}
