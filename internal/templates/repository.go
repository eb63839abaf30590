package templates

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/harshad-dhokane/new-docx/internal/activity"
	"github.com/harshad-dhokane/new-docx/internal/formats"
	"github.com/harshad-dhokane/new-docx/internal/placeholders"
	"github.com/harshad-dhokane/new-docx/pkg/pagination"
	"github.com/harshad-dhokane/new-docx/pkg/query"
	"github.com/harshad-dhokane/new-docx/pkg/repository"
	"github.com/harshad-dhokane/new-docx/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	activity   activity.Recorder
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates the template system over the database, blob storage, and
// activity log.
func New(db *sql.DB, store storage.System, recorder activity.Recorder, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		storage:    store,
		activity:   recorder,
		logger:     logger.With("system", "templates"),
		pagination: pagination,
	}
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Template], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "Filename")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count templates: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanTemplate)
	if err != nil {
		return nil, fmt.Errorf("query templates: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Template, error) {
	q, args := query.
		NewBuilder(projection).
		BuildSingle("Id", id)

	t, err := repository.QueryOne(ctx, r.db, q, args, scanTemplate)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &t, nil
}

func (r *repo) Scan(filename, contentType string, data []byte) (*ScanResult, error) {
	kind, err := classify(filename, contentType, data)
	if err != nil {
		return nil, err
	}

	return &ScanResult{
		Filename:     filename,
		Kind:         kind,
		Placeholders: r.extract(kind, data),
	}, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Template, error) {
	kind, err := classify(cmd.Filename, cmd.ContentType, cmd.Data)
	if err != nil {
		return nil, err
	}

	names := r.extract(kind, cmd.Data)
	encoded, err := json.Marshal(names)
	if err != nil {
		return nil, fmt.Errorf("encode placeholders: %w", err)
	}

	name := cmd.Name
	if name == "" {
		name = formats.BaseName(cmd.Filename)
	}

	id := uuid.New()
	storageKey := buildStorageKey(id, uuid.New(), cmd.Filename)

	if err := r.storage.Store(ctx, storageKey, cmd.Data); err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}

	q := `INSERT INTO templates(id, name, filename, kind, content_type, size_bytes, placeholders, storage_key)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8)
		` + returning

	t, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Template, error) {
		return repository.QueryOne(ctx, tx, q, []any{
			id, name, cmd.Filename, string(kind), kind.Native().MimeType(), int64(len(cmd.Data)), encoded, storageKey,
		}, scanTemplate)
	})

	if err != nil {
		if delErr := r.storage.Delete(ctx, storageKey); delErr != nil {
			r.logger.Error("cleanup failed after db error", "storage_key", storageKey, "error", delErr)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("template created", "id", t.ID, "name", t.Name, "kind", t.Kind, "placeholders", len(t.Placeholders))

	r.activity.Record(ctx, activity.Event{
		Action:       activity.ActionTemplateUploaded,
		ResourceType: activity.ResourceTemplate,
		ResourceID:   t.ID,
		Metadata: map[string]any{
			"name":         t.Name,
			"filename":     t.Filename,
			"kind":         t.Kind,
			"placeholders": len(t.Placeholders),
		},
	})

	return &t, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Template, error) {
	if cmd.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidFile)
	}

	q := `UPDATE templates SET name = $1, updated_at = NOW()
		WHERE id = $2
		` + returning

	t, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Template, error) {
		return repository.QueryOne(ctx, tx, q, []any{cmd.Name, id}, scanTemplate)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("template updated", "id", t.ID, "name", t.Name)
	return &t, nil
}

func (r *repo) Replace(ctx context.Context, id uuid.UUID, cmd ReplaceCommand) (*Template, error) {
	existing, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	kind, err := classify(cmd.Filename, cmd.ContentType, cmd.Data)
	if err != nil {
		return nil, err
	}
	if kind != existing.Kind {
		return nil, fmt.Errorf("%w: got %s, template is %s", ErrKindMismatch, kind, existing.Kind)
	}

	// New bytes go under a fresh version key; the old blob is removed only
	// after the row update.
	storageKey := buildStorageKey(id, uuid.New(), cmd.Filename)
	if err := r.storage.Store(ctx, storageKey, cmd.Data); err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}

	q := `UPDATE templates SET filename = $1, size_bytes = $2, storage_key = $3, updated_at = NOW()
		WHERE id = $4
		` + returning

	t, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Template, error) {
		return repository.QueryOne(ctx, tx, q, []any{
			cmd.Filename, int64(len(cmd.Data)), storageKey, id,
		}, scanTemplate)
	})

	if err != nil {
		if delErr := r.storage.Delete(ctx, storageKey); delErr != nil {
			r.logger.Error("cleanup failed after db error", "storage_key", storageKey, "error", delErr)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if err := r.storage.Delete(ctx, existing.StorageKey); err != nil {
		r.logger.Error("storage cleanup failed", "storage_key", existing.StorageKey, "error", err)
	}

	r.logger.Info("template file replaced", "id", t.ID, "filename", t.Filename, "size", t.SizeBytes)
	return &t, nil
}

func (r *repo) Download(ctx context.Context, id uuid.UUID) (*Template, []byte, error) {
	t, err := r.Find(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	data, err := r.storage.Retrieve(ctx, t.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: stored file missing", ErrNotFound)
		}
		return nil, nil, fmt.Errorf("retrieve file: %w", err)
	}

	return t, data, nil
}

func (r *repo) IncrementUseCount(ctx context.Context, id uuid.UUID) error {
	q := `UPDATE templates SET use_count = use_count + 1 WHERE id = $1`
	if err := repository.ExecExpectOne(ctx, r.db, q, id); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}

// Delete removes the template row, which cascades to its artifacts, and then
// removes every affected blob. Blob failures are logged only.
func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	t, err := r.Find(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}

	keys, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) ([]string, error) {
		keys, err := repository.QueryMany(ctx, tx,
			`SELECT storage_key FROM artifacts WHERE template_id = $1`,
			[]any{id}, scanKey)
		if err != nil {
			return nil, err
		}
		if err := repository.ExecExpectOne(ctx, tx, `DELETE FROM templates WHERE id = $1`, id); err != nil {
			return nil, err
		}
		return keys, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	for _, key := range append(keys, t.StorageKey) {
		if err := r.storage.Delete(ctx, key); err != nil {
			r.logger.Error("storage cleanup failed", "storage_key", key, "error", err)
		}
	}

	r.logger.Info("template deleted", "id", id, "artifacts", len(keys))

	r.activity.Record(ctx, activity.Event{
		Action:       activity.ActionTemplateDeleted,
		ResourceType: activity.ResourceTemplate,
		ResourceID:   id,
		Metadata: map[string]any{
			"name":      t.Name,
			"artifacts": len(keys),
		},
	})

	return nil
}

func (r *repo) extract(kind formats.Kind, data []byte) []string {
	names := placeholders.ForKind(kind, r.logger).Extract(data).Names()
	if names == nil {
		names = []string{}
	}
	return names
}

func classify(filename, contentType string, data []byte) (formats.Kind, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty file", ErrInvalidFile)
	}
	kind, err := formats.Detect(filename, contentType)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	return kind, nil
}

func scanKey(s repository.Scanner) (string, error) {
	var key string
	err := s.Scan(&key)
	return key, err
}

func buildStorageKey(id, version uuid.UUID, filename string) string {
	return fmt.Sprintf("templates/%s/%s/%s", id, version, formats.SanitizeFilename(filename))
}
