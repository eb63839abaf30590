package artifacts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/docker/go-units"
	"github.com/google/uuid"
	"github.com/harshad-dhokane/new-docx/internal/activity"
	"github.com/harshad-dhokane/new-docx/internal/formats"
	"github.com/harshad-dhokane/new-docx/internal/templates"
	"github.com/harshad-dhokane/new-docx/pkg/pagination"
	"github.com/harshad-dhokane/new-docx/pkg/query"
	"github.com/harshad-dhokane/new-docx/pkg/repository"
	"github.com/harshad-dhokane/new-docx/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	templates  templates.System
	pipeline   *Pipeline
	activity   activity.Recorder
	logger     *slog.Logger
	pagination pagination.Config
}

func New(
	db *sql.DB,
	store storage.System,
	tmpl templates.System,
	pipeline *Pipeline,
	recorder activity.Recorder,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		templates:  tmpl,
		pipeline:   pipeline,
		activity:   recorder,
		logger:     logger.With("system", "artifacts"),
		pagination: pagination,
	}
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Artifact], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count artifacts: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanArtifact)
	if err != nil {
		return nil, fmt.Errorf("query artifacts: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Artifact, error) {
	q, args := query.
		NewBuilder(projection).
		BuildSingle("Id", id)

	a, err := repository.QueryOne(ctx, r.db, q, args, scanArtifact)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

func (r *repo) Generate(ctx context.Context, cmd GenerateCommand) (*Artifact, error) {
	format, err := formats.ParseFormat(cmd.Format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	t, data, err := r.templates.Download(ctx, cmd.TemplateID)
	if err != nil {
		return nil, err
	}

	result, err := r.pipeline.Run(ctx, Request{
		Kind:     t.Kind,
		Template: data,
		Filename: t.Filename,
		Format:   format,
		Values:   cmd.Values,
	})
	if err != nil {
		return nil, err
	}

	summary, err := json.Marshal(result.Summary)
	if err != nil {
		return nil, fmt.Errorf("encode placeholder data: %w", err)
	}

	id := uuid.New()
	name := FileName(t.Filename, format, time.Now())
	storageKey := buildStorageKey(t.ID, id, name)

	if err := r.storage.Store(ctx, storageKey, result.Data); err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}

	q := `INSERT INTO artifacts(id, template_id, name, format, content_type, size_bytes, page_count, placeholder_data, storage_key)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
		` + returning

	a, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Artifact, error) {
		return repository.QueryOne(ctx, tx, q, []any{
			id, t.ID, name, string(format), format.MimeType(), int64(len(result.Data)),
			result.PageCount, summary, storageKey,
		}, scanArtifact)
	})

	if err != nil {
		if delErr := r.storage.Delete(ctx, storageKey); delErr != nil {
			r.logger.Error("cleanup failed after db error", "storage_key", storageKey, "error", delErr)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if err := r.templates.IncrementUseCount(ctx, t.ID); err != nil {
		r.logger.Warn("template use count not updated", "template_id", t.ID, "error", err)
	}

	r.logger.Info(
		"artifact generated",
		"id", a.ID,
		"template_id", t.ID,
		"name", a.Name,
		"size", units.HumanSize(float64(a.SizeBytes)),
	)

	r.activity.Record(ctx, activity.Event{
		Action:       activity.Generated(string(format)),
		ResourceType: activity.ResourceArtifact,
		ResourceID:   a.ID,
		Metadata: map[string]any{
			"template_name":       t.Name,
			"generated_name":      a.Name,
			"placeholders_filled": len(cmd.Values),
		},
	})

	return &a, nil
}

func (r *repo) Download(ctx context.Context, id uuid.UUID) (*Artifact, []byte, error) {
	a, err := r.Find(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	data, err := r.storage.Retrieve(ctx, a.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: stored file missing", ErrNotFound)
		}
		return nil, nil, fmt.Errorf("retrieve file: %w", err)
	}

	return a, data, nil
}

func (r *repo) Preview(ctx context.Context, id uuid.UUID, opts PreviewOptions) ([]byte, string, error) {
	if err := opts.Validate(); err != nil {
		return nil, "", err
	}

	a, data, err := r.Download(ctx, id)
	if err != nil {
		return nil, "", err
	}

	if a.Format != formats.FormatPDF {
		return nil, "", ErrNotPreviewable
	}
	if a.PageCount != nil && opts.Page > *a.PageCount {
		return nil, "", fmt.Errorf("%w: page %d exceeds page count %d", ErrInvalidPreview, opts.Page, *a.PageCount)
	}

	return renderPreview(data, opts)
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	a, err := r.Find(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}

	q := `DELETE FROM artifacts WHERE id = $1`
	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, q, id)
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if err := r.storage.Delete(ctx, a.StorageKey); err != nil {
		r.logger.Error("storage cleanup failed", "storage_key", a.StorageKey, "error", err)
	}

	r.logger.Info("artifact deleted", "id", id)

	r.activity.Record(ctx, activity.Event{
		Action:       activity.ActionArtifactDeleted,
		ResourceType: activity.ResourceArtifact,
		ResourceID:   id,
		Metadata:     map[string]any{"name": a.Name},
	})

	return nil
}

// FileName names generated output "<template base>_<YYYY-MM-DD>.<format>".
func FileName(templateFilename string, format formats.Format, now time.Time) string {
	return fmt.Sprintf("%s_%s%s", formats.BaseName(templateFilename), now.Format(time.DateOnly), format.Extension())
}

func buildStorageKey(templateID, id uuid.UUID, name string) string {
	return fmt.Sprintf("artifacts/%s/%s/%s", templateID, id, formats.SanitizeFilename(name))
}
