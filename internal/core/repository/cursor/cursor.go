package cursor

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	"github.com/tonindexer/txmon/internal/core"
	"github.com/tonindexer/txmon/internal/core/repository"
)

var _ repository.Cursor = (*Repository)(nil)

type Repository struct {
	pg *bun.DB
}

func NewRepository(pg *bun.DB) *Repository {
	return &Repository{pg: pg}
}

func CreateTables(ctx context.Context, pgDB *bun.DB) error {
	_, err := pgDB.NewCreateTable().
		Model(&core.Cursor{}).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "cursor pg create table")
	}
	return nil
}

func (r *Repository) GetCursor(ctx context.Context, id string) (*core.Cursor, error) {
	ret := new(core.Cursor)

	err := r.pg.NewSelect().Model(ret).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return ret, nil
}

func (r *Repository) SetCursor(ctx context.Context, c *core.Cursor) error {
	if c.ID == "" {
		return errors.Wrap(core.ErrInvalidArg, "empty cursor id")
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = time.Now().UTC()
	}

	_, err := r.pg.NewInsert().
		Model(c).
		On("CONFLICT (id) DO UPDATE").
		Set("height = GREATEST(EXCLUDED.height, mc.height)").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return errors.Wrapf(err, "upsert cursor %s", c.ID)
	}

	return nil
}
