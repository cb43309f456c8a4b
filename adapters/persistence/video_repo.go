package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/vidshare/internal/domain/video"
	"github.com/khoahotran/vidshare/pkg/apperror"
)

type postgresVideoRepo struct {
	db *pgxpool.Pool
}

func NewPostgresVideoRepo(db *pgxpool.Pool) video.Repository {
	return &postgresVideoRepo{db: db}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var videoColumns = []string{
	"id", "title", "description", "video_url", "user_id",
	"file_name", "file_size", "file_type", "views", "likes",
	"created_at", "updated_at",
}

func scanVideo(row pgx.Row) (*video.Video, error) {
	v := &video.Video{}
	var id uuid.UUID
	err := row.Scan(
		&id,
		&v.Title,
		&v.Description,
		&v.VideoURL,
		&v.UserID,
		&v.FileName,
		&v.FileSize,
		&v.FileType,
		&v.Views,
		&v.Likes,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	v.ID = id.String()
	return v, nil
}

func (r *postgresVideoRepo) Insert(ctx context.Context, v *video.Video) (string, error) {
	id := uuid.New()
	query, args, err := psql.Insert("videos").
		Columns(videoColumns...).
		Values(id, v.Title, v.Description, v.VideoURL, v.UserID,
			v.FileName, v.FileSize, v.FileType, v.Views, v.Likes,
			v.CreatedAt, v.UpdatedAt).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("failed to build insert video query: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return "", apperror.NewStoreError("insert video", err)
	}
	return id.String(), nil
}

func (r *postgresVideoRepo) FindByID(ctx context.Context, id string) (*video.Video, error) {
	videoID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.NewNotFound("video", id)
	}

	query, args, err := psql.Select(videoColumns...).
		From("videos").
		Where(sq.Eq{"id": videoID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build find video query: %w", err)
	}

	v, err := scanVideo(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("video", id)
		}
		return nil, apperror.NewStoreError("find video", err)
	}
	return v, nil
}

func (r *postgresVideoRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	videoID, err := uuid.Parse(id)
	if err != nil {
		return false, nil
	}

	query, args, err := psql.Delete("videos").Where(sq.Eq{"id": videoID}).ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build delete video query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return false, apperror.NewStoreError("delete video", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *postgresVideoRepo) ListAll(ctx context.Context) ([]*video.Video, error) {
	query, args, err := psql.Select(videoColumns...).
		From("videos").
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list videos query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewStoreError("list videos", err)
	}
	defer rows.Close()

	videos := make([]*video.Video, 0)
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, apperror.NewStoreError("scan video row", err)
		}
		videos = append(videos, v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewStoreError("iterate video rows", err)
	}
	return videos, nil
}

func (r *postgresVideoRepo) IncrementViews(ctx context.Context, id string) (*video.Video, error) {
	return r.increment(ctx, id, "views")
}

func (r *postgresVideoRepo) IncrementLikes(ctx context.Context, id string) (*video.Video, error) {
	return r.increment(ctx, id, "likes")
}

func (r *postgresVideoRepo) increment(ctx context.Context, id, column string) (*video.Video, error) {
	videoID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.NewNotFound("video", id)
	}

	query, args, err := psql.Update("videos").
		Set(column, sq.Expr(column+" + 1")).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": videoID}).
		Suffix("RETURNING " + strings.Join(videoColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build increment %s query: %w", column, err)
	}

	v, err := scanVideo(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("video", id)
		}
		return nil, apperror.NewStoreError("increment "+column, err)
	}
	return v, nil
}
