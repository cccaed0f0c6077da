package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/civicresolve/backend/internal/domain/entity"
	"github.com/civicresolve/backend/internal/domain/repository"
)

// IssueRepository is the durable issue store. Update history is kept as a
// jsonb document on the row; the seq column breaks creation-time ties so
// listings stay in most-recent-insert order.
type IssueRepository struct {
	pool *pgxpool.Pool
}

func NewIssueRepository(pool *pgxpool.Pool) *IssueRepository {
	return &IssueRepository{pool: pool}
}

const issueColumns = `id, title, description, tags, image_url, lat, lng, status,
	author_id, author_username, author_avatar, created_at, upvotes, reposts, updates, resolved_image_url`

const issueOrder = ` ORDER BY created_at DESC, seq DESC`

func scanIssue(row pgx.Row) (*entity.Issue, error) {
	i := &entity.Issue{}
	var updates []byte
	if err := row.Scan(&i.ID, &i.Title, &i.Description, &i.Tags, &i.ImageURL,
		&i.Location.Lat, &i.Location.Lng, &i.Status, &i.AuthorID, &i.AuthorUsername,
		&i.AuthorAvatar, &i.CreatedAt, &i.Upvotes, &i.Reposts, &updates, &i.ResolvedImageURL); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if len(updates) > 0 {
		if err := json.Unmarshal(updates, &i.Updates); err != nil {
			return nil, err
		}
	}
	return i, nil
}

func collectIssues(rows pgx.Rows) ([]*entity.Issue, error) {
	defer rows.Close()
	var out []*entity.Issue
	for rows.Next() {
		i, err := scanIssue(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func (r *IssueRepository) Create(i *entity.Issue) error {
	ctx := context.Background()
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.CreatedAt.IsZero() {
		i.CreatedAt = time.Now().UTC()
	}
	updates, err := json.Marshal(i.Updates)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO issues (id, title, description, tags, image_url, lat, lng, status,
			author_id, author_username, author_avatar, created_at, upvotes, reposts, updates, resolved_image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`, i.ID, i.Title, i.Description, i.Tags, i.ImageURL, i.Location.Lat, i.Location.Lng,
		i.Status, i.AuthorID, i.AuthorUsername, i.AuthorAvatar, i.CreatedAt,
		i.Upvotes, i.Reposts, updates, i.ResolvedImageURL)
	return err
}

func (r *IssueRepository) GetByID(id string) (*entity.Issue, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+issueColumns+` FROM issues WHERE id = $1`, id)
	return scanIssue(row)
}

func (r *IssueRepository) List() ([]*entity.Issue, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+issueColumns+` FROM issues`+issueOrder)
	if err != nil {
		return nil, err
	}
	return collectIssues(rows)
}

func (r *IssueRepository) ListByAuthor(authorID string) ([]*entity.Issue, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+issueColumns+` FROM issues WHERE author_id = $1`+issueOrder, authorID)
	if err != nil {
		return nil, err
	}
	return collectIssues(rows)
}

func (r *IssueRepository) ListByAuthority(authorityID string) ([]*entity.Issue, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT `+issueColumns+` FROM issues
		WHERE EXISTS (
			SELECT 1 FROM jsonb_array_elements(updates) AS u
			WHERE u->>'updated_by' = $1
		)`+issueOrder, authorityID)
	if err != nil {
		return nil, err
	}
	return collectIssues(rows)
}

func (r *IssueRepository) Search(term string, status entity.IssueStatus) ([]*entity.Issue, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT `+issueColumns+` FROM issues
		WHERE ($1 = ''
			OR title ILIKE '%' || $1 || '%'
			OR description ILIKE '%' || $1 || '%'
			OR EXISTS (SELECT 1 FROM unnest(tags) AS t WHERE t ILIKE '%' || $1 || '%'))
		  AND ($2 = '' OR status = $2)`+issueOrder, term, string(status))
	if err != nil {
		return nil, err
	}
	return collectIssues(rows)
}

func (r *IssueRepository) Update(i *entity.Issue) error {
	updates, err := json.Marshal(i.Updates)
	if err != nil {
		return err
	}
	res, err := r.pool.Exec(context.Background(), `
		UPDATE issues
		SET title = $1, description = $2, tags = $3, image_url = $4, lat = $5, lng = $6,
		    status = $7, updates = $8, resolved_image_url = $9
		WHERE id = $10
	`, i.Title, i.Description, i.Tags, i.ImageURL, i.Location.Lat, i.Location.Lng,
		i.Status, updates, i.ResolvedImageURL, i.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *IssueRepository) IncrementUpvotes(id string) (int, error) {
	return r.increment(id, "upvotes")
}

func (r *IssueRepository) IncrementReposts(id string) (int, error) {
	return r.increment(id, "reposts")
}

func (r *IssueRepository) increment(id, column string) (int, error) {
	var n int
	err := r.pool.QueryRow(context.Background(),
		`UPDATE issues SET `+column+` = `+column+` + 1 WHERE id = $1 RETURNING `+column, id).Scan(&n)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, repository.ErrNotFound
	}
	return n, err
}

var _ repository.IssueRepository = (*IssueRepository)(nil)
