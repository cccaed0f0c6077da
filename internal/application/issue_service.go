package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/civicresolve/backend/internal/domain/entity"
	repo "github.com/civicresolve/backend/internal/domain/repository"
	"github.com/civicresolve/backend/pkg/helpers"
)

// IssueService carries the read and write operations over issue reports.
// Search goes through Elasticsearch when a client is configured and falls
// back to a repository scan otherwise.
type IssueService struct {
	Issues    repo.IssueRepository
	Users     repo.UserRepository
	GCS       *storage.Client
	GCSBucket string
	Logger    *logrus.Logger
	ES        *elasticsearch.Client
	ESIndex   string
}

func NewIssueService(issues repo.IssueRepository, users repo.UserRepository, gcs *storage.Client, gcsBucket string, logger *logrus.Logger, es *elasticsearch.Client, esIndex string) *IssueService {
	return &IssueService{
		Issues:    issues,
		Users:     users,
		GCS:       gcs,
		GCSBucket: gcsBucket,
		Logger:    logger,
		ES:        es,
		ESIndex:   esIndex,
	}
}

// ListIssues returns the full feed, newest first.
func (s *IssueService) ListIssues(ctx context.Context) ([]*entity.Issue, error) {
	return s.Issues.List()
}

func (s *IssueService) GetIssue(ctx context.Context, id string) (*entity.Issue, error) {
	return s.Issues.GetByID(id)
}

func (s *IssueService) ListByAuthor(ctx context.Context, authorID string) ([]*entity.Issue, error) {
	return s.Issues.ListByAuthor(authorID)
}

// ListByAuthority returns the issues an authority manages: those carrying at
// least one of its updates, regardless of who reported them.
func (s *IssueService) ListByAuthority(ctx context.Context, authorityID string) ([]*entity.Issue, error) {
	return s.Issues.ListByAuthority(authorityID)
}

// SearchIssues matches term against title, description and tags, optionally
// narrowed by status. An empty term matches everything.
func (s *IssueService) SearchIssues(ctx context.Context, term string, status entity.IssueStatus) ([]*entity.Issue, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	if s.ES != nil && s.ESIndex != "" && strings.TrimSpace(term) != "" {
		if out, err := s.searchES(ctx, term, status); err == nil {
			return out, nil
		} else if s.Logger != nil {
			s.Logger.WithError(err).Warn("es search failed, falling back to store scan")
		}
	}
	return s.Issues.Search(term, status)
}

type CreateIssueInput struct {
	Title       string
	Description string
	Tags        []string
	ImageURL    string
	Location    entity.Coordinate
	Status      entity.IssueStatus
	AuthorID    string
}

// CreateIssue validates the draft, snapshots the author's display fields and
// stores the new report with zeroed counters.
func (s *IssueService) CreateIssue(ctx context.Context, in CreateIssueInput) (*entity.Issue, error) {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	case strings.TrimSpace(in.Description) == "":
		return nil, fmt.Errorf("%w: description is required", ErrValidation)
	case in.ImageURL == "":
		return nil, fmt.Errorf("%w: image reference is required", ErrValidation)
	case in.AuthorID == "":
		return nil, fmt.Errorf("%w: author is required", ErrValidation)
	}
	status := in.Status
	if status == "" {
		status = entity.StatusPending
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, in.Status)
	}

	author, err := s.Users.GetByID(in.AuthorID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown author", ErrValidation)
		}
		return nil, err
	}

	issue := &entity.Issue{
		Title:       in.Title,
		Description: in.Description,
		Tags:        in.Tags,
		ImageURL:    in.ImageURL,
		Location:    in.Location,
		Status:      status,
		AuthorID:    author.ID,
		// Display fields are a snapshot; later profile edits do not propagate.
		AuthorUsername: author.Username,
		AuthorAvatar:   author.AvatarURL,
	}
	if err := s.Issues.Create(issue); err != nil {
		return nil, err
	}
	_ = s.indexIssue(ctx, issue)
	return issue, nil
}

type StatusUpdateInput struct {
	Status           entity.IssueStatus
	Comment          string
	AuthorityID      string
	ResolvedImageURL string
}

// UpdateIssueStatus moves an issue along its lifecycle. Only authority
// accounts may call it, and only transitions in the allowed table pass;
// every accepted change appends an immutable update record.
func (s *IssueService) UpdateIssueStatus(ctx context.Context, issueID string, in StatusUpdateInput) (*entity.Issue, error) {
	if !in.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, in.Status)
	}
	actor, err := s.Users.GetByID(in.AuthorityID)
	if err != nil || !actor.IsAuthority() {
		return nil, fmt.Errorf("%w: only authority accounts may change issue status", ErrUnauthorized)
	}

	issue, err := s.Issues.GetByID(issueID)
	if err != nil {
		return nil, err
	}
	if !issue.Status.CanTransitionTo(in.Status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, issue.Status, in.Status)
	}

	issue.Status = in.Status
	issue.Updates = append(issue.Updates, entity.IssueUpdate{
		AuthorityID: actor.ID,
		Timestamp:   time.Now().UTC(),
		Text:        in.Comment,
	})
	if in.Status == entity.StatusResolved && in.ResolvedImageURL != "" {
		issue.ResolvedImageURL = in.ResolvedImageURL
	}
	if err := s.Issues.Update(issue); err != nil {
		return nil, err
	}
	_ = s.indexIssue(ctx, issue)
	return issue, nil
}

// Upvote increments the issue's upvote counter and returns the new value.
// Counters carry no actor identity, so repeated calls keep counting.
func (s *IssueService) Upvote(ctx context.Context, issueID string) (int, error) {
	return s.Issues.IncrementUpvotes(issueID)
}

// Repost increments the issue's repost counter and returns the new value.
func (s *IssueService) Repost(ctx context.Context, issueID string) (int, error) {
	return s.Issues.IncrementReposts(issueID)
}

// UploadImage stores an issue photo in GCS and returns its public URL, to be
// referenced by a subsequent create or resolve call.
func (s *IssueService) UploadImage(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}
	id := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("issues", userID, id+ext))
	return helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
}

func (s *IssueService) indexIssue(ctx context.Context, i *entity.Issue) error {
	if s.ES == nil || s.ESIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":          i.ID,
		"title":       i.Title,
		"description": i.Description,
		"tags":        i.Tags,
		"status":      string(i.Status),
		"author_id":   i.AuthorID,
		"created_at":  i.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: i.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("issue_id", i.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("issue_id", i.ID).Warn("es index response error")
	}
	return nil
}

func (s *IssueService) searchES(ctx context.Context, term string, status entity.IssueStatus) ([]*entity.Issue, error) {
	must := []map[string]any{
		{
			"multi_match": map[string]any{
				"query":  term,
				"fields": []string{"title^2", "description", "tags"},
			},
		},
	}
	query := map[string]any{
		"query": map[string]any{"bool": map[string]any{"must": must}},
		"sort":  []map[string]any{{"created_at": map[string]any{"order": "desc"}}},
		"size":  50,
	}
	if status != "" {
		query["query"].(map[string]any)["bool"].(map[string]any)["filter"] = []map[string]any{
			{"term": map[string]any{"status": string(status)}},
		}
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	// The store stays authoritative; the index only narrows the id set.
	out := make([]*entity.Issue, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		issue, err := s.Issues.GetByID(h.ID)
		if err != nil {
			continue
		}
		out = append(out, issue)
	}
	return out, nil
}
