package community

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/rekhigroup/livplus-backend/pkg/db"
	"github.com/rekhigroup/livplus-backend/pkg/db/models"
	"github.com/rekhigroup/livplus-backend/pkg/enums"
	pkgerrors "github.com/rekhigroup/livplus-backend/pkg/errors"
	"github.com/rekhigroup/livplus-backend/pkg/outbox"
)

// ThreadInput holds the validated payload to post a question.
type ThreadInput struct {
	Author    string
	AvatarURL string
	Question  string
	Details   string
	Tags      []string
}

// ReplyInput holds the validated payload to answer a thread.
type ReplyInput struct {
	Author    string
	AvatarURL string
	Text      string
}

// Service exposes the community Q&A board.
type Service interface {
	ListThreads(ctx context.Context) ([]models.CommunityThread, error)
	GetThread(ctx context.Context, id uuid.UUID) (*models.CommunityThread, error)
	CreateThread(ctx context.Context, input ThreadInput) (*models.CommunityThread, error)
	ListReplies(ctx context.Context, threadID uuid.UUID) ([]models.CommunityReply, error)
	AddReply(ctx context.Context, threadID uuid.UUID, input ReplyInput) (*models.CommunityReply, error)
	LikeThread(ctx context.Context, threadID uuid.UUID) error
	RecordView(ctx context.Context, threadID uuid.UUID) error
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.CatalogEvent) error
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	events   eventEmitter
}

// NewService constructs a community service instance.
func NewService(repo *Repository, dbClient *db.Client, events eventEmitter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("community repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if events == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	return &service{repo: repo, dbClient: dbClient, events: events}, nil
}

func (s *service) ListThreads(ctx context.Context) ([]models.CommunityThread, error) {
	rows, err := s.repo.ListThreads(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing threads")
	}
	return rows, nil
}

func (s *service) GetThread(ctx context.Context, id uuid.UUID) (*models.CommunityThread, error) {
	row, err := s.repo.FindThread(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "thread not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading thread")
	}
	return row, nil
}

func (s *service) CreateThread(ctx context.Context, input ThreadInput) (*models.CommunityThread, error) {
	if strings.TrimSpace(input.Author) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "author is required")
	}
	if strings.TrimSpace(input.Question) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "question is required")
	}

	row := &models.CommunityThread{
		ID:        uuid.New(),
		Author:    strings.TrimSpace(input.Author),
		AvatarURL: strings.TrimSpace(input.AvatarURL),
		Question:  strings.TrimSpace(input.Question),
		Details:   strings.TrimSpace(input.Details),
		Tags:      pq.StringArray(normalizeTags(input.Tags)),
	}
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).CreateThread(ctx, row); err != nil {
			return err
		}
		return s.events.Emit(ctx, tx, outbox.CatalogEvent{
			EventType:   enums.CatalogEventThreads,
			AggregateID: row.ID,
			Data:        map[string]string{"action": "created"},
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating thread")
	}
	return row, nil
}

func (s *service) ListReplies(ctx context.Context, threadID uuid.UUID) ([]models.CommunityReply, error) {
	if err := s.requireThread(ctx, threadID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListReplies(ctx, threadID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing replies")
	}
	return rows, nil
}

func (s *service) AddReply(ctx context.Context, threadID uuid.UUID, input ReplyInput) (*models.CommunityReply, error) {
	if strings.TrimSpace(input.Author) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "author is required")
	}
	if strings.TrimSpace(input.Text) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reply text is required")
	}
	if err := s.requireThread(ctx, threadID); err != nil {
		return nil, err
	}

	row := &models.CommunityReply{
		ID:        uuid.New(),
		ThreadID:  threadID,
		Author:    strings.TrimSpace(input.Author),
		AvatarURL: strings.TrimSpace(input.AvatarURL),
		Text:      strings.TrimSpace(input.Text),
	}
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).CreateReply(ctx, row); err != nil {
			return err
		}
		return s.events.Emit(ctx, tx, outbox.CatalogEvent{
			EventType:   enums.CatalogEventThreads,
			AggregateID: threadID,
			Data:        map[string]string{"action": "replied"},
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving reply")
	}
	return row, nil
}

func (s *service) LikeThread(ctx context.Context, threadID uuid.UUID) error {
	ok, err := s.repo.IncrementLikes(ctx, threadID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "liking thread")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "thread not found")
	}
	return nil
}

// RecordView counts a thread page view. Views are best-effort telemetry and
// do not emit change events.
func (s *service) RecordView(ctx context.Context, threadID uuid.UUID) error {
	ok, err := s.repo.IncrementViews(ctx, threadID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recording view")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "thread not found")
	}
	return nil
}

func (s *service) requireThread(ctx context.Context, threadID uuid.UUID) error {
	exists, err := s.repo.ThreadExists(ctx, threadID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading thread")
	}
	if !exists {
		return pkgerrors.New(pkgerrors.CodeNotFound, "thread not found")
	}
	return nil
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		out = append(out, tag)
	}
	return out
}
