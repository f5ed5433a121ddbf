package slide

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rekhigroup/livplus-backend/pkg/db"
	"github.com/rekhigroup/livplus-backend/pkg/db/models"
	"github.com/rekhigroup/livplus-backend/pkg/enums"
	pkgerrors "github.com/rekhigroup/livplus-backend/pkg/errors"
	"github.com/rekhigroup/livplus-backend/pkg/outbox"
)

// CreateInput holds the validated payload to create a hero slide.
type CreateInput struct {
	Heading    string
	ButtonText string
	ButtonHref string
	ImageSrc   string
	ImageHint  string
}

// UpdateInput holds optional mutation values for a hero slide.
type UpdateInput struct {
	Heading    *string
	ButtonText *string
	ButtonHref *string
	ImageSrc   *string
	ImageHint  *string
}

// Service exposes the homepage carousel for the storefront and slide
// management for the admin console.
type Service interface {
	List(ctx context.Context) ([]models.HeroSlide, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.HeroSlide, error)
	Create(ctx context.Context, input CreateInput) (*models.HeroSlide, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.HeroSlide, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.CatalogEvent) error
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	events   eventEmitter
}

// NewService constructs a hero slide service instance.
func NewService(repo *Repository, dbClient *db.Client, events eventEmitter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("slide repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if events == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	return &service{repo: repo, dbClient: dbClient, events: events}, nil
}

func (s *service) List(ctx context.Context) ([]models.HeroSlide, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing hero slides")
	}
	return rows, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.HeroSlide, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "hero slide not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading hero slide")
	}
	return row, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.HeroSlide, error) {
	if err := validateSlide(input.Heading, input.ButtonText, input.ButtonHref, input.ImageSrc); err != nil {
		return nil, err
	}

	row := &models.HeroSlide{
		ID:         uuid.New(),
		Heading:    strings.TrimSpace(input.Heading),
		ButtonText: strings.TrimSpace(input.ButtonText),
		ButtonHref: strings.TrimSpace(input.ButtonHref),
		ImageSrc:   strings.TrimSpace(input.ImageSrc),
		ImageHint:  strings.TrimSpace(input.ImageHint),
	}
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Create(ctx, row); err != nil {
			return err
		}
		return s.events.Emit(ctx, tx, outbox.CatalogEvent{
			EventType:   enums.CatalogEventSlides,
			AggregateID: row.ID,
			Data:        map[string]string{"action": "created", "heading": row.Heading},
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating hero slide")
	}
	return row, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.HeroSlide, error) {
	row, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Heading != nil {
		row.Heading = strings.TrimSpace(*input.Heading)
	}
	if input.ButtonText != nil {
		row.ButtonText = strings.TrimSpace(*input.ButtonText)
	}
	if input.ButtonHref != nil {
		row.ButtonHref = strings.TrimSpace(*input.ButtonHref)
	}
	if input.ImageSrc != nil {
		row.ImageSrc = strings.TrimSpace(*input.ImageSrc)
	}
	if input.ImageHint != nil {
		row.ImageHint = strings.TrimSpace(*input.ImageHint)
	}
	if err := validateSlide(row.Heading, row.ButtonText, row.ButtonHref, row.ImageSrc); err != nil {
		return nil, err
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Update(ctx, row); err != nil {
			return err
		}
		return s.events.Emit(ctx, tx, outbox.CatalogEvent{
			EventType:   enums.CatalogEventSlides,
			AggregateID: row.ID,
			Data:        map[string]string{"action": "updated", "heading": row.Heading},
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating hero slide")
	}
	return row, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	row, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Delete(ctx, id); err != nil {
			return err
		}
		return s.events.Emit(ctx, tx, outbox.CatalogEvent{
			EventType:   enums.CatalogEventSlides,
			AggregateID: id,
			Data:        map[string]string{"action": "deleted", "heading": row.Heading},
		})
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting hero slide")
	}
	return nil
}

func validateSlide(heading, buttonText, buttonHref, imageSrc string) error {
	if strings.TrimSpace(heading) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "heading is required")
	}
	if strings.TrimSpace(buttonText) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "button text is required")
	}
	if strings.TrimSpace(buttonHref) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "button href is required")
	}
	if strings.TrimSpace(imageSrc) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "image src is required")
	}
	return nil
}
