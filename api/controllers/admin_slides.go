package controllers

import (
	"net/http"

	"github.com/rekhigroup/livplus-backend/api/responses"
	"github.com/rekhigroup/livplus-backend/api/validators"
	slide "github.com/rekhigroup/livplus-backend/internal/slides"
	pkgerrors "github.com/rekhigroup/livplus-backend/pkg/errors"
	"github.com/rekhigroup/livplus-backend/pkg/logger"
)

type createSlideRequest struct {
	Heading    string `json:"heading" validate:"required,max=200"`
	ButtonText string `json:"button_text" validate:"required,max=60"`
	ButtonHref string `json:"button_href" validate:"required,max=500"`
	ImageSrc   string `json:"image_src" validate:"required,max=500"`
	ImageHint  string `json:"image_hint" validate:"omitempty,max=200"`
}

type updateSlideRequest struct {
	Heading    *string `json:"heading" validate:"omitempty,max=200"`
	ButtonText *string `json:"button_text" validate:"omitempty,max=60"`
	ButtonHref *string `json:"button_href" validate:"omitempty,max=500"`
	ImageSrc   *string `json:"image_src" validate:"omitempty,max=500"`
	ImageHint  *string `json:"image_hint" validate:"omitempty,max=200"`
}

// AdminCreateHeroSlide adds a carousel slide.
func AdminCreateHeroSlide(svc slide.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "slide service unavailable"))
			return
		}

		var body createSlideRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Create(r.Context(), slide.CreateInput{
			Heading:    validators.SanitizeString(body.Heading, 200),
			ButtonText: validators.SanitizeString(body.ButtonText, 60),
			ButtonHref: validators.SanitizeString(body.ButtonHref, 500),
			ImageSrc:   validators.SanitizeString(body.ImageSrc, 500),
			ImageHint:  validators.SanitizeString(body.ImageHint, 200),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, row)
	}
}

// AdminUpdateHeroSlide applies partial changes to a slide.
func AdminUpdateHeroSlide(svc slide.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "slide service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "slideId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateSlideRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Update(r.Context(), id, slide.UpdateInput{
			Heading:    body.Heading,
			ButtonText: body.ButtonText,
			ButtonHref: body.ButtonHref,
			ImageSrc:   body.ImageSrc,
			ImageHint:  body.ImageHint,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, row)
	}
}

// AdminDeleteHeroSlide removes a slide.
func AdminDeleteHeroSlide(svc slide.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "slide service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "slideId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
