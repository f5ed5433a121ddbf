package controllers

import (
	"net/http"

	"github.com/rekhigroup/livplus-backend/api/responses"
	"github.com/rekhigroup/livplus-backend/api/validators"
	"github.com/rekhigroup/livplus-backend/internal/community"
	pkgerrors "github.com/rekhigroup/livplus-backend/pkg/errors"
	"github.com/rekhigroup/livplus-backend/pkg/logger"
)

type createThreadRequest struct {
	Author    string   `json:"author" validate:"required,max=120"`
	AvatarURL string   `json:"avatar_url" validate:"omitempty,max=500"`
	Question  string   `json:"question" validate:"required,max=300"`
	Details   string   `json:"details" validate:"omitempty,max=5000"`
	Tags      []string `json:"tags" validate:"omitempty,dive,max=40"`
}

type createReplyRequest struct {
	Author    string `json:"author" validate:"required,max=120"`
	AvatarURL string `json:"avatar_url" validate:"omitempty,max=500"`
	Text      string `json:"text" validate:"required,max=5000"`
}

// ListCommunityThreads returns the Q&A board, newest first.
func ListCommunityThreads(svc community.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "community service unavailable"))
			return
		}

		rows, err := svc.ListThreads(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

// GetCommunityThread returns one thread with its replies.
func GetCommunityThread(svc community.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "community service unavailable"))
			return
		}

		threadID, err := validators.ParseUUIDParam(r, "threadId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.GetThread(r.Context(), threadID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, row)
	}
}

// CreateCommunityThread posts a new question.
func CreateCommunityThread(svc community.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "community service unavailable"))
			return
		}

		var body createThreadRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.CreateThread(r.Context(), community.ThreadInput{
			Author:    validators.SanitizeString(body.Author, 120),
			AvatarURL: validators.SanitizeString(body.AvatarURL, 500),
			Question:  validators.SanitizeString(body.Question, 300),
			Details:   validators.SanitizeString(body.Details, 5000),
			Tags:      body.Tags,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, row)
	}
}

// ListCommunityReplies returns a thread's answers in posting order.
func ListCommunityReplies(svc community.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "community service unavailable"))
			return
		}

		threadID, err := validators.ParseUUIDParam(r, "threadId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListReplies(r.Context(), threadID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

// CreateCommunityReply posts an answer to a thread.
func CreateCommunityReply(svc community.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "community service unavailable"))
			return
		}

		threadID, err := validators.ParseUUIDParam(r, "threadId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createReplyRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.AddReply(r.Context(), threadID, community.ReplyInput{
			Author:    validators.SanitizeString(body.Author, 120),
			AvatarURL: validators.SanitizeString(body.AvatarURL, 500),
			Text:      validators.SanitizeString(body.Text, 5000),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, row)
	}
}

// LikeCommunityThread bumps a thread's like counter.
func LikeCommunityThread(svc community.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "community service unavailable"))
			return
		}

		threadID, err := validators.ParseUUIDParam(r, "threadId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.LikeThread(r.Context(), threadID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "liked"})
	}
}

// RecordCommunityThreadView bumps a thread's view counter.
func RecordCommunityThreadView(svc community.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "community service unavailable"))
			return
		}

		threadID, err := validators.ParseUUIDParam(r, "threadId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RecordView(r.Context(), threadID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "viewed"})
	}
}
