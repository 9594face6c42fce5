package handler

import (
	"errors"

	"github.com/mealbridge/api/internal/model"
	"github.com/mealbridge/api/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// This centralizes error handling so every handler maps the same sentinel
// to the same HTTP status.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	// Services may return a ProblemDetails directly for field validation
	var problem *model.ProblemDetails
	if errors.As(err, &problem) {
		return problem
	}

	switch {
	// ===== Authentication Errors → 401 =====
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidRefreshToken),
		errors.Is(err, service.ErrRefreshTokenExpired),
		errors.Is(err, service.ErrRefreshTokenRevoked):
		return model.NewUnauthorizedError(err.Error())

	// ===== Authorization Errors → 403 =====
	case errors.Is(err, service.ErrUserInactive),
		errors.Is(err, service.ErrNotRequestOwner),
		errors.Is(err, service.ErrNotCollectionOwner),
		errors.Is(err, service.ErrNotSlotOwner),
		errors.Is(err, service.ErrNotTaskParty),
		errors.Is(err, service.ErrNotParticipant),
		errors.Is(err, service.ErrNotSender):
		return model.NewForbiddenError(err.Error())

	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrUserNotFound):
		return model.NewNotFoundError("user")
	case errors.Is(err, service.ErrRequestNotFound):
		return model.NewNotFoundError("event request")
	case errors.Is(err, service.ErrAssignmentNotFound):
		return model.NewNotFoundError("assignment")
	case errors.Is(err, service.ErrHostNotFound):
		return model.NewNotFoundError("host")
	case errors.Is(err, service.ErrContactNotFound):
		return model.NewNotFoundError("contact")
	case errors.Is(err, service.ErrRecipientNotFound):
		return model.NewNotFoundError("recipient")
	case errors.Is(err, service.ErrCollectionNotFound):
		return model.NewNotFoundError("collection")
	case errors.Is(err, service.ErrBatchNotFound):
		return model.NewNotFoundError("import batch")
	case errors.Is(err, service.ErrSlotNotFound):
		return model.NewNotFoundError("availability slot")
	case errors.Is(err, service.ErrTaskNotFound):
		return model.NewNotFoundError("task")
	case errors.Is(err, service.ErrConversationNotFound):
		return model.NewNotFoundError("conversation")
	case errors.Is(err, service.ErrMessageNotFound):
		return model.NewNotFoundError("message")
	case errors.Is(err, service.ErrChallengeNotFound):
		return model.NewNotFoundError("challenge")
	case errors.Is(err, service.ErrSuggestionNotFound):
		return model.NewNotFoundError("suggestion")
	case errors.Is(err, service.ErrCoolerNotFound):
		return model.NewNotFoundError("cooler")
	case errors.Is(err, service.ErrPromotionNotFound):
		return model.NewNotFoundError("promotion")

	// ===== Conflict Errors → 409 =====
	case errors.Is(err, service.ErrEmailAlreadyExists),
		errors.Is(err, service.ErrHostNameExists),
		errors.Is(err, service.ErrDuplicateCollection),
		errors.Is(err, service.ErrAlreadyAssigned),
		errors.Is(err, service.ErrVolunteerUnavailable),
		errors.Is(err, service.ErrSlotOverlap),
		errors.Is(err, service.ErrAlreadyCompleted),
		errors.Is(err, service.ErrAlreadyVoted),
		errors.Is(err, service.ErrCoolerUnavailable),
		errors.Is(err, service.ErrCoolerNotCheckedOut):
		return model.NewConflictError(err.Error())

	// ===== Transition Errors → 422 =====
	case errors.Is(err, service.ErrInvalidTransition):
		return &model.ProblemDetails{
			Type:   "https://api.mealbridge.org/errors/invalid-transition",
			Title:  "Invalid Status Transition",
			Status: 422,
			Detail: err.Error(),
			Code:   model.ErrCodeInvalidTransition,
		}

	// ===== Validation Errors → 422 =====
	case errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, service.ErrPasswordTooLong):
		return model.NewValidationError([]model.FieldError{{Field: "credentials", Message: err.Error()}})
	case errors.Is(err, service.ErrInvalidRole):
		return model.NewValidationError([]model.FieldError{{Field: "role", Message: err.Error()}})
	case errors.Is(err, service.ErrDeclineReasonMissing):
		return model.NewValidationError([]model.FieldError{{Field: "decline_reason", Message: err.Error()}})
	case errors.Is(err, service.ErrLiaisonNotEligible):
		return model.NewValidationError([]model.FieldError{{Field: "user_id", Message: err.Error()}})
	case errors.Is(err, service.ErrNotScheduled):
		return model.NewValidationError([]model.FieldError{{Field: "status", Message: err.Error()}})
	case errors.Is(err, service.ErrInvalidStaffRole):
		return model.NewValidationError([]model.FieldError{{Field: "role", Message: err.Error()}})
	case errors.Is(err, service.ErrEventDateInPast):
		return model.NewValidationError([]model.FieldError{{Field: "event_date", Message: err.Error()}})
	case errors.Is(err, service.ErrHostInactive):
		return model.NewValidationError([]model.FieldError{{Field: "host_id", Message: err.Error()}})
	case errors.Is(err, service.ErrNegativeCount),
		errors.Is(err, service.ErrZeroCount):
		return model.NewValidationError([]model.FieldError{{Field: "counts", Message: err.Error()}})
	case errors.Is(err, service.ErrInvalidTaskStatus):
		return model.NewValidationError([]model.FieldError{{Field: "status", Message: err.Error()}})
	case errors.Is(err, service.ErrEmptyMessageBody):
		return model.NewValidationError([]model.FieldError{{Field: "body", Message: err.Error()}})
	case errors.Is(err, service.ErrNoParticipants):
		return model.NewValidationError([]model.FieldError{{Field: "participants", Message: err.Error()}})
	case errors.Is(err, service.ErrChallengeInactive):
		return model.NewValidationError([]model.FieldError{{Field: "challenge_id", Message: err.Error()}})
	case errors.Is(err, service.ErrDeleteWindowExpired):
		return model.NewValidationError([]model.FieldError{{Field: "message_id", Message: err.Error()}})
	case errors.Is(err, service.ErrInvalidStopKind):
		return model.NewValidationError([]model.FieldError{{Field: "kind", Message: err.Error()}})
	case errors.Is(err, service.ErrNoRoutableStops):
		return model.NewValidationError([]model.FieldError{{Field: "ids", Message: err.Error()}})
	}

	// Anything unmapped is an internal error; don't leak details
	return model.NewInternalError("")
}
