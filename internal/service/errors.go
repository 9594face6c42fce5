package service

import "errors"

// Centralized service layer errors.
// All errors returned by service methods are defined here so handler-side
// mapping to HTTP status codes stays in one place.

// ===== Authentication Errors =====
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is deactivated")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong    = errors.New("password must be at most 128 characters")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrInvalidRole        = errors.New("invalid role")
)

// ===== Token Errors =====
var (
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrRefreshTokenRevoked = errors.New("refresh token revoked")
)

// ===== Event Request Errors =====
var (
	ErrRequestNotFound      = errors.New("event request not found")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrDeclineReasonMissing = errors.New("decline reason is required")
	ErrNotRequestOwner      = errors.New("not the owner of this request")
	ErrLiaisonNotEligible   = errors.New("liaison must be a coordinator or admin")
	ErrNotScheduled         = errors.New("request is not scheduled")
	ErrAlreadyAssigned      = errors.New("user already assigned to this request")
	ErrInvalidStaffRole     = errors.New("invalid staffing role")
	ErrAssignmentNotFound   = errors.New("assignment not found")
	ErrEventDateInPast      = errors.New("event date must be in the future")
	ErrVolunteerUnavailable = errors.New("volunteer has no availability slot covering the event time")
)

// ===== Host and Recipient Errors =====
var (
	ErrHostNotFound      = errors.New("host not found")
	ErrHostInactive      = errors.New("host is inactive")
	ErrHostNameExists    = errors.New("a host with this name already exists")
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrContactNotFound   = errors.New("contact not found")
)

// ===== Collection Errors =====
var (
	ErrCollectionNotFound  = errors.New("collection not found")
	ErrNegativeCount       = errors.New("sandwich counts must be non-negative")
	ErrZeroCount           = errors.New("at least one sandwich count must be positive")
	ErrDuplicateCollection = errors.New("an identical collection already exists for this host and date")
	ErrNotCollectionOwner  = errors.New("not the logger of this collection")
	ErrBatchNotFound       = errors.New("import batch not found")
)

// ===== Availability Errors =====
var (
	ErrSlotNotFound = errors.New("availability slot not found")
	ErrSlotOverlap  = errors.New("slot overlaps an existing slot")
	ErrNotSlotOwner = errors.New("not the owner of this slot")
)

// ===== Task Errors =====
var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrInvalidTaskStatus = errors.New("invalid task status")
	ErrNotTaskParty      = errors.New("not the creator or an assignee of this task")
)

// ===== Messaging Errors =====
var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrMessageNotFound      = errors.New("message not found")
	ErrNotParticipant       = errors.New("not a participant in this conversation")
	ErrNotSender            = errors.New("not the sender of this message")
	ErrDeleteWindowExpired  = errors.New("message delete window has expired")
	ErrEmptyMessageBody     = errors.New("message body is required")
	ErrNoParticipants       = errors.New("conversation needs at least two participants")
)

// ===== Onboarding Errors =====
var (
	ErrChallengeNotFound = errors.New("challenge not found")
	ErrChallengeInactive = errors.New("challenge is no longer active")
	ErrAlreadyCompleted  = errors.New("challenge already completed")
)

// ===== Support Errors =====
var (
	ErrSuggestionNotFound  = errors.New("suggestion not found")
	ErrAlreadyVoted        = errors.New("already voted for this suggestion")
	ErrCoolerNotFound      = errors.New("cooler not found")
	ErrCoolerUnavailable   = errors.New("cooler is not available")
	ErrCoolerNotCheckedOut = errors.New("cooler is not checked out")
	ErrPromotionNotFound   = errors.New("promotion not found")
)

// ===== Route Errors =====
var (
	ErrNoRoutableStops = errors.New("no stops with coordinates to route")
	ErrInvalidStopKind = errors.New("kind must be \"hosts\" or \"recipients\"")
)
