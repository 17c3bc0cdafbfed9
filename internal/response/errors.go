package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrEmailTaken         ErrCode = "EMAIL_TAKEN"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden      ErrCode = "FORBIDDEN"
	ErrRoleForbidden  ErrCode = "ROLE_FORBIDDEN"
	ErrProfileMissing ErrCode = "PROFILE_NOT_FOUND"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound         ErrCode = "NOT_FOUND"
	ErrConflict         ErrCode = "CONFLICT"
	ErrDependencyExists ErrCode = "DEPENDENCY_EXISTS"

	// ─── Admissions ────────────────────────────────────────────────────
	ErrAdmissionsClosed ErrCode = "ADMISSIONS_CLOSED"
	ErrAlreadyReviewed  ErrCode = "ALREADY_REVIEWED"

	// ─── Documents ─────────────────────────────────────────────────────
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"
	ErrTooManyFiles    ErrCode = "TOO_MANY_FILES"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrInvalidCredentials:
		return "Invalid email or password."
	case ErrSessionInvalidated:
		return "Your session has ended. Please sign in again."
	case ErrTokenRequired:
		return "Authentication token is required."
	case ErrTokenInvalid:
		return "Authentication token is invalid or expired."
	case ErrEmailTaken:
		return "An account with this email already exists."

	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrRoleForbidden:
		return "Your role does not allow this action."
	case ErrProfileMissing:
		return "Profile not found."

	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "A record with the same code already exists."
	case ErrDependencyExists:
		return "The record cannot be deleted because other records still reference it."

	case ErrAdmissionsClosed:
		return "Admissions are currently closed."
	case ErrAlreadyReviewed:
		return "This application has already been reviewed."

	case ErrUnsupportedFile:
		return "Unsupported document type. Upload PDF, JPEG or PNG files."
	case ErrFileTooLarge:
		return "Document exceeds the maximum upload size."
	case ErrTooManyFiles:
		return "Too many documents attached."

	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
