package auth

// ErrorCode is the reason code carried to the sign-in error page.
type ErrorCode string

// Sign-in error codes.
const (
	ErrorAccessDenied  ErrorCode = "AccessDenied"
	ErrorConfiguration ErrorCode = "Configuration"
	ErrorVerification  ErrorCode = "Verification"
	ErrorDefault       ErrorCode = "Default"
)

// providerAccessDenied is the OAuth 2.0 error the provider returns when the
// user declines consent.
const providerAccessDenied = "access_denied"

// ErrorCodeFromProvider maps an OAuth error parameter to an ErrorCode.
func ErrorCodeFromProvider(providerError string) ErrorCode {
	if providerError == providerAccessDenied {
		return ErrorAccessDenied
	}
	return ErrorDefault
}

// ParseErrorCode returns the ErrorCode named by s, or ErrorDefault for
// anything unrecognised.
func ParseErrorCode(s string) ErrorCode {
	switch code := ErrorCode(s); code {
	case ErrorAccessDenied, ErrorConfiguration, ErrorVerification:
		return code
	default:
		return ErrorDefault
	}
}

// Message returns the human-readable text shown for the code.
func (c ErrorCode) Message() string {
	switch c {
	case ErrorAccessDenied:
		return "Access denied. This account is not permitted to sign in."
	case ErrorConfiguration:
		return "Sign-in is not configured on this server."
	case ErrorVerification:
		return "The sign-in request expired or was already used. Please try again."
	default:
		return "Something went wrong while signing in. Please try again."
	}
}
