package core

// error_messages.go maps technical errors to messages an uploader can act on.
//
// # Error Codes
//
// File errors (FILE001-FILE099):
//
//	FILE001 - File too large        ("file too large", "request body too large")
//	FILE002 - Unreadable file       ("invalid csv", "invalid xlsx", "invalid gzip")
//	FILE003 - Encoding error        ("encoding error")
//	FILE004 - No file               ("no file provided")
//	FILE005 - Empty file            ("empty file")
//	FILE006 - Unsupported type      ("unsupported file type")
//	FILE007 - No columns            ("no columns found")
//
// Upload errors (UPL001-UPL099):
//
//	UPL002 - System busy            ("too many uploads")
//	UPL004 - Request cancelled      ("context canceled")
//	UPL005 - Request timeout        ("context deadline exceeded")
//
// History errors (HIST001-HIST099):
//
//	HIST001 - Run not found         ("history run not found")
//	HIST002 - Bad run id            ("invalid run id")
//	HIST003 - History unavailable   ("record run", "list runs", "connection refused")
//
// Rate limiting:
//
//	RATE001 - Too many requests     ("rate limit")
//
// ERR000 is the fallback. When a user quotes it, the technical error is in
// the server log next to the request_id.
//
// Patterns are matched case-insensitively with strings.Contains and the
// first match wins, so specific patterns precede general ones.

import (
	"fmt"
	"strings"
)

// UserMessage is an error rendered for the person who uploaded the file.
type UserMessage struct {
	Message string // what happened
	Action  string // what to do about it
	Code    string // support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var (
	msgUnreadable = UserMessage{
		Message: "The file could not be read as a table",
		Action:  "Check that the file is a valid .csv or .xlsx export",
		Code:    "FILE002",
	}
	msgHistoryDown = UserMessage{
		Message: "Classification history is unavailable",
		Action:  "Your results are unaffected. Please try again later",
		Code:    "HIST003",
	}
)

var errorPatterns = []errorPattern{
	// File errors
	{"file too large", UserMessage{
		Message: "File exceeds the maximum upload size",
		Action:  "Upload a smaller file or compress it as .csv.gz",
		Code:    "FILE001",
	}},
	{"request body too large", UserMessage{
		Message: "File exceeds the maximum upload size",
		Action:  "Upload a smaller file or compress it as .csv.gz",
		Code:    "FILE001",
	}},
	{"invalid csv", msgUnreadable},
	{"invalid xlsx", msgUnreadable},
	{"invalid gzip", msgUnreadable},
	{"encoding error", UserMessage{
		Message: "File contains invalid characters",
		Action:  "Save the file with UTF-8 encoding",
		Code:    "FILE003",
	}},
	{"no file provided", UserMessage{
		Message: "No file was selected",
		Action:  "Choose a .csv or .xlsx file to upload",
		Code:    "FILE004",
	}},
	{"empty file", UserMessage{
		Message: "The uploaded file is empty",
		Action:  "Upload a file with a header row",
		Code:    "FILE005",
	}},
	{"unsupported file type", UserMessage{
		Message: "File type not supported. Please upload .xlsx or .csv files.",
		Action:  "Export the data as .csv or .xlsx and upload again",
		Code:    "FILE006",
	}},
	{"no columns found", UserMessage{
		Message: "No columns were found in the file",
		Action:  "Make sure the first row contains column headers",
		Code:    "FILE007",
	}},

	// Upload errors
	{"too many uploads", UserMessage{
		Message: "System is busy processing other uploads",
		Action:  "Please wait a moment and try again",
		Code:    "UPL002",
	}},
	{"context canceled", UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "UPL004",
	}},
	{"context deadline exceeded", UserMessage{
		Message: "Request timed out",
		Action:  "Try a smaller file or check your connection",
		Code:    "UPL005",
	}},

	// History errors
	{"history run not found", UserMessage{
		Message: "That classification run was not found",
		Action:  "It may have been pruned. Upload the file again",
		Code:    "HIST001",
	}},
	{"invalid run id", UserMessage{
		Message: "The run ID is not valid",
		Action:  "Use an ID from the history list",
		Code:    "HIST002",
	}},
	{"record run", msgHistoryDown},
	{"list runs", msgHistoryDown},
	{"connection refused", msgHistoryDown},

	// Rate limiting
	{"rate limit", UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-facing message. A nil
// error maps to the zero UserMessage; an unknown error maps to ERR000.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// FormatUserError renders "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matched a known pattern.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user message.
// Error returns the user message; Unwrap exposes the technical error.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err, or returns nil for a nil error.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{Technical: err, User: MapError(err)}
}
