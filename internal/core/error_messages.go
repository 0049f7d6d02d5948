package core

// error_messages.go maps ingestion errors to coded, human-readable messages.
//
// Codes appear in the failed-rows export and in the run log so that a
// rejected line can be traced to its cause without reading a stack of
// driver errors.
//
// # Record Errors (REC001-REC099)
//
//	REC001 - Wrong field count: line does not have 37 fields
//	REC002 - Invalid field: a numeric column could not be parsed
//	REC003 - Duplicate id: a star with this catalog id is already stored
//	REC004 - Insert failed: the store refused the record
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate key            Patterns: "duplicate key"
//	DB002 - Unique constraint        Patterns: "unique constraint"
//	DB004 - Connection refused       Patterns: "connection refused"
//	DB005 - Connection reset         Patterns: "connection reset"
//	DB006 - Timeout                  Patterns: "timeout", "deadline exceeded"
//	DB008 - Database locked          Patterns: "database is locked"
//	DB009 - Missing table            Patterns: "no such table", "sqlstate 42p01"
//	DB010 - Missing database         Patterns: "sqlstate 3d000"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - Catalog not found      Patterns: "no such file"
//
// # Default Error (ERR000)
//
// Typed record errors are matched with errors.As before any pattern; the
// remaining patterns are matched case-insensitively with strings.Contains,
// first match wins.

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides a readable error description with a support code.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Error code for reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A record with this ID already exists",
			Action:  "Check the catalog for repeated ids",
			Code:    "DB001",
		},
	},
	{
		pattern: "unique constraint",
		msg: UserMessage{
			Message: "This value must be unique but already exists",
			Action:  "Check the catalog for repeated ids",
			Code:    "DB002",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Verify DATABASE_URL and that the server is running",
			Code:    "DB004",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Run the ingestion again",
			Code:    "DB005",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Raise DB_CONNECT_TIMEOUT or check the database load",
			Code:    "DB006",
		},
	},
	{
		pattern: "deadline exceeded",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Raise DB_CONNECT_TIMEOUT or check the database load",
			Code:    "DB006",
		},
	},
	{
		pattern: "database is locked",
		msg: UserMessage{
			Message: "The SQLite file is locked by another process",
			Action:  "Close other programs using STORE_PATH",
			Code:    "DB008",
		},
	},
	{
		pattern: "no such table",
		msg: UserMessage{
			Message: "The stars table does not exist",
			Action:  "Run the ingestion so the schema is created first",
			Code:    "DB009",
		},
	},
	{
		pattern: "sqlstate 42p01", // undefined_table
		msg: UserMessage{
			Message: "The stars table does not exist",
			Action:  "Run the ingestion so the schema is created first",
			Code:    "DB009",
		},
	},
	{
		pattern: "sqlstate 3d000", // invalid_catalog_name
		msg: UserMessage{
			Message: "The database named in DATABASE_URL does not exist",
			Action:  "Create the database or fix DATABASE_URL",
			Code:    "DB010",
		},
	},
	{
		pattern: "no such file",
		msg: UserMessage{
			Message: "Catalog file not found",
			Action:  "Set CATALOG_PATH to the HYG csv file",
			Code:    "FILE001",
		},
	},
}

var (
	schemaMessage = UserMessage{
		Message: "Line does not have the expected number of fields",
		Action:  "Check for embedded commas or truncated lines",
		Code:    "REC001",
	}
	parseMessage = UserMessage{
		Message: "A numeric field could not be parsed",
		Action:  "Fix the value in the named column",
		Code:    "REC002",
	}
	duplicateMessage = UserMessage{
		Message: "A star with this catalog id is already stored",
		Action:  "Remove the repeated id or use INGEST_KEY_POLICY=auto",
		Code:    "REC003",
	}
	storeMessage = UserMessage{
		Message: "The store refused the record",
		Action:  "See the reason column for the database error",
		Code:    "REC004",
	}
	defaultMessage = UserMessage{
		Message: "An unexpected error occurred",
		Action:  "Check the log for the technical error",
		Code:    "ERR000",
	}
)

// MapError converts an error into a UserMessage.
// Returns an empty UserMessage for nil.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var (
		se *SchemaError
		pe *ParseError
		st *StoreError
	)
	switch {
	case errors.As(err, &se):
		return schemaMessage
	case errors.As(err, &pe):
		return parseMessage
	case errors.As(err, &st):
		if isDuplicate(st.Err) {
			return duplicateMessage
		}
		if msg, ok := matchPattern(st.Err); ok {
			return msg
		}
		return storeMessage
	}

	if msg, ok := matchPattern(err); ok {
		return msg
	}
	return defaultMessage
}

func matchPattern(err error) (UserMessage, bool) {
	if err == nil {
		return UserMessage{}, false
	}
	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg, true
		}
	}
	return UserMessage{}, false
}

func isDuplicate(err error) bool {
	msg, ok := matchPattern(err)
	return ok && (msg.Code == "DB001" || msg.Code == "DB002")
}

// FormatUserError formats err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}
