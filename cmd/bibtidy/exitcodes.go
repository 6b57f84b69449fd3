package main

// Exit codes shared by all bibtidy commands
const (
	ExitSuccess   = 0 // Success
	ExitError     = 1 // General error (invalid arguments, runtime failure)
	ExitToolError = 2 // biber failed or is not installed
	ExitDataError = 3 // Data error (malformed record, missing author)
)
