package logger

// FormatError exports the error report formatter for testing.
var FormatError = formatError
