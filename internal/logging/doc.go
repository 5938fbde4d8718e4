// Package logging provides a simple leveled logging interface for the
// media source server.
//
// It supports the following log levels:
//   - DEBUG: Verbose debugging information (browse and resolve calls)
//   - INFO: General operational messages
//   - WARN: Warning conditions
//   - ERROR: Error conditions
//   - FATAL: Fatal errors that terminate the application
//
// The log level is read once from the DEBUG or LOG_LEVEL environment variables
// and can be changed afterwards with SetLevel.
package logging
