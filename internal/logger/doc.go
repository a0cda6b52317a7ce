// Package logger wraps zap for the slapaman CLI.
//
// A global sugared logger writes human-readable lines to stderr. Setup may add a
// JSON file sink rotated by lumberjack that always records debug output, which
// keeps a full trace of downloads and registry writes even when the console is
// quiet. Every service takes a context and pulls its logger from it, so names and
// key-value pairs attached with WithName and WithKV follow the operation.
package logger
