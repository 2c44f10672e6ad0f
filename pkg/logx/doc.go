// Package logx configures remindme's structured logging.
//
// A small wrapper (logx.Logger) sits on top of zerolog to keep:
//   - Console output readable (short timestamp + short caller)
//   - File output JSON-structured
//   - An optional chat sink that mirrors warnings/errors to the operator (min-level + rate limiting)
package logx
