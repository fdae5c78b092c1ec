// Package services defines shared utilities consumed by the notifier, the
// settings store, and the daemon API.
//
// Key responsibilities:
//   - Context helpers that stamp build IDs, project IDs, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that classify failures so
//     the API can map them onto HTTP status codes.
package services
