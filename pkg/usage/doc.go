// Package usage records request outcomes to SQLite for offline auditing.
//
// The store holds finished-request history only; admission state lives in
// memory and is never persisted. Records age out via a cron-scheduled
// retention sweep.
package usage
