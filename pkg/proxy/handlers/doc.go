// Package handlers implements the gateway's HTTP endpoints: chat
// completion (plain and streaming), capacity reporting, usage history,
// and health.
package handlers
