// Package volcengine talks to the Volcengine "bigmodel" audio transcription
// API.
//
// Submit uploads base64-encoded audio and returns a TaskHandle. Poll queries
// the task until the service reports a terminal status, returning the raw
// result payload and token usage. Status is carried in the X-Api-Status-Code
// response header rather than the HTTP status line. Polling runs as a small
// state machine (pending, succeeded, failed) with an injectable sleeper so
// tests can drive many iterations without waiting.
package volcengine
