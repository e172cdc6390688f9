// Package pipeline turns a video file into an SRT subtitle.
//
// Service.Generate runs the stages in order: precondition, lock, preflight,
// extract, submit, poll, normalize, render, history and publish. Every stage
// tags the context so log lines carry run_id and stage, and the first error
// ends the run. A failed run never leaves a half-written subtitle behind; a
// subtitle from an earlier run at the same path is reported and, when
// configured, removed.
//
// Mock runs skip extraction and the remote service and feed the built-in
// fixture payload through the same normalize and render stages.
package pipeline
