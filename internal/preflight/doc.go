// Package preflight provides readiness checks for the filesystem paths,
// binaries and credentials autosrt depends on.
//
// These checks run in two contexts:
//   - The pipeline calls RunAll before extracting audio. If any check fails
//     the run stops before ffmpeg or the transcription service is touched.
//   - The CLI "autosrt check" command renders every result, including the
//     optional reachability probes that the pipeline skips.
//
// Each check is gated by its config toggle; disabled features are skipped.
package preflight
