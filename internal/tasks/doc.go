// Package tasks drives audio tracks through the processing lifecycle with validated status transitions.
//
// # Core Operations
//
// [Workflow] wraps a [TrackStore] and exposes one method per lifecycle step:
//
//  1. [Workflow.Start] : uploaded/regenerate/error → processing
//  2. [Workflow.Complete] : processing → completed, appending the produced version and
//     recording detected metadata (bpm, key, format, bitrate, duration)
//  3. [Workflow.Fail] : any active status → error
//  4. [Workflow.Regenerate] : completed/error → regenerate, storing the settings for the next run
//  5. [Workflow.AddVersion] : append an extended version without touching status
//  6. [Workflow.RequeueFailed] : move every errored track to regenerate
//
// Every step reads the current row, checks the move with [models.Status.Transition] and writes a single
// partial update. The store itself accepts any known status; the rules live here.
//
// # Progress Reporting
//
// [Workflow.RequeueFailed] reports through a non-blocking channel. The [ProgressUpdate] struct carries
// the phase, step counters, and a message. Updates use select with default so a slow reader never
// stalls the workflow.
//
// # Processing Defaults
//
// Regeneration without explicit settings falls back to the track's stored settings, then to the
// defaults the workflow was built with (normally the [processing] section of the config file).
package tasks
