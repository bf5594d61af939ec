// Package models defines the records persisted by extendr and the storage contract callers depend on.
//
// Persistent entities:
//   - [User] : registered accounts; passwords are opaque strings to the store
//   - [AudioTrack] : an uploaded file plus the extended versions produced by the processing pipeline
//
// Write payloads:
//   - [InsertUser] and [InsertAudioTrack] : creation payloads
//   - [UpdateAudioTrack] : partial update where a nil field leaves the stored column untouched
//
// [Status] is the workflow state of a track. The store only checks that a status is one of the
// known values; the allowed moves between states live in [Status.CanTransitionTo] and are enforced
// by whichever component drives the workflow.
//
// [Storage] is the interface implemented by repositories.Store.
package models
