// package models defines the data model for the audio track store
package models

// Model defines the base interface for all write payloads in the store.
type Model interface {
	Validate() error // Validate checks if the model's data is valid and returns an error if not
}

var (
	_ Model = InsertUser{}
	_ Model = InsertAudioTrack{}
	_ Model = UpdateAudioTrack{}
	_ Model = ProcessingSettings{}
)

// Storage defines the record store used by the API layer and the processing pipeline.
//
// Lookups return a nil record and a nil error when no row matches.
type Storage interface {
	GetUser(id int64) (*User, error)                                        // GetUser looks a user up by primary key
	GetUserByUsername(username string) (*User, error)                       // GetUserByUsername looks a user up by unique username
	CreateUser(user InsertUser) (*User, error)                              // CreateUser inserts a user and returns it with its id
	GetAudioTrack(id int64) (*AudioTrack, error)                            // GetAudioTrack fetches a decoded track
	CreateAudioTrack(track InsertAudioTrack) (*AudioTrack, error)           // CreateAudioTrack inserts a track and returns the decoded row
	UpdateAudioTrack(id int64, patch UpdateAudioTrack) (*AudioTrack, error) // UpdateAudioTrack applies a partial update
	GetAudioTracksByUserID(userID int64) ([]*AudioTrack, error)             // GetAudioTracksByUserID lists a user's tracks
	DeleteAllUserTracks(userID int64) error                                 // DeleteAllUserTracks removes every track owned by a user
}
