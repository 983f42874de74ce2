package types

// List keys addressable via the store's keyed-patch path.
const (
	ListSeenJobs     = "jobs_seen"
	ListPipelineJobs = "jobs_table"
	ListActivityLog  = "activity_log"
)

// Singleton document keys addressable via the store's Set path.
const (
	KeyUserProfile  = "user_profile"
	KeyMasterResume = "master_resume"
	KeySettings     = "settings"
)

// AppState is the root aggregate: the single persisted document holding
// all application state. Exactly one instance exists per installation; it
// is created with defaults on first access and read-modify-written
// wholesale on every mutation.
type AppState struct {
	SeenJobs     []SeenRecord    `json:"jobs_seen"`
	PipelineJobs []PipelineJob   `json:"jobs_table"`
	UserProfile  UserProfile     `json:"user_profile"`
	MasterResume MasterResume    `json:"master_resume"`
	ActivityLog  []ActivityEntry `json:"activity_log"` // newest first
	Settings     Settings        `json:"settings"`
}

// DefaultState returns the built-in default aggregate: all lists empty,
// settings at documented defaults.
func DefaultState() AppState {
	return AppState{
		SeenJobs:     []SeenRecord{},
		PipelineJobs: []PipelineJob{},
		UserProfile: UserProfile{
			CustomResponses: map[string]string{},
		},
		MasterResume: MasterResume{
			LastModified: NowISO(),
		},
		ActivityLog: []ActivityEntry{},
		Settings:    DefaultSettings(),
	}
}

// JobByID returns the pipeline job with the given id, or nil. The value
// receiver keeps it callable on a freshly returned aggregate; the pointer
// still addresses the shared backing array.
func (s AppState) JobByID(id string) *PipelineJob {
	for i := range s.PipelineJobs {
		if s.PipelineJobs[i].ID == id {
			return &s.PipelineJobs[i]
		}
	}
	return nil
}

// SeenIDs returns the set of already-observed job identities.
func (s *AppState) SeenIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(s.SeenJobs))
	for _, j := range s.SeenJobs {
		ids[j.ID] = struct{}{}
	}
	return ids
}
