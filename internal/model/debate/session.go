package debate

// Status is the lifecycle state of the single active debate session.
type Status string

const (
	StatusConfiguring Status = "configuring"
	StatusRunning     Status = "running"
	StatusPaused      Status = "paused"
	StatusFinished    Status = "finished"
	StatusFailed      Status = "failed"
)

// Terminal reports whether the status admits no further turns.
func (s Status) Terminal() bool {
	return s == StatusFinished || s == StatusFailed
}

// Phase is the kind of work a turn asks of its speaker.
type Phase string

const (
	PhaseContributing Phase = "contributing"
	PhaseDeciding     Phase = "deciding"
)

// Turn assigns the current unit of work to exactly one participant.
type Turn struct {
	SpeakerID string `json:"speakerId"`
	Phase     Phase  `json:"phase"`
}
