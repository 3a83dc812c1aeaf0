package engine

// Job identifies one of the 10 secret roles.
type Job int

const (
	Thug Job = iota
	GrandMaster
	Bodyguard
	Duelist
	PoisonMixer
	Doctor
	Priest
	Hypnotist
	Diplomat
	Clairvoyant
)

var jobNames = map[Job]string{
	Thug:        "Thug",
	GrandMaster: "GrandMaster",
	Bodyguard:   "Bodyguard",
	Duelist:     "Duelist",
	PoisonMixer: "PoisonMixer",
	Doctor:      "Doctor",
	Priest:      "Priest",
	Hypnotist:   "Hypnotist",
	Diplomat:    "Diplomat",
	Clairvoyant: "Clairvoyant",
}

func (j Job) String() string {
	if s, ok := jobNames[j]; ok {
		return s
	}
	return "Unknown"
}

// Once reports whether the job is exhausted after a single use. A used
// once-job stays revealed for the rest of the game.
func (j Job) Once() bool {
	switch j {
	case Duelist, PoisonMixer, Doctor, Priest, Diplomat, Clairvoyant:
		return true
	}
	return false
}

// AllJobs returns the 10 roles in their canonical order.
func AllJobs() []Job {
	return []Job{
		Thug, GrandMaster, Bodyguard, Duelist, PoisonMixer,
		Doctor, Priest, Hypnotist, Diplomat, Clairvoyant,
	}
}

// CanUseJob reports whether the player holds the job and it is not
// exhausted.
func (ps *PlayerState) CanUseJob(j Job) bool {
	return ps.Job == j && !(ps.JobIsVisible && j.Once())
}

// UseJob marks the job as used, revealing it. Returns ErrJobUnavailable
// without mutating if the player does not hold the job or it is exhausted.
func (ps *PlayerState) UseJob(j Job) error {
	if !ps.CanUseJob(j) {
		return ErrJobUnavailable
	}
	ps.JobIsVisible = true
	return nil
}
