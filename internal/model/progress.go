package model

// ProgressState is the one-way lifecycle of achievements and tasks
type ProgressState string

const (
	ProgressLocked   ProgressState = "locked"
	ProgressUnlocked ProgressState = "unlocked"
	ProgressClaimed  ProgressState = "claimed"
)

func (s ProgressState) rank() int {
	switch s {
	case ProgressUnlocked:
		return 1
	case ProgressClaimed:
		return 2
	default:
		return 0
	}
}

// Progress is shared by achievements and tasks
type Progress struct {
	Current   int64 `json:"progress"`
	Target    int64 `json:"target"`
	Completed bool  `json:"completed"`
	Claimed   bool  `json:"claimed"`
}

// State derives the lifecycle state
func (p Progress) State() ProgressState {
	switch {
	case p.Claimed:
		return ProgressClaimed
	case p.Completed || (p.Target > 0 && p.Current >= p.Target):
		return ProgressUnlocked
	default:
		return ProgressLocked
	}
}

// Claimable reports whether a reward can be claimed
func (p Progress) Claimable() bool {
	return p.State() == ProgressUnlocked
}

// RegressedFrom reports whether moving from prev to p goes backwards
func (p Progress) RegressedFrom(prev Progress) bool {
	return p.State().rank() < prev.State().rank()
}

// Achievement is a long-running goal
type Achievement struct {
	ID            string `json:"id"`
	AchievementID string `json:"achievement_id"`
	Title         string `json:"title"`
	RewardCash    int64  `json:"reward_cash"`
	RewardDiamond int64  `json:"reward_diamonds"`
	Progress
}

// Task is a short-lived (daily/weekly) goal
type Task struct {
	ID         string `json:"id"`
	TaskID     string `json:"task_id"`
	Title      string `json:"title"`
	Period     string `json:"period"`
	RewardCash int64  `json:"reward_cash"`
	Progress
}
