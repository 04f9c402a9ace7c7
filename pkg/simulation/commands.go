package simulation

import "fmt"

// CommandOp identifies an operation of the mutable surface.
type CommandOp string

const (
	OpPause        CommandOp = "pause"
	OpResume       CommandOp = "resume"
	OpTogglePause  CommandOp = "toggle_pause"
	OpSetEnabled   CommandOp = "set_enabled"
	OpSetWeight    CommandOp = "set_weight"
	OpShowTrails   CommandOp = "show_trails"
	OpShowBanking  CommandOp = "show_banking"
	OpAddBoids     CommandOp = "add_boids"
	OpReset        CommandOp = "reset"
	OpRelocateGoal CommandOp = "relocate_goal"
)

// Command is a serializable request to change the World, sent by the view layer.
// Only the fields relevant to Op are read:
// Behavior for set_enabled and set_weight, Enabled for set_enabled, show_trails and show_banking,
// Weight for set_weight, Count for add_boids (0 means the configured growth batch).
type Command struct {
	Op       CommandOp `json:"op"`
	Behavior Behavior  `json:"behavior,omitempty"`
	Enabled  bool      `json:"enabled,omitempty"`
	Weight   float64   `json:"weight,omitempty"`
	Count    int       `json:"count,omitempty"`
}

// Apply dispatches cmd to the matching World method.
func (w *World) Apply(cmd Command) error {
	switch cmd.Op {
	case OpPause:
		w.SetPaused(true)
	case OpResume:
		w.SetPaused(false)
	case OpTogglePause:
		w.TogglePause()
	case OpSetEnabled:
		return w.SetEnabled(cmd.Behavior, cmd.Enabled)
	case OpSetWeight:
		return w.SetWeight(cmd.Behavior, cmd.Weight)
	case OpShowTrails:
		w.SetShowTrails(cmd.Enabled)
	case OpShowBanking:
		w.SetShowBanking(cmd.Enabled)
	case OpAddBoids:
		n := cmd.Count
		if n == 0 {
			n = w.cfg.GrowthBatch
		}
		return w.AddBoids(n)
	case OpReset:
		w.Reset()
	case OpRelocateGoal:
		w.RelocateGoal()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Op)
	}
	return nil
}
