package arena

// Observation layout. Ball slots are filled in state order and padded
// with zeros.
const (
	ObsPlatformX = iota
	ObsPlatformY
	ObsPlatformVX
	ObsPlatformWidth
	ObsBlocksLeft
	ObsBallsStart
)

// Per-ball features, relative to the start of a ball slot
const (
	BallPresent = iota
	BallX
	BallY
	BallDirX
	BallDirY
	BallSpeed
	BallThrown
	BallFeatures
)

// MaxObservedBalls is the number of ball slots in an observation
const MaxObservedBalls = 4

// ObservationSize is the length of every observation vector
const ObservationSize = ObsBallsStart + MaxObservedBalls*BallFeatures

// BallSlot returns the observation offset of ball slot i
func BallSlot(i int) int {
	return ObsBallsStart + i*BallFeatures
}

// Observation returns a flat snapshot of the current state. It is all
// zeros before Reset.
func (e *Env) Observation() []float64 {
	obs := make([]float64, ObservationSize)
	if e.game == nil {
		return obs
	}
	state := e.game.Snapshot()

	if len(state.Platforms) > 0 {
		p := state.Platforms[0]
		obs[ObsPlatformX] = p.Position.X
		obs[ObsPlatformY] = p.Position.Y
		obs[ObsPlatformVX] = p.Velocity.X
		obs[ObsPlatformWidth] = p.Width
	}
	obs[ObsBlocksLeft] = float64(len(state.Blocks))

	for i, b := range state.Balls {
		if i == MaxObservedBalls {
			break
		}
		slot := obs[BallSlot(i) : BallSlot(i)+BallFeatures]
		slot[BallPresent] = 1
		slot[BallX] = b.Position.X
		slot[BallY] = b.Position.Y
		slot[BallDirX] = b.Direction.X
		slot[BallDirY] = b.Direction.Y
		slot[BallSpeed] = b.Speed
		if b.Thrown {
			slot[BallThrown] = 1
		}
	}
	return obs
}
