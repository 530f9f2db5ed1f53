package eyes

import "math"

// Manual drive tuning.
const (
	MaxVelocity  = 5.0
	Acceleration = 0.5
	Friction     = 0.9
	MaxOffset    = 50.0
	Epsilon      = 0.1
)

// ManualDrive displaces both eyes from the keyboard with a simple
// velocity/friction model. The offset is added when drawing and never
// written into the geometry targets.
type ManualDrive struct {
	Enabled   bool    `json:"enabled"`
	OffsetX   float64 `json:"offset_x"`
	OffsetY   float64 `json:"offset_y"`
	VelocityX float64 `json:"velocity_x"`
	VelocityY float64 `json:"velocity_y"`
}

// SetEnabled toggles manual drive. Disabling zeroes offset and velocity.
func (m *ManualDrive) SetEnabled(on bool) {
	m.Enabled = on
	if !on {
		m.Reset()
	}
}

// Reset zeroes offset and velocity.
func (m *ManualDrive) Reset() {
	m.OffsetX, m.OffsetY = 0, 0
	m.VelocityX, m.VelocityY = 0, 0
}

// Update advances the model by one frame.
func (m *ManualDrive) Update(in Input) {
	if !m.Enabled {
		return
	}

	if in.Up {
		m.VelocityY -= Acceleration
	}
	if in.Down {
		m.VelocityY += Acceleration
	}
	if in.Left {
		m.VelocityX -= Acceleration
	}
	if in.Right {
		m.VelocityX += Acceleration
	}

	m.VelocityX = clamp(m.VelocityX, MaxVelocity)
	m.VelocityY = clamp(m.VelocityY, MaxVelocity)

	if !in.Left && !in.Right {
		m.VelocityX *= Friction
	}
	if !in.Up && !in.Down {
		m.VelocityY *= Friction
	}

	m.OffsetX = clamp(m.OffsetX+m.VelocityX, MaxOffset)
	m.OffsetY = clamp(m.OffsetY+m.VelocityY, MaxOffset)

	if math.Abs(m.VelocityX) < Epsilon {
		m.VelocityX = 0
	}
	if math.Abs(m.VelocityY) < Epsilon {
		m.VelocityY = 0
	}
}

// clamp limits v to [-limit, limit].
func clamp(v, limit float64) float64 {
	return math.Max(-limit, math.Min(limit, v))
}
