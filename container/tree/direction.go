package tree

// Direction of a child relative to its parent
type Direction uint8

const (
	// Left is the side of the values lower than the parent's
	Left Direction = iota

	// Right is the side of the values higher than the parent's
	Right
)

// Flip returns the opposite direction
func (d Direction) Flip() Direction {
	if d == Left {
		return Right
	}

	return Left
}

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}
