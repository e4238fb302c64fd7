package rules

const (
	// DeathCauseWallCollision is when a snake runs off the board
	DeathCauseWallCollision = "wall-collision"
	// DeathCauseSnakeSelfCollision is when the head runs into the body
	DeathCauseSnakeSelfCollision = "snake-self-collision"
	// EndCauseBoardFull is when the snake covers every cell and no food can
	// be placed.
	EndCauseBoardFull = "board-full"
)
