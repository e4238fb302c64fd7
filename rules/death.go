package rules

// checkForDeath looks at the proposed next head against the board and the
// body before the move. The whole body is used, tail included, so moving into
// the cell the tail is about to leave still counts as a collision.
func checkForDeath(size int, head Point, body []Point) string {
	if deathByOutOfBounds(head, size) {
		return DeathCauseWallCollision
	}
	for _, b := range body {
		if deathByBodyCollision(head, b) {
			return DeathCauseSnakeSelfCollision
		}
	}
	return ""
}

func deathByBodyCollision(head, body Point) bool {
	return head.Equal(body)
}

func deathByOutOfBounds(head Point, size int) bool {
	return !head.InBounds(size)
}
