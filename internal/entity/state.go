package entity

// FireflyState is the engine-level state entity for Firefly runs. It syncs
// like any other entity, so processes may stage writes against it.
type FireflyState struct {
	Base

	Player string
	Epoch  int64
}

// NewFireflyState creates the state entity for a player's run.
func NewFireflyState(player string) *FireflyState {
	return &FireflyState{Player: player}
}
