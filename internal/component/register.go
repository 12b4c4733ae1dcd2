package component

import "github.com/l1jgo/simcore/internal/core/family"

// Register assigns families to every component and event type of the game.
// Call it once at startup, before building the world.
func Register(reg *family.Registry) {
	family.RegisterComponent[Room](reg)
	family.RegisterComponent[Actor](reg)
	family.RegisterComponent[Controlled](reg)

	family.RegisterEvent[Input](reg)
	family.RegisterEvent[Output](reg)
	family.RegisterEvent[Moved](reg)
}
