package host

import "image/color"

// Environment is the application-wide state every document operation reads:
// the ruler units lengths are interpreted in, whether warnings are shown and
// the current background and foreground colours.
type Environment struct {
	RulerUnits Units
	DialogMode DialogMode
	Background color.NRGBA
	Foreground color.NRGBA
}

func DefaultEnvironment() Environment {
	return Environment{
		RulerUnits: UnitsInches,
		DialogMode: DialogsAll,
		Background: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		Foreground: color.NRGBA{A: 0xff},
	}
}

func (e *Environment) Snapshot() Environment { return *e }

func (e *Environment) Restore(saved Environment) { *e = saved }

// Scope snapshots the environment and returns the function that restores it.
// Use as `defer env.Scope()()`.
func (e *Environment) Scope() func() {
	saved := e.Snapshot()
	return func() { e.Restore(saved) }
}
