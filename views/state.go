package views

// Tick is a custom vaxis event posted by the app's ticker goroutine to
// advance loading animations.
type Tick struct{}
