package tui

// TickMsg drives the spinner animation
type TickMsg struct{}
