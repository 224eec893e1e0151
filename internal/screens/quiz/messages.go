package quiz

import "time"

// timerTickMsg carries the one-second redraw tick for the quiz timer.
type timerTickMsg time.Time
