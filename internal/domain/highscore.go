package domain

import (
    "fmt"
    "time"
)

// Avatar is a selectable player character.
type Avatar struct {
    ID    int
    Name  string
    Bio   string
    Image string
}

// Highscore records one finished game.
type Highscore struct {
    Avatar    Avatar
    BoardSize int
    StartTime time.Time
    // GameTime is the play duration truncated to whole seconds.
    GameTime time.Duration
}

// FormatDuration renders whole seconds as mm:ss.
func FormatDuration(d time.Duration) string {
    secs := int64(d / time.Second)
    if secs < 0 {
        secs = 0
    }
    return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
