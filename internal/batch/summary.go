package batch

import "fmt"

// Summary reports what one batch pass did.
type Summary struct {
	Total     int
	Skipped   int
	Processed int
	Succeeded int
	Failed    int
	Cards     int
}

func (s Summary) String() string {
	return fmt.Sprintf("total=%d skipped=%d processed=%d succeeded=%d failed=%d cards=%d",
		s.Total, s.Skipped, s.Processed, s.Succeeded, s.Failed, s.Cards)
}
