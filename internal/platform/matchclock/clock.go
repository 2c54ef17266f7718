package matchclock

import "strconv"

type Phase string

const (
	PhasePreMatch   Phase = "pre-match"
	PhaseFirstHalf  Phase = "first-half"
	PhaseHalfTime   Phase = "half-time"
	PhaseSecondHalf Phase = "second-half"
	PhaseFinished   Phase = "finished"
)

const (
	// DefaultSecondHalfOffset is a 45 minute half plus a 15 minute break.
	DefaultSecondHalfOffset int64 = 45*60 + 15*60

	halfLength     = 45
	secondHalfCeil = 100
)

// Clock is the match timing derived from kickoff timestamps at read time.
type Clock struct {
	Minute      int64  `json:"match_minutes"`
	Half        Phase  `json:"half"`
	DisplayTime string `json:"display_time"`
	IsLive      bool   `json:"is_live"`
}

// Derive computes the clock from unix seconds. A nil secondHalfKickoff is
// assumed to be DefaultSecondHalfOffset after the first kickoff.
func Derive(now, firstHalfKickoff int64, secondHalfKickoff *int64) Clock {
	elapsed1 := now - firstHalfKickoff
	if elapsed1 < 0 {
		return Clock{Minute: 0, Half: PhasePreMatch, DisplayTime: "0'", IsLive: false}
	}
	firstMinutes := elapsed1/60 + 1

	k2 := firstHalfKickoff + DefaultSecondHalfOffset
	if secondHalfKickoff != nil {
		k2 = *secondHalfKickoff
	}
	elapsed2 := now - k2

	switch {
	case firstMinutes <= halfLength && elapsed2 < 0:
		return Clock{Minute: firstMinutes, Half: PhaseFirstHalf, DisplayTime: minuteText(firstMinutes), IsLive: true}
	case elapsed2 < 0:
		return Clock{Minute: halfLength, Half: PhaseHalfTime, DisplayTime: "HT", IsLive: false}
	}

	secondMinutes := elapsed2/60 + halfLength + 1
	if secondMinutes <= secondHalfCeil {
		return Clock{Minute: secondMinutes, Half: PhaseSecondHalf, DisplayTime: minuteText(secondMinutes), IsLive: true}
	}
	return Clock{Minute: secondMinutes, Half: PhaseFinished, DisplayTime: "FT", IsLive: false}
}

func minuteText(minute int64) string {
	return strconv.FormatInt(minute, 10) + "'"
}
