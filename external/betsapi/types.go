package betsapi

import (
	"bytes"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/pitchside/match-center/internal/domain/match"
)

type eventsEnvelope struct {
	Success int            `json:"success"`
	Pager   *pagerPayload  `json:"pager"`
	Results []eventPayload `json:"results"`
}

type pagerPayload struct {
	Page    flexInt `json:"page"`
	PerPage flexInt `json:"per_page"`
	Total   flexInt `json:"total"`
}

type eventPayload struct {
	ID         flexString              `json:"id"`
	SportID    flexInt                 `json:"sport_id"`
	TimeStatus flexString              `json:"time_status"`
	Time       flexInt                 `json:"time"`
	League     *sidePayload            `json:"league"`
	Home       *sidePayload            `json:"home"`
	Away       *sidePayload            `json:"away"`
	OHome      *sidePayload            `json:"o_home"`
	OAway      *sidePayload            `json:"o_away"`
	SS         flexString              `json:"ss"`
	Scores     map[string]scorePayload `json:"scores"`
	Timer      timerPayload            `json:"timer"`
	Stats      statsPayload            `json:"stats"`
	Bet365ID   flexString              `json:"bet365_id"`
	Round      flexString              `json:"round"`
}

type sidePayload struct {
	ID      flexString `json:"id"`
	Name    string     `json:"name"`
	ImageID flexString `json:"image_id"`
	CC      flexString `json:"cc"`
}

type scorePayload struct {
	Home flexString `json:"home"`
	Away flexString `json:"away"`
}

// timerPayload tolerates the provider sending `[]` instead of an object
// when no live clock is running.
type timerPayload struct {
	value *match.Timer
}

func (t *timerPayload) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		t.value = nil
		return nil
	}

	var raw struct {
		TM flexInt    `json:"tm"`
		TS flexInt    `json:"ts"`
		TT flexString `json:"tt"`
		TA flexInt    `json:"ta"`
		MD flexInt    `json:"md"`
	}
	if err := sonic.Unmarshal(trimmed, &raw); err != nil {
		return err
	}
	t.value = &match.Timer{
		Minutes:   int(raw.TM),
		Seconds:   int(raw.TS),
		TimerType: string(raw.TT),
		AddedTime: int(raw.TA),
		MatchDay:  int(raw.MD),
	}
	return nil
}

// statsPayload tolerates `[]` and decodes the paired [home, away] arrays
// straight into the domain stats shape.
type statsPayload struct {
	value *match.Stats
}

func (s *statsPayload) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		s.value = nil
		return nil
	}

	var out match.Stats
	if err := sonic.Unmarshal(trimmed, &out); err != nil {
		return err
	}
	s.value = &out
	return nil
}

// flexString accepts both `"42"` and `42` wire forms.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = ""
		return nil
	}
	if trimmed[0] == '"' {
		var value string
		if err := sonic.Unmarshal(trimmed, &value); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(value))
		return nil
	}
	*f = flexString(trimmed)
	return nil
}

// flexInt accepts both `7` and `"7"` wire forms; unparseable values map
// to zero.
type flexInt int64

func (f *flexInt) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(bytes.Trim(bytes.TrimSpace(data), `"`))
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = 0
		return nil
	}
	parsed, err := strconv.ParseInt(string(trimmed), 10, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexInt(parsed)
	return nil
}
