// Package assist turns free-form customer messages into structured booking
// requests. The parser only extracts an intent; all scheduling decisions
// stay in the booking service.
package assist

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type Intent int

const (
	IntentUnknown Intent = iota
	IntentBook
	IntentCancel
	IntentCheck
	IntentList
)

func (i Intent) String() string {
	switch i {
	case IntentBook:
		return "book"
	case IntentCancel:
		return "cancel"
	case IntentCheck:
		return "check"
	case IntentList:
		return "list"
	default:
		return "unknown"
	}
}

// Request is a parsed message. Zero values mean the field was not present
// in the text; Date carries HasDate alongside because the zero time is a
// valid parse target.
type Request struct {
	Intent       Intent
	CustomerName string
	StaffName    string
	ServiceName  string
	Date         time.Time
	HasDate      bool
	Time         string
	RawText      string
}

var intentPatterns = []struct {
	intent   Intent
	patterns []*regexp.Regexp
}{
	{IntentBook, compileAll(
		`book.*appointment`,
		`schedule.*appointment`,
		`make.*appointment`,
		`i want.*appointment`,
		`can i.*book`,
		`i need.*haircut`,
		`reserve.*slot`,
	)},
	{IntentCancel, compileAll(
		`cancel.*appointment`,
		`remove.*booking`,
		`delete.*appointment`,
	)},
	{IntentCheck, compileAll(
		`available.*slots`,
		`free.*time`,
		`when.*available`,
		`check.*availability`,
		`is.*available`,
		`what.*times`,
	)},
	{IntentList, compileAll(
		`show.*appointments`,
		`list.*bookings`,
		`my.*appointments`,
		`upcoming.*appointments`,
	)},
}

var (
	nameRe       = regexp.MustCompile(`(?:my name is|i am|this is) (\w+ \w+)`)
	staffRe      = regexp.MustCompile(`with (\w+)`)
	explicitRe   = regexp.MustCompile(`(\d{1,2})(?:st|nd|rd|th)? (january|february|march|april|may|june|july|august|september|october|november|december)`)
	clockRe      = regexp.MustCompile(`(\d{1,2}):(\d{2})\s*(am|pm)?`)
	hourMeridRe  = regexp.MustCompile(`(\d{1,2})\s*(am|pm)`)
	monthsByName = monthIndex()
)

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

func monthIndex() map[string]time.Month {
	m := make(map[string]time.Month, 12)
	for mo := time.January; mo <= time.December; mo++ {
		m[strings.ToLower(mo.String())] = mo
	}
	return m
}

// Parse extracts a Request from the message. Relative date phrases are
// resolved against now; "next week" means seven days out, same as "in a
// week" would be.
func Parse(text string, now time.Time) Request {
	lower := strings.ToLower(text)
	req := Request{Intent: matchIntent(lower), RawText: text}

	if m := nameRe.FindStringSubmatch(lower); m != nil {
		req.CustomerName = titleCase(m[1])
	}
	if m := staffRe.FindStringSubmatch(lower); m != nil {
		req.StaffName = titleCase(m[1])
	}

	req.ServiceName = matchService(lower)
	req.Date, req.HasDate = matchDate(lower, now)
	req.Time = matchTime(lower)

	return req
}

func matchIntent(lower string) Intent {
	for _, group := range intentPatterns {
		for _, re := range group.patterns {
			if re.MatchString(lower) {
				return group.intent
			}
		}
	}
	return IntentUnknown
}

func matchService(lower string) string {
	switch {
	case strings.Contains(lower, "beard"):
		return "Haircut + Beard"
	case strings.Contains(lower, "color"):
		return "Hair Coloring"
	case strings.Contains(lower, "haircut"):
		return "Haircut"
	}
	return ""
}

func matchDate(lower string, now time.Time) (time.Time, bool) {
	today := time.Date(now.UTC().Year(), now.UTC().Month(), now.UTC().Day(), 0, 0, 0, 0, time.UTC)

	if m := explicitRe.FindStringSubmatch(lower); m != nil {
		day, err := strconv.Atoi(m[1])
		if err == nil && day >= 1 && day <= 31 {
			month := monthsByName[m[2]]
			return time.Date(today.Year(), month, day, 0, 0, 0, 0, time.UTC), true
		}
	}

	switch {
	case strings.Contains(lower, "tomorrow"):
		return today.AddDate(0, 0, 1), true
	case strings.Contains(lower, "today"):
		return today, true
	case strings.Contains(lower, "next week"):
		return today.AddDate(0, 0, 7), true
	case strings.Contains(lower, "this week"):
		return today, true
	}
	return time.Time{}, false
}

// matchTime normalizes "2pm", "2:30 pm" or "14:30" to HH:MM.
func matchTime(lower string) string {
	if m := clockRe.FindStringSubmatch(lower); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := m[2]
		hour = applyMeridiem(hour, m[3])
		if hour <= 23 {
			return fmt.Sprintf("%02d:%s", hour, minute)
		}
	}
	if m := hourMeridRe.FindStringSubmatch(lower); m != nil {
		hour, _ := strconv.Atoi(m[1])
		hour = applyMeridiem(hour, m[2])
		if hour <= 23 {
			return fmt.Sprintf("%02d:00", hour)
		}
	}
	return ""
}

func applyMeridiem(hour int, meridiem string) int {
	switch meridiem {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}
	return hour
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
