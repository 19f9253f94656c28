// Package intent maps a transcribed utterance to a canned reply using
// ordered keyword rules.
package intent

import "strings"

type Kind int

const (
	Misunderstood Kind = iota
	WeatherToday
	WeatherTomorrow
	WeatherWeekend
	WeatherClarify
	SunTimes
	SunriseTime
	SunriseQuestion
	SunsetTime
	SunsetQuestion
	Greeting
	Farewell
)

var kindNames = map[Kind]string{
	Misunderstood:   "misunderstood",
	WeatherToday:    "weather_today",
	WeatherTomorrow: "weather_tomorrow",
	WeatherWeekend:  "weather_weekend",
	WeatherClarify:  "weather_clarify",
	SunTimes:        "sun_times",
	SunriseTime:     "sunrise_time",
	SunriseQuestion: "sunrise_question",
	SunsetTime:      "sunset_time",
	SunsetQuestion:  "sunset_question",
	Greeting:        "greeting",
	Farewell:        "farewell",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Signal is what the dialog controller needs to know about a reply.
type Signal int

const (
	Normal Signal = iota
	TimeframeClarification
	NotUnderstood
)

func (k Kind) Signal() Signal {
	switch k {
	case WeatherClarify:
		return TimeframeClarification
	case Misunderstood:
		return NotUnderstood
	default:
		return Normal
	}
}

type Response struct {
	Kind Kind
	Text string
}

const (
	TextWeatherToday    = "The sun is shining with highs of 18°C."
	TextWeatherTomorrow = "It looks like it will be rainy and windy tomorrow."
	TextWeatherWeekend  = "Saturday will be hot with no wind, and Sunday will be cooler with passing showers."
	TextWeatherClarify  = "Which day are you asking about? Today, tomorrow, or the weekend?"
	TextSunTimes        = "The sun is set to rise at 7:20 AM tomorrow and set at 4:45 PM tomorrow."
	TextSunriseTime     = "The sunrise will be at 7:20 AM tomorrow."
	TextSunriseQuestion = "What time is the sunrise?"
	TextSunsetTime      = "The sunset will be at 4:45 PM tomorrow."
	TextSunsetQuestion  = "What time is the sunset?"
	TextGreeting        = "Hello! How can I help you today, I can help you with the weather today, tomorrow or the weekend. Or I can tell you when the sunrise and sunset will be tomorrow?"
	TextFarewell        = "Goodbye, have a nice day!"
	TextMisunderstood   = "I'm sorry, I didn't understand that. Could you say it again?"
)

type rule struct {
	when  func(string) bool
	reply func(string) Response
}

// Order matters: the combined sunrise/sunset rule has to precede the
// single ones, and everything precedes the fallback.
var rules = []rule{
	{when: has("weather"), reply: weather},
	{when: all("sunrise", "sunset"), reply: fixed(SunTimes, TextSunTimes)},
	{when: has("sunrise"), reply: sunrise},
	{when: has("sunset"), reply: sunset},
	{when: has("hello", "hey", "hi"), reply: fixed(Greeting, TextGreeting)},
	{when: has("goodbye", "thank you"), reply: fixed(Farewell, TextFarewell)},
}

// Match returns the reply for utterance. It never fails: anything no rule
// claims gets the Misunderstood reply.
func Match(utterance string) Response {
	u := strings.ToLower(utterance)
	for _, r := range rules {
		if r.when(u) {
			return r.reply(u)
		}
	}
	return Response{Kind: Misunderstood, Text: TextMisunderstood}
}

func weather(u string) Response {
	switch {
	case ContainsAny(u, "today", "now", "current"):
		return Response{Kind: WeatherToday, Text: TextWeatherToday}
	case ContainsAny(u, "tomorrow", "next day"):
		return Response{Kind: WeatherTomorrow, Text: TextWeatherTomorrow}
	case ContainsAny(u, "weekend"):
		return Response{Kind: WeatherWeekend, Text: TextWeatherWeekend}
	default:
		return Response{Kind: WeatherClarify, Text: TextWeatherClarify}
	}
}

func sunrise(u string) Response {
	if strings.Contains(u, "time") {
		return Response{Kind: SunriseTime, Text: TextSunriseTime}
	}
	return Response{Kind: SunriseQuestion, Text: TextSunriseQuestion}
}

func sunset(u string) Response {
	if strings.Contains(u, "time") {
		return Response{Kind: SunsetTime, Text: TextSunsetTime}
	}
	return Response{Kind: SunsetQuestion, Text: TextSunsetQuestion}
}

func fixed(k Kind, text string) func(string) Response {
	return func(string) Response { return Response{Kind: k, Text: text} }
}

func has(words ...string) func(string) bool {
	return func(u string) bool { return ContainsAny(u, words...) }
}

func all(words ...string) func(string) bool {
	return func(u string) bool {
		for _, w := range words {
			if !strings.Contains(u, w) {
				return false
			}
		}
		return true
	}
}

// ContainsAny reports whether s contains any of the given substrings.
func ContainsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
