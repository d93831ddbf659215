package twilio

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

const twimlVoice = "alice"

type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Verbs   []any
}

type twimlSay struct {
	XMLName xml.Name `xml:"Say"`
	Voice   string   `xml:"voice,attr"`
	Text    string   `xml:",chardata"`
}

type twimlPause struct {
	XMLName xml.Name `xml:"Pause"`
	Length  int      `xml:"length,attr"`
}

func introText(d CallDetails) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Hello, I'm calling to make a reservation at %s. ", d.RestaurantName)
	fmt.Fprintf(&sb, "I'd like to book a table for %d people on %s at %s. ", d.PartySize, d.Date, d.Time)
	fmt.Fprintf(&sb, "The reservation is for %s", d.CustomerName)
	if d.CustomerPhone != "" {
		fmt.Fprintf(&sb, ", and the callback number is %s", d.CustomerPhone)
	}
	sb.WriteString(". ")
	if d.SpecialRequests != "" {
		fmt.Fprintf(&sb, "We have a special request: %s. ", d.SpecialRequests)
	}
	sb.WriteString("Could you please confirm if this time is available?")
	return sb.String()
}

func closingText(d CallDetails) string {
	if d.CustomerPhone != "" {
		return fmt.Sprintf("Thank you for your time. If you need to reach us, please call %s. Have a great day!", d.CustomerPhone)
	}
	return "Thank you for your time. Have a great day!"
}

// RenderTwiML builds the call instructions. A non-empty script replaces the
// templated introduction.
func RenderTwiML(script string, d CallDetails) (string, error) {
	intro := strings.TrimSpace(script)
	if intro == "" {
		intro = introText(d)
	}

	doc := twimlResponse{
		Verbs: []any{
			twimlSay{Voice: twimlVoice, Text: intro},
			twimlPause{Length: 3},
			twimlSay{Voice: twimlVoice, Text: closingText(d)},
		},
	}

	out, err := xml.Marshal(doc)
	if err != nil {
		return "", goerr.Wrap(err, "failed to render TwiML")
	}
	return xml.Header + string(out), nil
}
