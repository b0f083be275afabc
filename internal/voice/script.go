// Package voice renders the text-to-speech payloads served to the telephony
// provider's answer-URL callback.
package voice

import (
	"encoding/xml"

	"github.com/nextlevelbuilder/thermovote/internal/intent"
)

const (
	scriptWarmer = "Hi, this is an automated call from the office facilities bot. " +
		"The employees have voted that the temperature is too cold. " +
		"Please increase the AC temperature. Thank you."

	scriptCooler = "Hi, this is an automated call from the office facilities bot. " +
		"The employees have voted that the temperature is too hot. " +
		"Please reduce the AC temperature. Thank you."

	// scriptFallback is served for any unrecognized intent. The telephony
	// provider retries a failing answer URL, so this endpoint must always
	// yield a speakable payload.
	scriptFallback = "Hello, this is an automated call from your office regarding temperature control."
)

// Script returns the spoken message for an intent.
func Script(i intent.Intent) string {
	switch i {
	case intent.Warmer:
		return scriptWarmer
	case intent.Cooler:
		return scriptCooler
	default:
		return scriptFallback
	}
}

type speakElement struct {
	XMLName  xml.Name `xml:"Speak"`
	Voice    string   `xml:"voice,attr"`
	Language string   `xml:"language,attr"`
	Text     string   `xml:",chardata"`
}

type responseElement struct {
	XMLName xml.Name `xml:"Response"`
	Speak   speakElement
}

// SpeakXML renders a script as the provider's answer XML document.
func SpeakXML(script string) ([]byte, error) {
	doc := responseElement{
		Speak: speakElement{Voice: "WOMAN", Language: "en-US", Text: script},
	}
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
