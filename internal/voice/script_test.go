package voice

import (
	"strings"
	"testing"

	"github.com/nextlevelbuilder/thermovote/internal/intent"
)

func TestScriptSelection(t *testing.T) {
	if !strings.Contains(Script(intent.Warmer), "too cold") {
		t.Error("warmer script should mention the room being too cold")
	}
	if !strings.Contains(Script(intent.Cooler), "too hot") {
		t.Error("cooler script should mention the room being too hot")
	}
	if Script(intent.None) != scriptFallback {
		t.Error("unknown intent must get the generic fallback script")
	}
}

func TestSpeakXML(t *testing.T) {
	out, err := SpeakXML(Script(intent.Warmer))
	if err != nil {
		t.Fatalf("SpeakXML: %v", err)
	}
	s := string(out)
	for _, want := range []string{"<Response>", `voice="WOMAN"`, `language="en-US"`, "too cold"} {
		if !strings.Contains(s, want) {
			t.Errorf("rendered XML missing %q:\n%s", want, s)
		}
	}
}

func TestSpeakXMLEscapes(t *testing.T) {
	out, err := SpeakXML(`please <adjust> the "AC" & thermostat`)
	if err != nil {
		t.Fatalf("SpeakXML: %v", err)
	}
	s := string(out)
	if strings.Contains(s, "<adjust>") {
		t.Errorf("script text must be XML-escaped:\n%s", s)
	}
	if !strings.Contains(s, "&lt;adjust&gt;") || !strings.Contains(s, "&amp;") {
		t.Errorf("expected escaped entities in:\n%s", s)
	}
}
