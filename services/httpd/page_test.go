package httpd

import (
	"strings"
	"testing"
	"time"

	"envnode-go/types"
)

func TestPageFieldsAndForm(t *testing.T) {
	body := string(Page{
		Reading: types.Reading{TemperatureC: 24, HumidityPct: 38, At: time.Unix(1, 0)},
		Color:   types.RGB{R: 9, G: 8, B: 7},
	}.HTML())

	for _, want := range []string{
		"<h2>Temperature: 24°C</h2>",
		"<h2>Humidity: 38%</h2>",
		`<form action="/" method="GET">`,
		`name="r" min="0" max="255" value="9"`,
		`name="g" min="0" max="255" value="8"`,
		`name="b" min="0" max="255" value="7"`,
		`<button type="submit">`,
		"Sensor &amp; RGB LED",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q:\n%s", want, body)
		}
	}
}

func TestPageWithoutReading(t *testing.T) {
	body := string(Page{}.HTML())
	if !strings.Contains(body, "Temperature: --°C") || !strings.Contains(body, "Humidity: --%") {
		t.Fatalf("placeholder missing:\n%s", body)
	}
}

func TestBuilderEscapes(t *testing.T) {
	var w builder
	w.elem("p", `<script>"x"</script>`, "title", `a"b`)
	got := w.b.String()
	want := `<p title="a&#34;b">&lt;script&gt;&#34;x&#34;&lt;/script&gt;</p>`
	if got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}
