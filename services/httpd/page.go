package httpd

import (
	"bytes"
	"html"
	"strconv"

	"envnode-go/types"
)

// Page is the state rendered into the single HTML document.
type Page struct {
	Reading types.Reading
	Color   types.RGB
}

// builder assembles markup; every dynamic value goes through text or attr.
type builder struct{ b bytes.Buffer }

func (w *builder) raw(s string)  { w.b.WriteString(s) }
func (w *builder) text(s string) { w.b.WriteString(html.EscapeString(s)) }
func (w *builder) open(tag string, attrs ...string) {
	w.raw("<" + tag)
	for i := 0; i+1 < len(attrs); i += 2 {
		w.raw(" " + attrs[i] + `="`)
		w.text(attrs[i+1])
		w.raw(`"`)
	}
	w.raw(">")
}
func (w *builder) close(tag string) { w.raw("</" + tag + ">") }
func (w *builder) elem(tag, body string, attrs ...string) {
	w.open(tag, attrs...)
	w.text(body)
	w.close(tag)
}

// HTML renders the document body of the response.
func (p Page) HTML() []byte {
	t, h := "--", "--"
	if p.Reading.Valid() {
		t = strconv.Itoa(p.Reading.TemperatureC)
		h = strconv.Itoa(p.Reading.HumidityPct)
	}

	var w builder
	w.raw("<!DOCTYPE html>")
	w.open("html")
	w.open("head")
	w.open("meta", "charset", "utf-8")
	w.elem("title", "Environment node")
	w.close("head")
	w.open("body")
	w.elem("h1", "Sensor & RGB LED")
	w.open("div", "class", "card")
	w.elem("h2", "Temperature: "+t+"°C")
	w.elem("h2", "Humidity: "+h+"%")
	w.close("div")
	w.open("form", "action", "/", "method", "GET")
	for _, ch := range []struct {
		name string
		v    uint8
	}{{"r", p.Color.R}, {"g", p.Color.G}, {"b", p.Color.B}} {
		w.open("input", "type", "number", "name", ch.name, "min", "0", "max", "255",
			"value", strconv.Itoa(int(ch.v)))
	}
	w.elem("button", "Set Color", "type", "submit")
	w.close("form")
	w.close("body")
	w.close("html")
	return w.b.Bytes()
}
