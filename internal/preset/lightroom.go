package preset

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strings"
	"text/template"

	"github.com/ironsheep/preset-lut-mcp/internal/params"
)

// Lightroom's Camera Raw settings use its own color names for the HSL panel.
var lightroomColors = map[params.ColorName]string{
	params.Reds:     "Red",
	params.Oranges:  "Orange",
	params.Yellows:  "Yellow",
	params.Greens:   "Green",
	params.Aquas:    "Aqua",
	params.Blues:    "Blue",
	params.Purples:  "Purple",
	params.Magentas: "Magenta",
}

type xmpAttr struct {
	Name  string
	Value string
}

type xmpSeq struct {
	Name  string
	Items []string
}

type xmpDoc struct {
	Name   string
	Attrs  []xmpAttr
	Curves []xmpSeq
}

var xmpTemplate = template.Must(template.New("xmp").Funcs(template.FuncMap{
	"xml": xmlEscape,
}).Parse(`<x:xmpmeta xmlns:x="adobe:ns:meta/" x:xmptk="Adobe XMP Core 7.0-c000 1.000000, 0000/00/00-00:00:00        ">
 <rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
  <rdf:Description rdf:about=""
    xmlns:crs="http://ns.adobe.com/camera-raw-settings/1.0/"
{{- range .Attrs}}
   crs:{{.Name}}="{{xml .Value}}"
{{- end}}>
   <crs:Name>
    <rdf:Alt>
     <rdf:li xml:lang="x-default">{{xml .Name}}</rdf:li>
    </rdf:Alt>
   </crs:Name>
{{- range .Curves}}
   <crs:{{.Name}}>
    <rdf:Seq>
{{- range .Items}}
     <rdf:li>{{.}}</rdf:li>
{{- end}}
    </rdf:Seq>
   </crs:{{.Name}}>
{{- end}}
  </rdf:Description>
 </rdf:RDF>
</x:xmpmeta>
`))

func xmlEscape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// signedInt formats a slider value the way Lightroom writes it: "+20", "-5", "0".
func signedInt(v float64) string {
	r := int(math.Round(v))
	if r == 0 {
		return "0"
	}
	return fmt.Sprintf("%+d", r)
}

func signedFixed(v float64) string {
	if round(v, 2) == 0 {
		return "0.00"
	}
	return fmt.Sprintf("%+.2f", v)
}

func serializeLightroom(p params.EditingParameters, meta Meta) ([]byte, []string, error) {
	doc := xmpDoc{Name: meta.Name}
	add := func(name, value string) {
		doc.Attrs = append(doc.Attrs, xmpAttr{Name: name, Value: value})
	}

	add("PresetType", "Normal")
	add("Cluster", "")
	add("UUID", strings.ToUpper(strings.ReplaceAll(ID(p, meta.Name).String(), "-", "")))
	add("SupportsAmount", "False")
	add("SupportsColor", "True")
	add("SupportsMonochrome", "True")
	add("SupportsHighDynamicRange", "True")
	add("SupportsNormalDynamicRange", "True")
	add("SupportsSceneReferred", "True")
	add("SupportsOutputReferred", "True")
	add("CameraModelRestriction", "")
	add("Copyright", "")
	add("ContactInfo", meta.Tool)
	add("Version", "15.0")
	add("ProcessVersion", "11.0")

	add("WhiteBalance", "Custom")
	add("Temperature", fmt.Sprintf("%d", int(math.Round(p.Temperature))))
	add("Tint", signedInt(p.Tint))
	add("Exposure2012", signedFixed(p.Exposure))
	add("Contrast2012", signedInt(p.Contrast))
	add("Highlights2012", signedInt(p.Highlights))
	add("Shadows2012", signedInt(p.Shadows))
	add("Whites2012", signedInt(p.Whites))
	add("Blacks2012", signedInt(p.Blacks))
	add("Texture", signedInt(p.Texture))
	add("Clarity2012", signedInt(p.Clarity))
	add("Dehaze", signedInt(p.Dehaze))
	add("Vibrance", signedInt(p.Vibrance))
	add("Saturation", signedInt(p.Saturation))

	for _, kind := range []string{"Hue", "Saturation", "Luminance"} {
		for _, c := range params.ColorNames() {
			a := p.Adjustment(c)
			v := a.Hue
			switch kind {
			case "Saturation":
				v = a.Saturation
			case "Luminance":
				v = a.Luminance
			}
			add(kind+"Adjustment"+lightroomColors[c], signedInt(v))
		}
	}

	add("ToneCurveName2012", curveName(p.ToneCurve))
	add("HasSettings", "True")

	doc.Curves = []xmpSeq{
		{Name: "ToneCurvePV2012", Items: curveItems(p.ToneCurve.All)},
		{Name: "ToneCurvePV2012Red", Items: curveItems(p.ToneCurve.Red)},
		{Name: "ToneCurvePV2012Green", Items: curveItems(p.ToneCurve.Green)},
		{Name: "ToneCurvePV2012Blue", Items: curveItems(p.ToneCurve.Blue)},
	}

	var buf bytes.Buffer
	if err := xmpTemplate.Execute(&buf, doc); err != nil {
		return nil, nil, fmt.Errorf("render xmp: %w", err)
	}
	return buf.Bytes(), nil, nil
}

func curveName(tc params.ToneCurve) string {
	if hasCurve(tc) {
		return "Custom"
	}
	return "Linear"
}

// curveItems renders "in, out" integer pairs; Lightroom only stores whole levels.
// A nil channel is written as the identity.
func curveItems(points []params.CurvePoint) []string {
	points = params.NormalizeCurve(points)
	items := make([]string, 0, len(points))
	last := -1
	for _, pt := range points {
		in := int(math.Round(pt.Input))
		if in == last {
			continue
		}
		last = in
		items = append(items, fmt.Sprintf("%d, %d", in, int(math.Round(pt.Output))))
	}
	return items
}
