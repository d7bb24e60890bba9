package export

import (
	"path"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/ironsheep/preset-lut-mcp/internal/preset"
)

// DefaultBaseName is used when the image name yields nothing usable.
const DefaultBaseName = "converted"

const maxBaseLen = 96

var (
	// characters not safe in filenames on any major OS
	invalidChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	multiDash    = regexp.MustCompile(`[-_]{2,}`)
)

// Filename derives the download name for an artifact from the source image
// name: "sunset.jpg" exports as "sunset_lightroom.xmp", "sunset_capcut.json"
// or "sunset.cube".
func Filename(imageName string, mode Mode, target preset.Target) string {
	base := baseName(imageName)
	if mode == ModeLUT {
		return base + ".cube"
	}
	return base + "_" + target.Slug() + target.Extension()
}

func baseName(imageName string) string {
	name := strings.TrimSpace(imageName)
	// Accept both separators; the name may come from a browser on any OS.
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	name = strings.TrimSuffix(name, path.Ext(name))

	if s := sanitize(foldDiacritics(name)); s != "" {
		return s
	}
	return DefaultBaseName
}

func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func sanitize(s string) string {
	s = invalidChars.ReplaceAllString(s, "-")
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '-'
		}
		return r
	}, s)
	s = multiDash.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-._")

	if len(s) > maxBaseLen {
		s = strings.ToValidUTF8(s[:maxBaseLen], "")
		s = strings.TrimRight(s, "-._")
	}
	return s
}
