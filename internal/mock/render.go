package mock

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"

	"github.com/coi-exe/qrforge/internal/modes"
	"github.com/coi-exe/qrforge/internal/types"
	"github.com/lucasb-eyer/go-colorful"
	qrcode "github.com/skip2/go-qrcode"
)

// InputError is a problem with the request that the caller can fix.
// Its message is returned to the client verbatim.
type InputError struct {
	msg string
}

func (e *InputError) Error() string { return e.msg }

func inputErrorf(format string, args ...any) error {
	return &InputError{msg: fmt.Sprintf(format, args...)}
}

// IsInputError reports whether err is a client-side input problem
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}

// BuildDataString produces the text encoded in the symbol for a request
func BuildDataString(mode types.Mode, data types.FieldSet) (string, error) {
	field := func(name string) string {
		return strings.TrimSpace(data[name])
	}

	switch mode {
	case types.ModeURL:
		url := field("url")
		if url == "" {
			return "", inputErrorf("URL is required.")
		}
		return url, nil

	case types.ModeText:
		text := field("text")
		if text == "" {
			return "", inputErrorf("Text content is required.")
		}
		return text, nil

	case types.ModeWiFi:
		ssid := field("ssid")
		if ssid == "" {
			return "", inputErrorf("Wi-Fi SSID is required.")
		}
		encryption := data["encryption"]
		if encryption == "" {
			encryption = modes.EncryptionWPA
		}
		return fmt.Sprintf("WIFI:T:%s;S:%s;P:%s;;", encryption, ssid, data["password"]), nil

	case types.ModeVCard:
		first, last := field("first"), field("last")
		if first == "" && last == "" {
			return "", inputErrorf("At least a first or last name is required.")
		}
		return strings.Join([]string{
			"BEGIN:VCARD",
			"VERSION:3.0",
			fmt.Sprintf("FN:%s %s", first, last),
			fmt.Sprintf("N:%s;%s", last, first),
			"TEL:" + field("phone"),
			"EMAIL:" + field("email"),
			"URL:" + field("url"),
			"END:VCARD",
		}, "\n"), nil
	}

	return "", inputErrorf("Unknown mode: %s", mode)
}

func recoveryLevel(ec types.ErrorCorrection) qrcode.RecoveryLevel {
	switch ec {
	case types.ECLow:
		return qrcode.Low
	case types.ECQuartile:
		return qrcode.High
	case types.ECHigh:
		return qrcode.Highest
	}
	return qrcode.Medium
}

func parseColor(hex string) (color.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, inputErrorf("Invalid color: %s", hex)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

// Rendered is a rendered symbol
type Rendered struct {
	PNG        []byte
	DataString string
}

// Render builds the data string and draws the symbol as a PNG. Size is the
// pixel edge of one module and margin the quiet zone in modules; both are
// clamped to the supported range.
func Render(req types.GenerationRequest) (*Rendered, error) {
	dataString, err := BuildDataString(req.Mode, req.Data)
	if err != nil {
		return nil, err
	}

	fgHex, bgHex := req.FgColor, req.BgColor
	if fgHex == "" {
		fgHex = "#000000"
	}
	if bgHex == "" {
		bgHex = "#ffffff"
	}
	fg, err := parseColor(fgHex)
	if err != nil {
		return nil, err
	}
	bg, err := parseColor(bgHex)
	if err != nil {
		return nil, err
	}

	q, err := qrcode.New(dataString, recoveryLevel(req.ErrorCorrection))
	if err != nil {
		return nil, fmt.Errorf("QR code error: %w", err)
	}
	q.DisableBorder = true

	size := clamp(req.Size, types.MinSize, types.MaxSize)
	margin := clamp(req.Margin, types.MinMargin, types.MaxMargin)

	var buf bytes.Buffer
	if err := png.Encode(&buf, drawBitmap(q.Bitmap(), size, margin, fg, bg)); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}

	return &Rendered{PNG: buf.Bytes(), DataString: dataString}, nil
}

func drawBitmap(bitmap [][]bool, size, margin int, fg, bg color.Color) image.Image {
	modules := len(bitmap)
	edge := (modules + 2*margin) * size

	img := image.NewPaletted(image.Rect(0, 0, edge, edge), color.Palette{bg, fg})
	for y, row := range bitmap {
		for x, dark := range row {
			if !dark {
				continue
			}
			px, py := (x+margin)*size, (y+margin)*size
			for dy := 0; dy < size; dy++ {
				for dx := 0; dx < size; dx++ {
					img.SetColorIndex(px+dx, py+dy, 1)
				}
			}
		}
	}
	return img
}
