package modes

import "github.com/coi-exe/qrforge/internal/types"

// WiFi encryption wire values
const (
	EncryptionWPA  = "WPA"
	EncryptionWEP  = "WEP"
	EncryptionNone = "nopass"
)

// NewDefaultRegistry creates a registry with the built-in modes
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	registerURL(r)
	registerText(r)
	registerWiFi(r)
	registerVCard(r)

	return r
}

func registerURL(r *Registry) {
	r.Register(Spec{
		Mode:  types.ModeURL,
		Label: "URL",
		Fields: []Field{
			{Name: "url", Label: "Destination URL", Placeholder: "https://example.com", Required: true},
		},
	})
}

func registerText(r *Registry) {
	r.Register(Spec{
		Mode:  types.ModeText,
		Label: "Text",
		Fields: []Field{
			{Name: "text", Label: "Text", Placeholder: "Anything up to 500 characters", Required: true, SoftLimit: types.TextSoftLimit},
		},
	})
}

func registerWiFi(r *Registry) {
	r.Register(Spec{
		Mode:  types.ModeWiFi,
		Label: "WiFi",
		Fields: []Field{
			{Name: "ssid", Label: "Network name (SSID)", Required: true},
			{Name: "password", Label: "Password", Kind: KindSecret, Verbatim: true},
			{
				Name:    "encryption",
				Label:   "Encryption",
				Kind:    KindChoice,
				Default: EncryptionWPA,
				Choices: []Choice{
					{Value: EncryptionWPA, Label: "WPA/WPA2"},
					{Value: EncryptionWEP, Label: "WEP"},
					{Value: EncryptionNone, Label: "None"},
				},
			},
		},
	})
}

// vCard fields are individually optional; the backend requires a name
func registerVCard(r *Registry) {
	r.Register(Spec{
		Mode:  types.ModeVCard,
		Label: "Contact",
		Fields: []Field{
			{Name: "first", Label: "First name"},
			{Name: "last", Label: "Last name"},
			{Name: "phone", Label: "Phone"},
			{Name: "email", Label: "Email"},
			{Name: "url", Label: "Website"},
		},
	})
}
