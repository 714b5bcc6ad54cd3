package coordinator

// State is the coordinator's position in the generate workflow
type State int

const (
	StateIdle State = iota
	StateModeSelected
	StateGenerating
	StateResultDisplayed
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateModeSelected:
		return "mode-selected"
	case StateGenerating:
		return "generating"
	case StateResultDisplayed:
		return "result-displayed"
	case StateError:
		return "error"
	}
	return "unknown"
}

// User-facing notices
const (
	MsgNoResult        = "Generate a QR code first."
	MsgUnreachable     = "Network error: rendering service unreachable."
	MsgDownloadFailed  = "Download failed."
	MsgDownloadError   = "Download error."
	MsgDownloaded      = "✓ Downloaded!"
	MsgCopied          = "✓ Copied to clipboard."
	MsgCopyUnsupported = "Copy not supported in this environment."
	MsgCopyFailed      = "Copy failed: image could not be fetched."
	MsgCopyRejected    = "Copy failed: clipboard rejected the image."
	MsgTextCopied      = "✓ Data string copied."
)
