package keybinds

// Action represents a user action that can be triggered by a keybinding
type Action string

// Context represents the context in which keybindings are active
type Context string

const (
	ContextGlobal Context = "global" // Available everywhere
	ContextNormal Context = "normal" // Moving around the form, no input focused
	ContextEdit   Context = "edit"   // A text field has focus and receives typing
)

// Contexts lists every context a config file may configure
var Contexts = []Context{ContextGlobal, ContextNormal, ContextEdit}

const (
	// Application
	ActionQuit       Action = "quit"        // Quit application
	ActionQuitForce  Action = "quit_force"  // Force quit (ctrl+c)
	ActionToggleHelp Action = "toggle_help" // Show or hide the key help

	// Workflow
	ActionGenerate  Action = "generate"   // Build the payload and render it
	ActionDownload  Action = "download"   // Save the last result as qrforge.png
	ActionCopyImage Action = "copy_image" // Put the displayed image on the clipboard
	ActionCopyText  Action = "copy_text"  // Put the encoded data string on the clipboard

	// Form navigation
	ActionNextField  Action = "next_field"
	ActionPrevField  Action = "prev_field"
	ActionEditField  Action = "edit_field"  // Focus the selected text field
	ActionEditDone   Action = "edit_done"   // Leave the text field
	ActionAdjustUp   Action = "adjust_up"   // Next choice or larger value
	ActionAdjustDown Action = "adjust_down" // Previous choice or smaller value

	// Modes
	ActionNextMode  Action = "next_mode"
	ActionPrevMode  Action = "prev_mode"
	ActionModeURL   Action = "mode_url"
	ActionModeText  Action = "mode_text"
	ActionModeWiFi  Action = "mode_wifi"
	ActionModeVCard Action = "mode_vcard"

	ActionDismissToasts Action = "dismiss_toasts"
)

// KnownActions lists every action the application handles
var KnownActions = []Action{
	ActionQuit, ActionQuitForce, ActionToggleHelp,
	ActionGenerate, ActionDownload, ActionCopyImage, ActionCopyText,
	ActionNextField, ActionPrevField, ActionEditField, ActionEditDone,
	ActionAdjustUp, ActionAdjustDown,
	ActionNextMode, ActionPrevMode,
	ActionModeURL, ActionModeText, ActionModeWiFi, ActionModeVCard,
	ActionDismissToasts,
}

// Description returns the help text of an action
func (a Action) Description() string {
	switch a {
	case ActionQuit, ActionQuitForce:
		return "quit"
	case ActionToggleHelp:
		return "help"
	case ActionGenerate:
		return "generate"
	case ActionDownload:
		return "download"
	case ActionCopyImage:
		return "copy image"
	case ActionCopyText:
		return "copy text"
	case ActionNextField:
		return "next field"
	case ActionPrevField:
		return "previous field"
	case ActionEditField:
		return "edit"
	case ActionEditDone:
		return "done"
	case ActionAdjustUp, ActionAdjustDown:
		return "change value"
	case ActionNextMode:
		return "next mode"
	case ActionPrevMode:
		return "previous mode"
	case ActionModeURL:
		return "URL mode"
	case ActionModeText:
		return "text mode"
	case ActionModeWiFi:
		return "WiFi mode"
	case ActionModeVCard:
		return "contact mode"
	case ActionDismissToasts:
		return "dismiss notices"
	}
	return string(a)
}
