/*
Package keybinds provides customizable keyboard binding management.

# Overview

Keys map to actions within a context. The terminal UI looks up the action
for a key press and then dispatches it through its own action table, so
adding a mode or a field never means adding key handling code.

# Contexts

  - global: available everywhere (ctrl+c, ctrl+g, ctrl+s)
  - normal: moving around the form; single letters are actions
  - edit: a text field has focus; printable keys go to the field

A key bound in the specific context wins over the global binding.

# Configuration

Users override keys in ~/.qrforge/keybinds.json (or ./.keybinds.json).
The file may contain comments. Each entry maps an action to a
comma-separated key list and replaces that action's defaults:

	{
	  // generate with space instead of g
	  "version": "1.0",
	  "normal": {
	    "generate": "space",
	    "copy_image": "c,ctrl+y"
	  }
	}

"qrforge keybinds export" writes the full default table in this format.

# Validation

The validator rejects unknown actions and printable keys in the edit
context, and warns when a reserved key is rebound or a context binding
shadows a global one.
*/
package keybinds
