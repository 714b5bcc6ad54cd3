package keybinds

// NewDefaultRegistry creates a registry with all default keybindings
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	registerGlobalBindings(r)
	registerNormalBindings(r)
	registerEditBindings(r)

	return r
}

// registerGlobalBindings sets up bindings available in all contexts
func registerGlobalBindings(r *Registry) {
	r.Register(ContextGlobal, "ctrl+c", ActionQuitForce)
	r.Register(ContextGlobal, "ctrl+g", ActionGenerate)
	r.Register(ContextGlobal, "ctrl+s", ActionDownload)
}

// registerNormalBindings sets up single-key bindings used while no text
// field has focus
func registerNormalBindings(r *Registry) {
	r.Register(ContextNormal, "q", ActionQuit)
	r.Register(ContextNormal, "?", ActionToggleHelp)
	r.Register(ContextNormal, "esc", ActionDismissToasts)

	r.Register(ContextNormal, "g", ActionGenerate)
	r.Register(ContextNormal, "d", ActionDownload)
	r.Register(ContextNormal, "c", ActionCopyImage)
	r.Register(ContextNormal, "y", ActionCopyText)

	r.RegisterMultiple(ContextNormal, []string{"tab", "down", "j"}, ActionNextField)
	r.RegisterMultiple(ContextNormal, []string{"shift+tab", "up", "k"}, ActionPrevField)
	r.RegisterMultiple(ContextNormal, []string{"enter", "e", "i"}, ActionEditField)
	r.RegisterMultiple(ContextNormal, []string{"right", "l", "+"}, ActionAdjustUp)
	r.RegisterMultiple(ContextNormal, []string{"left", "h", "-"}, ActionAdjustDown)

	r.RegisterMultiple(ContextNormal, []string{"]", "ctrl+n"}, ActionNextMode)
	r.RegisterMultiple(ContextNormal, []string{"[", "ctrl+p"}, ActionPrevMode)
	r.Register(ContextNormal, "1", ActionModeURL)
	r.Register(ContextNormal, "2", ActionModeText)
	r.Register(ContextNormal, "3", ActionModeWiFi)
	r.Register(ContextNormal, "4", ActionModeVCard)
}

// registerEditBindings leaves printable keys to the text input
func registerEditBindings(r *Registry) {
	r.RegisterMultiple(ContextEdit, []string{"esc", "enter"}, ActionEditDone)
	r.Register(ContextEdit, "tab", ActionNextField)
	r.Register(ContextEdit, "shift+tab", ActionPrevField)
}
