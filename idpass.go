package cityscape

// renderIDs fills the id buffer with the tracked nodes seen from view's
// camera. The caller has already moved them to LayerBorder with guard; the
// guard is restored as soon as the render returns, whatever the outcome.
func (e *BorderEffect) renderIDs(view View, guard *layerGuard) error {
	defer guard.Restore()
	e.ids.Clear()
	if e.reg.Len() == 0 {
		return nil
	}
	return e.renderer.Render(view, LayerBorder.Mask(), e.cfg.Shader, e.ids)
}
