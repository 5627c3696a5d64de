package cityscape

// layerGuard moves every tracked node onto a reserved layer for the duration
// of one pass. Restore puts them back and may be called any number of times;
// callers defer it so panics and early returns restore too.
type layerGuard struct {
	reg      *Registry
	layer    Layer
	restored bool
}

// reclassify saves each tracked node's current layer and object id into its
// entry, moves the node to layer and stamps the entry's id on it.
func reclassify(reg *Registry, layer Layer) *layerGuard {
	for _, obj := range reg.objects {
		if obj.Node.Layer != layer {
			obj.SavedLayer = obj.Node.Layer
		}
		obj.Node.Layer = layer
		obj.stamp()
	}
	return &layerGuard{reg: reg, layer: layer}
}

// Restore returns every node still tracked and still on the reserved layer
// to its saved layer, and puts back each node's previous object id. Nodes
// removed from the registry during the pass were already restored by
// Registry.Remove.
func (g *layerGuard) Restore() {
	if g == nil || g.restored {
		return
	}
	g.restored = true
	for _, obj := range g.reg.objects {
		if obj.Node.Layer == g.layer {
			obj.Node.Layer = obj.SavedLayer
		}
		obj.unstamp()
	}
}
