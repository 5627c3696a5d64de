package cityscape

import "math"

// LitShader shades buildings with a single directional light: the node color
// scaled by the material's ambient term plus Lambert diffuse.
type LitShader struct {
	// LightDir points from the light toward the scene. Zero selects a light
	// slanted from above.
	LightDir Vec3
}

var defaultLightDir = Vec3{-0.4, -1, -0.6}.Normalize()

// Name implements Shader.
func (s *LitShader) Name() string { return "lit" }

// Shade implements Shader.
func (s *LitShader) Shade(h *Hit) Color {
	mat := h.Node.Material
	if mat == nil {
		mat = DefaultMaterial
	}
	dir := s.LightDir
	if dir == (Vec3{}) {
		dir = defaultLightDir
	} else {
		dir = dir.Normalize()
	}
	diffuse := math.Max(0, -h.Normal.Dot(dir))
	k := mat.Ambient + (1-mat.Ambient)*diffuse
	c := h.Node.Color.Scale(k)
	c.A = 1
	return c
}

// ObjectIDShader is the flat id shader used by the border id pass. It writes
// the node's PropObjectID property into the red channel; nodes without one
// write 0.
type ObjectIDShader struct{}

// Name implements Shader.
func (ObjectIDShader) Name() string { return "object-id" }

// Shade implements Shader.
func (ObjectIDShader) Shade(h *Hit) Color {
	var id float64
	if h.Node.props != nil {
		id, _ = h.Node.props.Float(PropObjectID)
	}
	return Color{R: id, A: 1}
}
