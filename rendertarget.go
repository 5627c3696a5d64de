package cityscape

import (
	"image"
	"slices"

	"github.com/x448/float16"
)

// RenderTarget receives shaded pixels from a Renderer. Store is only called
// for fragments that pass the depth test against Depth.
type RenderTarget interface {
	Size() (w, h int)
	Depth(x, y int) float32
	Store(x, y int, c Color, depth float32)
}

// --- Frame ---

// Frame is a straight-alpha RGBA image with float32 channels and an optional
// depth channel. Frames hold the rendered scene, the edge buffer, the blur
// scratch buffer and the final output.
type Frame struct {
	Width, Height int
	// Pix holds 4 floats per pixel (R, G, B, A), row-major.
	Pix   []float32
	depth []float32
}

// NewFrame allocates a color-only frame.
func NewFrame(w, h int) *Frame {
	return &Frame{Width: w, Height: h, Pix: make([]float32, w*h*4)}
}

// NewFrameWithDepth allocates a frame with a depth channel cleared to 1.
func NewFrameWithDepth(w, h int) *Frame {
	f := NewFrame(w, h)
	f.depth = make([]float32, w*h)
	f.ClearDepth()
	return f
}

// Size returns the frame dimensions.
func (f *Frame) Size() (int, int) {
	return f.Width, f.Height
}

// SameSize reports whether f and o have equal dimensions.
func (f *Frame) SameSize(o *Frame) bool {
	return f.Width == o.Width && f.Height == o.Height
}

// At returns the color at (x, y). Out-of-bounds reads return transparent black.
func (f *Frame) At(x, y int) Color {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return Color{}
	}
	i := (y*f.Width + x) * 4
	return Color{float64(f.Pix[i]), float64(f.Pix[i+1]), float64(f.Pix[i+2]), float64(f.Pix[i+3])}
}

// Set writes the color at (x, y). Out-of-bounds writes are ignored.
func (f *Frame) Set(x, y int, c Color) {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return
	}
	i := (y*f.Width + x) * 4
	f.Pix[i] = float32(c.R)
	f.Pix[i+1] = float32(c.G)
	f.Pix[i+2] = float32(c.B)
	f.Pix[i+3] = float32(c.A)
}

// Fill sets every pixel to c.
func (f *Frame) Fill(c Color) {
	r, g, b, a := float32(c.R), float32(c.G), float32(c.B), float32(c.A)
	for i := 0; i < len(f.Pix); i += 4 {
		f.Pix[i] = r
		f.Pix[i+1] = g
		f.Pix[i+2] = b
		f.Pix[i+3] = a
	}
}

// Clear zeroes every color channel.
func (f *Frame) Clear() {
	clear(f.Pix)
}

// HasDepth reports whether the frame carries a depth channel.
func (f *Frame) HasDepth() bool {
	return f.depth != nil
}

// ClearDepth resets the depth channel to the far plane. No-op without depth.
func (f *Frame) ClearDepth() {
	for i := range f.depth {
		f.depth[i] = 1
	}
}

// DepthBuffer returns the raw depth channel, or nil.
func (f *Frame) DepthBuffer() []float32 {
	return f.depth
}

// Depth returns the stored depth at (x, y). Frames without depth report the
// far plane.
func (f *Frame) Depth(x, y int) float32 {
	if f.depth == nil {
		return 1
	}
	return f.depth[y*f.Width+x]
}

// Store implements RenderTarget.
func (f *Frame) Store(x, y int, c Color, depth float32) {
	f.Set(x, y, c)
	if f.depth != nil {
		f.depth[y*f.Width+x] = depth
	}
}

// CopyFrom copies src's color (and depth, when both have it) into f.
// Both frames must have the same size.
func (f *Frame) CopyFrom(src *Frame) {
	copy(f.Pix, src.Pix)
	if f.depth != nil && src.depth != nil {
		copy(f.depth, src.depth)
	}
}

// Clone returns a deep copy of f.
func (f *Frame) Clone() *Frame {
	c := &Frame{Width: f.Width, Height: f.Height, Pix: slices.Clone(f.Pix)}
	if f.depth != nil {
		c.depth = slices.Clone(f.depth)
	}
	return c
}

// ToNRGBA converts the frame to an 8-bit straight-alpha image.
func (f *Frame) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			img.SetNRGBA(x, y, f.At(x, y).NRGBA())
		}
	}
	return img
}

// writePremultiplied encodes the frame as premultiplied 8-bit RGBA, the
// layout ebiten.Image.WritePixels expects. buf is grown as needed.
func (f *Frame) writePremultiplied(buf []byte) []byte {
	n := f.Width * f.Height * 4
	if cap(buf) < n {
		buf = make([]byte, n)
	}
	buf = buf[:n]
	for i := 0; i < n; i += 4 {
		a := clamp01(float64(f.Pix[i+3]))
		buf[i] = uint8(clamp01(float64(f.Pix[i]))*a*255 + 0.5)
		buf[i+1] = uint8(clamp01(float64(f.Pix[i+1]))*a*255 + 0.5)
		buf[i+2] = uint8(clamp01(float64(f.Pix[i+2]))*a*255 + 0.5)
		buf[i+3] = uint8(a*255 + 0.5)
	}
	return buf
}

// --- IDBuffer ---

// IDBuffer holds one object id per pixel, stored as a half float, plus depth.
// Id 0 means "no object"; tracked objects write colorIndex+1.
type IDBuffer struct {
	Width, Height int
	ids           []float16.Float16
	depth         []float32
}

// NewIDBuffer allocates a cleared id buffer.
func NewIDBuffer(w, h int) *IDBuffer {
	b := &IDBuffer{
		Width:  w,
		Height: h,
		ids:    make([]float16.Float16, w*h),
		depth:  make([]float32, w*h),
	}
	b.Clear()
	return b
}

// Clear sets every id to 0 and every depth to the far plane.
func (b *IDBuffer) Clear() {
	clear(b.ids)
	for i := range b.depth {
		b.depth[i] = 1
	}
}

// Size returns the buffer dimensions.
func (b *IDBuffer) Size() (int, int) {
	return b.Width, b.Height
}

// ID returns the object id at (x, y).
func (b *IDBuffer) ID(x, y int) float32 {
	return b.ids[y*b.Width+x].Float32()
}

// SetID writes an id without touching depth.
func (b *IDBuffer) SetID(x, y int, id float32) {
	b.ids[y*b.Width+x] = float16.Fromfloat32(id)
}

// Depth implements RenderTarget.
func (b *IDBuffer) Depth(x, y int) float32 {
	return b.depth[y*b.Width+x]
}

// SetDepth writes a depth value without touching the id.
func (b *IDBuffer) SetDepth(x, y int, d float32) {
	b.depth[y*b.Width+x] = d
}

// Store implements RenderTarget. The red channel of c is the object id.
func (b *IDBuffer) Store(x, y int, c Color, depth float32) {
	i := y*b.Width + x
	b.ids[i] = float16.Fromfloat32(float32(c.R))
	b.depth[i] = depth
}

// DistinctIDs returns the sorted set of ids present in the buffer.
func (b *IDBuffer) DistinctIDs() []float32 {
	seen := make(map[float32]struct{})
	for _, v := range b.ids {
		seen[v.Float32()] = struct{}{}
	}
	out := make([]float32, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// --- Frame pool ---

// framePool reuses scratch frames keyed by exact dimensions. After warmup,
// Acquire/Release are zero-alloc.
type framePool struct {
	buckets map[uint64][]*Frame
}

// poolKey packs width and height into a single uint64.
func poolKey(w, h int) uint64 {
	return uint64(w)<<32 | uint64(uint32(h))
}

// Acquire returns a cleared w×h frame.
func (p *framePool) Acquire(w, h int) *Frame {
	key := poolKey(w, h)
	if p.buckets != nil {
		if stack := p.buckets[key]; len(stack) > 0 {
			f := stack[len(stack)-1]
			p.buckets[key] = stack[:len(stack)-1]
			f.Clear()
			return f
		}
	}
	return NewFrame(w, h)
}

// Release returns a frame to the pool for reuse.
func (p *framePool) Release(f *Frame) {
	if f == nil {
		return
	}
	if p.buckets == nil {
		p.buckets = make(map[uint64][]*Frame)
	}
	key := poolKey(f.Width, f.Height)
	p.buckets[key] = append(p.buckets[key], f)
}

// Drain drops every pooled frame.
func (p *framePool) Drain() {
	p.buckets = nil
}
