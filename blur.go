package cityscape

import (
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat/combin"
)

// BlurSize is the number of taps of the edge blur kernel.
type BlurSize uint8

const (
	Blur3 BlurSize = 3
	Blur5 BlurSize = 5
	Blur7 BlurSize = 7
	Blur9 BlurSize = 9
)

func (b BlurSize) valid() bool {
	return b == Blur3 || b == Blur5 || b == Blur7 || b == Blur9
}

// Taps returns the kernel width.
func (b BlurSize) Taps() int {
	return int(b)
}

func (b BlurSize) String() string {
	return strconv.Itoa(int(b))
}

// MarshalText implements encoding.TextMarshaler.
func (b BlurSize) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It accepts "3" or
// "blur3" style values.
func (b *BlurSize) UnmarshalText(text []byte) error {
	s := strings.TrimPrefix(strings.ToLower(string(text)), "blur")
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 255 || !BlurSize(n).valid() {
		return fmt.Errorf("%w: blur size %q", ErrInvalidConfig, text)
	}
	*b = BlurSize(n)
	return nil
}

// binomialKernels holds the normalized weights for each BlurSize, indexed by
// tap count.
var binomialKernels = func() map[BlurSize][]float32 {
	m := make(map[BlurSize][]float32, 4)
	for _, size := range []BlurSize{Blur3, Blur5, Blur7, Blur9} {
		m[size] = newBinomialKernel(size.Taps())
	}
	return m
}()

// newBinomialKernel returns row taps-1 of Pascal's triangle scaled to sum 1.
func newBinomialKernel(taps int) []float32 {
	n := taps - 1
	total := float64(int(1) << n)
	k := make([]float32, taps)
	for i := range k {
		k[i] = float32(float64(combin.Binomial(n, i)) / total)
	}
	return k
}

// blurKernel returns the shared weights for size. The slice must not be
// modified.
func blurKernel(size BlurSize) []float32 {
	if k, ok := binomialKernels[size]; ok {
		return k
	}
	return binomialKernels[Blur5]
}

// blurHorizontal convolves each row of src into dst. Taps that fall outside
// the image reuse the nearest edge pixel.
func blurHorizontal(src, dst *Frame, kernel []float32) {
	w, h := src.Width, src.Height
	half := len(kernel) / 2
	for y := 0; y < h; y++ {
		row := y * w
		for x := 0; x < w; x++ {
			var r, g, b, a float32
			for k, weight := range kernel {
				kx := min(max(x+k-half, 0), w-1)
				i := (row + kx) * 4
				r += src.Pix[i] * weight
				g += src.Pix[i+1] * weight
				b += src.Pix[i+2] * weight
				a += src.Pix[i+3] * weight
			}
			o := (row + x) * 4
			dst.Pix[o] = r
			dst.Pix[o+1] = g
			dst.Pix[o+2] = b
			dst.Pix[o+3] = a
		}
	}
}

// blurVertical convolves each column of src into dst with clamp-to-edge
// sampling.
func blurVertical(src, dst *Frame, kernel []float32) {
	w, h := src.Width, src.Height
	half := len(kernel) / 2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var r, g, b, a float32
			for k, weight := range kernel {
				ky := min(max(y+k-half, 0), h-1)
				i := (ky*w + x) * 4
				r += src.Pix[i] * weight
				g += src.Pix[i+1] * weight
				b += src.Pix[i+2] * weight
				a += src.Pix[i+3] * weight
			}
			o := (y*w + x) * 4
			dst.Pix[o] = r
			dst.Pix[o+1] = g
			dst.Pix[o+2] = b
			dst.Pix[o+3] = a
		}
	}
}
