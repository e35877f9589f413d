package mapgen

import (
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// HeightMapOptions controls procedural height map generation.
// Width/Depth are in samples; TileSize is the world distance between samples on X/Z.
// HeightScale is the maximum height of the terrain in world units.
// Seed controls randomness; Seed == 0 uses a time-based seed.
// Octaves, Frequency, Lacunarity, and Gain control the fractal noise shape.
type HeightMapOptions struct {
	Width       int
	Depth       int
	TileSize    float32
	HeightScale float32

	Seed       int64
	Octaves    int
	Frequency  float32
	Lacunarity float32
	Gain       float32
}

// DefaultHeightMapOptions returns a sane default configuration.
func DefaultHeightMapOptions() HeightMapOptions {
	return HeightMapOptions{
		Width:       32,
		Depth:       32,
		TileSize:    1.0,
		HeightScale: 3.0,
		Seed:        0,
		Octaves:     4,
		Frequency:   0.08,
		Lacunarity:  2.0,
		Gain:        0.5,
	}
}

// withDefaults fills every unset field from DefaultHeightMapOptions, except the grid size.
func (o HeightMapOptions) withDefaults() HeightMapOptions {
	d := DefaultHeightMapOptions()
	if o.TileSize <= 0 {
		o.TileSize = d.TileSize
	}
	if o.HeightScale <= 0 {
		o.HeightScale = d.HeightScale
	}
	if o.Octaves <= 0 {
		o.Octaves = d.Octaves
	}
	if o.Frequency <= 0 {
		o.Frequency = d.Frequency
	}
	if o.Lacunarity <= 0 {
		o.Lacunarity = d.Lacunarity
	}
	if o.Gain <= 0 {
		o.Gain = d.Gain
	}
	if o.Seed == 0 {
		o.Seed = time.Now().UnixNano()
	}
	return o
}

// HeightField is a regular grid of normalized heights centred on the origin on XZ.
type HeightField struct {
	Width, Depth int
	TileSize     float32
	HeightScale  float32
	// Samples holds Width*Depth values in [0,1], row-major by Z.
	Samples []float32
}

// Generate samples fractal value noise into a height field. Grids smaller than 2x2 are empty.
func Generate(opts HeightMapOptions) HeightField {
	if opts.Width < 2 || opts.Depth < 2 {
		return HeightField{}
	}
	opts = opts.withDefaults()
	hf := HeightField{
		Width:       opts.Width,
		Depth:       opts.Depth,
		TileSize:    opts.TileSize,
		HeightScale: opts.HeightScale,
		Samples:     make([]float32, opts.Width*opts.Depth),
	}
	for z := 0; z < opts.Depth; z++ {
		for x := 0; x < opts.Width; x++ {
			h := fractalValueNoise2D(float32(x)*opts.Frequency, float32(z)*opts.Frequency, opts.Seed, opts.Octaves, opts.Lacunarity, opts.Gain)
			if !isFinite(h) {
				h = 0
			}
			hf.Samples[z*opts.Width+x] = mgl32.Clamp(h, 0, 1)
		}
	}
	return hf
}

// Extent is the world size of the field on X and Z.
func (hf HeightField) Extent() (x, z float32) {
	return float32(hf.Width-1) * hf.TileSize, float32(hf.Depth-1) * hf.TileSize
}

// At returns the world height of sample (x, z).
func (hf HeightField) At(x, z int) float32 {
	return hf.Samples[z*hf.Width+x] * hf.HeightScale
}

// HeightAt interpolates the world height under world position (x, z). ok is false outside the field.
func (hf HeightField) HeightAt(x, z float32) (float32, bool) {
	if len(hf.Samples) == 0 {
		return 0, false
	}
	ex, ez := hf.Extent()
	gx := (x + ex/2) / hf.TileSize
	gz := (z + ez/2) / hf.TileSize
	if gx < 0 || gz < 0 || gx > float32(hf.Width-1) || gz > float32(hf.Depth-1) {
		return 0, false
	}
	x0 := min(int(gx), hf.Width-2)
	z0 := min(int(gz), hf.Depth-2)
	tx, tz := gx-float32(x0), gz-float32(z0)
	h0 := lerp(hf.At(x0, z0), hf.At(x0+1, z0), tx)
	h1 := lerp(hf.At(x0, z0+1), hf.At(x0+1, z0+1), tx)
	return lerp(h0, h1, tz), true
}

// Tile is one column of a blocky terrain: a box centre and size.
type Tile struct {
	Position mgl32.Vec3
	Scale    mgl32.Vec3
}

// minTileHeight keeps every column visible.
const minTileHeight = 0.15

// Tiles turns the field into box columns sitting on Y=0, one per sample.
func (hf HeightField) Tiles() []Tile {
	ex, ez := hf.Extent()
	tiles := make([]Tile, 0, len(hf.Samples))
	for z := 0; z < hf.Depth; z++ {
		for x := 0; x < hf.Width; x++ {
			height := max(hf.At(x, z), minTileHeight)
			tiles = append(tiles, Tile{
				Position: mgl32.Vec3{float32(x)*hf.TileSize - ex/2, height / 2, float32(z)*hf.TileSize - ez/2},
				Scale:    mgl32.Vec3{hf.TileSize, height, hf.TileSize},
			})
		}
	}
	return tiles
}

// fractalValueNoise2D is simple fractal value noise: layered smooth value noise with
// configurable octaves, lacunarity, and gain. Output is in [0,1].
func fractalValueNoise2D(x, y float32, seed int64, octaves int, lacunarity, gain float32) float32 {
	var sum, maxAmp float32
	amplitude := float32(1)
	freq := float32(1)

	for i := 0; i < octaves; i++ {
		sum += valueNoise2D(x*freq, y*freq, int32(seed)+int32(i)) * amplitude
		maxAmp += amplitude
		amplitude *= gain
		freq *= lacunarity
	}
	if maxAmp == 0 {
		return 0
	}
	return sum / maxAmp
}

// valueNoise2D is smooth value noise in [0,1] using a hash-based lattice and cubic easing.
func valueNoise2D(x, y float32, seed int32) float32 {
	x0 := int32(math32.Floor(x))
	y0 := int32(math32.Floor(y))
	tx := x - float32(x0)
	ty := y - float32(y0)

	v00 := hash2D(x0, y0, seed)
	v10 := hash2D(x0+1, y0, seed)
	v01 := hash2D(x0, y0+1, seed)
	v11 := hash2D(x0+1, y0+1, seed)

	sx := smoothStep(tx)
	sy := smoothStep(ty)
	return lerp(lerp(v00, v10, sx), lerp(v01, v11, sx), sy)
}

// hash2D maps integer lattice coordinates to a deterministic pseudo-random float in [0,1].
func hash2D(x, y, seed int32) float32 {
	n := x*374761393 + y*668265263 + seed*362437
	n = (n ^ (n >> 13)) * 1274126177
	n = n ^ (n >> 16)
	const invMaxInt = 1.0 / 2147483647.0
	return float32(n&0x7fffffff) * float32(invMaxInt)
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// smoothStep is Perlin-style cubic easing: 3t^2 - 2t^3.
func smoothStep(t float32) float32 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}

func isFinite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}
