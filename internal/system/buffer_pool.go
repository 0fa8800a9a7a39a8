package system

import (
	"image"
	"image/color"
	"image/draw"
	"sync"
)

// ImagePool recycles *image.RGBA canvases, one sync.Pool per canvas size
type ImagePool struct {
	pools map[image.Point]*sync.Pool
	mu    sync.RWMutex
}

// NewImagePool creates an empty pool
func NewImagePool() *ImagePool {
	return &ImagePool{pools: make(map[image.Point]*sync.Pool)}
}

var globalPool = NewImagePool()

// GetImage returns a canvas of the given bounds from the shared pool. Its
// pixels are not cleared.
func GetImage(rect image.Rectangle) *image.RGBA {
	return globalPool.Get(rect)
}

// GetFilled returns a pooled canvas painted with bg
func GetFilled(rect image.Rectangle, bg color.Color) *image.RGBA {
	img := globalPool.Get(rect)
	draw.Draw(img, img.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)
	return img
}

// PutImage hands a canvas back to the shared pool
func PutImage(img *image.RGBA) {
	globalPool.Put(img)
}

func (p *ImagePool) pool(size image.Point) *sync.Pool {
	p.mu.RLock()
	pool, exists := p.pools[size]
	p.mu.RUnlock()
	if exists {
		return pool
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if pool, exists = p.pools[size]; !exists {
		pool = &sync.Pool{
			New: func() interface{} {
				return image.NewRGBA(image.Rectangle{Max: size})
			},
		}
		p.pools[size] = pool
	}
	return pool
}

// Get returns a canvas with rect's size, rebased to rect's origin
func (p *ImagePool) Get(rect image.Rectangle) *image.RGBA {
	img := p.pool(rect.Size()).Get().(*image.RGBA)
	img.Rect = rect
	return img
}

// Put recycles img. Canvases of a size never requested are dropped.
func (p *ImagePool) Put(img *image.RGBA) {
	if img == nil {
		return
	}
	p.mu.RLock()
	pool, exists := p.pools[img.Rect.Size()]
	p.mu.RUnlock()

	if exists {
		pool.Put(img)
	}
}
