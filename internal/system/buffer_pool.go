package system

import (
	"image"
	"sync"
)

// ImagePool переиспользует *image.NRGBA одинакового размера, чтобы снизить
// нагрузку на GC при пакетной обработке.
type ImagePool struct {
	pools map[image.Rectangle]*sync.Pool
	mu    sync.RWMutex
}

var globalPool = &ImagePool{
	pools: make(map[image.Rectangle]*sync.Pool),
}

// GetImage возвращает буфер из пула или создает новый.
// Содержимое буфера не определено: вызывающий обязан его перезаписать.
func GetImage(rect image.Rectangle) *image.NRGBA {
	return globalPool.Get(rect)
}

// PutImage возвращает буфер в пул.
func PutImage(img *image.NRGBA) {
	globalPool.Put(img)
}

func (p *ImagePool) Get(rect image.Rectangle) *image.NRGBA {
	p.mu.RLock()
	pool, exists := p.pools[rect]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		// Double check
		pool, exists = p.pools[rect]
		if !exists {
			pool = &sync.Pool{
				New: func() any {
					return image.NewNRGBA(rect)
				},
			}
			p.pools[rect] = pool
		}
		p.mu.Unlock()
	}

	return pool.Get().(*image.NRGBA)
}

func (p *ImagePool) Put(img *image.NRGBA) {
	if img == nil {
		return
	}
	p.mu.RLock()
	pool, exists := p.pools[img.Rect]
	p.mu.RUnlock()

	if exists {
		pool.Put(img)
	}
}
