package rail

import "fmt"

// ScratchCacheID selects the uncached scratch slot. The protocol
// documentation says 0xFFFF but the field is one byte wide; 0xFF is what
// peers actually send and what must be honored.
const ScratchCacheID = 0xFF

// Icon is a decoded icon in the packed layout the windowing backend
// consumes: Data[0]=width, Data[1]=height, then width*height ARGB words in
// top-down row-major order.
type Icon struct {
	Data   []uint32
	Width  uint32
	Height uint32
}

// IconDecoder converts a raw bitmap-plus-mask-plus-palette description into
// width*height ARGB pixel words. Pure function boundary; implementations
// live outside this package.
type IconDecoder func(info IconInfo) ([]uint32, error)

// IconCache is a fixed numCaches x numCacheEntries grid of icons plus one
// scratch slot. Allocated once at channel attach, freed at detach; entries
// are overwritten in place.
type IconCache struct {
	entries         []Icon
	numCaches       uint32
	numCacheEntries uint32
	scratch         Icon
}

func NewIconCache(numCaches, numCacheEntries uint32) *IconCache {
	return &IconCache{
		entries:         make([]Icon, numCaches*numCacheEntries),
		numCaches:       numCaches,
		numCacheEntries: numCacheEntries,
	}
}

// Lookup resolves cache coordinates to an entry. CacheID 0xFF always yields
// the scratch slot, bypassing bounds checks entirely; any other
// out-of-range coordinate is a miss, never a fallback to scratch.
func (c *IconCache) Lookup(cacheID uint8, cacheEntry uint16) (*Icon, error) {
	if cacheID == ScratchCacheID {
		return &c.scratch, nil
	}

	if uint32(cacheID) >= c.numCaches {
		return nil, fmt.Errorf("cache %02X:%04X: %w", cacheID, cacheEntry, ErrCacheMiss)
	}
	if uint32(cacheEntry) >= c.numCacheEntries {
		return nil, fmt.Errorf("cache %02X:%04X: %w", cacheID, cacheEntry, ErrCacheMiss)
	}

	return &c.entries[c.numCacheEntries*uint32(cacheID)+uint32(cacheEntry)], nil
}

// StoreIcon decodes info into entry. The decode goes through a fresh buffer
// and is swapped in only on success, so a failure leaves the previous
// contents untouched.
func StoreIcon(entry *Icon, info IconInfo, decode IconDecoder) error {
	pixels, err := decode(info)
	if err != nil {
		return fmt.Errorf("icon %dx%d bpp %d: %v: %w", info.Width, info.Height, info.BPP, err, ErrDecodeFailure)
	}

	data := make([]uint32, 0, 2+info.Width*info.Height)
	data = append(data, info.Width, info.Height)
	data = append(data, pixels...)

	entry.Data = data
	entry.Width = info.Width
	entry.Height = info.Height
	return nil
}
