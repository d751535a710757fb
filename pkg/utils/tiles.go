package utils

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"net/http"
)

// TileFetcher downloads base map tiles, going through a TileCache when one is set.
type TileFetcher struct {
	Cache     *TileCache
	Client    *http.Client
	UserAgent string
}

// Tile returns the decoded image behind url.
func (f *TileFetcher) Tile(ctx context.Context, url string) (image.Image, error) {
	if f.Cache != nil {
		data, ok, err := f.Cache.Get(url)
		if err != nil {
			log.Printf("[CACHE] Error reading %s: %v", url, err)
		}
		if ok {
			img, _, err := image.Decode(bytes.NewReader(data))
			if err == nil {
				return img, nil
			}
			// Corrupt entry, fall through and download again.
			log.Printf("[CACHE] Dropping undecodable entry %s: %v", url, err)
			if err := f.Cache.Delete(url); err != nil {
				log.Printf("[CACHE] Error deleting %s: %v", url, err)
			}
		}
	}

	data, err := FetchURL(ctx, f.Client, url, f.UserAgent)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode tile %s: %w", url, err)
	}

	if f.Cache != nil {
		if err := f.Cache.Put(url, data); err != nil {
			log.Printf("[CACHE] Error storing %s: %v", url, err)
		}
	}
	return img, nil
}
