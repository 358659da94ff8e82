// Package catalog loads the video catalog and holds the current snapshot.
package catalog

import (
	"sync"

	"github.com/therealutkarshpriyadarshi/vidmarks/pkg/models"
)

// Catalog holds the loaded videos. Updates replace the whole snapshot.
type Catalog struct {
	mu     sync.RWMutex
	videos []models.Video
	index  map[string]int
}

// New creates a catalog holding videos
func New(videos []models.Video) *Catalog {
	c := &Catalog{}
	c.Replace(videos)
	return c
}

// Replace swaps in a new snapshot
func (c *Catalog) Replace(videos []models.Video) {
	snapshot := make([]models.Video, len(videos))
	index := make(map[string]int, len(videos))
	for i, v := range videos {
		snapshot[i] = v.Clone()
		if _, dup := index[v.ID]; !dup {
			index[v.ID] = i
		}
	}

	c.mu.Lock()
	c.videos = snapshot
	c.index = index
	c.mu.Unlock()
}

// Videos returns a copy of the current snapshot
func (c *Catalog) Videos() []models.Video {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Video, len(c.videos))
	for i, v := range c.videos {
		out[i] = v.Clone()
	}
	return out
}

// Find returns the video with the given id
func (c *Catalog) Find(id string) (models.Video, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.index[id]
	if !ok {
		return models.Video{}, false
	}
	return c.videos[i].Clone(), true
}

// Len returns the number of videos
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.videos)
}
