package controllers

import (
	"context"
	"net/url"
	"time"

	"lawzo/lawzo/sources/storage"
)

const sourceLinkTTL = 15 * time.Minute

type SourcePresigner interface {
	PresignSource(ctx context.Context, name string, ttl time.Duration) (*url.URL, error)
}

type SourceController struct {
	presigner SourcePresigner
}

func NewSourceController(p SourcePresigner) *SourceController {
	return &SourceController{presigner: p}
}

// Link returns a short lived download URL for a cited reference document.
func (c *SourceController) Link(ctx context.Context, name string) (string, error) {
	if c.presigner == nil {
		return "", ErrUnavailable
	}
	u, err := c.presigner.PresignSource(ctx, name, sourceLinkTTL)
	if err != nil {
		if storage.IsNotFound(err) {
			return "", ErrNotFound
		}
		return "", err
	}
	return u.String(), nil
}
