package controllers

import (
	"github.com/shashiranjanraj/shopdesk/pkg/apperr"
	"github.com/shashiranjanraj/shopdesk/pkg/ctx"
	"github.com/shashiranjanraj/shopdesk/pkg/logger"
	"github.com/shashiranjanraj/shopdesk/pkg/ws"
)

// FeedController streams posted sales to the caller's shop room.
type FeedController struct {
	hub *ws.Hub
}

func NewFeedController(hub *ws.Hub) *FeedController {
	return &FeedController{hub: hub}
}

func (fc *FeedController) Sales(c *ctx.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if p.ShopID == nil {
		c.Fail(apperr.ErrNoShop)
		return
	}
	// Upgrade answers the handshake failure itself.
	if err := ws.Upgrade(c.W, c.R, fc.hub, *p.ShopID); err != nil {
		logger.WithCtx(c.Context()).Debug("ws: upgrade failed", "error", err)
	}
}
