package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/shopdesk/app/resources"
	"github.com/shashiranjanraj/shopdesk/app/services"
	"github.com/shashiranjanraj/shopdesk/pkg/ctx"
	"github.com/shashiranjanraj/shopdesk/pkg/resource"
	"github.com/shashiranjanraj/shopdesk/pkg/response"
)

type ShopController struct {
	service *services.ShopService
}

func NewShopController(service *services.ShopService) *ShopController {
	return &ShopController{service: service}
}

func (sc *ShopController) Index(c *ctx.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	list, err := sc.service.List(c.Context(), p)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(resource.Collection(list, resources.Shop))
}

func (sc *ShopController) Store(c *ctx.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in services.CreateShopInput
	if !c.BindJSON(&in) {
		return
	}
	shop, err := sc.service.Create(c.Context(), p, in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Message(http.StatusCreated, "Shop created successfully", response.M{"shop": resources.Shop(shop)})
}

func (sc *ShopController) Show(c *ctx.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := c.ParamID("id")
	if !ok {
		return
	}
	shop, err := sc.service.Show(c.Context(), p, id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(resources.Shop(shop))
}

func (sc *ShopController) Update(c *ctx.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := c.ParamID("id")
	if !ok {
		return
	}
	var in services.UpdateShopInput
	if !c.BindJSON(&in) {
		return
	}
	shop, err := sc.service.Update(c.Context(), p, id, in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Message(http.StatusOK, "Shop updated successfully", response.M{"shop": resources.Shop(shop)})
}

func (sc *ShopController) Destroy(c *ctx.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := c.ParamID("id")
	if !ok {
		return
	}
	if err := sc.service.Delete(c.Context(), p, id); err != nil {
		c.Fail(err)
		return
	}
	c.Message(http.StatusOK, "Shop deleted successfully", nil)
}

func (sc *ShopController) Statistics(c *ctx.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := c.ParamID("id")
	if !ok {
		return
	}
	stats, err := sc.service.Statistics(c.Context(), p, id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(stats)
}

func (sc *ShopController) Logo(c *ctx.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := c.ParamID("id")
	if !ok {
		return
	}
	up, done, ok := upload(c, "logo")
	if !ok {
		return
	}
	defer done()
	shop, err := sc.service.UploadLogo(c.Context(), p, id, up)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(resources.Shop(shop))
}
