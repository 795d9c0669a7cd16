package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/shopdesk/app/resources"
	"github.com/shashiranjanraj/shopdesk/app/services"
	"github.com/shashiranjanraj/shopdesk/pkg/ctx"
	"github.com/shashiranjanraj/shopdesk/pkg/resource"
)

type SaleController struct {
	service *services.SaleService
}

func NewSaleController(service *services.SaleService) *SaleController {
	return &SaleController{service: service}
}

func (sc *SaleController) Index(c *ctx.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	list, err := sc.service.List(c.Context(), p)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(resource.Collection(list, resources.Sale))
}

// Store posts a sale from the till.
func (sc *SaleController) Store(c *ctx.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in services.PostSaleInput
	if !c.BindJSON(&in) {
		return
	}
	sale, err := sc.service.Post(c.Context(), p, in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(resources.Sale(sale))
}

func (sc *SaleController) Show(c *ctx.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := c.ParamID("id")
	if !ok {
		return
	}
	sale, err := sc.service.Show(c.Context(), p, id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(resources.Sale(sale))
}

func (sc *SaleController) Update(c *ctx.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := c.ParamID("id")
	if !ok {
		return
	}
	var in services.UpdateSaleInput
	if !c.BindJSON(&in) {
		return
	}
	sale, err := sc.service.Update(c.Context(), p, id, in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(resources.Sale(sale))
}

func (sc *SaleController) Destroy(c *ctx.Context) {
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
	c.Message(http.StatusOK, "Sale deleted successfully", nil)
}
