package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/shopdesk/app/resources"
	"github.com/shashiranjanraj/shopdesk/app/services"
	"github.com/shashiranjanraj/shopdesk/pkg/ctx"
	"github.com/shashiranjanraj/shopdesk/pkg/resource"
)

type ProductController struct {
	service *services.ProductService
}

func NewProductController(service *services.ProductService) *ProductController {
	return &ProductController{service: service}
}

func (pc *ProductController) Index(c *ctx.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	list, err := pc.service.List(c.Context(), p)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(resource.Collection(list, resources.Product))
}

func (pc *ProductController) Store(c *ctx.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in services.CreateProductInput
	if !c.BindJSON(&in) {
		return
	}
	product, err := pc.service.Create(c.Context(), p, in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(resources.Product(product))
}

func (pc *ProductController) Show(c *ctx.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := c.ParamID("id")
	if !ok {
		return
	}
	product, err := pc.service.Show(c.Context(), p, id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(resources.Product(product))
}

func (pc *ProductController) Update(c *ctx.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := c.ParamID("id")
	if !ok {
		return
	}
	var in services.UpdateProductInput
	if !c.BindJSON(&in) {
		return
	}
	product, err := pc.service.Update(c.Context(), p, id, in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(resources.Product(product))
}

// Destroy deactivates; products are never removed.
func (pc *ProductController) Destroy(c *ctx.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := c.ParamID("id")
	if !ok {
		return
	}
	if err := pc.service.Deactivate(c.Context(), p, id); err != nil {
		c.Fail(err)
		return
	}
	c.Message(http.StatusOK, "Product deactivated successfully", nil)
}

func (pc *ProductController) Image(c *ctx.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := c.ParamID("id")
	if !ok {
		return
	}
	up, done, ok := upload(c, "image")
	if !ok {
		return
	}
	defer done()
	product, err := pc.service.UploadImage(c.Context(), p, id, up)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(resources.Product(product))
}
