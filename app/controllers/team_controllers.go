package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/shopdesk/app/models"
	"github.com/shashiranjanraj/shopdesk/app/resources"
	"github.com/shashiranjanraj/shopdesk/app/services"
	"github.com/shashiranjanraj/shopdesk/pkg/ctx"
	"github.com/shashiranjanraj/shopdesk/pkg/resource"
	"github.com/shashiranjanraj/shopdesk/pkg/response"
)

type TeamController struct {
	service *services.TeamService
}

func NewTeamController(service *services.TeamService) *TeamController {
	return &TeamController{service: service}
}

// member trims the team shape down to the fields a mutation reports back.
// stamp is "created_at" or "updated_at".
func member(u *models.User, stamp string) resource.Map {
	m := resources.TeamMember(u)
	for _, k := range []string{"created_at", "updated_at"} {
		if k != stamp {
			delete(m, k)
		}
	}
	return m
}

func (tc *TeamController) Index(c *ctx.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	list, err := tc.service.List(c.Context(), p)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(resource.Collection(list, resources.TeamMember))
}

func (tc *TeamController) Store(c *ctx.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in services.AddMemberInput
	if !c.BindJSON(&in) {
		return
	}
	u, err := tc.service.Add(c.Context(), p, in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Message(http.StatusCreated, "Sales person added successfully", response.M{"user": member(u, "created_at")})
}

func (tc *TeamController) Show(c *ctx.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := c.ParamID("id")
	if !ok {
		return
	}
	u, err := tc.service.Show(c.Context(), p, id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(resources.TeamMember(u))
}

func (tc *TeamController) Update(c *ctx.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := c.ParamID("id")
	if !ok {
		return
	}
	var in services.UpdateMemberInput
	if !c.BindJSON(&in) {
		return
	}
	u, err := tc.service.Update(c.Context(), p, id, in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Message(http.StatusOK, "Team member updated successfully", response.M{"user": resources.TeamMember(u)})
}

func (tc *TeamController) Destroy(c *ctx.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := c.ParamID("id")
	if !ok {
		return
	}
	if err := tc.service.Remove(c.Context(), p, id); err != nil {
		c.Fail(err)
		return
	}
	c.Message(http.StatusOK, "Team member removed successfully", nil)
}

// ToggleStatus flips a member between active and inactive.
func (tc *TeamController) ToggleStatus(c *ctx.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := c.ParamID("id")
	if !ok {
		return
	}
	u, err := tc.service.ToggleStatus(c.Context(), p, id)
	if err != nil {
		c.Fail(err)
		return
	}
	verb := "deactivated"
	if u.IsActive() {
		verb = "activated"
	}
	c.Message(http.StatusOK, "Team member "+verb+" successfully", response.M{"user": member(u, "updated_at")})
}
